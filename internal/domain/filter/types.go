package filter

// ComparisonType is the operator of a list filter item.
type ComparisonType string

const (
	Equal     ComparisonType = "eq"
	NotEqual  ComparisonType = "neq"      // also matches NULL
	IsNull    ComparisonType = "null"     // field empty
	IsNotNull ComparisonType = "not_null" // field set
)

// Item is one list condition on a field addressed by its wire name.
type Item struct {
	Field    string         `json:"field"`
	Operator ComparisonType `json:"operator"`
	Value    any            `json:"value"`
}

// Eq is shorthand for an equality item.
func Eq(field string, value any) Item {
	return Item{Field: field, Operator: Equal, Value: value}
}
