package entity

// FieldRetired is the wire name of the soft-delete flag.
const FieldRetired = "baja_logica"

// Patch is a partial update keyed by wire field name.
// Only the keys present are changed server-side.
type Patch map[string]any

// With returns a copy of the patch with key set to value.
func (p Patch) With(key string, value any) Patch {
	out := make(Patch, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = value
	return out
}

// Record contains common fields for all catalog entities.
// Records are never removed physically; Retired marks a soft delete.
type Record struct {
	// ID is assigned by the backend on creation and never changes afterwards
	ID string `db:"id" json:"id,omitempty"`

	// Retired indicates a soft-deleted record
	Retired bool `db:"baja_logica" json:"baja_logica"`
}

// EntityID returns the record identifier (empty before creation).
func (r Record) EntityID() string {
	return r.ID
}

// IsRetired reports the soft-delete flag.
func (r Record) IsRetired() bool {
	return r.Retired
}

// Entity is the capability set the lifecycle engine needs from a catalog type.
// Implementations use value receivers and return modified copies.
type Entity[T any] interface {
	EntityID() string
	IsRetired() bool

	// Code returns the business-unique key.
	Code() string

	// CodeField returns the wire name of the business key.
	CodeField() string

	// Mutable projects the fields accepted by a partial update.
	Mutable() Patch

	WithID(id string) T
	WithCode(code string) T
	WithRetired(retired bool) T

	// Clone returns a deep copy that shares no slices with the receiver.
	Clone() T
}

// CloneDraft prepares a new draft from e: identity and code are cleared
// and the draft is forced active.
func CloneDraft[T Entity[T]](e T) T {
	return e.Clone().WithID("").WithCode("").WithRetired(false)
}

// UpdatableFields returns the wire names a partial update may touch for T.
func UpdatableFields[T Entity[T]]() map[string]struct{} {
	var zero T
	fields := make(map[string]struct{})
	for k := range zero.Mutable() {
		fields[k] = struct{}{}
	}
	fields[FieldRetired] = struct{}{}
	return fields
}
