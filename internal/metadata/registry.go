// Package metadata describes catalog entities for clients: wire field names,
// types and the validation limits declared on the Go types.
package metadata

import "sync"

// FieldType defines the data type of a field.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeInteger   FieldType = "integer"
	TypeBoolean   FieldType = "boolean"
	TypeMoney     FieldType = "money"    // decimal, 4 places
	TypeQuantity  FieldType = "quantity" // fixed-point, 4 places
	TypeReference FieldType = "reference"
	TypeObject    FieldType = "object"
)

// EntityDef describes a catalog.
type EntityDef struct {
	Name      string         `json:"name"`
	Label     string         `json:"label,omitempty"`
	Path      string         `json:"path"`
	CodeField string         `json:"code_field"`
	Fields    []FieldDef     `json:"fields"`
	Lists     []TablePartDef `json:"lists,omitempty"`
}

// TablePartDef describes a nested collection (e.g. per-warehouse stock).
type TablePartDef struct {
	Name    string     `json:"name"`
	Columns []FieldDef `json:"columns"`
}

// FieldDef describes a field.
type FieldDef struct {
	Name      string    `json:"name"`
	Type      FieldType `json:"type"`
	Required  bool      `json:"required,omitempty"`
	ReadOnly  bool      `json:"read_only,omitempty"`
	Optional  bool      `json:"optional,omitempty"` // nullable on the wire
	MaxLength int       `json:"max_length,omitempty"`
	Scale     int       `json:"scale,omitempty"`
}

// Field returns the definition of the named field.
func (d EntityDef) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Registry stores entity definitions in registration order.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	entities map[string]EntityDef
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]EntityDef),
	}
}

// Register adds or replaces def.
func (r *Registry) Register(def EntityDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entities[def.Name]; !exists {
		r.order = append(r.order, def.Name)
	}
	r.entities[def.Name] = def
}

func (r *Registry) Get(name string) (EntityDef, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entities[name]
	return d, ok
}

func (r *Registry) List() []EntityDef {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]EntityDef, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.entities[name])
	}
	return list
}
