package filter

import "fmt"

// State is the three-way soft-delete filter accepted by every list endpoint.
type State string

const (
	Active  State = "activos"
	Retired State = "inactivos"
	All     State = "todos"
)

// ParseState validates a raw "estado" value. Empty input means Active.
func ParseState(raw string) (State, error) {
	switch State(raw) {
	case "":
		return Active, nil
	case Active, Retired, All:
		return State(raw), nil
	}
	return "", fmt.Errorf("unknown state %q", raw)
}

// Matches reports whether a record with the given retired flag passes the filter.
func (s State) Matches(retired bool) bool {
	switch s {
	case Active:
		return !retired
	case Retired:
		return retired
	default:
		return true
	}
}

// RetiredValue returns the baja_logica value to filter on, or nil for All.
func (s State) RetiredValue() *bool {
	switch s {
	case Active:
		v := false
		return &v
	case Retired:
		v := true
		return &v
	}
	return nil
}
