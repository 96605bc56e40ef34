package admin

import (
	"encoding/json"
	"net/http"

	"backoffice/internal/core/apperror"
)

// ConflictKind discriminates the 409 responses of the catalog API.
type ConflictKind int

const (
	ConflictOther ConflictKind = iota
	ConflictDuplicateRetired
	ConflictDuplicateActive
	ConflictHasActiveChildren
)

func (k ConflictKind) String() string {
	switch k {
	case ConflictDuplicateRetired:
		return apperror.CodeDuplicateRetired
	case ConflictDuplicateActive:
		return apperror.CodeDuplicateActive
	case ConflictHasActiveChildren:
		return apperror.CodeHasActiveChildren
	default:
		return "OTHER"
	}
}

// Conflict is a decoded 409 body.
type Conflict struct {
	Kind       ConflictKind
	InactiveID string
	Field      string
	Message    string
}

type conflictDetail struct {
	Status     string `json:"status"`
	InactiveID string `json:"id_inactivo"`
	Field      string `json:"campo"`
	Message    string `json:"message"`
}

// DecodeConflict inspects err for a 409 response. ok is false when err is not
// a 409; a 409 whose body has no recognized status decodes as ConflictOther
// with the human message of the body.
func DecodeConflict(err error) (c Conflict, ok bool) {
	tErr, isTransport := apperror.AsTransportError(err)
	if !isTransport || tErr.Status != http.StatusConflict {
		return Conflict{}, false
	}

	c = Conflict{Kind: ConflictOther, Message: tErr.DetailMessage()}

	var d conflictDetail
	if raw := tErr.Detail(); len(raw) == 0 || json.Unmarshal(raw, &d) != nil {
		return c, true
	}

	switch d.Status {
	case apperror.CodeDuplicateRetired:
		if d.InactiveID == "" {
			return c, true
		}
		c.Kind = ConflictDuplicateRetired
	case apperror.CodeDuplicateActive:
		c.Kind = ConflictDuplicateActive
	case apperror.CodeHasActiveChildren:
		c.Kind = ConflictHasActiveChildren
	default:
		return c, true
	}

	c.InactiveID = d.InactiveID
	c.Field = d.Field
	if d.Message != "" {
		c.Message = d.Message
	}
	return c, true
}
