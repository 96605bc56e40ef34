// Package id generates record identifiers.
package id

import (
	"github.com/google/uuid"
)

// ID is the identifier type of catalog records and audit entries.
type ID = uuid.UUID

// New returns a UUIDv7. Ids are time-ordered, so records sort by creation.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}
