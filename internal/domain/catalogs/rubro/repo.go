package rubro

import (
	"backoffice/internal/domain"
)

// Repository defines the interface for Rubro persistence.
type Repository interface {
	domain.CatalogRepository[Rubro]
}
