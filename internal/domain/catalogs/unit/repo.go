package unit

import (
	"backoffice/internal/domain"
)

// Repository defines the interface for Unit persistence.
type Repository interface {
	domain.CatalogRepository[Unit]
}
