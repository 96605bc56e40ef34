package product

import (
	"backoffice/internal/domain"
)

// Repository defines the interface for Product persistence.
// Its ActiveCounter is shared with the parent catalogs for anti-orphan checks.
type Repository interface {
	domain.CatalogRepository[Product]
}
