package subrubro

import (
	"backoffice/internal/domain"
)

// Repository defines the interface for SubRubro persistence.
type Repository interface {
	domain.CatalogRepository[SubRubro]
}
