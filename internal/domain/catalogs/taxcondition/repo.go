package taxcondition

import (
	"backoffice/internal/domain"
)

// Repository defines the interface for TaxCondition persistence.
type Repository interface {
	domain.CatalogRepository[TaxCondition]
}
