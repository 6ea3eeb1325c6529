package domain

import (
	"github.com/yungbote/catalog-backend/internal/domain/catalog"
	"github.com/yungbote/catalog-backend/internal/domain/clinic"
)

type Category = catalog.Category
type Product = catalog.Product

type Pet = clinic.Pet
type Visit = clinic.Visit

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&Category{},
		&Product{},
		&Pet{},
		&Visit{},
	}
}
