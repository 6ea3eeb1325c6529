package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/data/repos/catalog"
	"github.com/yungbote/catalog-backend/internal/data/repos/clinic"
	"github.com/yungbote/catalog-backend/internal/data/repos/repoutil"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type CategoryRepo = catalog.CategoryRepo
type ProductRepo = catalog.ProductRepo

type PetRepo = clinic.PetRepo
type VisitRepo = clinic.VisitRepo

type Query = repoutil.Query

var ErrStoreUnavailable = repoutil.ErrStoreUnavailable

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return catalog.NewCategoryRepo(db, baseLog)
}
func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return catalog.NewProductRepo(db, baseLog)
}

func NewPetRepo(db *gorm.DB, baseLog *logger.Logger) PetRepo { return clinic.NewPetRepo(db, baseLog) }
func NewVisitRepo(db *gorm.DB, baseLog *logger.Logger) VisitRepo {
	return clinic.NewVisitRepo(db, baseLog)
}
