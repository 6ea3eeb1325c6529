package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/data/repos"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type Repos struct {
	Category repos.CategoryRepo
	Product  repos.ProductRepo
	Pet      repos.PetRepo
	Visit    repos.VisitRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Category: repos.NewCategoryRepo(db, log),
		Product:  repos.NewProductRepo(db, log),
		Pet:      repos.NewPetRepo(db, log),
		Visit:    repos.NewVisitRepo(db, log),
	}
}
