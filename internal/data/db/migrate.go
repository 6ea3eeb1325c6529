package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("running auto migration")
	return AutoMigrateAll(s.db)
}
