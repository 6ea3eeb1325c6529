package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/projection"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`

	// Products is the owning side of the category/product relationship.
	// It is never serialized, see CategoryMixin.
	Products []*Product `gorm:"many2many:category_product;" json:"products"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string { return "category" }

// CategoryMixin hides the products relationship from every Category representation.
var CategoryMixin = projection.NewMixin("Category").Ignore("products")

type categoryJSON Category

func (c Category) MarshalJSON() ([]byte, error) {
	return projection.Marshal(categoryJSON(c), CategoryMixin)
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
