package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/projection"
)

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"column:name;not null;index" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	Attributes  datatypes.JSON  `gorm:"column:attributes" json:"attributes,omitempty"`

	Categories []*Category `gorm:"many2many:category_product;" json:"categories,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "product" }

// ProductMixin emits related categories as their ids.
var ProductMixin = projection.NewMixin("Product").Reference("categories", "id")

type productJSON Product

func (p Product) MarshalJSON() ([]byte, error) {
	return projection.Marshal(productJSON(p), ProductMixin)
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
