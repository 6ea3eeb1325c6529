package clinic

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/projection"
)

type Visit struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PetID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"pet_id"`
	Pet         *Pet           `gorm:"constraint:OnDelete:CASCADE;foreignKey:PetID;references:ID" json:"pet,omitempty"`
	VisitDate   datatypes.Date `gorm:"column:visit_date;not null;index" json:"visit_date"`
	Description string         `gorm:"column:description;type:text" json:"description"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Visit) TableName() string { return "visit" }

// VisitMixin drops the embedded pet; pet_id already identifies it.
var VisitMixin = projection.NewMixin("Visit").Ignore("pet")

type visitJSON Visit

func (v Visit) MarshalJSON() ([]byte, error) {
	return projection.Marshal(visitJSON(v), VisitMixin)
}

func (v *Visit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
