package clinic

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/projection"
)

type Pet struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null;index" json:"name"`
	Type      string         `gorm:"column:type;not null" json:"type"`
	BirthDate datatypes.Date `gorm:"column:birth_date" json:"birth_date"`
	Weight    float64        `gorm:"column:weight" json:"weight"`

	Visits []*Visit `gorm:"foreignKey:PetID;references:ID" json:"visits"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Pet) TableName() string { return "pet" }

var PetMixin = projection.NewMixin("Pet").Ignore("visits")

type petJSON Pet

func (p Pet) MarshalJSON() ([]byte, error) {
	return projection.Marshal(petJSON(p), PetMixin)
}

func (p *Pet) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
