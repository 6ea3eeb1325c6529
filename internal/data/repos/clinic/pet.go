package clinic

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/catalog-backend/internal/domain"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type PetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Pet) ([]*types.Pet, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Pet, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Pet, error)
	FindPage(ctx context.Context, tx *gorm.DB, q repoutil.Query) (repoutil.Page[types.Pet], error)
}

var petSpec = repoutil.Spec{
	Sortable: map[string]string{
		"name":       "name",
		"type":       "type",
		"birth_date": "birth_date",
		"created_at": "created_at",
	},
	SearchColumns: []string{"name", "type"},
	DefaultOrder:  "created_at ASC, id ASC",
}

type petRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPetRepo(db *gorm.DB, baseLog *logger.Logger) PetRepo {
	return &petRepo{db: db, log: baseLog.With("repo", "PetRepo")}
}

func (r *petRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Pet) ([]*types.Pet, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Pet{}, nil
	}
	if err := t.WithContext(ctx).Omit("Visits").Create(&rows).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	return rows, nil
}

func (r *petRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Pet, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Pet
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	return out, nil
}

func (r *petRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Pet, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *petRepo) FindPage(ctx context.Context, tx *gorm.DB, q repoutil.Query) (repoutil.Page[types.Pet], error) {
	t := tx
	if t == nil {
		t = r.db
	}
	return repoutil.FindPage[types.Pet](ctx, t, q, petSpec)
}
