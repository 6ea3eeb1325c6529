package clinic

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/catalog-backend/internal/domain"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type VisitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Visit) ([]*types.Visit, error)

	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Visit, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Visit, error)
	GetByPetID(ctx context.Context, tx *gorm.DB, petID uuid.UUID) ([]*types.Visit, error)
	FindPage(ctx context.Context, tx *gorm.DB, q repoutil.Query) (repoutil.Page[types.Visit], error)

	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error)
}

var visitSpec = repoutil.Spec{
	Sortable: map[string]string{
		"visit_date":  "visit_date",
		"description": "description",
		"pet_id":      "pet_id",
		"created_at":  "created_at",
	},
	SearchColumns: []string{"description"},
	DefaultOrder:  "created_at ASC, id ASC",
}

type visitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVisitRepo(db *gorm.DB, baseLog *logger.Logger) VisitRepo {
	return &visitRepo{db: db, log: baseLog.With("repo", "VisitRepo")}
}

func (r *visitRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Visit) ([]*types.Visit, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Visit{}, nil
	}
	if err := t.WithContext(ctx).Omit("Pet").Create(&rows).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	return rows, nil
}

func (r *visitRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Visit, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Visit
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	return out, nil
}

func (r *visitRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Visit, error) {
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

func (r *visitRepo) GetByPetID(ctx context.Context, tx *gorm.DB, petID uuid.UUID) ([]*types.Visit, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []*types.Visit{}
	if petID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("pet_id = ?", petID).
		Order("visit_date ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	return out, nil
}

func (r *visitRepo) FindPage(ctx context.Context, tx *gorm.DB, q repoutil.Query) (repoutil.Page[types.Visit], error) {
	t := tx
	if t == nil {
		t = r.db
	}
	return repoutil.FindPage[types.Visit](ctx, t, q, visitSpec)
}

func (r *visitRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := t.WithContext(ctx).Where("id IN ?", ids).Delete(&types.Visit{})
	if res.Error != nil {
		return 0, repoutil.Classify(res.Error)
	}
	return res.RowsAffected, nil
}
