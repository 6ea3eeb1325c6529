package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/catalog-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/catalog-backend/internal/domain"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Category) ([]*types.Category, error)
	AddProducts(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, productIDs []uuid.UUID) error

	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Category, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Category, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Category, error)
	FindPage(ctx context.Context, tx *gorm.DB, q repoutil.Query) (repoutil.Page[types.Category], error)
}

var categorySpec = repoutil.Spec{
	Sortable: map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	},
	SearchColumns: []string{"name", "description"},
	DefaultOrder:  "created_at ASC, id ASC",
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Category) ([]*types.Category, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Category{}, nil
	}
	if err := t.WithContext(ctx).Omit("Products").Create(&rows).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	return rows, nil
}

func (r *categoryRepo) AddProducts(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, productIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if categoryID == uuid.Nil || len(productIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(productIDs))
	for _, id := range productIDs {
		rows = append(rows, map[string]interface{}{"category_id": categoryID, "product_id": id})
	}
	err := t.WithContext(ctx).
		Table("category_product").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	return repoutil.Classify(err)
}

func (r *categoryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Category, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Category
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&out).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	return out, nil
}

func (r *categoryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Category, error) {
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

func (r *categoryRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Category, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Category
	if err := t.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&out).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *categoryRepo) FindPage(ctx context.Context, tx *gorm.DB, q repoutil.Query) (repoutil.Page[types.Category], error) {
	t := tx
	if t == nil {
		t = r.db
	}
	return repoutil.FindPage[types.Category](ctx, t, q, categorySpec)
}
