package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/catalog-backend/internal/domain"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type ProductRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Product) ([]*types.Product, error)

	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Product, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error)
	GetByCategoryID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*types.Product, error)
	FindPage(ctx context.Context, tx *gorm.DB, q repoutil.Query) (repoutil.Page[types.Product], error)
}

var productSpec = repoutil.Spec{
	Sortable: map[string]string{
		"name":       "name",
		"price":      "price",
		"created_at": "created_at",
	},
	SearchColumns: []string{"name", "description"},
	DefaultOrder:  "created_at ASC, id ASC",
	Preload:       []string{"Categories"},
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Product) ([]*types.Product, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Product{}, nil
	}
	if err := t.WithContext(ctx).Omit("Categories.*").Create(&rows).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	return rows, nil
}

func (r *productRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Product, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Product
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Categories").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	return out, nil
}

func (r *productRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, error) {
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

func (r *productRepo) GetByCategoryID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) ([]*types.Product, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := []*types.Product{}
	if categoryID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Joins("JOIN category_product cp ON cp.product_id = product.id").
		Where("cp.category_id = ?", categoryID).
		Order("product.name ASC, product.id ASC").
		Find(&out).Error; err != nil {
		return nil, repoutil.Classify(err)
	}
	return out, nil
}

func (r *productRepo) FindPage(ctx context.Context, tx *gorm.DB, q repoutil.Query) (repoutil.Page[types.Product], error) {
	t := tx
	if t == nil {
		t = r.db
	}
	return repoutil.FindPage[types.Product](ctx, t, q, productSpec)
}
