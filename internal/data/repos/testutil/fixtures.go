package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/catalog-backend/internal/domain"
)

// Base is the creation time of the first seeded row; each Seed call bumps the
// clock so default ordering by created_at is predictable.
var Base = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func at(step int) time.Time { return Base.Add(time.Duration(step) * time.Minute) }

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, step int, name string) *types.Category {
	tb.Helper()
	c := &types.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " things",
		CreatedAt:   at(step),
		UpdatedAt:   at(step),
	}
	if err := tx.WithContext(ctx).Omit("Products").Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, step int, name string, price string, cats ...*types.Category) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: name,
		Price:       decimal.RequireFromString(price),
		Categories:  cats,
		CreatedAt:   at(step),
		UpdatedAt:   at(step),
	}
	if err := tx.WithContext(ctx).Omit("Categories.*").Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedPet(tb testing.TB, ctx context.Context, tx *gorm.DB, step int, name, kind string) *types.Pet {
	tb.Helper()
	p := &types.Pet{
		ID:        uuid.New(),
		Name:      name,
		Type:      kind,
		BirthDate: datatypes.Date(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)),
		Weight:    4.2,
		CreatedAt: at(step),
		UpdatedAt: at(step),
	}
	if err := tx.WithContext(ctx).Omit("Visits").Create(p).Error; err != nil {
		tb.Fatalf("seed pet: %v", err)
	}
	return p
}

func SeedVisit(tb testing.TB, ctx context.Context, tx *gorm.DB, step int, petID uuid.UUID, desc string) *types.Visit {
	tb.Helper()
	v := &types.Visit{
		ID:          uuid.New(),
		PetID:       petID,
		VisitDate:   datatypes.Date(at(step)),
		Description: desc,
		CreatedAt:   at(step),
		UpdatedAt:   at(step),
	}
	if err := tx.WithContext(ctx).Omit("Pet").Create(v).Error; err != nil {
		tb.Fatalf("seed visit: %v", err)
	}
	return v
}
