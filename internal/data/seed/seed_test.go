package seed

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/catalog-backend/internal/data/repos"
	"github.com/yungbote/catalog-backend/internal/data/repos/testutil"
)

const fixturesYAML = `
categories:
  - name: toys
    description: things to chew
  - name: food
products:
  - name: ball
    price: "3.50"
    categories: [toys]
  - name: kibble
    price: "19.99"
    categories: [food, toys]
pets:
  - name: Rex
    type: dog
    birth_date: 2020-05-01
    weight: 12.5
    visits:
      - date: 2024-02-01
        description: checkup
      - date: 2024-03-01
        description: vaccine
`

func TestParseAndApply(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	f, err := Parse(strings.NewReader(fixturesYAML))
	require.NoError(t, err)
	require.Len(t, f.Products, 2)

	res, err := NewSeeder(db, log).Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: 2, Products: 2, Pets: 1, Visits: 2}, res)

	toys, err := repos.NewCategoryRepo(db, log).GetByName(ctx, nil, "toys")
	require.NoError(t, err)
	require.NotNil(t, toys)
	inToys, err := repos.NewProductRepo(db, log).GetByCategoryID(ctx, nil, toys.ID)
	require.NoError(t, err)
	assert.Len(t, inToys, 2)

	again, err := NewSeeder(db, log).Apply(ctx, &Fixtures{Categories: f.Categories})
	require.NoError(t, err)
	assert.Zero(t, again.Categories)
}

func TestApplyUnknownCategoryRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	_, err := NewSeeder(db, log).Apply(ctx, &Fixtures{
		Categories: []CategoryFixture{{Name: "toys"}},
		Products:   []ProductFixture{{Name: "ball", Price: "1", Categories: []string{"beds"}}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	got, err := repos.NewCategoryRepo(db, log).GetByName(ctx, nil, "toys")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("owners:\n  - name: x\n"))
	require.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Categories)
}

func TestApplyInvalidPrice(t *testing.T) {
	db := testutil.DB(t)
	_, err := NewSeeder(db, testutil.Logger(t)).Apply(context.Background(), &Fixtures{
		Products: []ProductFixture{{Name: "ball", Price: "cheap"}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFixture))
}
