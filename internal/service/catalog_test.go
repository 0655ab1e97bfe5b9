package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/pkg/events"
)

type fakeIndex struct {
	indexed []uuid.UUID
	hits    []uuid.UUID
	err     error
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return f.err
}

func (f *fakeIndex) SearchProducts(context.Context, string, int, int) (int64, []uuid.UUID, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

func TestCatalog_CategoriesAndProducts(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	_, err := env.Catalog.CreateCategory(ctx, "  ")
	require.ErrorIs(t, err, ErrValidation)

	cat, err := env.Catalog.CreateCategory(ctx, "Kitchen & Dining")
	require.NoError(t, err)
	assert.Equal(t, "kitchen-and-dining", cat.Slug)

	_, err = env.Catalog.CreateProduct(ctx, uuid.New(), NewProduct{Title: "x", Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.Catalog.CreateProduct(ctx, cat.ID, NewProduct{Title: "x", Price: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, ErrValidation)

	off := false
	p, err := env.Catalog.CreateProduct(ctx, cat.ID, NewProduct{Title: "Pan", Price: decimal.RequireFromString("15.999"), Availability: &off})
	require.NoError(t, err)
	assert.False(t, p.Availability)
	assert.Equal(t, "16", p.Price.String())

	q, err := env.Catalog.CreateProduct(ctx, cat.ID, NewProduct{Title: "Pot", Price: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.True(t, q.Availability)

	got, err := env.Catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kitchen & Dining", got.Category.Name)

	_, err = env.Catalog.GetProduct(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)

	_, items, err := env.Catalog.ProductsByCategoryName(ctx, "Kitchen & Dining")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, items, err = env.Catalog.ProductsByCategoryName(ctx, "kitchen-and-dining")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, _, err = env.Catalog.ProductsByCategoryName(ctx, "Garden")
	require.ErrorIs(t, err, ErrNotFound)

	all, err := env.Catalog.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.Len(t, env.Events.OfType(events.ProductCreated), 2)
}

func TestCatalog_Search(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.product(t, "Blue kettle", "30")
	b := env.product(t, "Red kettle", "31")

	_, _, err := env.Catalog.Search(ctx, " ", 0, 10)
	require.ErrorIs(t, err, ErrValidation)

	total, items, err := env.Catalog.Search(ctx, "kettle", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	idx := &fakeIndex{hits: []uuid.UUID{b.ID, uuid.New(), a.ID}}
	env.Catalog.Index = idx
	total, items, err = env.Catalog.Search(ctx, "kettle", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)

	idx.err = errors.New("es down")
	total, items, err = env.Catalog.Search(ctx, "blue", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, a.ID, items[0].ID)

	c := env.product(t, "Green kettle", "5")
	assert.Contains(t, idx.indexed, c.ID)
}
