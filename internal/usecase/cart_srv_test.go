package usecase

import (
	"context"
	"testing"

	"shopline/internal/data/entity"
	"shopline/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCartFixture(t *testing.T) (CartService, *repository.Repository, *entity.Product) {
	t.Helper()

	repo := newTestRepository()
	product := &entity.Product{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		Name:         "Widget",
		Price:        10.50,
		Stock:        5,
	}
	require.NoError(t, repo.Product.Create(context.Background(), product))

	return NewCartService(repo, zap.NewNop()), repo, product
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _, _ := newCartFixture(t)

	err := svc.AddItem(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product not found")
}

func TestAddItemTwiceIncrementsQuantity(t *testing.T) {
	svc, _, product := newCartFixture(t)
	userID := uuid.New()

	require.NoError(t, svc.AddItem(context.Background(), userID, product.ID))
	require.NoError(t, svc.AddItem(context.Background(), userID, product.ID))

	cart, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 21.0, cart.Total)
}

func TestDecreaseRemovesLineAtOne(t *testing.T) {
	svc, _, product := newCartFixture(t)
	userID := uuid.New()

	require.NoError(t, svc.AddItem(context.Background(), userID, product.ID))
	require.NoError(t, svc.IncreaseItem(context.Background(), userID, product.ID))

	removed, err := svc.DecreaseItem(context.Background(), userID, product.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.DecreaseItem(context.Background(), userID, product.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	cart, err := svc.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
}
