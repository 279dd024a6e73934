package service

import (
	"context"
	"errors"
	"testing"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryCartRepo implements repository.CartRepository in memory.
type memoryCartRepo struct {
	carts   map[int64]*domain.Cart
	getErr  error
	saveErr error
	saves   int
}

func newMemoryCartRepo() *memoryCartRepo {
	return &memoryCartRepo{carts: make(map[int64]*domain.Cart)}
}

func (m *memoryCartRepo) Get(_ context.Context, userID int64) (*domain.Cart, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	cart, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	return cart, nil
}

func (m *memoryCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.carts[cart.UserID] = cart
	return nil
}

func (m *memoryCartRepo) Delete(_ context.Context, userID int64) error {
	delete(m.carts, userID)
	return nil
}

func testLine() domain.CartLine {
	return domain.CartLine{
		ProductID: 42,
		Title:     "Hoodie",
		UnitPrice: 30000,
		Color:     "Black",
		Size:      "M",
		Quantity:  1,
	}
}

func TestGetCart_MissingCartIsEmpty(t *testing.T) {
	repo := newMemoryCartRepo()
	svc := NewCartService(repo, 100000, 5000, zap.NewNop())

	cart, err := svc.GetCart(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), cart.UserID)
	assert.True(t, cart.IsEmpty())
}

func TestGetCart_StorageErrorPropagates(t *testing.T) {
	repo := newMemoryCartRepo()
	repo.getErr = errors.New("redis down")
	svc := NewCartService(repo, 100000, 5000, zap.NewNop())

	_, err := svc.GetCart(context.Background(), 1)

	require.Error(t, err)
}

func TestAddLine_PersistsImmediately(t *testing.T) {
	repo := newMemoryCartRepo()
	svc := NewCartService(repo, 100000, 5000, zap.NewNop())

	cart, err := svc.AddLine(context.Background(), 1, testLine())

	require.NoError(t, err)
	assert.Equal(t, 1, repo.saves)

	stored, ok := repo.carts[1]
	require.True(t, ok)
	assert.Equal(t, cart.Lines, stored.Lines)
}

func TestAddLine_SaveErrorPropagates(t *testing.T) {
	repo := newMemoryCartRepo()
	repo.saveErr = errors.New("redis down")
	svc := NewCartService(repo, 100000, 5000, zap.NewNop())

	_, err := svc.AddLine(context.Background(), 1, testLine())

	require.Error(t, err)
}

func TestSetQuantity_ZeroRemovesAndPersists(t *testing.T) {
	repo := newMemoryCartRepo()
	svc := NewCartService(repo, 100000, 5000, zap.NewNop())

	line := testLine()
	_, err := svc.AddLine(context.Background(), 1, line)
	require.NoError(t, err)

	cart, err := svc.SetQuantity(context.Background(), 1, line.Key(), 0)

	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.True(t, repo.carts[1].IsEmpty())
}

func TestRemoveLine_Idempotent(t *testing.T) {
	repo := newMemoryCartRepo()
	svc := NewCartService(repo, 100000, 5000, zap.NewNop())

	line := testLine()
	_, err := svc.AddLine(context.Background(), 1, line)
	require.NoError(t, err)

	cart, err := svc.RemoveLine(context.Background(), 1, line.Key())
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	cart, err = svc.RemoveLine(context.Background(), 1, line.Key())
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestClear_DeletesStoredCart(t *testing.T) {
	repo := newMemoryCartRepo()
	svc := NewCartService(repo, 100000, 5000, zap.NewNop())

	_, err := svc.AddLine(context.Background(), 1, testLine())
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), 1))

	cart, err := svc.GetCart(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestTotals_UsesConfiguredThreshold(t *testing.T) {
	repo := newMemoryCartRepo()
	svc := NewCartService(repo, 100000, 5000, zap.NewNop())

	line := testLine()
	line.Quantity = 2 // 600.00, below a 1000.00 threshold
	cart, err := svc.AddLine(context.Background(), 1, line)
	require.NoError(t, err)

	totals := svc.Totals(cart)

	assert.Equal(t, int64(60000), totals.Subtotal)
	assert.Equal(t, int64(5000), totals.Shipping)
	assert.Equal(t, int64(65000), totals.GrandTotal)
}
