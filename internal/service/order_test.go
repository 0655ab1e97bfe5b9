package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/pkg/events"
	"github.com/Skotchmaster/marketplace/pkg/lock"
)

func countOrders(t *testing.T, env *testEnv, user uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.Repo.DB.Model(&models.Order{}).Where("user_id = ?", user).Count(&n).Error)
	return n
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	env := newEnv(t)
	user := uuid.New()

	_, err := env.Orders.PlaceOrder(context.Background(), user)
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, "cart is empty, cannot place order", err.Error())
	assert.Zero(t, countOrders(t, env, user))
	assert.Empty(t, env.Events.OfType(events.OrderPlaced))
}

func TestPlaceOrder_SnapshotsAndClearsCart(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	a := env.product(t, "a", "1.00")
	b := env.product(t, "b", "2.00")
	user, other := uuid.New(), uuid.New()

	_, err := env.Cart.AddOrIncrement(ctx, user, a.ID, 2)
	require.NoError(t, err)
	_, err = env.Cart.AddOrIncrement(ctx, user, b.ID, 1)
	require.NoError(t, err)
	_, err = env.Cart.AddOrIncrement(ctx, other, b.ID, 9)
	require.NoError(t, err)

	o, err := env.Orders.PlaceOrder(ctx, user)
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, a.ID, o.Items[0].ProductID)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, b.ID, o.Items[1].ProductID)
	assert.Equal(t, user, o.UserID)

	cart, err := env.Cart.View(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, cart)

	otherCart, err := env.Cart.View(ctx, other)
	require.NoError(t, err)
	assert.Len(t, otherCart, 1)

	placed := env.Events.OfType(events.OrderPlaced)
	require.Len(t, placed, 1)
	assert.Equal(t, events.TopicOrders, placed[0].Topic)
	assert.Equal(t, user.String(), placed[0].Key)

	_, err = env.Orders.PlaceOrder(ctx, user)
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.EqualValues(t, 1, countOrders(t, env, user))
}

func TestPlaceOrder_ConcurrentSameUser(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	p := env.product(t, "p", "3")
	user := uuid.New()
	_, err := env.Cart.AddOrIncrement(ctx, user, p.ID, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.Orders.PlaceOrder(ctx, user)
		}(i)
	}
	wg.Wait()

	ok, empty := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrEmptyCart):
			empty++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 4, empty)
	assert.EqualValues(t, 1, countOrders(t, env, user))
}

func TestOrderHistoryAndDetails(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	p := env.product(t, "p", "3")
	user, stranger := uuid.New(), uuid.New()

	clock := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	env.Orders.Now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		_, err := env.Cart.AddOrIncrement(ctx, user, p.ID, 1)
		require.NoError(t, err)
		o, err := env.Orders.PlaceOrder(ctx, user)
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}

	history, err := env.Orders.History(ctx, user)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, ids[1], history[0].ID)

	again, err := env.Orders.History(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, history[0].ID, again[0].ID)

	o, err := env.Orders.Details(ctx, user, ids[0])
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	require.NotNil(t, o.Items[0].Product)

	_, err = env.Orders.Details(ctx, stranger, ids[0])
	require.ErrorIs(t, err, ErrForbidden)

	_, err = env.Orders.Details(ctx, user, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

type flakyOrderStore struct {
	OrderStore
	failures int
	calls    int
}

func (f *flakyOrderStore) PlaceOrder(ctx context.Context, userID uuid.UUID, at time.Time) (*models.Order, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, repo.ErrCartChanged
	}
	return &models.Order{ID: uuid.New(), UserID: userID, OrderDate: at, Items: []models.OrderItem{{Quantity: 1}}}, nil
}

func TestPlaceOrder_RetriesOnCartChange(t *testing.T) {
	store := &flakyOrderStore{failures: 2}
	svc := &OrderService{Repo: store, Locks: lock.NewKeyedMutex()}

	o, err := svc.PlaceOrder(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, o)
	assert.Equal(t, 3, store.calls)

	store = &flakyOrderStore{failures: 10}
	svc.Repo = store
	_, err = svc.PlaceOrder(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, defaultOrderAttempts, store.calls)
}

func TestPlaceOrder_LockTimeout(t *testing.T) {
	locks := lock.NewKeyedMutex()
	user := uuid.New()
	unlock, err := locks.Lock(context.Background(), "order:"+user.String())
	require.NoError(t, err)
	defer unlock()

	svc := &OrderService{Repo: &flakyOrderStore{}, Locks: locks}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = svc.PlaceOrder(ctx, user)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
