package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/pkg/db"
	"github.com/Skotchmaster/marketplace/pkg/events"
	"github.com/Skotchmaster/marketplace/pkg/lock"
	"github.com/Skotchmaster/marketplace/pkg/metrics"
	"github.com/Skotchmaster/marketplace/pkg/tokens"
)

type testEnv struct {
	Repo     *repo.GormRepo
	Events   *events.Recorder
	Metrics  *metrics.Metrics
	Tokens   *tokens.Issuer
	Accounts *AccountService
	Catalog  *CatalogService
	Cart     *CartService
	Orders   *OrderService
	Skills   *SkillService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, models.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	rec := &events.Recorder{}
	m := metrics.New()
	iss := tokens.NewIssuer(tokens.NewKeyring("test", []byte("test-secret"), nil), 0)

	return &testEnv{
		Repo:     r,
		Events:   rec,
		Metrics:  m,
		Tokens:   iss,
		Accounts: &AccountService{Repo: r, Tokens: iss, Events: rec, Metrics: m, HashCost: bcrypt.MinCost},
		Catalog:  &CatalogService{Repo: r, Events: rec},
		Cart:     &CartService{Repo: r, Events: rec},
		Orders:   &OrderService{Repo: r, Locks: lock.NewKeyedMutex(), Events: rec, Metrics: m, Now: func() time.Time { return time.Now() }},
		Skills:   &SkillService{Repo: r, Events: rec},
	}
}

func (e *testEnv) product(t *testing.T, title, price string) *models.Product {
	t.Helper()
	ctx := context.Background()
	cat, err := e.Catalog.CreateCategory(ctx, "Cat "+title)
	require.NoError(t, err)
	p, err := e.Catalog.CreateProduct(ctx, cat.ID, NewProduct{Title: title, Price: decimal.RequireFromString(price)})
	require.NoError(t, err)
	return p
}
