package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/repo"
	"github.com/Skotchmaster/marketplace/internal/service"
	"github.com/Skotchmaster/marketplace/pkg/db"
	"github.com/Skotchmaster/marketplace/pkg/events"
	"github.com/Skotchmaster/marketplace/pkg/lock"
	"github.com/Skotchmaster/marketplace/pkg/logging"
	"github.com/Skotchmaster/marketplace/pkg/metrics"
	"github.com/Skotchmaster/marketplace/pkg/tokens"
)

type testServer struct {
	E      *echo.Echo
	Deps   *Deps
	Events *events.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, models.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	rec := &events.Recorder{}
	m := metrics.New()
	iss := tokens.NewIssuer(tokens.NewKeyring("test", []byte("test-secret"), nil), time.Hour)

	d := &Deps{
		Accounts: &service.AccountService{Repo: r, Tokens: iss, Events: rec, Metrics: m, HashCost: bcrypt.MinCost},
		Catalog:  &service.CatalogService{Repo: r, Events: rec},
		Cart:     &service.CartService{Repo: r, Events: rec},
		Orders:   &service.OrderService{Repo: r, Locks: lock.NewKeyedMutex(), Events: rec, Metrics: m},
		Skills:   &service.SkillService{Repo: r, Events: rec},
		Tokens:   iss,
		Metrics:  m,
		Ready:    func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}
	e := New(ServerConfig{Logger: logging.NewWithWriter(io.Discard, "error"), RequestTimeout: 5 * time.Second}, d)
	return &testServer{E: e, Deps: d, Events: rec}
}

func (s *testServer) call(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		rd = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

type principal struct {
	ID    string
	Token string
}

// signup registers and logs in an account under prefix ("/users", "/clients", "/developer").
func (s *testServer) signup(t *testing.T, prefix, email string) principal {
	t.Helper()
	rec := s.call(t, http.MethodPost, prefix+"/register", "", map[string]string{
		"name": "Test", "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reg := decode[struct {
		Account struct {
			ID string `json:"id"`
		} `json:"account"`
	}](t, rec)

	rec = s.call(t, http.MethodPost, prefix+"/login", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[map[string]any](t, rec)
	return principal{ID: reg.Account.ID, Token: login["token"].(string)}
}

func (s *testServer) product(t *testing.T, title string) string {
	t.Helper()
	rec := s.call(t, http.MethodPost, "/categories/add", "", map[string]string{"name": "Cat " + title})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cat := decode[map[string]any](t, rec)

	rec = s.call(t, http.MethodPost, "/products/addproduct/"+cat["id"].(string), "", map[string]any{
		"title": title, "description": "d", "price": "9.99",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]any](t, rec)["id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/health/ready", "", nil).Code)

	s.Deps.Ready = func(context.Context) error { return errors.New("db down") }
	rec := s.call(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", errorOf(t, rec))

	rec = s.call(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "marketplace_http_requests_total")
}

func TestUnknownRoute_ErrorBody(t *testing.T) {
	s := newTestServer(t)
	rec := s.call(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, errorOf(t, rec))
}

func TestSecureHeaders(t *testing.T) {
	s := newTestServer(t)
	rec := s.call(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
