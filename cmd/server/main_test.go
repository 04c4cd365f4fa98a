package main

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"canteen-be/internal/auth"
	"canteen-be/internal/config"
	"canteen-be/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		AppPort:       "8080",
		AppEnv:        "test",
		JWTSecret:     "test-secret",
		CORSOrigins:   []string{"http://localhost:3000"},
		Notifiers:     []string{"log"},
		NotifyTimeout: time.Second,
	}
}

func TestSetupRouter(t *testing.T) {
	cfg := testConfig()
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("api"))
	})
	router := setupRouter(api, cfg, middleware.NewLimiter(""))

	t.Run("Request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("Preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/orders", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Bad Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders/x/advance", nil)
		req.Header.Set("Authorization", "Bearer junk")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Good Token", func(t *testing.T) {
		tok := signToken(t, []byte(cfg.JWTSecret), "v-1", "vendor", time.Hour)

		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "api", rr.Body.String())
	})
}

func TestNewServer(t *testing.T) {
	db, err := sql.Open("mock_driver_main", "")
	require.NoError(t, err)
	defer db.Close()

	h, cleanup, err := newServer(testConfig(), db)
	require.NoError(t, err)
	defer cleanup()

	t.Run("Health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "OK")
	})

	t.Run("Stats", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/stats", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestNewServer_UnknownNotifier(t *testing.T) {
	db, err := sql.Open("mock_driver_main", "")
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.Notifiers = []string{"pigeon"}

	_, _, err = newServer(cfg, db)
	assert.Error(t, err)
}

// --- Mock Driver for Testing ---
type mockDriver struct{}

func (m *mockDriver) Open(name string) (driver.Conn, error)         { return &mockConn{}, nil }
func (c *mockConn) Prepare(query string) (driver.Stmt, error)       { return &mockStmt{}, nil }
func (c *mockConn) Close() error                                    { return nil }
func (c *mockConn) Begin() (driver.Tx, error)                       { return nil, nil }
func (s *mockStmt) Close() error                                    { return nil }
func (s *mockStmt) NumInput() int                                   { return 0 }
func (s *mockStmt) Exec(args []driver.Value) (driver.Result, error) { return nil, nil }
func (s *mockStmt) Query(args []driver.Value) (driver.Rows, error)  { return nil, nil }

type mockConn struct{}
type mockStmt struct{}

func init() {
	sql.Register("mock_driver_main", &mockDriver{})
}

func setEnv(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "user")
	t.Setenv("DB_PASSWORD", "pass")
	t.Setenv("DB_NAME", "db")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("NOTIFIERS", "log")
}

func TestRun(t *testing.T) {
	origInitDB := initDBFunc
	defer func() { initDBFunc = origInitDB }()
	initDBFunc = func(cfg *config.Config) (*sql.DB, error) {
		return sql.Open("mock_driver_main", "")
	}

	origStartServer := startServerFunc
	defer func() { startServerFunc = origStartServer }()

	t.Run("Server Closed", func(t *testing.T) {
		setEnv(t)
		startServerFunc = func(srv *http.Server) error {
			assert.Equal(t, ":8080", srv.Addr)
			return http.ErrServerClosed
		}

		assert.NoError(t, run())
	})

	t.Run("Listen Error", func(t *testing.T) {
		setEnv(t)
		startServerFunc = func(srv *http.Server) error {
			return errors.New("address already in use")
		}

		assert.EqualError(t, run(), "address already in use")
	})

	t.Run("DB Error", func(t *testing.T) {
		setEnv(t)
		initDBFunc = func(cfg *config.Config) (*sql.DB, error) {
			return nil, errors.New("failed to ping DB: refused")
		}

		assert.EqualError(t, run(), "failed to ping DB: refused")
	})

	t.Run("Bad Config", func(t *testing.T) {
		setEnv(t)
		t.Setenv("JWT_SECRET", "")

		assert.Error(t, run())
	})
}

// signToken issues an HS256 token the way the login service does.
func signToken(t *testing.T, secret []byte, userID, role string, ttl time.Duration) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}).SignedString(secret)
	require.NoError(t, err)
	return tok
}
