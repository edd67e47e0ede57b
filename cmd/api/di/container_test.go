package di

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"user-api/internal/adapter/cache"
	"user-api/internal/adapter/db/gormstore"
	ginrouter "user-api/internal/adapter/gin/router"
	"user-api/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env: "test",
		DB: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			SQLitePath:   filepath.Join(t.TempDir(), "users.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		},
		App:      config.AppConfig{HTTPPort: "8080", ShutdownTimeoutSeconds: 5},
		Redis:    config.RedisConfig{Port: "6379", PoolSize: 2, CacheTTL: 60},
		Security: config.SecurityConfig{BcryptCost: 4},
		Logger:   config.LoggerConfig{Level: "warn", SlowQuerySeconds: 1},
	}
}

// UserAPITestSuite drives the HTTP API through the fully wired container
type UserAPITestSuite struct {
	suite.Suite
	container *Container
	router    *gin.Engine
}

func (s *UserAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	c, err := NewContainer(context.Background(), testConfig(s.T()), zaptest.NewLogger(s.T()))
	s.Require().NoError(err)

	s.container = c
	s.router = ginrouter.SetupRouter(c.GinHandler, c.HealthCheck, c.Logger)
}

func (s *UserAPITestSuite) TearDownTest() {
	s.NoError(s.container.Close())
}

func (s *UserAPITestSuite) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	}
	return w, decoded
}

func (s *UserAPITestSuite) create(username, email, password string) int64 {
	w, body := s.do(http.MethodPost, "/api/users", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("success", body["status"])
	return int64(body["id"].(float64))
}

func (s *UserAPITestSuite) countUsers() int64 {
	var n int64
	s.Require().NoError(s.container.DB.Model(&gormstore.UserSchema{}).Count(&n).Error)
	return n
}

func userPath(id int64) string {
	return "/api/users/" + strconv.FormatInt(id, 10)
}

func (s *UserAPITestSuite) TestRoundTrip() {
	id := s.create("alice", "alice@example.com", "s3cret")

	w, body := s.do(http.MethodGet, userPath(id), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(map[string]any{
		"status": "success",
		"data":   map[string]any{"id": float64(id), "username": "alice", "email": "alice@example.com"},
	}, body)

	w, body = s.do(http.MethodPost, "/api/users/login", map[string]string{"username": "alice", "password": "s3cret"})
	s.Equal(http.StatusOK, w.Code)
	s.Equal(float64(id), body["data"].(map[string]any)["id"])
}

func (s *UserAPITestSuite) TestStoredPasswordIsDigest() {
	id := s.create("alice", "alice@example.com", "s3cret")

	var row gormstore.UserSchema
	s.Require().NoError(s.container.DB.First(&row, id).Error)
	s.NotEqual("s3cret", row.Password)
	s.NotEmpty(row.Password)
}

func (s *UserAPITestSuite) TestCreateValidationWritesNothing() {
	w, body := s.do(http.MethodPost, "/api/users", map[string]string{
		"username": "",
		"email":    "not-an-email",
		"password": "s3cret",
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.ElementsMatch([]any{"username is required", "email must be a valid email"}, body["errors"])
	s.Equal(int64(0), s.countUsers())
}

func (s *UserAPITestSuite) TestDuplicateUsername() {
	s.create("alice", "alice@example.com", "s3cret")

	w, body := s.do(http.MethodPost, "/api/users", map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "s3cret",
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal([]any{"username is already taken"}, body["errors"])
	s.Equal(int64(1), s.countUsers())
}

func (s *UserAPITestSuite) TestLoginFailuresAreIndistinguishable() {
	s.create("alice", "alice@example.com", "s3cret")

	wrongPassword, _ := s.do(http.MethodPost, "/api/users/login", map[string]string{"username": "alice", "password": "nope"})
	unknownUser, _ := s.do(http.MethodPost, "/api/users/login", map[string]string{"username": "mallory", "password": "nope"})

	s.Equal(http.StatusUnauthorized, wrongPassword.Code)
	s.Equal(http.StatusUnauthorized, unknownUser.Code)
	s.Equal(wrongPassword.Body.String(), unknownUser.Body.String())
	s.JSONEq(`{"errors":"invalid username or password"}`, unknownUser.Body.String())
}

func (s *UserAPITestSuite) TestUpdate() {
	id := s.create("alice", "alice@example.com", "s3cret")

	w, body := s.do(http.MethodPut, userPath(id), map[string]string{
		"username": "alice2",
		"email":    "alice2@example.com",
		"password": "n3w-secret",
	})
	s.Equal(http.StatusOK, w.Code)
	s.Equal("alice2", body["data"].(map[string]any)["username"])

	w, _ = s.do(http.MethodPost, "/api/users/login", map[string]string{"username": "alice2", "password": "n3w-secret"})
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodPost, "/api/users/login", map[string]string{"username": "alice2", "password": "s3cret"})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *UserAPITestSuite) TestUpdateViolationLeavesRecordUnchanged() {
	id := s.create("alice", "alice@example.com", "s3cret")

	w, _ := s.do(http.MethodPut, userPath(id), map[string]string{
		"username": "alice2",
		"email":    "broken",
		"password": "n3w-secret",
	})
	s.Equal(http.StatusBadRequest, w.Code)

	_, body := s.do(http.MethodGet, userPath(id), nil)
	s.Equal("alice", body["data"].(map[string]any)["username"])
	s.Equal("alice@example.com", body["data"].(map[string]any)["email"])

	w, _ = s.do(http.MethodPost, "/api/users/login", map[string]string{"username": "alice", "password": "s3cret"})
	s.Equal(http.StatusOK, w.Code)
}

func (s *UserAPITestSuite) TestUpdateUnknownUser() {
	w, body := s.do(http.MethodPut, userPath(42), map[string]string{
		"username": "ghost",
		"email":    "ghost@example.com",
		"password": "x",
	})
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("user not found", body["error"])
}

func (s *UserAPITestSuite) TestDeleteThenGet() {
	id := s.create("alice", "alice@example.com", "s3cret")

	w, body := s.do(http.MethodDelete, userPath(id), nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(map[string]any{"status": "success"}, body)

	w, _ = s.do(http.MethodGet, userPath(id), nil)
	s.Equal(http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodDelete, userPath(id), nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *UserAPITestSuite) TestAmbientRoutes() {
	w, body := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("healthy", body["status"])

	w, body = s.do(http.MethodGet, ginrouter.SpecPath, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("2.0", body["swagger"])

	w, _ = s.do(http.MethodGet, "/swagger/index.html", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *UserAPITestSuite) TestHealthFailsWhenDatabaseClosed() {
	s.Require().NoError(s.container.Close())

	w, body := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusServiceUnavailable, w.Code)
	s.Equal("unhealthy", body["status"])
}

func TestUserAPITestSuite(t *testing.T) {
	suite.Run(t, new(UserAPITestSuite))
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.BcryptCost = 99

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "config validation failed")
}

func TestNewContainer_CacheEnabled(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := testConfig(t)
	cfg.Redis.CacheEnabled = true
	cfg.Redis.Host = host
	cfg.Redis.Port = port

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NotNil(t, c.RedisClient)

	gin.SetMode(gin.TestMode)
	router := ginrouter.SetupRouter(c.GinHandler, c.HealthCheck, c.Logger)

	raw, _ := json.Marshal(map[string]string{"username": "alice", "email": "alice@example.com", "password": "s3cret"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewReader(raw)))
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, userPath(created.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mr.Exists(cache.Key(created.ID)))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, userPath(created.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mr.Exists(cache.Key(created.ID)))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, userPath(created.ID), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
