package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "user_api", cfg.DB.Name)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, 10, cfg.App.ShutdownTimeoutSeconds)
	assert.False(t, cfg.Redis.CacheEnabled)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "user-api", cfg.Logger.ServiceName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_ProductionLoggerDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Logger.EnableSampling)
}

func TestLoadConfig_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	content := "DB_DRIVER=sqlite\nDB_SQLITE_PATH=/tmp/users.db\nHTTP_PORT=9000\nBCRYPT_COST=12\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	t.Setenv("HTTP_PORT", "9100")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/users.db", cfg.DB.SQLitePath)
	assert.Equal(t, "9100", cfg.App.HTTPPort)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
}

func validConfig() *Config {
	return &Config{
		DB: DatabaseConfig{
			Driver:       DriverPostgres,
			Host:         "localhost",
			Port:         "5432",
			Name:         "user_api",
			MaxOpenConns: 10,
			MaxIdleConns: 2,
		},
		App:      AppConfig{HTTPPort: "8080", ShutdownTimeoutSeconds: 5},
		Redis:    RedisConfig{Port: "6379", PoolSize: 10, CacheTTL: 60},
		Security: SecurityConfig{BcryptCost: 10},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "sqlite", mutate: func(c *Config) { c.DB.Driver = DriverSQLite; c.DB.SQLitePath = "x.db" }},
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "mysql" }, wantErr: "unsupported DB_DRIVER"},
		{name: "sqlite without path", mutate: func(c *Config) { c.DB.Driver = DriverSQLite }, wantErr: "DB_SQLITE_PATH"},
		{name: "bad db port", mutate: func(c *Config) { c.DB.Port = "abc" }, wantErr: "invalid DB_PORT"},
		{name: "bad http port", mutate: func(c *Config) { c.App.HTTPPort = "70000" }, wantErr: "invalid HTTP_PORT"},
		{name: "zero pool", mutate: func(c *Config) { c.DB.MaxOpenConns = 0 }, wantErr: "DB_MAX_OPEN_CONNS"},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.App.ShutdownTimeoutSeconds = 0 }, wantErr: "SHUTDOWN_TIMEOUT_SECONDS"},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Security.BcryptCost = 3 }, wantErr: "BCRYPT_COST"},
		{name: "cache disabled ignores redis", mutate: func(c *Config) { c.Redis.Port = "" }},
		{
			name:    "cache enabled checks redis",
			mutate:  func(c *Config) { c.Redis.CacheEnabled = true; c.Redis.CacheTTL = 0 },
			wantErr: "CACHE_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", db.DSN())
}
