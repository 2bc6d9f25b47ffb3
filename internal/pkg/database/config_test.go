package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{
			name:   "default config is valid",
			modify: func(c *Config) {},
		},
		{
			name:    "missing host",
			modify:  func(c *Config) { c.Host = "" },
			wantErr: true,
		},
		{
			name:    "port out of range",
			modify:  func(c *Config) { c.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "missing user",
			modify:  func(c *Config) { c.User = "" },
			wantErr: true,
		},
		{
			name:    "missing dbname",
			modify:  func(c *Config) { c.DBName = "" },
			wantErr: true,
		},
		{
			name:    "bad ssl mode",
			modify:  func(c *Config) { c.SSLMode = "maybe" },
			wantErr: true,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "idle exceeds open",
			modify:  func(c *Config) { c.MaxIdleConns = 200 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigDSN(t *testing.T) {
	cfg := &Config{
		Host:     "db.local",
		Port:     5433,
		User:     "app",
		Password: "secret",
		DBName:   "memebin",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.local port=5433 user=app password=secret dbname=memebin sslmode=require",
		cfg.DSN(),
	)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"defaults applied", 0, 0, 1, DefaultPageSize},
		{"negative page", -3, 10, 1, 10},
		{"size capped", 1, 500, 1, MaxPageSize},
		{"passthrough", 2, 25, 2, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := NormalizePage(tt.page, tt.size)
			require.Equal(t, tt.wantPage, page)
			require.Equal(t, tt.wantPageSize, size)
		})
	}
}
