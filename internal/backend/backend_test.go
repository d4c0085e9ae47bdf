package backend

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietFactory() Factory {
	return NewFactory(log.New(log.Config{Output: io.Discard}))
}

func TestCreateMemoryBackend(t *testing.T) {
	ctx := context.Background()
	res, err := quietFactory().CreateBackend(ctx, Config{Type: MemoryBackend})
	require.NoError(t, err)
	defer res.Cleanup()

	require.NoError(t, res.Store.Ping(ctx))
	require.NoError(t, res.Store.CreateUser(ctx, core.User{ID: "u1", Email: "a@example.com", FullName: "A"}))
	u, err := res.Store.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)
}

func TestCreateSQLiteBackendRunsMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db", "fintrack.db")

	res, err := quietFactory().CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)
	defer res.Cleanup()

	require.NoError(t, res.Store.Ping(ctx))
	goals, err := res.Store.ListGoals(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"mongo", Config{Type: MongoBackend, MongoURI: "mongodb://localhost", MongoDatabase: "fintrack"}, false},
		{"mongo without database", Config{Type: MongoBackend, MongoURI: "mongodb://localhost"}, true},
		{"unknown", Config{Type: "sheets"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := quietFactory().CreateBackend(context.Background(), Config{Type: "sheets"})
	assert.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "mongo", MongoURI: "mongodb://db", MongoDatabase: "ft"})
	require.NoError(t, err)
	assert.Equal(t, MongoBackend, cfg.Type)
	assert.Equal(t, "mongodb://db", cfg.MongoURI)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.Error(t, err)

	_, err = FromAppConfig(nil)
	assert.Error(t, err)

	assert.ElementsMatch(t, []string{"sqlite", "mongo", "memory"}, GetBackendTypeStrings())
}
