package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/consistency/internal/models"
)

// Provider persists the whole document. Implementations must make Save
// atomic: a crash mid-write never leaves a corrupt document behind.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error

	// Load returns the stored document, or an empty one when nothing has
	// been stored yet. Read failures wrap errors.ErrStoreUnavailable.
	Load(ctx context.Context) (*models.Document, error)
	// Save replaces the stored document. Write failures wrap
	// errors.ErrStoreUnavailable.
	Save(ctx context.Context, doc *models.Document) error

	// Utils
	GetConfigPath() string
	Kind() string
}

const (
	KindJSON     = "json"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindRedis    = "redis"
)

// IsPostgres reports whether config is a PostgreSQL connection string.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// IsRedis reports whether config is a Redis URL.
func IsRedis(config string) bool {
	return strings.HasPrefix(config, "redis://") || strings.HasPrefix(config, "rediss://")
}

// Open picks a backend from the config string: a PostgreSQL or Redis URL,
// a *.db / *.sqlite file, or a JSON document file for anything else.
// PostgreSQL strings given here must not carry a password.
func Open(config string) (Provider, error) {
	return open(config, false)
}

// OpenSecret is Open for connection strings read from the OS keyring, which
// may embed credentials.
func OpenSecret(connStr string) (Provider, error) {
	return open(connStr, true)
}

func open(config string, allowCredentials bool) (Provider, error) {
	switch {
	case IsPostgres(config):
		if !allowCredentials && HasEmbeddedCredentials(config) {
			return nil, ErrEmbeddedCredentials
		}
		return NewPostgresStore(config), nil
	case IsRedis(config):
		return NewRedisStore(config)
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(path), nil
	default:
		return NewJSONStore(path), nil
	}
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
