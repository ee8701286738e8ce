package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/consistency/internal/constants"
	apperrors "github.com/julianstephens/consistency/internal/errors"
	"github.com/julianstephens/consistency/internal/logger"
	"github.com/julianstephens/consistency/internal/migration"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/storage/migrations"
)

// documentKey is the row the document lives under in the documents table.
const documentKey = "document"

// SQLStore keeps the document as one row of a key-value table, in either
// SQLite or PostgreSQL.
type SQLStore struct {
	kind   string
	driver string
	dsn    string
	db     *sqlx.DB
}

// NewSQLiteStore stores the document in a SQLite database file.
func NewSQLiteStore(path string) *SQLStore {
	return &SQLStore{
		kind:   KindSQLite,
		driver: "sqlite",
		dsn:    path,
	}
}

// NewPostgresStore stores the document in PostgreSQL, inside the
// application's own schema.
func NewPostgresStore(connStr string) *SQLStore {
	return &SQLStore{
		kind:   KindPostgres,
		driver: "postgres",
		dsn:    ensureSearchPath(connStr),
	}
}

func (s *SQLStore) Init(ctx context.Context) error {
	if err := s.open(ctx); err != nil {
		return err
	}

	var exists int
	err := s.db.GetContext(ctx, &exists, s.db.Rebind("SELECT 1 FROM documents WHERE key = ?"), documentKey)
	if err == nil {
		return fmt.Errorf("storage already initialized at %s", s.GetConfigPath())
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}

	return s.Save(ctx, models.NewDocument())
}

func (s *SQLStore) Load(ctx context.Context) (*models.Document, error) {
	if s.kind == KindSQLite && s.db == nil {
		if _, err := os.Stat(s.dsn); os.IsNotExist(err) {
			logger.Debug("No database found, starting empty", "path", s.dsn)
			return models.NewDocument(), nil
		}
	}

	if err := s.open(ctx); err != nil {
		return nil, err
	}

	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind("SELECT value FROM documents WHERE key = ?"), documentKey)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read document: %v", apperrors.ErrStoreUnavailable, err)
	}

	doc, err := models.DecodeDocument([]byte(value))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse document: %v", apperrors.ErrStoreUnavailable, err)
	}
	return doc, nil
}

func (s *SQLStore) Save(ctx context.Context, doc *models.Document) error {
	if err := s.open(ctx); err != nil {
		return err
	}

	data, err := models.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("%w: failed to serialize document: %v", apperrors.ErrStoreUnavailable, err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if _, err := tx.ExecContext(ctx, query, documentKey, string(data), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("%w: failed to write document: %v", apperrors.ErrStoreUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit document: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLStore) GetConfigPath() string {
	if s.kind == KindPostgres {
		// Never expose the connection string
		return "postgresql"
	}
	return s.dsn
}

func (s *SQLStore) Kind() string {
	return s.kind
}

// DB returns the open connection, or nil before the first Load/Save.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

// Migrations returns the schema runner for an open store.
func (s *SQLStore) Migrations() (*migration.Runner, error) {
	if s.db == nil {
		return nil, fmt.Errorf("%w: store is not open", apperrors.ErrStoreUnavailable)
	}
	return s.newRunner(s.db)
}

func (s *SQLStore) newRunner(db *sqlx.DB) (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, s.kind)
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", s.kind, err)
	}
	return migration.NewRunner(db, subFS), nil
}

// open connects and brings the schema up to date on first use.
func (s *SQLStore) open(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if s.kind == KindSQLite {
		if err := os.MkdirAll(filepath.Dir(s.dsn), 0700); err != nil {
			return fmt.Errorf("%w: failed to create config directory: %v", apperrors.ErrStoreUnavailable, err)
		}
	}

	db, err := sqlx.Open(s.driver, s.dsn)
	if err != nil {
		return fmt.Errorf("%w: failed to open database: %v", apperrors.ErrStoreUnavailable, err)
	}

	if s.kind == KindPostgres {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	} else {
		// One writer at a time for the SQLite file
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.dsn) {
			return fmt.Errorf("%w: failed to connect to database: %v (hint: try adding ?sslmode=disable to your connection string)", apperrors.ErrStoreUnavailable, err)
		}
		return fmt.Errorf("%w: failed to connect to database: %v", apperrors.ErrStoreUnavailable, err)
	}

	if s.kind == KindPostgres {
		if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+constants.AppName); err != nil {
			db.Close()
			return fmt.Errorf("%w: failed to create schema: %v", apperrors.ErrStoreUnavailable, err)
		}
	}

	runner, err := s.newRunner(db)
	if err != nil {
		db.Close()
		return err
	}
	if _, err := runner.ApplyMigrations(func(msg string) {
		logger.Info(msg, "store", s.kind)
	}); err != nil {
		db.Close()
		return fmt.Errorf("%w: failed to run migrations: %v", apperrors.ErrStoreUnavailable, err)
	}

	s.db = db
	return nil
}
