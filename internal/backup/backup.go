// Package backup keeps rotating snapshots of the habit document next to the
// store. File stores are copied as-is (SQLite through VACUUM INTO); remote
// stores are exported as JSON documents.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/consistency/internal/constants"
	"github.com/julianstephens/consistency/internal/logger"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/storage"
)

const (
	jsonSuffix   = ".json"
	sqliteSuffix = ".db"
)

// backupName matches consistency-YYYYMMDD-HHMMSS[-N].ext
var backupName = regexp.MustCompile(`^` + regexp.QuoteMeta(constants.BackupFilePrefix) + `(\d{8}-\d{6})(?:-\d+)?(\.json|\.db)$`)

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles backup operations for one store.
type Manager struct {
	source    string // store file, empty for remote stores
	kind      string
	backupDir string
	now       func() time.Time
}

// NewManager returns a manager for store. Remote stores keep their backups
// under the default config directory.
func NewManager(store storage.Provider) (*Manager, error) {
	m := &Manager{kind: store.Kind(), now: time.Now}

	switch store.Kind() {
	case storage.KindJSON, storage.KindSQLite:
		m.source = store.GetConfigPath()
		m.backupDir = filepath.Join(filepath.Dir(m.source), constants.BackupDirName)
	default:
		cfg, err := storage.ExpandPath(constants.DefaultConfigPath)
		if err != nil {
			return nil, err
		}
		m.backupDir = filepath.Join(filepath.Dir(cfg), constants.BackupDirName)
	}
	return m, nil
}

// GetBackupDir returns the backup directory path.
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// IsFileStore reports whether backups are byte copies of the store file.
func (m *Manager) IsFileStore() bool {
	return m.source != ""
}

func (m *Manager) suffix() string {
	if m.kind == storage.KindSQLite {
		return sqliteSuffix
	}
	return jsonSuffix
}

// nextPath returns an unused backup path for the current time.
func (m *Manager) nextPath(suffix string) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	stamp := m.now().Format("20060102-150405")
	path := filepath.Join(m.backupDir, constants.BackupFilePrefix+stamp+suffix)
	for counter := 1; ; counter++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if counter > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		path = filepath.Join(m.backupDir, fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, counter, suffix))
	}
}

// CreateBackup copies the store file into the backup directory and rotates
// old backups. For remote stores use Export.
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if !m.IsFileStore() {
		return "", fmt.Errorf("%s stores are backed up with Export", m.kind)
	}
	if _, err := os.Stat(m.source); os.IsNotExist(err) {
		return "", fmt.Errorf("store does not exist: %s", m.source)
	}

	path, err := m.nextPath(m.suffix())
	if err != nil {
		return "", err
	}

	if m.kind == storage.KindSQLite {
		err = vacuumInto(m.source, path)
	} else {
		err = copyFile(m.source, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to back up store: %w", err)
	}

	if !skipRotation {
		m.rotate()
	}
	logger.Info("Backup created", "path", path)
	return path, nil
}

// Export writes doc as a JSON backup. It works for every store kind.
func (m *Manager) Export(doc *models.Document) (string, error) {
	data, err := models.EncodeDocument(doc)
	if err != nil {
		return "", err
	}
	path, err := m.nextPath(jsonSuffix)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	m.rotate()
	logger.Info("Document exported", "path", path)
	return path, nil
}

// ListBackups returns every backup, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := backupName.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		timestamp, err := time.ParseInLocation("20060102-150405", match[1], time.Local)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	slices.SortStableFunc(backups, func(a, b Info) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return strings.Compare(b.Path, a.Path)
	})
	return backups, nil
}

// rotate removes backups beyond the retention limit. Failures are logged.
func (m *Manager) rotate() {
	backups, err := m.ListBackups()
	if err != nil {
		logger.Warn("Failed to list backups for rotation", "error", err)
		return
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			logger.Warn("Failed to remove old backup", "path", backups[i].Path, "error", err)
		}
	}
}

// ReadDocument decodes a backup of either format.
func ReadDocument(ctx context.Context, path string) (*models.Document, error) {
	if strings.HasSuffix(path, sqliteSuffix) {
		store := storage.NewSQLiteStore(path)
		defer store.Close()
		return store.Load(ctx)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return models.DecodeDocument(data)
}

// RestoreBackup replaces the store file with backupPath after backing up the
// current file. The backup must match the store's format.
func (m *Manager) RestoreBackup(ctx context.Context, backupPath string) error {
	if !m.IsFileStore() {
		return fmt.Errorf("%s stores are restored by saving the document from ReadDocument", m.kind)
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if filepath.Ext(backupPath) != m.suffix() {
		return fmt.Errorf("backup %s does not match a %s store", filepath.Base(backupPath), m.kind)
	}
	if _, err := ReadDocument(ctx, backupPath); err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.source); err == nil {
		current, err := m.createBackup(true)
		if err != nil {
			return fmt.Errorf("failed to back up current store before restore: %w", err)
		}
		logger.Info("Backed up current store before restore", "path", current)
	}

	tempPath := m.source + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.source); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("Failed to remove temporary file", "path", tempPath, "error", removeErr)
		}
		return fmt.Errorf("failed to restore store: %w", err)
	}
	return nil
}

// vacuumInto writes a clean copy of the SQLite database at src to dst.
func vacuumInto(src, dst string) error {
	db, err := sqlx.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM sqlite_master"); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		db.Close()
		return copyFile(src, dst)
	}
	return nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := destFile.ReadFrom(sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
