package backups

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/consistency/internal/backup"
	"github.com/julianstephens/consistency/internal/cli"
	"github.com/julianstephens/consistency/internal/constants"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backup.NewManager(ctx.Store)
	if err != nil {
		return err
	}

	var backupPath string
	if mgr.IsFileStore() {
		backupPath, err = mgr.CreateBackup()
	} else {
		// Remote stores have no file to copy, so export the document instead.
		doc, loadErr := ctx.Store.Load(context.Background())
		if loadErr != nil {
			return loadErr
		}
		backupPath, err = mgr.Export(doc)
	}
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backup.NewManager(ctx.Store)
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		timestamp := b.Timestamp.Format("2006-01-02 15:04:05")
		ctx.Printf("  %s  %s  (%.1f KB)\n", timestamp, filepath.Base(b.Path), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.GetBackupDir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backup.NewManager(ctx.Store)
	if err != nil {
		return err
	}

	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		possiblePath := filepath.Join(mgr.GetBackupDir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Restore from %s?", filepath.Base(backupPath))).
			Description("This replaces your current data. A backup of it is created first.").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if mgr.IsFileStore() {
		if err := ctx.Store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
		}
		if err := mgr.RestoreBackup(context.Background(), backupPath); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
	} else {
		doc, err := backup.ReadDocument(context.Background(), backupPath)
		if err != nil {
			return fmt.Errorf("backup file is corrupted or invalid: %w", err)
		}
		if current, err := ctx.Store.Load(context.Background()); err == nil {
			if _, err := mgr.Export(current); err != nil {
				return fmt.Errorf("failed to back up current data before restore: %w", err)
			}
		}
		if err := ctx.Store.Save(context.Background(), doc); err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
	}

	ctx.Println("✓ Data restored successfully!")
	ctx.Println("Restart any running consistency processes to use the restored data.")
	return nil
}
