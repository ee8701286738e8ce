package backups

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/consistency/internal/cli"
	"github.com/julianstephens/consistency/internal/models"
	"github.com/julianstephens/consistency/internal/storage"
)

func setupTestContext(t *testing.T, file string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	path := filepath.Join(t.TempDir(), file)
	store, err := storage.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return &cli.Context{Store: store, Out: out}, out
}

func saveActivity(t *testing.T, ctx *cli.Context, name string) {
	t.Helper()
	doc, err := ctx.Store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	doc.Activities[name] = models.Activity{Dates: []string{"2024-01-15"}, Longest: 1}
	if err := ctx.Store.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func TestBackupListEmpty(t *testing.T) {
	ctx, out := setupTestContext(t, "data.json")

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestBackupCreateAndRestore(t *testing.T) {
	for _, file := range []string{"data.json", "data.db"} {
		t.Run(file, func(t *testing.T) {
			ctx, out := setupTestContext(t, file)
			saveActivity(t, ctx, "Coding")

			if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
				t.Fatalf("create failed: %v", err)
			}
			if !strings.Contains(out.String(), "Backup created") {
				t.Errorf("unexpected output: %q", out.String())
			}

			out.Reset()
			if err := (&BackupListCmd{}).Run(ctx); err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if !strings.Contains(out.String(), "1 total") {
				t.Errorf("list output: %q", out.String())
			}

			backupDir := filepath.Join(filepath.Dir(ctx.Store.GetConfigPath()), "backups")
			entries, err := os.ReadDir(backupDir)
			if err != nil || len(entries) != 1 {
				t.Fatalf("expected one backup in %s, got %v (%v)", backupDir, entries, err)
			}

			saveActivity(t, ctx, "Reading")

			restore := &BackupRestoreCmd{BackupFile: entries[0].Name(), Yes: true}
			if err := restore.Run(ctx); err != nil {
				t.Fatalf("restore failed: %v", err)
			}

			doc, err := ctx.Store.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() after restore error = %v", err)
			}
			if _, ok := doc.Activities["Reading"]; ok {
				t.Error("restore should drop activities added after the backup")
			}
			if _, ok := doc.Activities["Coding"]; !ok {
				t.Error("restore lost the backed-up activity")
			}
		})
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _ := setupTestContext(t, "data.json")

	err := (&BackupRestoreCmd{BackupFile: "nope.json", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "backup file not found") {
		t.Errorf("error = %v, want not found", err)
	}
}
