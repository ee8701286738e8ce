package system

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/consistency/internal/cli"
	"github.com/julianstephens/consistency/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Delete an existing store file before initialization."`
	Source string `help:"Store path or connection string to copy existing data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	kind := ctx.Store.Kind()
	isFile := kind == storage.KindJSON || kind == storage.KindSQLite

	if c.Force {
		if !isFile {
			return fmt.Errorf("--force is only supported for file stores, not %s", kind)
		}
		path := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absPath, _ := filepath.Abs(path)
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == absPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", path)
			}
		}
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(context.Background()); err != nil {
		return err
	}
	ctx.Printf("Initialized consistency storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		n, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Copied %d activities.\n", n)
	}
	return nil
}

// copyFrom loads the whole document from the source store and saves it into
// the destination.
func (c *InitCmd) copyFrom(ctx *cli.Context) (int, error) {
	source, err := storage.Open(c.Source)
	if err != nil {
		return 0, err
	}
	defer source.Close()

	doc, err := source.Load(context.Background())
	if err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	if err := ctx.Store.Save(context.Background(), doc); err != nil {
		return 0, fmt.Errorf("failed to save to destination: %w", err)
	}
	return len(doc.Activities), nil
}
