package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/consistency/internal/backup"
	"github.com/julianstephens/consistency/internal/cli"
	"github.com/julianstephens/consistency/internal/storage"
	"github.com/julianstephens/consistency/internal/tracker"
)

type DoctorCmd struct {
	Repair bool `help:"Fix document problems instead of only reporting them."`
}

type check struct {
	name      string
	run       func() error
	warnOnly  bool
	needStore bool
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	var engine *tracker.Engine
	checks := []check{
		{name: "Store reachable", run: func() error {
			var err error
			engine, err = ctx.Engine(context.Background())
			return err
		}},
		{name: "Schema version", needStore: true, run: func() error { return checkSchemaVersion(ctx) }},
		{name: "Backups present", warnOnly: true, run: func() error { return checkBackupsPresent(ctx) }},
		{name: "Document integrity", needStore: true, run: func() error { return cmd.checkDocument(ctx, engine) }},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	hasError := false
	reachable := false
	for i, c := range checks {
		if c.needStore && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run()
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
		if i == 0 {
			reachable = err == nil
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqlStore, ok := ctx.Store.(*storage.SQLStore)
	if !ok || sqlStore.DB() == nil {
		// Document stores have no schema; an absent SQLite file has none yet.
		return nil
	}

	runner, err := sqlStore.Migrations()
	if err != nil {
		return err
	}
	if err := runner.ValidateVersion(); err != nil {
		return err
	}

	current, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind latest %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := backup.NewManager(ctx.Store)
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.GetBackupDir())
	}

	age := time.Since(backups[0].Timestamp)
	if age > 7*24*time.Hour {
		return fmt.Errorf("most recent backup is %d days old", int(age.Hours()/24))
	}
	return nil
}

// checkDocument reports date and streak problems, fixing them with --repair.
func (cmd *DoctorCmd) checkDocument(ctx *cli.Context, engine *tracker.Engine) error {
	if engine == nil {
		return fmt.Errorf("store not loaded")
	}

	if cmd.Repair {
		issues, err := engine.Repair(context.Background())
		if err != nil {
			return err
		}
		for _, issue := range issues {
			ctx.Printf("   fixed %s: %s\n", issue.Activity, issue.Problem)
		}
		return nil
	}

	issues := engine.Check()
	for _, issue := range issues {
		ctx.Printf("   %s: %s\n", issue.Activity, issue.Problem)
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d problem(s) found, run 'consistency doctor --repair' to fix", len(issues))
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock appears wrong: %s", now.Format(time.RFC3339))
	}
	if now.Location() == nil {
		return fmt.Errorf("no local timezone configured")
	}
	return nil
}
