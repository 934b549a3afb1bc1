package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/plantops/yield-rewind/internal/config"
	"github.com/plantops/yield-rewind/internal/database"
	"github.com/plantops/yield-rewind/internal/entities"
	"github.com/plantops/yield-rewind/internal/planner"
	"github.com/plantops/yield-rewind/internal/remote"
	"github.com/plantops/yield-rewind/internal/syncer"
)

// SyncCommand runs one sync invocation from the command line.
type SyncCommand struct {
	Type       string
	Mode       string
	PriorMonth bool
	Reason     string
	StartDate  string
	EndDate    string
}

func NewSyncCommand() *SyncCommand {
	return &SyncCommand{}
}

func (cmd *SyncCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)

	fs.StringVar(&cmd.Type, "type", "all", "Dataset to sync: yield, sales, tank or all")
	fs.StringVar(&cmd.Mode, "mode", "incremental", "Sync mode: full, incremental or windowed")
	fs.BoolVar(&cmd.PriorMonth, "prior-month", false, "Refresh prior month data (shortcut for -mode windowed)")
	fs.StringVar(&cmd.Reason, "reason", "manual", "Reason tag recorded in the sync log")
	fs.StringVar(&cmd.StartDate, "start-date", "", "Override start date (YYYY-MM-DD, requires -end-date)")
	fs.StringVar(&cmd.EndDate, "end-date", "", "Override end date (YYYY-MM-DD, requires -start-date)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sync [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Sync data from the remote source into the local reporting database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Incremental sync of everything since the last run:\n")
		fmt.Fprintf(os.Stderr, "  %s sync\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Full resync of yield data:\n")
		fmt.Fprintf(os.Stderr, "  %s sync -type yield -mode full\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Re-pull last month after upstream corrections:\n")
		fmt.Fprintf(os.Stderr, "  %s sync -prior-month -reason manual_mtd\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.PriorMonth {
		cmd.Mode = string(entities.SyncModeWindowed)
	}
	switch entities.SyncMode(cmd.Mode) {
	case entities.SyncModeFull, entities.SyncModeIncremental, entities.SyncModeWindowed:
	default:
		return fmt.Errorf("unknown mode %q", cmd.Mode)
	}
	if (cmd.StartDate == "") != (cmd.EndDate == "") {
		return fmt.Errorf("-start-date and -end-date must be given together")
	}

	return nil
}

func (cmd *SyncCommand) Run() error {
	cfg := config.NewConfig()

	datasets, err := entities.ParseDataset(cmd.Type)
	if err != nil {
		return err
	}

	var override *planner.Range
	if cmd.StartDate != "" {
		rng, err := planner.ParseRange(cmd.StartDate, cmd.EndDate)
		if err != nil {
			return err
		}
		override = &rng
	}

	epoch, err := time.Parse(entities.DateLayout, cfg.Sync.Epoch)
	if err != nil {
		return fmt.Errorf("invalid SYNC_EPOCH %q: %w", cfg.Sync.Epoch, err)
	}

	fmt.Printf("Starting sync: type=%s, mode=%s, reason=%s\n", cmd.Type, cmd.Mode, cmd.Reason)
	fmt.Printf("Local DB: %s\n", cfg.Database.Path)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open local database: %w", err)
	}
	defer db.Close()

	client, err := remote.NewClient(cfg.Remote)
	if err != nil {
		return err
	}
	defer client.Close()

	engine := syncer.NewEngine(db.DB, client, epoch)

	results, err := engine.SyncAll(context.Background(), datasets, entities.SyncMode(cmd.Mode), cmd.Reason, override)

	fmt.Println("\n=== Sync Summary ===")
	for _, r := range results {
		if r.Skipped {
			fmt.Printf("%-6s skipped (nothing to sync)\n", r.Dataset)
			continue
		}
		fmt.Printf("%-6s %-8s %s..%s  fetched=%d inserted=%d updated=%d unchanged=%d  (%v)\n",
			r.Dataset, r.Status, r.RangeStart, r.RangeEnd,
			r.Counters.Fetched, r.Counters.Inserted, r.Counters.Updated, r.Counters.Unchanged,
			r.Duration.Round(time.Millisecond))
		for _, day := range r.FailedDays {
			fmt.Printf("       failed: %s\n", day)
		}
	}

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	fmt.Println("\nAll syncs completed successfully")
	return nil
}
