package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/plantops/yield-rewind/internal/config"
	"github.com/plantops/yield-rewind/internal/database"
	"github.com/plantops/yield-rewind/internal/database/syncruns"
	"github.com/plantops/yield-rewind/internal/database/watermarks"
)

// StatusCommand prints the per-dataset watermarks and recent sync runs.
type StatusCommand struct {
	Dataset string
	Limit   int
}

func NewStatusCommand() *StatusCommand {
	return &StatusCommand{}
}

func (cmd *StatusCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)

	fs.StringVar(&cmd.Dataset, "type", "", "Only show runs for this dataset")
	fs.IntVar(&cmd.Limit, "limit", 10, "Number of recent runs to show")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s status [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show sync watermarks and the recent run log.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *StatusCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open local database: %w", err)
	}
	defer db.Close()

	marks, err := watermarks.NewRepository(db.DB).All()
	if err != nil {
		return err
	}

	fmt.Println("=== Watermarks ===")
	if len(marks) == 0 {
		fmt.Println("(no syncs recorded yet)")
	}
	for _, m := range marks {
		cursor := "-"
		if m.LastSyncedDate != nil {
			cursor = *m.LastSyncedDate
		}
		fmt.Printf("%-6s last_synced=%s  status=%-8s records=%d  duration=%dms  at=%s\n",
			m.Dataset, cursor, m.Status, m.RecordsSynced, m.SyncDurationMS,
			m.LastSyncAt.Format(time.RFC3339))
		if m.ErrorMessage != "" {
			fmt.Printf("       error: %s\n", m.ErrorMessage)
		}
	}

	runs, err := syncruns.NewRepository(db.DB).Recent(cmd.Dataset, cmd.Limit)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Recent Runs ===")
	if len(runs) == 0 {
		fmt.Println("(none)")
	}
	for _, r := range runs {
		completed := "running"
		if r.CompletedAt != nil {
			completed = r.CompletedAt.Format(time.RFC3339)
		}
		fmt.Printf("#%-4d %-6s %-11s %s..%s  %-8s fetched=%d inserted=%d updated=%d unchanged=%d  reason=%s  completed=%s\n",
			r.ID, r.Dataset, r.Mode, r.DateRangeStart, r.DateRangeEnd, r.Status,
			r.RecordsFetched, r.RecordsInserted, r.RecordsUpdated, r.RecordsUnchanged,
			r.Reason, completed)
		if r.ErrorMessage != "" {
			fmt.Printf("      error: %s\n", r.ErrorMessage)
		}
	}

	return nil
}
