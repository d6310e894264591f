package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/BjoernSchotte/atlcli/internal/store"
)

var statusShowAll bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync state of every tracked page",
	Long: `Show the current sync status of every tracked page, without contacting
the remote.

Example output:
  Synced:             152 pages
  Local-modified:       5 pages
  Remote-modified:      2 pages
  Conflict:             1 page`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusShowAll, "all", "a", false, "list every page, not just the summary counts")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	e, closeFn, err := buildEngine(cwd)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reports, err := e.Status(ctx)
	if err != nil {
		return err
	}

	counts := map[store.SyncState]int{}
	for _, r := range reports {
		counts[r.SyncState]++
	}

	fmt.Printf("Sync status for: %s\n\n", e.Root)
	printStatusLine("Synced", counts[store.StateSynced])
	printStatusLine("Local-modified", counts[store.StateLocalModified])
	printStatusLine("Remote-modified", counts[store.StateRemoteModified])
	printStatusLine("Conflict", counts[store.StateConflict])

	if statusShowAll {
		fmt.Println()
		for _, r := range reports {
			synced := "never"
			if !r.LastSyncedAt.IsZero() {
				synced = humanize.Time(r.LastSyncedAt)
			}
			fmt.Printf("  %-16s %-40s %-36s synced %s\n", r.SyncState, r.Path, r.ID, synced)
		}
	}
	return nil
}

var stateColor = map[store.SyncState]*color.Color{
	store.StateSynced:         color.New(color.FgGreen),
	store.StateLocalModified:  color.New(color.FgYellow),
	store.StateRemoteModified: color.New(color.FgYellow),
	store.StateConflict:       color.New(color.FgRed),
}

func printStatusLine(label string, count int) {
	noun := "pages"
	if count == 1 {
		noun = "page"
	}
	line := fmt.Sprintf("  %-18s %4d %s\n", label+":", count, noun)
	if c, ok := stateColor[store.SyncState(strings.ToLower(strings.ReplaceAll(label, " ", "-")))]; ok && count > 0 {
		c.Print(line)
		return
	}
	fmt.Print(line)
}
