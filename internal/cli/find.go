package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var findLimit int

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search tracked pages by title or path",
	Args:  cobra.ExactArgs(1),
	RunE:  runFind,
}

func init() {
	findCmd.Flags().IntVar(&findLimit, "limit", 20, "maximum number of results")
}

func runFind(cmd *cobra.Command, args []string) error {
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

	results, err := e.Find(ctx, args[0], findLimit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, r := range results {
		fmt.Printf("  %-36s %s\n", r.ID, r.Title)
	}
	return nil
}

var historyCmd = &cobra.Command{
	Use:   "history <path>",
	Short: "Show recorded reconciliation decisions for a tracked path",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	e, closeFn, err := buildEngine(cwd)
	if err != nil {
		return err
	}
	defer closeFn()

	entries, err := e.History(args[0])
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no recorded history")
		return nil
	}
	for _, entry := range entries {
		fmt.Printf("  %s  %-10s %s\n", entry.At.Format(time.RFC3339), entry.Action, entry.Details)
	}
	return nil
}
