package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	addTitle    string
	addParentID string
)

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Start tracking a local Markdown file by creating its remote page",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "remote page title (default: the file's first heading, else its path)")
	addCmd.Flags().StringVar(&addParentID, "parent", "", "remote parent page id (default: the directory's defaultParentId)")
}

var untrackCmd = &cobra.Command{
	Use:   "untrack <page-id>",
	Short: "Stop tracking a page without deleting the local file or the remote page",
	Args:  cobra.ExactArgs(1),
	RunE:  runUntrack,
}

func runAdd(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	e, closeFn, err := buildEngine(cwd)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	r, err := e.Add(ctx, args[0], addTitle, addParentID)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s (page %s)\n", r.Action, r.Path, r.ID)
	return nil
}

func runUntrack(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	e, closeFn, err := buildEngine(cwd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := e.Untrack(args[0]); err != nil {
		return err
	}
	fmt.Printf("untracked page %s\n", args[0])
	return nil
}
