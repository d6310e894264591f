package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	pullForce bool
	pullScope string
	pullAll   bool
)

var pullCmd = &cobra.Command{
	Use:   "pull [page-id]",
	Short: "Fetch a page (or every page in scope) from the remote",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPull,
}

func init() {
	pullCmd.Flags().BoolVar(&pullForce, "force", false, "overwrite a locally diverged file")
	pullCmd.Flags().StringVar(&pullScope, "scope", "", "remote scope to enumerate with --all")
	pullCmd.Flags().BoolVar(&pullAll, "all", false, "pull every page currently in scope")
}

func runPull(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	e, closeFn, err := buildEngine(cwd)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if pullAll {
		results, err := e.PullAll(ctx, pullScope, pullForce)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("  %-18s %s\n", r.Action, r.Path)
		}
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("pull requires a page id, or --all with --scope")
	}
	r, err := e.Pull(ctx, args[0], pullForce)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", r.Action, r.Path)
	return nil
}
