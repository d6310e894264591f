package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	pushScope string
	pushAll   bool
)

var pushCmd = &cobra.Command{
	Use:   "push [page-id]",
	Short: "Write the local copy of a tracked page (or every changed page) to the remote",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPush,
}

func init() {
	pushCmd.Flags().StringVar(&pushScope, "scope", "", "limit --all to pages recorded under this remote space")
	pushCmd.Flags().BoolVar(&pushAll, "all", false, "push every tracked page whose fingerprint has changed")
}

func runPush(cmd *cobra.Command, args []string) error {
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

	if pushAll {
		results, err := e.PushAll(ctx, pushScope)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Printf("  %-18s %s (version %d)\n", r.Action, r.Path, r.Version)
		}
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("push requires a page id, or --all with an optional --scope")
	}
	r, err := e.Push(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s: %s (version %d)\n", r.Action, r.Path, r.Version)
	if r.Conflict {
		fmt.Println("conflict markers written; resolve with 'atlcli resolve' before pushing again")
	}
	return nil
}
