package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/BjoernSchotte/atlcli/internal/merge"
)

var resolveMerged bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <page-id> <local|remote>",
	Short: "Resolve a page's recorded conflict",
	Long: `Strip the conflict markers left in a conflicted page's tracked file,
keeping either the local or the remote side.

With --merged, the file is assumed to already be hand-edited into its final
form; resolve only clears the recorded conflict state.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveMerged, "merged", false, "the file was already hand-resolved; just clear the conflict state")
}

func runResolve(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	e, closeFn, err := buildEngine(cwd)
	if err != nil {
		return err
	}
	defer closeFn()

	var accept merge.Accept
	if !resolveMerged {
		if len(args) != 2 {
			return fmt.Errorf("resolve requires <local|remote> unless --merged is set")
		}
		switch args[1] {
		case "local":
			accept = merge.AcceptLocal
		case "remote":
			accept = merge.AcceptRemote
		default:
			return fmt.Errorf("unknown side %q: want local or remote", args[1])
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := e.Resolve(ctx, args[0], accept, resolveMerged); err != nil {
		return err
	}
	fmt.Printf("resolved page %s; push when ready\n", args[0])
	return nil
}
