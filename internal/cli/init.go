package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/BjoernSchotte/atlcli/internal/reconcile"
	"github.com/BjoernSchotte/atlcli/internal/store"
)

var (
	initSpaceKey          string
	initBaseURL           string
	initProfile           string
	initAutoCreatePages   bool
	initPreserveHierarchy bool
	initDefaultParentID   string
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Start tracking a directory",
	Long: `Create the .atlcli control directory at path (default: the current
directory) and write the initial DirectoryState.

Example:
  atlcli init --space DOCS --base-url https://example.atlassian.net/wiki --profile work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initSpaceKey, "space", "", "remote space key (required)")
	initCmd.Flags().StringVar(&initBaseURL, "base-url", "", "remote base URL (required)")
	initCmd.Flags().StringVar(&initProfile, "profile", "default", "profile name recorded for this directory")
	initCmd.Flags().BoolVar(&initAutoCreatePages, "auto-create", false, "create remote pages for untracked local files on sync")
	initCmd.Flags().BoolVar(&initPreserveHierarchy, "preserve-hierarchy", true, "mirror local directory nesting as remote page hierarchy")
	initCmd.Flags().StringVar(&initDefaultParentID, "default-parent", "", "remote page id new pages are created under by default")

	_ = initCmd.MarkFlagRequired("space")
	_ = initCmd.MarkFlagRequired("base-url")
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	settings := store.Settings{
		AutoCreatePages:   initAutoCreatePages,
		PreserveHierarchy: initPreserveHierarchy,
		DefaultParentID:   initDefaultParentID,
	}

	if _, err := reconcile.Init(root, initSpaceKey, initBaseURL, initProfile, settings); err != nil {
		return err
	}

	fmt.Printf("Initialized tracked directory at %s\n", root)
	fmt.Println("Next steps:")
	fmt.Println("  1. Add a profile for", initProfile, "to your atlcli config (base_url + token)")
	fmt.Println("  2. Run 'atlcli add <file.md>' to start tracking individual files")
	fmt.Println("  3. Run 'atlcli sync' to run the reconciliation daemon")
	return nil
}
