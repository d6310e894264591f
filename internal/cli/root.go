// Package cli implements the Cobra-based command-line interface for atlcli.
//
// The CLI provides commands for initializing a tracked directory, pulling
// and pushing pages, checking status, running the reconciliation daemon,
// resolving conflicts, and searching tracked pages.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BjoernSchotte/atlcli/internal/config"
	"github.com/BjoernSchotte/atlcli/internal/index"
	"github.com/BjoernSchotte/atlcli/internal/metrics"
	"github.com/BjoernSchotte/atlcli/internal/reconcile"
	"github.com/BjoernSchotte/atlcli/internal/remote"
	"github.com/BjoernSchotte/atlcli/internal/remote/notionstore"
	"github.com/BjoernSchotte/atlcli/internal/store"
)

var (
	// Version information set at build time.
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags.
	cfgFile     string
	profileName string
	verbose     bool
	dryRun      bool

	// Loaded configuration.
	cfg *config.Config
)

// SetVersion sets the version information for the CLI.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

var rootCmd = &cobra.Command{
	Use:   "atlcli",
	Short: "Bidirectional sync between a local Markdown directory and a remote wiki",
	Long: `atlcli keeps a local Markdown directory in lockstep with a hierarchical
remote wiki backend.

Use 'atlcli init' to start tracking a directory, 'atlcli add' to start
tracking an individual file, then 'atlcli push' and 'atlcli pull' to
exchange changes, or 'atlcli sync' to run the reconciliation daemon.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil && verbose {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .atlcli.yaml or $HOME/.config/atlcli/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "remote profile to use (default: the config's default_profile)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "plan without writing to disk, the state store, or the remote")

	rootCmd.SetVersionTemplate(fmt.Sprintf("atlcli %s (commit: %s, built: %s)\n", version, commit, date))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(untrackCmd)
}

// ErrNoConfig is returned when no configuration is available.
var ErrNoConfig = fmt.Errorf("no configuration found - run 'atlcli init' first and set up a profile")

func getConfig() (*config.Config, error) {
	if cfg == nil {
		return nil, ErrNoConfig
	}
	return cfg, nil
}

// indexPath is the secondary cache's location under a tracked root.
func indexPath(root string) string {
	return root + "/" + store.ControlDir + "/index.db"
}

// buildEngine opens the tracked root at cwd (or an ancestor of it) and
// wires a reconciliation Engine against the configured remote profile.
func buildEngine(cwd string) (*reconcile.Engine, func(), error) {
	root, ok := store.Locate(cwd)
	if !ok {
		return nil, nil, fmt.Errorf("%s is not inside an atlcli-tracked directory", cwd)
	}
	st := store.Open(root)
	ds, err := st.ReadState()
	if err != nil {
		return nil, nil, err
	}

	c, err := getConfig()
	if err != nil {
		return nil, nil, err
	}
	profile, err := c.Profile(profileName)
	if err != nil {
		profile, err = c.Profile(ds.Profile)
		if err != nil {
			return nil, nil, err
		}
	}

	var rs remote.Store
	if profile.RateLimit > 0 {
		rs = notionstore.New(profile.Token, notionstore.WithRateLimit(profile.RateLimit))
	} else {
		rs = notionstore.New(profile.Token)
	}

	idx, err := index.Open(indexPath(root))
	if err != nil {
		return nil, nil, fmt.Errorf("open secondary cache: %w", err)
	}
	closeFn := func() { idx.Close() }

	e := reconcile.New(root, st, rs, idx, c.Daemon.Ignore)
	e.DryRun = dryRun
	e.Metrics = metrics.New()
	return e, closeFn, nil
}
