// Package main provides the entry point for the atlcli tool: bidirectional
// synchronization between a local Markdown directory and a remote wiki.
package main

import (
	"os"

	"github.com/BjoernSchotte/atlcli/internal/cli"
)

// Version information set by build flags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
