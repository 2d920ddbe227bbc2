// Package cmd contains the admin commands for a ledger node.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the admin command tree.
func NewRootCmd() *cobra.Command {
	var url string

	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "Administer a ledger node",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:5003", "Url of the node.")

	client := func() *Client {
		return NewClient(url)
	}

	rootCmd.AddCommand(
		chainCmd(client),
		mineCmd(client),
		validCmd(client),
		sendCmd(client),
		connectCmd(client),
		resolveCmd(client),
	)

	return rootCmd
}

// Execute runs the admin command tree against the process arguments.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
