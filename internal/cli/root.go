// Package cli defines the auctiond command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	quiet      bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "auctiond",
	Short: "auctiond - on-ledger auction engine",
	Long: `auctiond runs an on-ledger auction node for uniquely owned digital
assets. It maintains the ledger state machine, applies auction
transactions, and serves a JSON-RPC and WebSocket API.`,
	Version: "0.3.0",
}

// Execute runs the command tree; called by main
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output to console after startup")
}
