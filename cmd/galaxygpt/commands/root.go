// ABOUTME: Root CLI command with global flags
// ABOUTME: Wires ask, ingest, mcp, and version subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "galaxygpt",
		Short: "Ask questions about Galaxy using the Galaxypedia",
		Long: `GalaxyGPT answers natural-language questions about Galaxy, a ROBLOX
space game, by retrieving relevant Galaxypedia passages and handing them to a
chat model together with the question.

Ingest a corpus once, then ask away:

  galaxygpt ingest ./pages
  galaxygpt ask "what is the deity?"`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(NewAskCmd())
	cmd.AddCommand(NewIngestCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
