// Package cli implements the anyapi command line: catalog queries, upstream
// calls, description imports and token minting, run in-process against the
// same configuration the server reads.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the anyapi CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd constructs the root command so tests can exercise the CLI easily.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anyapi",
		Short: "Call any described REST API through one uniform interface",
		Long: "anyapi lists the registered API descriptions, shows their documentation and makes " +
			"calls through the proxy. Every result is printed as a JSON envelope.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.SetFlagErrorFunc(flagError)

	cmd.PersistentFlags().StringP("config", "c", "", "Config file path (defaults to $ANYAPI_CONFIG_FILE or ./config.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Write debug logs to stderr")

	for _, sub := range []*cobra.Command{
		newListCmd(),
		newDocCmd(),
		newCallCmd(),
		newImportCmd(),
		newTokenCmd(),
	} {
		sub.SetFlagErrorFunc(flagError)
		cmd.AddCommand(sub)
	}

	return cmd
}

// flagError converts cobra flag errors into usage errors carrying the help text.
func flagError(c *cobra.Command, err error) error {
	return newUsageError(fmt.Sprintf("%v\n\n%s", err, c.UsageString()))
}
