// Command flashdeck is the operator CLI for the flashdeck API: it previews
// how text parses into cards, checks the local AI setup, seeds a sample deck
// and issues development tokens.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/platform/logger"
)

// configLoader returns unvalidated configuration; each command validates the
// sections it needs.
type configLoader func() (*config.Config, error)

func main() {
	if err := newRootCmd(config.Read).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd assembles the command tree.
func newRootCmd(load configLoader) *cobra.Command {
	root := &cobra.Command{
		Use:   "flashdeck",
		Short: "Operator tools for the flashdeck API",
		Long: `flashdeck bundles the tasks that sit next to the API server.

Available commands:
  parse     - Show the cards a block of text turns into
  check-ai  - Verify that Ollama is running and the model is installed
  seed      - Create the "Cities of the Netherlands" sample deck
  token     - Issue a signed access token for local testing`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("log-level", "warn", "log level for diagnostic output (debug, info, warn, error)")

	root.AddCommand(
		newParseCmd(),
		newCheckAICmd(load),
		newSeedCmd(load),
		newTokenCmd(load),
	)
	return root
}

// commandLogger writes JSON logs to the command's stderr at the --log-level
// chosen on the root command.
func commandLogger(cmd *cobra.Command) (*slog.Logger, error) {
	name, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	level, err := logger.ParseLevel(name)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return logger.New(cmd.ErrOrStderr(), level), nil
}
