/*
Copyright © 2026 sixhats Authors
*/
package cli

import (
	"errors"
	"io/fs"
	"os"

	"sixhats/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags "-X sixhats/internal/cli.Version=...".
var Version = "dev"

var (
	cfgFile string
	verbose bool

	// logger is built once flags are parsed; commands never see nil.
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sixhats",
	Short: "Brainstorm a problem with the Six Thinking Hats",
	Long: `sixhats runs a team of LLM agents, one per Thinking Hat, over a problem.

The White, Red, Black, Yellow and Green hats think in parallel and the
Blue hat turns their perspectives into a single plan.

Examples:
  sixhats run -p "Should we move the team to a four-day week?"
  sixhats run workflow.yaml -p "..."   Run a custom workflow
  sixhats validate workflow.yaml       Validate a workflow file
  sixhats --help                       Show this help message`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sixhats.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
