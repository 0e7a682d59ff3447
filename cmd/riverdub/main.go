// Command riverdub runs the RiverDub media catalog: the HTTP server, an offline
// catalog search and admin tooling.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/riverdub/riverdub/internal/config"
	logpkg "github.com/riverdub/riverdub/internal/logger"
	"github.com/riverdub/riverdub/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootFlags are shared by every subcommand.
type rootFlags struct {
	env        string
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "riverdub",
		Short:         "RiverDub media catalog",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&flags.env, "env", config.GetEnv(), "environment: local, dev, prod (selects config/<env>.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "explicit config file (overrides --env lookup)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(
		newServeCmd(flags),
		newSearchCmd(flags),
		newHashPasswordCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the build version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
			},
		},
	)
	return rootCmd
}

// load reads the configuration and builds the logger.
func (f *rootFlags) load() (config.Config, *zap.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load(f.env)
	}
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}

	level := cfg.Logging.Level
	if f.logLevel != "" {
		level = f.logLevel
	}
	logger, err := logpkg.NewLogger(f.env, level)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
