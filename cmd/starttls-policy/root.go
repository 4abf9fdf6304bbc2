package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"starttls-hq/everywhere/pkg/cli"
	"starttls-hq/everywhere/pkg/config"
	"starttls-hq/everywhere/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	policyDir string
)

var rootCmd = &cobra.Command{
	Use:   "starttls-policy",
	Short: "STARTTLS Everywhere policy list tool",
	Long: `starttls-policy validates, updates and applies the STARTTLS Everywhere
policy list: per-domain rules requiring mail servers to use TLS, optionally
with a minimum TLS version, an MX host allow-list and key pinning.

The list is cached in the policy directory, refreshed from a published
source only when the published copy is newer, and rendered into MTA
configuration (currently Postfix).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&policyDir, "policy-dir", config.DefaultPolicyDir, "policy file directory on this computer")
}

// loadConfig loads the configuration, applies global flag overrides and
// installs the default logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, cli.NewConfigError(cfgFile, err)
	}
	cfg := config.GetConfig()

	if cmd.Flags().Changed("policy-dir") {
		cfg.Policy.Dir = policyDir
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := setupLogging(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err)
	}
	slog.SetDefault(logger.Slog())
	return nil
}
