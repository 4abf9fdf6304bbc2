package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"starttls-hq/everywhere/pkg/cli"
	"starttls-hq/everywhere/pkg/config"
	"starttls-hq/everywhere/pkg/render"
	"starttls-hq/everywhere/pkg/telemetry/metrics"
)

var generateFlags struct {
	mta string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate MTA configuration from the policy list",
	Long: `Render the cached policy list into configuration for an MTA and print
the manual steps needed to install it.

The file is written to the policy directory (or generate.output_dir) under
the MTA's default file name, e.g. postfix_tls_policy.

Examples:
  # Generate a Postfix TLS policy map
  starttls-policy generate --mta postfix

  # Use a different policy directory
  starttls-policy generate --mta postfix --policy-dir ./policies`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		mta := generateFlags.mta
		if mta == "" {
			mta = cfg.Generate.MTA
		}
		if err := runGenerate(cfg, mta, cmd.OutOrStdout(), nil); err != nil {
			return cli.NewCommandError("generate", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFlags.mta, "mta", "", "the MTA to generate a configuration file for (default from config: postfix)")
}

// runGenerate renders the policy for mta and writes the manual
// instructions to out. collector may be nil.
func runGenerate(cfg *config.Config, mta string, out io.Writer, collector *metrics.Collector) error {
	path, err := generate(cfg, mta, collector)
	if err != nil {
		return err
	}

	gen, _ := render.Lookup(mta)
	fmt.Fprintln(out, render.ManualInstructions(gen, path))
	return nil
}

// generate renders the policy for mta and returns the written path.
func generate(cfg *config.Config, mta string, collector *metrics.Collector) (path string, err error) {
	gen, err := render.Lookup(mta)
	if err != nil {
		return "", err
	}

	defer func() {
		if collector == nil {
			return
		}
		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		collector.RecordGeneration(gen.Name(), result)
	}()

	if err := os.MkdirAll(cfg.Policy.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create policy directory: %w", err)
	}

	policy, err := loadPolicy(cfg)
	if err != nil {
		return "", err
	}

	path = filepath.Join(cfg.OutputDir(), gen.DefaultFilename())
	if err := render.WriteFile(gen, policy, path); err != nil {
		return "", err
	}

	slog.Info("generated MTA configuration",
		"mta", gen.Name(),
		"path", path,
		"domains", policy.Len(),
	)
	return path, nil
}
