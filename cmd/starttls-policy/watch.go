package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"starttls-hq/everywhere/pkg/cli"
	"starttls-hq/everywhere/pkg/config"
	"starttls-hq/everywhere/pkg/policy/watcher"
)

var watchFlags struct {
	mta string
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate MTA configuration whenever the policy changes",
	Long: `Generate MTA configuration, then watch the policy directory and
regenerate whenever the policy list or the overrides document changes,
for example after "starttls-policy update --schedule" replaced it.

Examples:
  starttls-policy watch --mta postfix`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		mta := watchFlags.mta
		if mta == "" {
			mta = cfg.Generate.MTA
		}

		ctx, stop := cli.SetupSignalHandler()
		defer stop()

		if err := runWatch(ctx, cfg, mta, cmd.OutOrStdout()); err != nil {
			return cli.NewCommandError("watch", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.mta, "mta", "", "the MTA to generate a configuration file for (default from config: postfix)")
}

func runWatch(ctx context.Context, cfg *config.Config, mta string, out io.Writer) error {
	tel, err := newTelemetry(cfg)
	if err != nil {
		return err
	}
	defer tel.shutdown()

	if err := tel.serve(cfg); err != nil {
		return err
	}

	if err := runGenerate(cfg, mta, out, tel.metrics); err != nil {
		return err
	}

	files := []string{cfg.Policy.Filename}
	if path := cfg.OverridesPath(); path != "" {
		files = append(files, filepath.Base(path))
	}

	w, err := watcher.New(watcher.Config{
		Dir:      cfg.Policy.Dir,
		Files:    files,
		Debounce: cfg.Generate.Debounce,
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintf(out, "Watching %s for policy changes\n", cfg.Policy.Dir)

	return w.Watch(ctx, func(context.Context) error {
		path, err := generate(cfg, mta, tel.metrics)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Regenerated %s\n", path)
		return nil
	})
}
