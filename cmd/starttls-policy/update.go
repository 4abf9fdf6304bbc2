package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"starttls-hq/everywhere/pkg/cli"
	"starttls-hq/everywhere/pkg/config"
	"starttls-hq/everywhere/pkg/policy/update"
	"starttls-hq/everywhere/pkg/telemetry/health"
)

var updateFlags struct {
	schedule bool
	cron     string
	source   string
	url      string
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh the local policy list from its published source",
	Long: `Fetch the published policy list and replace the cached copy when the
published one has a newer timestamp. A missing or unreadable cache is
always replaced.

With --schedule the command keeps running and refreshes on the configured
cron schedule, serving metrics and health endpoints if enabled.

Examples:
  # Refresh once
  starttls-policy update

  # Refresh every six hours
  starttls-policy update --schedule

  # Refresh hourly from a mirror
  starttls-policy update --schedule --cron "0 * * * *" --url https://mirror.example/policy.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if updateFlags.source != "" {
			cfg.Update.Source = updateFlags.source
		}
		if updateFlags.url != "" {
			cfg.Policy.RemoteURL = updateFlags.url
		}
		if updateFlags.cron != "" {
			cfg.Update.Schedule = updateFlags.cron
		}

		ctx, stop := cli.SetupSignalHandler()
		defer stop()

		if err := runUpdate(ctx, cfg, updateFlags.schedule, cmd.OutOrStdout()); err != nil {
			return cli.NewCommandError("update", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVar(&updateFlags.schedule, "schedule", false, "keep running and refresh on the cron schedule")
	updateCmd.Flags().StringVar(&updateFlags.cron, "cron", "", "override update.schedule (standard cron expression)")
	updateCmd.Flags().StringVar(&updateFlags.source, "source", "", "override update.source (http, git)")
	updateCmd.Flags().StringVar(&updateFlags.url, "url", "", "override policy.remote_url")
}

func runUpdate(ctx context.Context, cfg *config.Config, scheduled bool, out io.Writer) error {
	fetcher, err := update.NewFetcher(cfg)
	if err != nil {
		return err
	}

	tel, err := newTelemetry(cfg)
	if err != nil {
		return err
	}
	defer tel.shutdown()

	opts := []update.Option{
		update.WithMetrics(tel.metrics),
		update.WithTracer(tel.tracer.Tracer()),
	}

	var history *update.History
	if cfg.History.Enabled {
		history, err = update.OpenHistory(&cfg.History)
		if err != nil {
			return err
		}
		defer history.Close()
		opts = append(opts, update.WithHistory(history))
	}

	updater := update.NewUpdater(fetcher, cfg.PolicyPath(), opts...)

	if !scheduled {
		result, err := updater.Update(ctx)
		if err != nil {
			return err
		}
		printResult(out, cfg.PolicyPath(), result)
		return nil
	}

	tel.health.RegisterCheck("policy", health.PolicyCheck(cfg.PolicyPath(), time.Now))
	tel.health.RegisterCheck("freshness", health.FreshnessCheck(lastSuccess(updater, history), cfg.Telemetry.Health.MaxStaleness, time.Now))
	if err := tel.serve(cfg); err != nil {
		return err
	}

	scheduler := update.NewScheduler(updater, cfg.Update.Schedule)
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	scheduler.RunNow(ctx)
	if next := scheduler.NextRun(); next != nil {
		slog.Info("next policy update scheduled", "at", next.Format(time.RFC3339))
	}

	<-ctx.Done()
	fmt.Fprintln(out, "Stopping scheduled updates")
	return nil
}

// lastSuccess prefers the persistent history and falls back to the
// in-process result.
func lastSuccess(updater *update.Updater, history *update.History) func(context.Context) (time.Time, bool, error) {
	return func(ctx context.Context) (time.Time, bool, error) {
		if history != nil {
			return history.LastSuccess(ctx)
		}
		last := updater.Last()
		if last == nil {
			return time.Time{}, false, nil
		}
		return last.StartedAt, true, nil
	}
}

func printResult(out io.Writer, path string, result *update.Result) {
	if result.Replaced {
		fmt.Fprintf(out, "✓ Policy updated: %s (timestamp %s, %d domains)\n",
			path, result.RemoteTimestamp.UTC().Format(time.RFC3339), result.Domains)
		return
	}
	fmt.Fprintf(out, "✓ Policy up to date: %s (timestamp %s)\n",
		path, result.LocalTimestamp.UTC().Format(time.RFC3339))
}
