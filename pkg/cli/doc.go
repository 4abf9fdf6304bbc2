/*
Package cli provides command-line helpers for the starttls-policy command.

Output Formatting:

Command results can be printed as text, JSON or CSV:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, report); err != nil {
		return err
	}

Values implementing Texter control their text rendering; values implementing
Tabular can be rendered as CSV.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli
