package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"starttls-hq/everywhere/pkg/cli"
	"starttls-hq/everywhere/pkg/policy/codec"
	"starttls-hq/everywhere/pkg/policy/model"
)

var mergeFlags struct {
	base    string
	overlay string
	output  string
	replace bool
	indent  bool
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Combine two policy list documents",
	Long: `Combine a base document with an overlay document.

By default the documents are merged: fields the overlay leaves unset keep
their base value, and maps and lists present in both are combined, so
overlay domains are added to the base domains. With --replace the overlay
replaces the base wholesale and base-only fields are dropped.

Examples:
  # Add local domains to the published list
  starttls-policy merge --base policy.json --overlay local.json -o merged.json

  # Apply a full update
  starttls-policy merge --base old.json --overlay new.json --replace`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mergeFlags.base == "" || mergeFlags.overlay == "" {
			return cli.NewUsageError("base", "both --base and --overlay must be specified")
		}

		out := cmd.OutOrStdout()
		if mergeFlags.output != "" && mergeFlags.output != "-" {
			f, err := os.Create(mergeFlags.output)
			if err != nil {
				return cli.NewCommandError("merge", err)
			}
			defer f.Close()
			out = f
		}

		if err := runMerge(mergeFlags.base, mergeFlags.overlay, mergeFlags.replace, mergeFlags.indent, out); err != nil {
			return cli.NewCommandError("merge", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeFlags.base, "base", "", "base policy document")
	mergeCmd.Flags().StringVar(&mergeFlags.overlay, "overlay", "", "document applied on top of the base")
	mergeCmd.Flags().StringVarP(&mergeFlags.output, "output", "o", "-", "output file (- for stdout)")
	mergeCmd.Flags().BoolVar(&mergeFlags.replace, "replace", false, "replace instead of merge")
	mergeCmd.Flags().BoolVar(&mergeFlags.indent, "indent", false, "indent the JSON output")
}

func runMerge(basePath, overlayPath string, replace, indent bool, out io.Writer) error {
	base, err := codec.ReadFile(basePath)
	if err != nil {
		return fmt.Errorf("failed to load base %s: %w", basePath, err)
	}
	overlay, err := codec.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("failed to load overlay %s: %w", overlayPath, err)
	}

	var combined *model.Config
	if replace {
		combined, err = base.Update(overlay)
	} else {
		combined, err = base.Merge(overlay)
	}
	if err != nil {
		return err
	}

	var data []byte
	if indent {
		data, err = codec.SerializeIndent(combined, "  ")
	} else {
		data, err = codec.Serialize(combined)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, string(data))
	return err
}
