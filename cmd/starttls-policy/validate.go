package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"starttls-hq/everywhere/pkg/cli"
	"starttls-hq/everywhere/pkg/policy/codec"
	policyErrors "starttls-hq/everywhere/pkg/policy/errors"
)

var validateFlags struct {
	files  []string
	format string
	strict bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate policy list documents",
	Long: `Check policy list documents against the policy schema.

Every document must carry timestamp and expires, reference only pinsets and
policy aliases it defines, and use valid modes and TLS versions. Expired
documents are reported as warnings, or as errors with --strict.

The command exits non-zero if any document is invalid.

Examples:
  # Validate the cached policy
  starttls-policy validate --file /etc/starttls-policy/policy.json

  # Validate several documents and report as JSON
  starttls-policy validate -f policy.json -f overrides.yaml --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := append(validateFlags.files, args...)
		if len(files) == 0 {
			return cli.NewUsageError("file", "at least one file must be specified")
		}

		formatter, err := cli.NewFormatter(cli.OutputFormat(validateFlags.format))
		if err != nil {
			return cli.NewUsageError("format", err.Error())
		}

		report, errs := validateFiles(files, validateFlags.strict, time.Now())
		if err := formatter.FormatTo(cmd.OutOrStdout(), report); err != nil {
			return cli.NewCommandError("validate", err)
		}
		if errs.HasErrors() {
			return &cli.ExitError{Code: 1}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringArrayVarP(&validateFlags.files, "file", "f", nil, "policy document to validate (repeatable)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json, csv")
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "treat expired documents as invalid")
}

// ValidationReport is the result of validating a set of documents.
type ValidationReport struct {
	Valid   bool               `json:"valid"`
	Results []ValidationResult `json:"results"`
}

// ValidationResult is the result for a single document.
type ValidationResult struct {
	File     string     `json:"file"`
	Valid    bool       `json:"valid"`
	Domains  int        `json:"domains,omitempty"`
	Expires  *time.Time `json:"expires,omitempty"`
	Category string     `json:"category,omitempty"`
	Error    string     `json:"error,omitempty"`
	Warning  string     `json:"warning,omitempty"`
}

// validateFiles checks every file and collects failures in an ErrorList.
func validateFiles(files []string, strict bool, now time.Time) (*ValidationReport, *policyErrors.ErrorList) {
	errs := policyErrors.NewErrorList()
	report := &ValidationReport{Results: make([]ValidationResult, 0, len(files))}

	for _, file := range files {
		result := ValidationResult{File: file}

		cfg, err := codec.ReadFile(file)
		if err == nil && cfg.Expired(now) {
			msg := fmt.Sprintf("document expired at %s", cfg.Expires().UTC().Format(time.RFC3339))
			if strict {
				err = policyErrors.InvalidValue("expires", cfg.Expires())
				err = fmt.Errorf("%s: %w", msg, err)
			} else {
				result.Warning = msg
			}
		}

		if err != nil {
			errs.Add(file, err)
			result.Error = err.Error()
			result.Category = category(err)
		} else {
			result.Valid = true
			result.Domains = cfg.Len()
			expires := cfg.Expires()
			result.Expires = &expires
		}
		report.Results = append(report.Results, result)
	}

	report.Valid = !errs.HasErrors()
	return report, errs
}

func category(err error) string {
	var perr *policyErrors.Error
	if errors.As(err, &perr) {
		return string(perr.Type)
	}
	return "io"
}

// Text renders the report for terminals.
func (r *ValidationReport) Text() string {
	var sb strings.Builder
	invalid := 0
	for _, res := range r.Results {
		if res.Valid {
			fmt.Fprintf(&sb, "✓ %s: valid (%d domains)\n", res.File, res.Domains)
			if res.Warning != "" {
				fmt.Fprintf(&sb, "  warning: %s\n", res.Warning)
			}
			continue
		}
		invalid++
		fmt.Fprintf(&sb, "✗ %s: [%s] %s\n", res.File, res.Category, res.Error)
	}
	fmt.Fprintf(&sb, "\n%d file(s) checked, %d invalid", len(r.Results), invalid)
	return sb.String()
}

// Headers implements cli.Tabular.
func (r *ValidationReport) Headers() []string {
	return []string{"file", "valid", "domains", "category", "error", "warning"}
}

// Rows implements cli.Tabular.
func (r *ValidationReport) Rows() [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		rows = append(rows, []string{
			res.File,
			strconv.FormatBool(res.Valid),
			strconv.Itoa(res.Domains),
			res.Category,
			res.Error,
			res.Warning,
		})
	}
	return rows
}
