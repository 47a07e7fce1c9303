package commands

import (
	"fmt"

	"github.com/leapstack-labs/synkit/internal/cli/output"
	"github.com/leapstack-labs/synkit/internal/inspect"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Path        string // File or directory path
	Format      string // Output format: text, json
	MaxFindings int    // Cap on rendered findings, 0 = unlimited
}

// FindingsError reports that a check run found problems. It exists so the
// process can exit differently for findings than for operational failures.
type FindingsError struct {
	Count int
}

func (e *FindingsError) Error() string {
	if e.Count == 1 {
		return "1 finding"
	}
	return fmt.Sprintf("%d findings", e.Count)
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Report directive and parse problems",
		Long: `Scan Go sources and report everything that would break a generator run:
files that fail to parse, malformed directive arguments in the configured
namespace, and directive arguments that should be identifiers but are not.

Exits non-zero when findings exist, so it slots into CI pipelines.`,
		Example: `  # Check the configured source directory
  synkit check

  # Check a specific path
  synkit check ./api

  # Machine-readable findings
  synkit check --format json

  # Show at most ten findings
  synkit check --max-findings 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().IntVar(&opts.MaxFindings, "max-findings", 0, "Cap on rendered findings (0 = unlimited)")

	return cmd
}

// checkOutput is the JSON shape of a check run.
type checkOutput struct {
	Summary checkSummary `json:"summary"`
	Files   []checkFile  `json:"files,omitempty"`
}

type checkSummary struct {
	FilesChecked int `json:"files_checked"`
	Findings     int `json:"findings"`
}

type checkFile struct {
	Path     string            `json:"path"`
	Findings []inspect.Finding `json:"findings"`
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	dir := cmdCtx.SourceDir(opts.Path)
	report, err := cmdCtx.NewInspector().InspectDir(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("check %s: %w", dir, err)
	}

	total := report.FindingCount()
	if r.EffectiveMode() == output.ModeJSON {
		out := checkOutput{
			Summary: checkSummary{FilesChecked: len(report.Files), Findings: total},
		}
		for _, f := range report.Files {
			if len(f.Findings) == 0 {
				continue
			}
			out.Files = append(out.Files, checkFile{Path: f.Path, Findings: f.Findings})
		}
		if err := r.JSON(out); err != nil {
			return err
		}
	} else {
		renderCheckResults(r, report, opts.MaxFindings, cmdCtx.Cfg.Quiet)
	}

	if total > 0 {
		return &FindingsError{Count: total}
	}
	return nil
}

func renderCheckResults(r *output.Renderer, report *inspect.Report, maxFindings int, quiet bool) {
	total := report.FindingCount()
	if total == 0 {
		if !quiet {
			r.Success("No findings")
		}
		return
	}

	type located struct {
		path    string
		finding inspect.Finding
	}
	var all []located
	files := 0
	for _, f := range report.Files {
		if len(f.Findings) == 0 {
			continue
		}
		files++
		for _, fd := range f.Findings {
			all = append(all, located{path: f.Path, finding: fd})
		}
	}

	shown := all
	if maxFindings > 0 && len(all) > maxFindings {
		shown = all[:maxFindings]
	}
	for _, lf := range shown {
		renderFinding(r, lf.path, lf.finding)
	}
	if len(shown) < len(all) {
		r.Muted(fmt.Sprintf("  ... and %d more", len(all)-len(shown)))
	}

	r.Println("")
	r.Printf("Summary: %d findings in %d files\n", total, files)
}

// renderFinding prints one path:line:col message line. Findings without a
// position fall back to the file path.
func renderFinding(r *output.Renderer, path string, f inspect.Finding) {
	loc := f.Pos
	if loc == "" {
		loc = path
	}
	r.Printf("  %s  %s\n", r.Styles().Path.Render(loc), f.Message)
}
