package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/synkit/internal/cli/output"
	"github.com/leapstack-labs/synkit/internal/inspect"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const formatYAML = "yaml"

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Path   string // File or directory path
	Format string // Output format: text, markdown, json, yaml
	Watch  bool   // Re-inspect when sources change
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: "Inspect annotated types in a source tree",
		Long: `Parse Go sources and report every type declaration: its field shape,
wrapper analysis (Option, Vec, pointers, slices), and directive comments.

Output adapts to environment:
  - Terminal: Styled tables
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable report`,
		Example: `  # Inspect the configured source directory
  synkit inspect

  # Inspect a specific path
  synkit inspect ./api

  # Machine-readable report
  synkit inspect --format json

  # Re-render on every source change
  synkit inspect --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Path = args[0]
			}
			return runInspect(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-inspect when source files change")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *InspectOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	// Override renderer if format flag is set. YAML is local to this
	// command and handled in renderReport.
	if opts.Format != "" && opts.Format != formatYAML {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	dir := cmdCtx.SourceDir(opts.Path)
	ins := cmdCtx.NewInspector()

	if opts.Watch {
		w := &inspect.Watcher{
			Dir:       dir,
			Inspector: ins,
			Logger:    cmdCtx.Logger,
			OnReport: func(rep *inspect.Report) {
				_ = renderReport(r, rep, opts.Format)
			},
		}
		return w.Run(cmd.Context())
	}

	report, err := ins.InspectDir(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", dir, err)
	}
	return renderReport(r, report, opts.Format)
}

func renderReport(r *output.Renderer, rep *inspect.Report, format string) error {
	if format == formatYAML {
		data, err := yaml.Marshal(rep)
		if err != nil {
			return err
		}
		r.Printf("%s", data)
		return nil
	}
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(rep)
	}

	for _, f := range rep.Files {
		if len(f.Types) == 0 && len(f.Findings) == 0 {
			continue
		}
		r.Println(r.Styles().Path.Render(f.Path))
		for _, tr := range f.Types {
			renderType(r, tr)
		}
		r.Println("")
	}

	if rep.FindingCount() > 0 {
		r.Println(r.Styles().Bold.Render("Findings:"))
		for _, f := range rep.Files {
			for _, fd := range f.Findings {
				renderFinding(r, f.Path, fd)
			}
		}
		r.Println("")
	}

	r.Printf("%d types in %d files, %d findings\n",
		rep.TypeCount(), len(rep.Files), rep.FindingCount())
	return nil
}

func renderType(r *output.Renderer, tr inspect.TypeReport) {
	title := r.Styles().Bold.Render(tr.Name)
	if tr.Shape != "" {
		title += " " + r.Styles().Muted.Render(tr.Shape)
	}
	r.Printf("  %s\n", title)

	if tr.Doc != "" {
		r.Printf("    %s\n", r.Styles().Muted.Render(docSummary(tr.Doc)))
	}

	for _, d := range tr.Directives {
		text := fmt.Sprintf("//%s:%s", d.Namespace, d.Name)
		if d.Args != "" {
			text += " " + d.Args
		}
		r.Printf("    %s\n", r.Styles().Info.Render(text))
	}

	if len(tr.Fields) == 0 {
		return
	}
	t := r.NewTable("Field", "Type", "Wrapper", "Inner", "Mode")
	for _, f := range tr.Fields {
		t.AppendRow(table.Row{f.Name, f.Type, f.Wrapper, f.Inner, fieldMode(f)})
	}
	r.RenderTable(t)
}

// docSummary returns the first line of a doc comment.
func docSummary(doc string) string {
	if i := strings.Index(doc, "\n"); i >= 0 {
		return doc[:i]
	}
	return doc
}

// fieldMode summarizes the wrapper analysis flags for the table.
func fieldMode(f inspect.FieldReport) string {
	switch {
	case f.Optional:
		return "optional"
	case f.Repeated:
		return "repeated"
	case f.Embedded:
		return "embedded"
	}
	return ""
}
