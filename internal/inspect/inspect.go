// Package inspect analyzes directories of annotated Go source and reports
// every type declaration: its field shape, per-field wrapper analysis, and
// its directives. It is the reference consumer of pkg/derive, pkg/typexpr,
// and pkg/directive; the check command turns its findings into lint-style
// output.
package inspect

import (
	"context"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/synkit/pkg/derive"
	"github.com/leapstack-labs/synkit/pkg/diag"
	"github.com/leapstack-labs/synkit/pkg/directive"
	"github.com/leapstack-labs/synkit/pkg/typexpr"
)

// Config holds inspector settings.
type Config struct {
	// Namespace filters directives to one namespace; empty scans all.
	Namespace string
	// Wrappers are extra single-argument wrapper names recognized beyond
	// Option and Vec.
	Wrappers []string
	// IncludeTests inspects _test.go files as well.
	IncludeTests bool
	// Logger is optional; nil discards.
	Logger *slog.Logger
}

// Inspector analyzes Go source trees.
type Inspector struct {
	namespace    string
	wrappers     []string
	includeTests bool
	logger       *slog.Logger
}

// New creates an Inspector.
func New(cfg Config) *Inspector {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	wrappers := []string{typexpr.WrapperOption, typexpr.WrapperVec}
	wrappers = append(wrappers, cfg.Wrappers...)
	return &Inspector{
		namespace:    cfg.Namespace,
		wrappers:     wrappers,
		includeTests: cfg.IncludeTests,
		logger:       logger,
	}
}

// InspectDir walks dir recursively and inspects every Go file, skipping
// hidden, underscore-prefixed, vendor, and testdata entries. Files are
// inspected concurrently; the report lists them sorted by path.
func (ins *Inspector) InspectDir(ctx context.Context, dir string) (*Report, error) {
	paths, err := ins.listFiles(dir)
	if err != nil {
		return nil, err
	}
	ins.logger.Debug("inspecting directory", "dir", dir, "files", len(paths))

	files := make([]*FileReport, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fr, err := ins.InspectFile(ctx, path)
			if err != nil {
				return err
			}
			files[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return &Report{Root: dir, Files: files}, nil
}

// InspectFile inspects a single file from disk.
func (ins *Inspector) InspectFile(ctx context.Context, path string) (*FileReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ins.InspectSource(path, nil)
}

// InspectSource inspects a file given as source text; src may be nil to
// read from disk. Parse failures become findings, not errors: one bad file
// must not sink a directory run.
func (ins *Inspector) InspectSource(path string, src any) (*FileReport, error) {
	fr := &FileReport{Path: path}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		if list, ok := err.(scanner.ErrorList); ok {
			for _, e := range list {
				fr.Findings = append(fr.Findings, NewFinding(diag.New(e.Pos, e.Msg)))
			}
			return fr, nil
		}
		return nil, err
	}

	for _, d := range file.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, s := range gd.Specs {
			ts, ok := s.(*ast.TypeSpec)
			if !ok {
				continue
			}
			tr, findings := ins.inspectType(derive.FromSpec(fset, gd, ts))
			fr.Types = append(fr.Types, tr)
			fr.Findings = append(fr.Findings, findings...)
		}
	}
	return fr, nil
}

// inspectType builds the report for one declaration and collects directive
// findings along the way.
func (ins *Inspector) inspectType(in *derive.Input) (TypeReport, []Finding) {
	tr := TypeReport{Name: in.Name, Doc: in.Doc()}
	var findings []Finding

	for _, d := range in.Directives() {
		if !ins.matches(d) {
			continue
		}
		tr.Directives = append(tr.Directives, DirectiveReport{
			Namespace: d.Namespace,
			Name:      d.Name,
			Args:      d.Args,
			Line:      d.Pos.Line,
		})
		if de := ins.checkDirective(d); de != nil {
			findings = append(findings, NewFinding(de))
		}
	}

	fields, err := in.Fields()
	if err != nil {
		// Not a struct; the declaration is still reported.
		return tr, findings
	}
	tr.Shape = fields.Kind.String()

	for _, f := range fields.List {
		tr.Fields = append(tr.Fields, ins.inspectField(f))
		for _, d := range directive.FromField(in.Fset, f.Node) {
			if !ins.matches(d) {
				continue
			}
			if de := ins.checkDirective(d); de != nil {
				findings = append(findings, NewFinding(de))
			}
		}
	}
	return tr, findings
}

// inspectField renders one field with its wrapper analysis.
func (ins *Inspector) inspectField(f derive.Field) FieldReport {
	fr := FieldReport{
		Name:     f.Name,
		Type:     types.ExprString(f.Type),
		Embedded: f.Embedded,
	}
	if tag, ok := tagOf(f); ok {
		fr.Tag = tag
	}

	wrapper, inner := ins.unwrap(f.Type)
	fr.Wrapper = wrapper
	fr.Inner = renderExprs(inner)
	fr.Optional = typexpr.IsOption(f.Type) || wrapper == "pointer"
	fr.Repeated = typexpr.IsVec(f.Type) || wrapper == "slice"
	return fr
}

// unwrap matches a field type against the recognized wrappers, falling
// back to pointer and slice forms.
func (ins *Inspector) unwrap(e ast.Expr) (string, []ast.Expr) {
	for _, name := range ins.wrappers {
		if inner, ok := typexpr.Unwrap(name, e); ok {
			return name, []ast.Expr{inner}
		}
	}
	if inner, ok := typexpr.UnwrapPointer(e); ok {
		return "pointer", []ast.Expr{inner}
	}
	if inner, ok := typexpr.UnwrapSlice(e); ok {
		return "slice", []ast.Expr{inner}
	}
	if inner := typexpr.Inner(e); len(inner) > 0 {
		return "", inner
	}
	return "", nil
}

// matches reports whether a directive falls inside the configured
// namespace.
func (ins *Inspector) matches(d directive.Directive) bool {
	return ins.namespace == "" || d.Namespace == ins.namespace
}

// checkDirective validates a directive's argument syntax. A directive
// whose second token is = must parse as a name = value list; anything else
// must open with a positional literal or identifier. Empty arguments are
// always valid.
func (ins *Inspector) checkDirective(d directive.Directive) *diag.Error {
	if strings.TrimSpace(d.Args) == "" {
		return nil
	}

	s := directive.NewScanner(d.Args, token.Position{})
	first := s.Next()
	second := s.Next()
	if first.Type == directive.TokenIdent && second.Type == directive.TokenAssign {
		if _, _, err := d.Lookup(""); err != nil {
			de, _ := diag.AsError(err)
			return de
		}
		return nil
	}

	if _, err := d.First(); err != nil {
		de, _ := diag.AsError(err)
		return de
	}
	return nil
}

// listFiles returns the Go files under dir, honoring the skip rules.
func (ins *Inspector) listFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == dir {
				return nil
			}
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
				name == "vendor" || name == "testdata" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".go") {
			return nil
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return nil
		}
		if !ins.includeTests && strings.HasSuffix(name, "_test.go") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

func renderExprs(exprs []ast.Expr) string {
	if len(exprs) == 0 {
		return ""
	}
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = types.ExprString(e)
	}
	return strings.Join(parts, ", ")
}

func tagOf(f derive.Field) (string, bool) {
	if f.Node == nil || f.Node.Tag == nil {
		return "", false
	}
	raw, err := strconv.Unquote(f.Node.Tag.Value)
	if err != nil {
		return "", false
	}
	return raw, true
}
