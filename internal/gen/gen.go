// Package gen generates deep-copy methods for directive-annotated types.
// It is deliberately syntactic: field types are matched by shape and
// wrapper name, not resolved through the type checker, so it works on a
// single file without build context.
package gen

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/synkit/pkg/derive"
	"github.com/leapstack-labs/synkit/pkg/diag"
	"github.com/leapstack-labs/synkit/pkg/directive"
	"github.com/leapstack-labs/synkit/pkg/emit"
	"github.com/leapstack-labs/synkit/pkg/typexpr"
)

const toolName = "synkit"

// Directive names recognized by the generator.
const (
	dirDeepCopy = "deepcopy"
	dirCopy     = "copy"
)

// Per-field copy modes for the copy directive.
const (
	modeDeep    = "deep"
	modeShallow = "shallow"
	modeSkip    = "skip"
)

// Config holds generator settings.
type Config struct {
	// Namespace is the directive namespace to act on.
	Namespace string
	// Suffix names generated files: <base><suffix>.go next to the source.
	Suffix string
	// Logger is optional; nil discards.
	Logger *slog.Logger
}

// Generator produces deep-copy methods for annotated types.
type Generator struct {
	namespace string
	suffix    string
	logger    *slog.Logger
}

// New creates a Generator.
func New(cfg Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = toolName
	}
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = "_synkit"
	}
	return &Generator{namespace: namespace, suffix: suffix, logger: logger}
}

// Result describes one generated file.
type Result struct {
	// Source is the annotated input file.
	Source string
	// Path is where the generated file belongs.
	Path string
	// Code is the formatted generated source.
	Code []byte
	// Types lists the type names that received methods, in source order.
	Types []string
}

// GenerateDir generates for every annotated Go file under dir. Files
// without annotations produce no result. Unlike inspection, any parse or
// directive error aborts the run: broken input must not half-generate.
func (g *Generator) GenerateDir(ctx context.Context, dir string) ([]*Result, error) {
	paths, err := g.listFiles(dir)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("generating", "dir", dir, "files", len(paths))

	results := make([]*Result, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := g.GenerateFile(path, nil)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, res := range results {
		if res != nil {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out, nil
}

// GenerateFile generates for a single file; src may be nil to read from
// disk. A file with no annotated types returns (nil, nil).
func (g *Generator) GenerateFile(path string, src any) (*Result, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	var typeNames []string
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, s := range gd.Specs {
			ts, ok := s.(*ast.TypeSpec)
			if !ok {
				continue
			}
			in := derive.FromSpec(fset, gd, ts)
			d, ok := deepCopyDirective(g.namespace, in)
			if !ok {
				continue
			}
			method, err := g.method(in, d)
			if err != nil {
				return nil, err
			}
			body.Write(method)
			typeNames = append(typeNames, in.Name)
		}
	}
	if len(typeNames) == 0 {
		return nil, nil
	}

	code, err := emit.File(toolName, file.Name.Name, body.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g.logger.Debug("generated", "source", path, "types", len(typeNames))
	return &Result{
		Source: path,
		Path:   g.OutputPath(path),
		Code:   code,
		Types:  typeNames,
	}, nil
}

// OutputPath returns the generated file path for a source file.
func (g *Generator) OutputPath(source string) string {
	base := strings.TrimSuffix(source, ".go")
	return base + g.suffix + ".go"
}

// method renders one deep-copy method for an annotated type.
func (g *Generator) method(in *derive.Input, d directive.Directive) ([]byte, error) {
	name := "DeepCopy"
	if v, ok, err := d.Lookup("name"); err != nil {
		return nil, err
	} else if ok {
		ident, isIdent := v.Ident()
		if !isIdent || !token.IsIdentifier(ident) {
			return nil, diag.Newf(v.Pos, "invalid method name %q", v.Text)
		}
		name = ident
	}

	fields, err := in.Fields()
	if err != nil {
		return nil, err
	}

	recv := receiverType(in)
	var b bytes.Buffer
	fmt.Fprintf(&b, "// %s returns a deep copy of %s.\n", name, in.Name)
	fmt.Fprintf(&b, "func (x %s) %s() %s {\n", recv, name, recv)
	b.WriteString("\tout := x\n")
	for _, f := range fields.List {
		stmt, err := g.copyField(in, f)
		if err != nil {
			return nil, err
		}
		b.WriteString(stmt)
	}
	b.WriteString("\treturn out\n}\n\n")
	return b.Bytes(), nil
}

// copyField renders the per-field statements a deep copy needs beyond the
// initial value copy. Most fields need none.
func (g *Generator) copyField(in *derive.Input, f derive.Field) (string, error) {
	mode := modeDeep
	if d, ok := copyDirective(g.namespace, in, f); ok {
		v, err := d.First()
		if err != nil {
			return "", err
		}
		ident, isIdent := v.Ident()
		if !isIdent {
			return "", diag.Newf(v.Pos, "copy mode must be an identifier, found %q", v.Text)
		}
		switch ident {
		case modeDeep, modeShallow, modeSkip:
			mode = ident
		default:
			return "", diag.Newf(v.Pos, "unknown copy mode %q (valid: deep, shallow, skip)", ident)
		}
	}

	switch mode {
	case modeShallow:
		return "", nil
	case modeSkip:
		return fmt.Sprintf("\tout.%s = *new(%s)\n", f.Name, types.ExprString(f.Type)), nil
	}

	if _, ok := f.Type.(*ast.MapType); ok {
		return fmt.Sprintf("\tout.%s = maps.Clone(x.%s)\n", f.Name, f.Name), nil
	}
	if elem, ok := typexpr.UnwrapSlice(f.Type); ok {
		return fmt.Sprintf("\tout.%s = append([]%s(nil), x.%s...)\n",
			f.Name, types.ExprString(elem), f.Name), nil
	}
	if _, ok := typexpr.UnwrapPointer(f.Type); ok {
		return fmt.Sprintf("\tif x.%s != nil {\n\t\tv := *x.%s\n\t\tout.%s = &v\n\t}\n",
			f.Name, f.Name, f.Name), nil
	}
	return "", nil
}

// deepCopyDirective returns the type's deepcopy directive, if any.
func deepCopyDirective(namespace string, in *derive.Input) (directive.Directive, bool) {
	for _, d := range in.Directives() {
		if d.Is(namespace, dirDeepCopy) {
			return d, true
		}
	}
	return directive.Directive{}, false
}

// copyDirective returns a field's copy directive, if any.
func copyDirective(namespace string, in *derive.Input, f derive.Field) (directive.Directive, bool) {
	for _, d := range directive.FromField(in.Fset, f.Node) {
		if d.Is(namespace, dirCopy) {
			return d, true
		}
	}
	return directive.Directive{}, false
}

// receiverType renders the receiver type, carrying type parameters for
// generic declarations.
func receiverType(in *derive.Input) string {
	params := in.TypeParams()
	if len(params) == 0 {
		return in.Name
	}
	var names []string
	for _, p := range params {
		for _, n := range p.Names {
			names = append(names, n.Name)
		}
	}
	return in.Name + "[" + strings.Join(names, ", ") + "]"
}

// listFiles returns the Go files under dir eligible for generation.
// Generated files and tests are never inputs.
func (g *Generator) listFiles(dir string) ([]string, error) {
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
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return nil
		}
		if strings.HasSuffix(name, g.suffix+".go") {
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
