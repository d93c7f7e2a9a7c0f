package slotgen

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.jacobcolvin.com/haversine/probe"
)

// DefaultFunc is the method name that marks a call site.
const DefaultFunc = "Block"

var (
	// ErrTooManySites indicates more call sites than [probe.Capacity].
	ErrTooManySites = errors.New("too many call sites")
	// ErrParse indicates a Go source file could not be parsed.
	ErrParse = errors.New("parse error")
)

// Site is one instrumentation call site.
type Site struct {
	Label string
	// Old is the id literal found in the source.
	Old string
	Pos token.Position
	ID  int
}

// File is one scanned source file.
type File struct {
	Path  string
	Src   []byte
	Out   []byte
	Sites []Site
}

// Changed reports whether assigning ids changed the file.
func (f *File) Changed() bool {
	return !bytes.Equal(f.Src, f.Out)
}

// Result is the outcome of [Assign].
type Result struct {
	Files []*File
}

// Sites returns every call site in id order.
func (r *Result) Sites() []Site {
	var out []Site
	for _, f := range r.Files {
		out = append(out, f.Sites...)
	}

	return out
}

// Stale returns the files whose ids differ from a fresh assignment.
func (r *Result) Stale() []*File {
	var out []*File

	for _, f := range r.Files {
		if f.Changed() {
			out = append(out, f)
		}
	}

	return out
}

// Write saves every changed file.
func (r *Result) Write() error {
	for _, f := range r.Stale() {
		err := os.WriteFile(f.Path, f.Out, 0o644) //nolint:gosec // Source files are world-readable.
		if err != nil {
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
	}

	return nil
}

// Option configures [Assign].
type Option func(*assigner)

// WithFunc matches call sites by the given method name instead of
// [DefaultFunc].
func WithFunc(name string) Option {
	return func(a *assigner) {
		a.fn = name
	}
}

type assigner struct {
	fset *token.FileSet
	fn   string
	next int
}

// Assign numbers every call site in dirs. It does not modify any file; see
// [Result.Write].
func Assign(dirs []string, opts ...Option) (*Result, error) {
	a := &assigner{
		fset: token.NewFileSet(),
		fn:   DefaultFunc,
	}
	for _, opt := range opts {
		opt(a)
	}

	res := &Result{}

	for _, dir := range dirs {
		paths, err := sourceFiles(dir)
		if err != nil {
			return nil, err
		}

		for _, path := range paths {
			f, err := a.file(path)
			if err != nil {
				return nil, err
			}

			res.Files = append(res.Files, f)
		}
	}

	if a.next > probe.Capacity {
		return nil, fmt.Errorf("%w: %d sites, capacity %d", ErrTooManySites, a.next, probe.Capacity)
	}

	return res, nil
}

// sourceFiles returns the non-test Go files of dir in name order.
func sourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var paths []string

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		paths = append(paths, filepath.Join(dir, name))
	}

	slices.Sort(paths)

	return paths, nil
}

func (a *assigner) file(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	af, err := parser.ParseFile(a.fset, path, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var lits []*ast.BasicLit

	labels := make(map[*ast.BasicLit]string)

	ast.Inspect(af, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		label, id, ok := a.match(call)
		if ok {
			lits = append(lits, id)
			labels[id] = label
		}

		return true
	})

	slices.SortFunc(lits, func(x, y *ast.BasicLit) int {
		return int(x.Pos() - y.Pos())
	})

	f := &File{Path: path, Src: src}

	for _, lit := range lits {
		f.Sites = append(f.Sites, Site{
			Label: labels[lit],
			Old:   lit.Value,
			Pos:   a.fset.Position(lit.Pos()),
			ID:    a.next,
		})
		a.next++
	}

	// Rewrite in reverse order so byte offsets remain valid.
	out := slices.Clone(src)
	for i := len(lits) - 1; i >= 0; i-- {
		start := a.fset.Position(lits[i].Pos()).Offset
		end := a.fset.Position(lits[i].End()).Offset
		id := strconv.Itoa(f.Sites[i].ID)

		out = slices.Concat(out[:start], []byte(id), out[end:])
	}

	f.Out = out

	return f, nil
}

// match returns the label and id literal of call if it is a call site.
func (a *assigner) match(call *ast.CallExpr) (string, *ast.BasicLit, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != a.fn || len(call.Args) != 2 {
		return "", nil, false
	}

	label, ok := call.Args[0].(*ast.BasicLit)
	if !ok || label.Kind != token.STRING {
		return "", nil, false
	}

	id, ok := call.Args[1].(*ast.BasicLit)
	if !ok || id.Kind != token.INT {
		return "", nil, false
	}

	text, err := strconv.Unquote(label.Value)
	if err != nil {
		return "", nil, false
	}

	return text, id, true
}
