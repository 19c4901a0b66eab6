// Package harness is the verification core: it parses input and expected
// programs, applies a transform under test, runs the mandatory
// post-processing passes and decides pass/fail with a two-tier comparison,
// structural first and textual as an explicit opt-in fallback. It also
// stages transformed programs on disk and delegates to an external runner
// to verify runtime behavior.
package harness

import (
	"fmt"
	"io"
	"os"

	"morph/internal/ast"
	"morph/internal/diag"
	"morph/internal/diagfmt"
	"morph/internal/dialect"
	"morph/internal/helpers"
	"morph/internal/parser"
	"morph/internal/source"
)

// Options configures one verification run.
type Options struct {
	// Name identifies the case; it keys the staging directory, so it must
	// be unique across a concurrently running suite.
	Name string
	// Dialect selects the grammar; nil means the default.
	Dialect *dialect.Dialect
	// Config overrides the morph.toml discovery; nil loads from the
	// working directory.
	Config *Config
	// Runner overrides the external runner; nil builds one from Config.
	Runner Runner
	// Helpers overrides the runtime helper registry; nil means the
	// built-in set.
	Helpers *helpers.Registry
	// Out receives diagnostics and debug renderings; nil means stdout.
	Out io.Writer
	// MaxDiagnostics bounds the per-run diagnostic sink; 0 means 100.
	MaxDiagnostics int
	// Color enables colored diagnostic output.
	Color bool
}

// Tester drives verification for one case. It owns the diagnostic sink for
// the run; Begin hands it out together with a release function that flushes
// whatever is left in the sink.
type Tester struct {
	name     string
	dialect  dialect.Dialect
	fs       *source.FileSet
	bag      *diag.Bag
	out      io.Writer
	color    bool
	cfg      Config
	runner   Runner
	helpers  *helpers.Registry
	cache    *ExecCache
	released bool
}

// Begin starts a verification run. The returned release function must be
// called on every exit path of the run; it prints any diagnostics still in
// the sink. Releasing twice is harmless.
func Begin(opts Options) (*Tester, func()) {
	if opts.Name == "" {
		opts.Name = "case"
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}

	d := dialect.Default()
	if opts.Dialect != nil {
		d = *opts.Dialect
	}

	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	} else if loaded, err := LoadConfig("."); err == nil {
		cfg = loaded
	} else {
		fmt.Fprintf(opts.Out, "config: %v (using defaults)\n", err)
	}

	runner := opts.Runner
	if runner == nil {
		runner = OSRunner{Argv: cfg.Runner.Command}
	}

	reg := opts.Helpers
	if reg == nil {
		reg = helpers.Default()
	}

	t := &Tester{
		name:    opts.Name,
		dialect: d,
		fs:      source.NewFileSet(),
		bag:     diag.NewBag(opts.MaxDiagnostics),
		out:     opts.Out,
		color:   opts.Color,
		cfg:     cfg,
		runner:  runner,
		helpers: reg,
	}
	if cfg.Cache.Exec {
		if cache, err := OpenExecCache("morph"); err == nil {
			t.cache = cache
		} else {
			fmt.Fprintf(opts.Out, "exec cache disabled: %v\n", err)
		}
	}

	release := func() {
		if t.released {
			return
		}
		t.released = true
		t.flushDiagnostics()
	}
	return t, release
}

// Name returns the case name.
func (t *Tester) Name() string {
	return t.name
}

// flushDiagnostics prints and drains the run's sink.
func (t *Tester) flushDiagnostics() {
	if t.bag.Len() == 0 {
		return
	}
	diagfmt.Printer{W: t.out, FS: t.fs, Color: t.color}.PrintBag(t.bag)
	t.bag = diag.NewBag(int(t.bag.Cap()))
}

// ParseModule parses src registered under name, with diagnostics flowing
// into the run's sink. Parse errors are printed before the error returns.
func (t *Tester) ParseModule(name, src string) (*ast.Module, error) {
	id := t.fs.AddVirtual(name, []byte(src))
	m := parser.ParseFile(t.fs.Get(id), parser.Options{
		Reporter: diag.BagReporter{Bag: t.bag},
		Dialect:  t.dialect,
	})
	if t.bag.HasErrors() {
		t.flushDiagnostics()
		return nil, fmt.Errorf("%s did not parse", name)
	}
	return m, nil
}

// ParseStmts parses src and returns the top-level statement list.
func (t *Tester) ParseStmts(name, src string) ([]ast.Stmt, error) {
	m, err := t.ParseModule(name, src)
	if err != nil {
		return nil, err
	}
	return m.Body, nil
}

// ParseStmt parses src expecting exactly one top-level statement.
func (t *Tester) ParseStmt(name, src string) (ast.Stmt, error) {
	body, err := t.ParseStmts(name, src)
	if err != nil {
		return nil, err
	}
	if len(body) != 1 {
		return nil, fmt.Errorf("%s: expected a single statement, got %d", name, len(body))
	}
	return body[0], nil
}
