package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"morph/internal/ast"
	"morph/internal/diag"
	"morph/internal/diagfmt"
	"morph/internal/dialect"
	"morph/internal/parser"
	"morph/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.js>",
	Short: "Parse a source file and dump its tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("dialect", "es2015", "grammar to accept (es5|es2015)")
}

func dialectFlag(cmd *cobra.Command) (dialect.Dialect, error) {
	name, err := cmd.Flags().GetString("dialect")
	if err != nil {
		return dialect.Dialect{}, err
	}
	switch name {
	case "es5":
		return dialect.Dialect{Kind: dialect.ES5}, nil
	case "es2015":
		return dialect.Dialect{Kind: dialect.ES2015}, nil
	default:
		return dialect.Dialect{}, fmt.Errorf("unknown dialect %q (must be es5 or es2015)", name)
	}
}

// parseFile loads and parses one file, printing any diagnostics to stderr.
// The boolean reports whether the file parsed without errors.
func parseFile(cmd *cobra.Command, path string, d dialect.Dialect) (*ast.Module, bool, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, false, err
	}

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %q: %w", path, err)
	}

	bag := diag.NewBag(maxDiagnostics)
	m := parser.ParseFile(fs.Get(id), parser.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Dialect:  d,
	})

	if bag.Len() > 0 {
		diagfmt.Printer{
			W:     os.Stderr,
			FS:    fs,
			Color: useColor(cmd, os.Stderr),
		}.PrintBag(bag)
	}
	return m, !bag.HasErrors(), nil
}

func runParse(cmd *cobra.Command, args []string) error {
	d, err := dialectFlag(cmd)
	if err != nil {
		return err
	}
	m, ok, err := parseFile(cmd, args[0], d)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s did not parse", args[0])
	}
	diagfmt.DumpTree(os.Stdout, m)
	return nil
}
