package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"morph/internal/emit"
)

var printCmd = &cobra.Command{
	Use:   "print [flags] <file.js>",
	Short: "Render a source file in canonical form",
	Long:  `Print parses a source file and renders it back as deterministic canonical text`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPrint,
}

func init() {
	printCmd.Flags().String("dialect", "es2015", "grammar to accept (es5|es2015)")
}

func runPrint(cmd *cobra.Command, args []string) error {
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
	return emit.Print(m, os.Stdout)
}
