package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"morph/internal/harness"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] <input.js> <expected.js>",
	Short: "Check that two programs are equivalent",
	Long: `Verify runs both programs through the canonicalizing pipeline with an
identity transform and compares them: structurally first, textually only on
explicit opt-in. With --fixtures it runs every case from a cases.yaml manifest
instead.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Bool("allow-text-only", false, "accept a match on rendered text when trees differ")
	verifyCmd.Flags().String("fixtures", "", "directory with a cases.yaml manifest to run as a suite")
	verifyCmd.Flags().Int("jobs", 0, "max parallel cases for --fixtures (0=auto)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	fixtures, err := cmd.Flags().GetString("fixtures")
	if err != nil {
		return err
	}
	if fixtures != "" {
		if len(args) != 0 {
			return fmt.Errorf("--fixtures takes no positional arguments")
		}
		return runVerifySuite(cmd, fixtures)
	}
	if len(args) != 2 {
		return fmt.Errorf("expected <input.js> <expected.js>")
	}
	return runVerifyPair(cmd, args[0], args[1])
}

func verifyOut(cmd *cobra.Command) (io.Writer, error) {
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return nil, err
	}
	if quiet {
		return io.Discard, nil
	}
	return os.Stdout, nil
}

func runVerifyPair(cmd *cobra.Command, inputPath, expectedPath string) error {
	allowTextOnly, err := cmd.Flags().GetBool("allow-text-only")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	out, err := verifyOut(cmd)
	if err != nil {
		return err
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	expected, err := os.ReadFile(expectedPath)
	if err != nil {
		return fmt.Errorf("failed to read expected: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	t, release := harness.Begin(harness.Options{
		Name:           name,
		Out:            out,
		MaxDiagnostics: maxDiagnostics,
		Color:          useColor(cmd, os.Stdout),
	})
	defer release()

	fail := t.TestTransform(string(input), string(expected), harness.Identity(), allowTextOnly)
	if fail != nil {
		printFailure(out, fail)
		return fmt.Errorf("verification failed: %s", fail.Kind)
	}
	fmt.Fprintf(out, "%s: ok\n", name)
	return nil
}

func runVerifySuite(cmd *cobra.Command, dir string) error {
	allowJobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	out, err := verifyOut(cmd)
	if err != nil {
		return err
	}

	manifest := filepath.Join(dir, "cases.yaml")
	results, err := harness.RunSuite(cmd.Context(), manifest, harness.Identity(), allowJobs, out)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failure == nil {
			fmt.Fprintf(out, "PASS %s\n", r.Name)
			continue
		}
		failed++
		fmt.Fprintf(out, "FAIL %s\n", r.Name)
		printFailure(out, r.Failure)
	}
	fmt.Fprintf(out, "%d/%d cases passed\n", len(results)-failed, len(results))
	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(results))
	}
	return nil
}

func printFailure(out io.Writer, f *harness.Failure) {
	fmt.Fprintf(out, "  %s\n", f.Error())
	if f.TextDiff != "" {
		fmt.Fprintln(out, indent(f.TextDiff, "  "))
	} else if f.TreeDiff != "" {
		fmt.Fprintln(out, indent(f.TreeDiff, "  "))
	}
	if f.Artifacts != "" {
		fmt.Fprintf(out, "  artifacts retained at %s\n", f.Artifacts)
	}
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
