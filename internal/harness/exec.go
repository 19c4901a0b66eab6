package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"morph/internal/ast"
	"morph/internal/emit"
	"morph/internal/fixer"
	"morph/internal/hygiene"
	"morph/internal/testkit"
)

// ExecEnv disables the execution verifier entirely when set to "0".
const ExecEnv = "MORPH_EXEC"

// ExecTransform asserts that tr applied to the code fragment yields a
// program the external runner accepts. The fragment is wrapped in a single
// executable test case, pushed through the pipeline with fail-fast
// invariant checkpoints, staged on disk and handed to the runner. On a
// nonzero exit the staging subdirectory is deliberately left on disk for
// postmortem inspection.
func (t *Tester) ExecTransform(ctx context.Context, fragment string, tr Transform) *Failure {
	if os.Getenv(ExecEnv) == "0" {
		fmt.Fprintf(t.out, "%s: execution verification skipped (%s=0)\n", t.name, ExecEnv)
		return nil
	}

	program := "it('should work', function () {\n" + fragment + "\n});"

	m, fail := t.apply(t.name+".exec.js", program, tr)
	if fail != nil {
		return fail
	}
	if err := testkit.CheckTreeInvariants(m, "post-transform"); err != nil {
		return &Failure{Kind: KindInvariant, Case: t.name, Stage: "post-transform", Msg: err.Error(), Err: err}
	}

	m = hygiene.Resolve(m)
	if err := testkit.CheckTreeInvariants(m, "post-hygiene"); err != nil {
		return &Failure{Kind: KindInvariant, Case: t.name, Stage: "post-hygiene", Msg: err.Error(), Err: err}
	}

	m = fixer.Fix(m)
	if err := testkit.CheckTreeInvariants(m, "post-fixer"); err != nil {
		return &Failure{Kind: KindInvariant, Case: t.name, Stage: "post-fixer", Msg: err.Error(), Err: err}
	}
	m = ast.StripSpans(m, false)

	// The original fragment and the pre-injection rendering are for the
	// human reading the log; the staged artifact additionally carries the
	// runtime helpers it references.
	fmt.Fprintf(t.out, "----- %s (input) -----\n%s\n", t.name, fragment)
	fmt.Fprintf(t.out, "----- %s -----\n%s", t.name, emit.Source(m))

	injected, err := t.helpers.Inject(m)
	if err != nil {
		return &Failure{Kind: KindInvariant, Case: t.name, Stage: "helper-injection", Msg: err.Error(), Err: err}
	}
	artifactText := emit.Source(injected)

	var key Digest
	if t.cache != nil {
		key = ExecKey(t.name, artifactText, t.cfg.Runner.Command)
		if passed, err := t.cache.Passed(key); err == nil && passed {
			fmt.Fprintf(t.out, "%s: execution result cached, runner skipped\n", t.name)
			return nil
		}
	}

	// Reset the per-test staging root. Re-runs are idempotent: stale
	// artifacts from a previous (possibly failed) run are removed first.
	root := filepath.Join(t.cfg.Staging.Root, t.name)
	if err := os.RemoveAll(root); err != nil {
		return t.execFailure("failed to reset staging root", err, "")
	}
	sub := filepath.Join(root, uuid.NewString())
	if err := os.MkdirAll(sub, 0o755); err != nil {
		return t.execFailure("failed to create staging directory", err, "")
	}
	artifact := filepath.Join(sub, t.name+t.cfg.Runner.Extension)
	if err := os.WriteFile(artifact, []byte(artifactText), 0o644); err != nil {
		return t.execFailure("failed to write artifact", err, "")
	}

	output, err := t.runner.Run(ctx, root, artifact)
	if err != nil {
		if len(output) > 0 {
			fmt.Fprintf(t.out, "%s", output)
		}
		// The subdirectory is retained on purpose.
		return t.execFailure("runner reported failure", err, sub)
	}

	if t.cache != nil {
		if err := t.cache.MarkPassed(key, t.name); err != nil {
			fmt.Fprintf(t.out, "%s: failed to record exec result: %v\n", t.name, err)
		}
	}
	if err := os.RemoveAll(sub); err != nil {
		fmt.Fprintf(t.out, "%s: failed to clean staging directory: %v\n", t.name, err)
	}
	return nil
}

func (t *Tester) execFailure(msg string, err error, artifacts string) *Failure {
	return &Failure{
		Kind:      KindExec,
		Case:      t.name,
		Msg:       msg,
		Artifacts: artifacts,
		Err:       err,
	}
}
