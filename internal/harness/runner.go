package harness

import (
	"context"
	"errors"
	"os/exec"
)

// Runner executes one staged artifact. Exit code 0 means pass; any nonzero
// exit surfaces as an error carrying the combined output.
type Runner interface {
	Run(ctx context.Context, workDir, artifact string) ([]byte, error)
}

// OSRunner invokes an external process with the artifact path appended to
// Argv, blocking until it terminates. There is deliberately no timeout: a
// hung runner hangs the test, matching the synchronous verification model.
type OSRunner struct {
	Argv []string
}

func (r OSRunner) Run(ctx context.Context, workDir, artifact string) ([]byte, error) {
	if len(r.Argv) == 0 {
		return nil, errors.New("runner: empty command")
	}
	args := append(append([]string{}, r.Argv[1:]...), artifact)
	cmd := exec.CommandContext(ctx, r.Argv[0], args...)
	cmd.Dir = workDir
	return cmd.CombinedOutput()
}
