package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// SuiteCase is one fixture in a cases.yaml manifest. File paths are
// relative to the manifest's directory.
type SuiteCase struct {
	Name               string `yaml:"name"`
	Input              string `yaml:"input"`
	Expected           string `yaml:"expected"`
	AllowTextOnlyMatch bool   `yaml:"allow_text_only_match"`
	Exec               bool   `yaml:"exec"`
}

type suiteManifest struct {
	Cases []SuiteCase `yaml:"cases"`
}

// SuiteResult is the outcome of one case. Failure is nil on pass; Log holds
// the case's diagnostic output.
type SuiteResult struct {
	Name    string
	Failure *Failure
	Log     string
}

// RunSuite verifies every case in the manifest against tr, running up to
// jobs cases concurrently (GOMAXPROCS when jobs <= 0). Case names key the
// staging directories, so they must be unique; duplicates are rejected up
// front. Results come back in manifest order and per-case logs are written
// to out sequentially after all cases finish.
func RunSuite(ctx context.Context, manifestPath string, tr Transform, jobs int, out io.Writer) ([]SuiteResult, error) {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var manifest suiteManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode %q: %w", manifestPath, err)
	}
	if len(manifest.Cases) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(manifest.Cases))
	for _, c := range manifest.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("%s: case without a name", manifestPath)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%s: duplicate case name %q", manifestPath, c.Name)
		}
		seen[c.Name] = true
	}

	baseDir := filepath.Dir(manifestPath)
	cfg, err := LoadConfig(baseDir)
	if err != nil {
		return nil, err
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]SuiteResult, len(manifest.Cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(manifest.Cases)))

	for i, c := range manifest.Cases {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = runSuiteCase(gctx, baseDir, cfg, c, tr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if out != nil {
		for _, r := range results {
			if r.Log != "" {
				fmt.Fprint(out, r.Log)
			}
		}
	}
	return results, nil
}

func runSuiteCase(ctx context.Context, baseDir string, cfg Config, c SuiteCase, tr Transform) SuiteResult {
	var log bytes.Buffer
	res := SuiteResult{Name: c.Name}

	input, err := os.ReadFile(filepath.Join(baseDir, c.Input))
	if err != nil {
		res.Failure = &Failure{Kind: KindParse, Case: c.Name, Msg: "failed to read input", Err: err}
		return res
	}
	expected, err := os.ReadFile(filepath.Join(baseDir, c.Expected))
	if err != nil {
		res.Failure = &Failure{Kind: KindParse, Case: c.Name, Msg: "failed to read expected", Err: err}
		return res
	}

	t, release := Begin(Options{Name: c.Name, Config: &cfg, Out: &log})
	defer release()

	res.Failure = t.TestTransform(string(input), string(expected), tr, c.AllowTextOnlyMatch)
	if res.Failure == nil && c.Exec {
		res.Failure = t.ExecTransform(ctx, string(input), tr)
	}
	release()
	res.Log = log.String()
	return res
}
