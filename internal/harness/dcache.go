package harness

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when execPayload changes shape; stale entries are then ignored.
const execCacheSchemaVersion uint16 = 1

// Digest keys one execution result: test name, artifact content and runner
// command together.
type Digest [32]byte

// ExecKey computes the cache key for a staged run.
func ExecKey(caseName, artifact string, argv []string) Digest {
	h := sha256.New()
	h.Write([]byte(caseName))
	h.Write([]byte{0})
	h.Write([]byte(artifact))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(argv, "\x00")))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// ExecCache persists passing execution results so identical re-runs skip
// the external runner. Failures are never cached: a failing case must fail
// again until its artifact changes. Thread-safe.
type ExecCache struct {
	mu  sync.RWMutex
	dir string
}

type execPayload struct {
	Schema uint16
	Case   string
	Passed bool
	When   time.Time
}

// OpenExecCache initializes the cache at the standard user cache location.
func OpenExecCache(app string) (*ExecCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "exec")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ExecCache{dir: dir}, nil
}

// OpenExecCacheAt initializes the cache at an explicit directory.
func OpenExecCacheAt(dir string) (*ExecCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ExecCache{dir: dir}, nil
}

func (c *ExecCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// MarkPassed records a passing run under key. The write is atomic: encode
// into a temp file, then rename into place.
func (c *ExecCache) MarkPassed(key Digest, caseName string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	payload := execPayload{
		Schema: execCacheSchemaVersion,
		Case:   caseName,
		Passed: true,
		When:   time.Now(),
	}
	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Passed reports whether a passing run is recorded under key. A missing or
// schema-mismatched entry reads as not passed.
func (c *ExecCache) Passed(key Digest) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var payload execPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return false, nil
	}
	if payload.Schema != execCacheSchemaVersion {
		return false, nil
	}
	return payload.Passed, nil
}
