package daemon

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"sync"

	"github.com/eliteGoblin/focusd/app_block/internal/policy"
)

// FilePolicyReloader re-reads a policy file when its content changes and
// publishes the result to a Holder. Content is compared by digest, so edits
// that keep the size and land within the filesystem's mtime granularity are
// still seen.
type FilePolicyReloader struct {
	path     string
	registry *policy.Registry
	holder   *policy.Holder

	mu     sync.Mutex
	loaded bool
	digest [sha256.Size]byte
}

// NewFilePolicyReloader creates a reloader for path.
func NewFilePolicyReloader(path string, reg *policy.Registry, holder *policy.Holder) *FilePolicyReloader {
	return &FilePolicyReloader{path: path, registry: reg, holder: holder}
}

// Reload loads the file if it changed since the last successful load.
// A file that fails to parse leaves the current policy in place and is
// retried on the next call.
func (r *FilePolicyReloader) Reload(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		return false, fmt.Errorf("read policy file: %w", err)
	}
	digest := sha256.Sum256(data)
	if r.loaded && digest == r.digest {
		return false, nil
	}

	rules, err := policy.Parse(data, r.registry)
	if err != nil {
		return false, fmt.Errorf("policy file %s: %w", r.path, err)
	}

	r.holder.Store(rules)
	r.digest = digest
	r.loaded = true
	return true, nil
}

var _ PolicyReloader = (*FilePolicyReloader)(nil)
