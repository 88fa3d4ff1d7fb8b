// Package workspace manages the scoped scratch directory a job
// extracts into and packages out of. A Workspace always exists for
// exactly one job's duration and is guaranteed to be removed on every
// exit path via Release, adapted from the teacher's cleanup scheduler's
// scoped start/stop shape.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is one job's private scratch tree under root, holding the
// extracted archive and the per-row working copies that are watermarked
// and then packaged into the job's output directory.
type Workspace struct {
	Root string
}

// Acquire creates a fresh scratch directory under scratchRoot, named
// with a uuid so concurrent jobs never collide, with extract/ and
// output/ subdirectories pre-created.
func Acquire(scratchRoot string) (*Workspace, error) {
	if err := os.MkdirAll(scratchRoot, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: prepare scratch root: %w", err)
	}
	root := filepath.Join(scratchRoot, "job-"+uuid.NewString())
	if err := os.Mkdir(root, 0o755); err != nil {
		return nil, fmt.Errorf("workspace: create scratch dir: %w", err)
	}
	ws := &Workspace{Root: root}
	for _, dir := range []string{ws.ExtractDir(), ws.OutputDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			os.RemoveAll(root)
			return nil, fmt.Errorf("workspace: create %s: %w", dir, err)
		}
	}
	return ws, nil
}

// ExtractDir is where the source archive is unpacked.
func (w *Workspace) ExtractDir() string {
	return filepath.Join(w.Root, "extract")
}

// OutputDir holds the per-row working copies of the extracted tree;
// repackaged archives are written straight to the job's configured
// output directory, not here.
func (w *Workspace) OutputDir() string {
	return filepath.Join(w.Root, "output")
}

// Release removes the entire scratch tree. Safe to call multiple
// times and safe to defer immediately after Acquire succeeds.
func (w *Workspace) Release() error {
	return os.RemoveAll(w.Root)
}
