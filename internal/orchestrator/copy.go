package orchestrator

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Wxl-c137/blindmarker/internal/model"
)

// copyTree copies every file under srcDir into destDir preserving the
// tree and POSIX file modes, producing the pristine-but-independent
// per-row working copy the Excel fan-out needs: reusing one extracted
// tree across payload rows would double-embed a later row on top of an
// earlier row's mark, so every row gets its own untouched copy of the
// originally extracted bytes (§4.9 "Payload mapping").
func copyTree(srcDir, destDir string) error {
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(destDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		return copyFile(path, dest)
	})
}

func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("orchestrator: open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode())
	if err != nil {
		return fmt.Errorf("orchestrator: create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("orchestrator: copy %s: %w", src, err)
	}
	return nil
}

// remapTasks rewrites each task's absolute path to live under newRoot and
// stamps it with the payload row it will be embedded with, leaving the
// relative path and classification untouched.
func remapTasks(tasks []model.FileTask, newRoot, payload string) []model.FileTask {
	out := make([]model.FileTask, len(tasks))
	for i, t := range tasks {
		nt := t
		nt.AbsoluteTempPath = filepath.Join(newRoot, t.RelativePath)
		nt.AssignedPayloadText = payload
		out[i] = nt
	}
	return out
}
