package archive

import (
	"path/filepath"
	"strings"

	"github.com/Wxl-c137/blindmarker/internal/model"
)

// safeJoin resolves a stored entry name against destDir, rejecting
// absolute paths and ".." segments that would escape the extraction
// root (§4.6 "path traversal"; §8 invariant 8).
func safeJoin(destDir, entryName string) (string, error) {
	cleaned := filepath.Clean(strings.ReplaceAll(entryName, "\\", "/"))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", model.ErrPathTraversal
	}
	full := filepath.Join(destDir, cleaned)
	rel, err := filepath.Rel(destDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", model.ErrPathTraversal
	}
	return full, nil
}

// sizeGuard accumulates uncompressed bytes and entry count as entries
// are discovered, failing fast once either bomb threshold is crossed.
type sizeGuard struct {
	maxBytes   int64
	maxEntries int
	bytes      int64
	entries    int
}

func newSizeGuard(maxBytes int64, maxEntries int) *sizeGuard {
	return &sizeGuard{maxBytes: maxBytes, maxEntries: maxEntries}
}

func (g *sizeGuard) add(uncompressedSize int64) error {
	g.entries++
	if g.entries > g.maxEntries {
		return model.ErrTooManyEntries
	}
	g.bytes += uncompressedSize
	if g.bytes > g.maxBytes {
		return model.ErrArchiveTooLarge
	}
	return nil
}
