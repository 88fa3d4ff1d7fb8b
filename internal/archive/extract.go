package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"

	"github.com/Wxl-c137/blindmarker/internal/model"
)

// Extract opens archivePath (sniffed by extension) and extracts it into
// destDir, which must already exist. Every entry is validated against
// the path-traversal and size/count guards before anything is written
// (§4.6, §8 invariant 8).
func Extract(archivePath, destDir string, maxBytes int64, maxEntries int) error {
	kind, ok := DetectKind(archivePath)
	if !ok {
		return model.ErrUnsupportedArchive
	}
	switch kind {
	case KindZip:
		return extractZip(archivePath, destDir, maxBytes, maxEntries)
	case KindSevenZip:
		return extractSevenZip(archivePath, destDir, maxBytes, maxEntries)
	case KindRar:
		return extractRar(archivePath, destDir, maxBytes, maxEntries)
	default:
		return model.ErrUnsupportedArchive
	}
}

func extractZip(archivePath, destDir string, maxBytes int64, maxEntries int) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("archive: open zip: %w", err)
	}
	defer r.Close()

	guard := newSizeGuard(maxBytes, maxEntries)
	targets := make(map[*zip.File]string, len(r.File))
	for _, f := range r.File {
		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return err
		}
		if err := guard.add(int64(f.UncompressedSize64)); err != nil {
			return err
		}
		targets[f] = target
	}

	for _, f := range r.File {
		if err := extractZipEntry(f, targets[f]); err != nil {
			return err
		}
	}
	return nil
}

func extractZipEntry(f *zip.File, target string) error {
	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, rc)
	return err
}

func extractSevenZip(archivePath, destDir string, maxBytes int64, maxEntries int) error {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("archive: open 7z: %w", err)
	}
	defer r.Close()

	guard := newSizeGuard(maxBytes, maxEntries)
	targets := make(map[*sevenzip.File]string, len(r.File))
	for _, f := range r.File {
		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return err
		}
		if err := guard.add(int64(f.UncompressedSize)); err != nil {
			return err
		}
		targets[f] = target
	}

	for _, f := range r.File {
		if err := extractSevenZipEntry(f, targets[f]); err != nil {
			return err
		}
	}
	return nil
}

func extractSevenZipEntry(f *sevenzip.File, target string) error {
	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, rc)
	return err
}

// extractRar is read-only per §1's Non-goals ("RAR creation"); rardecode
// exposes a sequential, streaming reader rather than a file list, so the
// guard pass and the write pass are two independent reads of the file.
func extractRar(archivePath, destDir string, maxBytes int64, maxEntries int) error {
	if err := scanRarGuard(archivePath, destDir, maxBytes, maxEntries); err != nil {
		return err
	}

	rr, err := rardecode.OpenReader(archivePath, "")
	if err != nil {
		return fmt.Errorf("archive: open rar: %w", err)
	}
	defer rr.Close()

	for {
		hdr, err := rr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: read rar entry: %w", err)
		}
		target, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}
		if hdr.IsDir {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return err
		}
		_, err = io.Copy(out, rr)
		out.Close()
		if err != nil {
			return err
		}
	}
}

func scanRarGuard(archivePath, destDir string, maxBytes int64, maxEntries int) error {
	rr, err := rardecode.OpenReader(archivePath, "")
	if err != nil {
		return fmt.Errorf("archive: open rar: %w", err)
	}
	defer rr.Close()

	guard := newSizeGuard(maxBytes, maxEntries)
	for {
		hdr, err := rr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: read rar entry: %w", err)
		}
		if _, err := safeJoin(destDir, hdr.Name); err != nil {
			return err
		}
		if err := guard.add(hdr.UnPackedSize); err != nil {
			return err
		}
	}
}
