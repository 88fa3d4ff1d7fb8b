package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Repack walks srcDir in sorted order and writes destArchive, preserving
// the tree and POSIX file modes (§4.6 "Repack"). sourceKind is the kind
// of the archive that was originally extracted into srcDir: KindZip
// repacks natively, while KindSevenZip and KindRar degrade to a ZIP
// body with a .zip extension substituted, logging a warning — no 7z or
// RAR *writer* exists in the retrieved corpus or the wider ecosystem the
// way a reader does for either format (`bodgit/sevenzip` and
// `nwaples/rardecode` are both read-only), and §4.6/§9 already sanction
// exactly this degradation for RAR; this extends the same reasoning to
// 7z rather than hand-rolling either writer from scratch.
func Repack(srcDir, destArchive string, sourceKind Kind) (string, error) {
	if sourceKind != KindZip {
		destArchive = strings.TrimSuffix(destArchive, filepath.Ext(destArchive)) + ".zip"
		slog.Warn("repack: no writer for source format, degrading to zip", "source_kind", sourceKind, "archive", destArchive)
	}
	return destArchive, repackZip(srcDir, destArchive)
}

func repackZip(srcDir, destArchive string) error {
	paths, err := sortedTree(srcDir)
	if err != nil {
		return err
	}

	out, err := os.Create(destArchive)
	if err != nil {
		return fmt.Errorf("archive: create zip: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	for _, rel := range paths {
		if err := addZipEntry(zw, srcDir, rel); err != nil {
			return err
		}
	}
	return zw.Close()
}

// sortedTree returns every path under srcDir relative to it, in sorted
// order, for deterministic repack output (§4.6 "a filesystem walk in
// sorted order").
func sortedTree(srcDir string) ([]string, error) {
	var rels []string
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == srcDir {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rels = append(rels, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)
	return rels, nil
}

func addZipEntry(zw *zip.Writer, srcDir, rel string) error {
	full := filepath.Join(srcDir, rel)
	info, err := os.Lstat(full)
	if err != nil {
		return err
	}

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = rel
	hdr.Method = zip.Deflate

	if info.IsDir() {
		hdr.Name += "/"
		_, err := zw.CreateHeader(hdr)
		return err
	}

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	f, err := os.Open(full)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
