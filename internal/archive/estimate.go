package archive

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// EstimateUncompressedBytes sums the uncompressed size of every member
// without writing anything to disk, used by the orchestrator's
// disk-guard check before extraction actually begins.
func EstimateUncompressedBytes(archivePath string) (int64, error) {
	kind, ok := DetectKind(archivePath)
	if !ok {
		return 0, fmt.Errorf("archive: estimate: unrecognized kind for %s", archivePath)
	}
	switch kind {
	case KindZip:
		return estimateZip(archivePath)
	case KindSevenZip:
		return estimateSevenZip(archivePath)
	case KindRar:
		return estimateRar(archivePath)
	default:
		return 0, fmt.Errorf("archive: estimate: unsupported kind")
	}
}

func estimateZip(archivePath string) (int64, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("archive: open zip: %w", err)
	}
	defer r.Close()

	var total int64
	for _, f := range r.File {
		total += int64(f.UncompressedSize64)
	}
	return total, nil
}

func estimateSevenZip(archivePath string) (int64, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return 0, fmt.Errorf("archive: open 7z: %w", err)
	}
	defer r.Close()

	var total int64
	for _, f := range r.File {
		total += int64(f.UncompressedSize)
	}
	return total, nil
}

func estimateRar(archivePath string) (int64, error) {
	rr, err := rardecode.OpenReader(archivePath, "")
	if err != nil {
		return 0, fmt.Errorf("archive: open rar: %w", err)
	}
	defer rr.Close()

	var total int64
	for {
		hdr, err := rr.Next()
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return 0, fmt.Errorf("archive: read rar entry: %w", err)
		}
		total += hdr.UnPackedSize
	}
}
