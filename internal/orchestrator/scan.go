package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/Wxl-c137/blindmarker/internal/archive"
	"github.com/Wxl-c137/blindmarker/internal/diskguard"
	"github.com/Wxl-c137/blindmarker/internal/imagecodec"
	"github.com/Wxl-c137/blindmarker/internal/model"
	"github.com/Wxl-c137/blindmarker/internal/scanner"
	"github.com/Wxl-c137/blindmarker/internal/structcodec"
	"github.com/Wxl-c137/blindmarker/internal/workspace"
)

// ScanResult is the result of scan_all_watermarks_in_archive (§6):
// every structured-data finding, every image finding, and how many PNGs
// were examined.
type ScanResult struct {
	JSONFindings    []model.WatermarkFinding
	ImageFindings   []model.ImageFinding
	ScannedPNGCount int
}

// ScanAllWatermarks extracts archivePath to scratch and reads every
// JSON/VAJ/VMI member plus, if scanImages is set, every PNG, looking for
// watermarks under the default field name and the obfuscation marker
// (§6 "scan_all_watermarks_in_archive"). The extraction directory is
// read-only here; nothing is written back.
func (o *Orchestrator) ScanAllWatermarks(ctx context.Context, archivePath, aesKey string, scanImages bool) (ScanResult, error) {
	estimated, err := archive.EstimateUncompressedBytes(archivePath)
	if err != nil {
		return ScanResult{}, err
	}
	if err := diskguard.Check(o.ScratchRoot, estimated); err != nil {
		return ScanResult{}, err
	}

	ws, err := workspace.Acquire(o.ScratchRoot)
	if err != nil {
		return ScanResult{}, err
	}
	defer ws.Release()

	if err := archive.Extract(archivePath, ws.ExtractDir(), archive.DefaultMaxBytes, archive.DefaultMaxEntries); err != nil {
		return ScanResult{}, err
	}

	scanResult, err := scanner.Scan(ws.ExtractDir())
	if err != nil {
		return ScanResult{}, err
	}
	jsonTasks, vajTasks, vmiTasks, imageTasks := scanner.Group(scanResult.Tasks)
	structured := append(append(append([]model.FileTask{}, jsonTasks...), vajTasks...), vmiTasks...)

	jsonFindings, err := runGroup(ctx, structured, o.WorkerCount, func(_ context.Context, t model.FileTask) ([]model.WatermarkFinding, bool, error) {
		findings, err := extractStructuredFindings(t, aesKey)
		if err != nil {
			return nil, false, nil // per-file parse failure is non-fatal at scan (§7 "No-mark")
		}
		return findings, len(findings) > 0, nil
	})
	if err != nil {
		return ScanResult{}, err
	}

	result := ScanResult{JSONFindings: flattenFindings(jsonFindings)}

	if scanImages {
		result.ScannedPNGCount = len(imageTasks)
		imageFindings, err := runGroup(ctx, imageTasks, o.WorkerCount, func(_ context.Context, t model.FileTask) (model.ImageFinding, bool, error) {
			data, err := os.ReadFile(t.AbsoluteTempPath)
			if err != nil {
				return model.ImageFinding{}, false, err
			}
			hexVal, err := imagecodec.Extract(data, o.ImageCache)
			if err != nil {
				if errors.Is(err, imagecodec.ErrNoWatermark) || errors.Is(err, imagecodec.ErrImageTooSmall) || errors.Is(err, imagecodec.ErrDecodeFailure) {
					return model.ImageFinding{}, false, nil
				}
				return model.ImageFinding{}, false, err
			}
			return model.ImageFinding{RelativePath: t.RelativePath, DecodedText: hexVal}, true, nil
		})
		if err != nil {
			return ScanResult{}, err
		}
		result.ImageFindings = imageFindings
	}

	return result, nil
}

func extractStructuredFindings(t model.FileTask, aesKey string) ([]model.WatermarkFinding, error) {
	data, err := os.ReadFile(t.AbsoluteTempPath)
	if err != nil {
		return nil, err
	}
	findings, err := structcodec.Extract(data, "_watermark", aesKey)
	if err != nil {
		return nil, err
	}
	for i := range findings {
		findings[i].RelativePath = t.RelativePath
	}
	return findings, nil
}

func flattenFindings(groups [][]model.WatermarkFinding) []model.WatermarkFinding {
	var out []model.WatermarkFinding
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// ListImagesInArchive extracts archivePath to scratch and returns every
// PNG/JPEG member's relative path in scan order (§6
// "list_images_in_archive").
func (o *Orchestrator) ListImagesInArchive(archivePath string) ([]string, error) {
	estimated, err := archive.EstimateUncompressedBytes(archivePath)
	if err != nil {
		return nil, err
	}
	if err := diskguard.Check(o.ScratchRoot, estimated); err != nil {
		return nil, err
	}

	ws, err := workspace.Acquire(o.ScratchRoot)
	if err != nil {
		return nil, err
	}
	defer ws.Release()

	if err := archive.Extract(archivePath, ws.ExtractDir(), archive.DefaultMaxBytes, archive.DefaultMaxEntries); err != nil {
		return nil, err
	}

	scanResult, err := scanner.Scan(ws.ExtractDir())
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, t := range scanResult.Tasks {
		if t.Type == model.TypePNG || t.Type == model.TypeJPEG {
			paths = append(paths, filepath.ToSlash(t.RelativePath))
		}
	}
	return paths, nil
}
