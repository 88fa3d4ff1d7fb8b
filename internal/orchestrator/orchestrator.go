// Package orchestrator implements the job state machine (C9): extract,
// scan, process, package. It drives the scanner, the two content
// codecs, and the archive layer through one job from an archive path
// to one or more output archives, publishing progress along the way.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dustin/go-humanize"

	"github.com/Wxl-c137/blindmarker/internal/archive"
	"github.com/Wxl-c137/blindmarker/internal/diskguard"
	"github.com/Wxl-c137/blindmarker/internal/imagecodec"
	"github.com/Wxl-c137/blindmarker/internal/model"
	"github.com/Wxl-c137/blindmarker/internal/progress"
	"github.com/Wxl-c137/blindmarker/internal/scanner"
	"github.com/Wxl-c137/blindmarker/internal/workspace"
)

// Orchestrator holds the resources shared across jobs: where scratch
// directories are created, how many workers each type-group wave gets,
// and the content-hash memoization cache for image extraction.
type Orchestrator struct {
	ScratchRoot string
	WorkerCount int
	ImageCache  *imagecodec.Cache
}

// New builds an Orchestrator. workerCount <= 0 defaults to the number
// of logical CPUs (§5 "a fixed-size worker pool sized to the number of
// logical CPUs").
func New(scratchRoot string, workerCount int) *Orchestrator {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	cache, _ := imagecodec.NewCache(256)
	return &Orchestrator{ScratchRoot: scratchRoot, WorkerCount: workerCount, ImageCache: cache}
}

// ProcessArchive runs one job end to end per the state machine IDLE →
// EXTRACTING → SCANNING → PROCESSING → PACKAGING → DONE (§4.9). For a
// single-string payload it returns the one output archive path; for an
// Excel-driven payload list it returns the output directory containing
// one sibling directory per row (§6).
func (o *Orchestrator) ProcessArchive(ctx context.Context, cfg *model.JobConfig, sink *progress.Sink) (string, []model.SkipReason, error) {
	sink.Status(progress.StatusInitializing, "validating job")
	if err := cfg.Validate(); err != nil {
		sink.Status(progress.StatusError, err.Error())
		return "", nil, err
	}

	sourceKind, ok := archive.DetectKind(cfg.ArchivePath)
	if !ok {
		err := model.ErrUnsupportedArchive
		sink.Status(progress.StatusError, err.Error())
		return "", nil, err
	}

	estimated, err := archive.EstimateUncompressedBytes(cfg.ArchivePath)
	if err != nil {
		sink.Status(progress.StatusError, err.Error())
		return "", nil, err
	}
	slog.Info("estimated archive footprint", "archive", cfg.ArchivePath, "size", humanize.Bytes(uint64(estimated)))
	if err := diskguard.Check(o.ScratchRoot, estimated); err != nil {
		sink.Status(progress.StatusError, err.Error())
		return "", nil, err
	}

	ws, err := workspace.Acquire(o.ScratchRoot)
	if err != nil {
		sink.Status(progress.StatusError, err.Error())
		return "", nil, err
	}
	defer ws.Release()

	sink.Status(progress.StatusExtracting, "extracting archive")
	pristineDir := filepath.Join(ws.ExtractDir(), "pristine")
	if err := os.MkdirAll(pristineDir, 0o755); err != nil {
		sink.Status(progress.StatusError, err.Error())
		return "", nil, err
	}
	if err := archive.Extract(cfg.ArchivePath, pristineDir, archive.DefaultMaxBytes, archive.DefaultMaxEntries); err != nil {
		sink.Status(progress.StatusError, err.Error())
		return "", nil, err
	}

	sink.Status(progress.StatusScanning, "scanning extracted tree")
	scanResult, err := scanner.Scan(pristineDir)
	if err != nil {
		sink.Status(progress.StatusError, err.Error())
		return "", nil, err
	}
	sink.ScanSummary(scanResult.Summary)
	slog.Info("scan summary",
		"json", scanResult.Summary.JSONCount,
		"vaj", scanResult.Summary.VAJCount,
		"vmi", scanResult.Summary.VMICount,
		"images", scanResult.Summary.ImageCount,
		"estimated_size", humanize.Bytes(uint64(estimated)))

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(cfg.ArchivePath)
	}
	archiveName := filepath.Base(cfg.ArchivePath)
	rows := payloadRows(cfg.Payload)

	sink.Status(progress.StatusProcessing, "processing files")

	var allSkips []model.SkipReason
	var lastOutputPath string
	for rowIdx, payloadText := range rows {
		rowDir := filepath.Join(ws.OutputDir(), fmt.Sprintf("row-%d", rowIdx))
		if err := copyTree(pristineDir, rowDir); err != nil {
			sink.Status(progress.StatusError, err.Error())
			return "", nil, err
		}
		rowTasks := remapTasks(scanResult.Tasks, rowDir, payloadText)

		skips, err := o.processRow(ctx, cfg, sink, payloadText, rowIdx, len(rows), rowTasks)
		if err != nil {
			sink.Status(progress.StatusError, err.Error())
			return "", nil, err
		}
		allSkips = append(allSkips, skips...)

		sink.Status(progress.StatusPackaging, "packaging output")
		destDir := filepath.Join(outputDir, payloadDirName(payloadText, rowIdx))
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			sink.Status(progress.StatusError, err.Error())
			return "", nil, err
		}
		repacked, err := archive.Repack(rowDir, filepath.Join(destDir, archiveName), sourceKind)
		if err != nil {
			sink.Status(progress.StatusError, err.Error())
			return "", nil, err
		}
		lastOutputPath = repacked
	}

	sink.Status(progress.StatusComplete, fmt.Sprintf("completed, %d file(s) skipped", len(allSkips)))

	if cfg.Payload.IsList() {
		return outputDir, allSkips, nil
	}
	return lastOutputPath, allSkips, nil
}

// payloadRows normalizes JobConfig's payload into the uniform row list
// the batch-fanout loop drives: a single string becomes a one-row batch
// (§6 "Output layout (single-payload mode)" names the same directory
// scheme for both cases).
func payloadRows(p model.WatermarkPayload) []string {
	if p.IsList() {
		return p.Rows
	}
	return []string{p.Single}
}

// processRow runs the fixed-order json, vaj, vmi, images waves over one
// payload row's task set, each wave bounded to WorkerCount in parallel
// (§4.9 "Task grouping & parallelism").
func (o *Orchestrator) processRow(ctx context.Context, cfg *model.JobConfig, sink *progress.Sink, payload string, rowIdx, rowCount int, tasks []model.FileTask) ([]model.SkipReason, error) {
	jsonTasks, vajTasks, vmiTasks, imageTasks := scanner.Group(tasks)

	var allSkips []model.SkipReason
	groups := []struct {
		fileType model.FileType
		tasks    []model.FileTask
		mask     bool
	}{
		{model.TypeJSON, jsonTasks, cfg.TypeMask.JSON},
		{model.TypeVAJ, vajTasks, cfg.TypeMask.VAJ},
		{model.TypeVMI, vmiTasks, cfg.TypeMask.VMI},
		{model.TypePNG, imageTasks, cfg.TypeMask.Images},
	}

	for _, grp := range groups {
		if !grp.mask || len(grp.tasks) == 0 {
			continue
		}
		skips, err := o.runTypeGroup(ctx, sink, grp.fileType, grp.tasks, cfg, payload, rowIdx, rowCount)
		if err != nil {
			return nil, err
		}
		allSkips = append(allSkips, skips...)
	}
	return allSkips, nil
}

// runTypeGroup wraps runGroup with the per-file progress events the
// sink expects: a detail-progress event before each file, plus an
// image-progress event for the images group specifically (§4.10).
func (o *Orchestrator) runTypeGroup(ctx context.Context, sink *progress.Sink, fileType model.FileType, tasks []model.FileTask, cfg *model.JobConfig, payload string, rowIdx, rowCount int) ([]model.SkipReason, error) {
	var typeCurrent atomicCounter

	process := func(ctx context.Context, t model.FileTask) (model.SkipReason, bool, error) {
		current := typeCurrent.next()
		sink.DetailProgress(rowIdx+1, rowCount, string(fileType), current, len(tasks), t.RelativePath)
		if fileType == model.TypePNG {
			sink.ImageProgress(len(tasks), t.RelativePath)
		}

		var skip model.SkipReason
		var skipped bool
		var err error
		if fileType == model.TypePNG {
			skip, skipped, err = embedImage(ctx, t, cfg, payload)
		} else {
			skip, skipped, err = embedStructured(ctx, t, cfg, payload)
		}
		if skipped {
			slog.Warn("skipping file", "path", skip.RelativePath, "code", skip.Code, "error", skip.Message)
		}
		return skip, skipped, err
	}

	return runGroup(ctx, tasks, o.WorkerCount, process)
}
