// Package diskguard checks free disk space on the scratch filesystem
// before a job extracts an archive into it, adapted from the teacher's
// internal/diskstat (its statfs plumbing and warning-level thresholds),
// trimmed to the one check an orchestrator needs before extraction.
package diskguard

import (
	"errors"
	"fmt"
	"log/slog"
	"syscall"

	"github.com/dustin/go-humanize"
)

// ErrInsufficientSpace is returned when the scratch filesystem does not
// have enough free space relative to the job's estimated footprint.
var ErrInsufficientSpace = errors.New("diskguard: insufficient free space on scratch filesystem")

// headroomFactor is how much free space Check demands beyond the raw
// estimate, since extraction briefly holds both the archive and its
// extracted contents, and repack needs room for the output archive too.
const headroomFactor = 1.5

// Stats is a point-in-time snapshot of the scratch filesystem's usage.
type Stats struct {
	TotalBytes uint64
	FreeBytes  uint64
}

// PctFree returns the percentage of the filesystem that is free (0-100).
func (s Stats) PctFree() float64 {
	if s.TotalBytes == 0 {
		return 100
	}
	return float64(s.FreeBytes) / float64(s.TotalBytes) * 100
}

// Warning levels, in increasing severity.
const (
	WarnNone   = 0
	WarnYellow = 1
	WarnRed    = 2
	WarnBlock  = 3
)

// WarningLevel classifies s.PctFree() against three thresholds.
func (s Stats) WarningLevel(yellowPct, redPct, blockPct float64) int {
	pct := s.PctFree()
	switch {
	case pct <= blockPct:
		return WarnBlock
	case pct <= redPct:
		return WarnRed
	case pct <= yellowPct:
		return WarnYellow
	default:
		return WarnNone
	}
}

// Read statfs's scratchRoot.
func Read(scratchRoot string) (Stats, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(scratchRoot, &stat); err != nil {
		return Stats{}, fmt.Errorf("diskguard: statfs %s: %w", scratchRoot, err)
	}
	bsize := uint64(stat.Bsize)
	return Stats{TotalBytes: bsize * stat.Blocks, FreeBytes: bsize * stat.Bfree}, nil
}

// Check refuses a job up front when scratchRoot's free space is
// implausibly small relative to estimatedBytes (the archive's
// uncompressed size sum), applying headroomFactor since extraction and
// repack each need working room beyond the raw content size.
func Check(scratchRoot string, estimatedBytes int64) error {
	stats, err := Read(scratchRoot)
	if err != nil {
		return err
	}
	required := uint64(float64(estimatedBytes) * headroomFactor)
	if stats.FreeBytes < required {
		slog.Warn("diskguard: insufficient free space on scratch filesystem",
			"free", humanize.Bytes(stats.FreeBytes), "required", humanize.Bytes(required))
		return fmt.Errorf("%w: have %s free, need ~%s", ErrInsufficientSpace,
			humanize.Bytes(stats.FreeBytes), humanize.Bytes(required))
	}
	slog.Debug("diskguard: sufficient free space on scratch filesystem",
		"free", humanize.Bytes(stats.FreeBytes), "required", humanize.Bytes(required))
	return nil
}
