package workspace

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Janitor periodically sweeps scratchRoot for job-* directories left
// behind by a crashed or killed process (Release never ran), adapted
// from the teacher's cleanup.Cleaner ticker loop — same scoped
// start/stop shape, repurposed from DB-driven campaign expiry to
// filesystem age-based orphan collection.
type Janitor struct {
	ScratchRoot string
	MaxAge      time.Duration
	Interval    time.Duration
	cancel      context.CancelFunc
	done        chan struct{}
}

func (j *Janitor) Start(ctx context.Context) {
	ctx, j.cancel = context.WithCancel(ctx)
	j.done = make(chan struct{})
	go j.loop(ctx)
	slog.Info("workspace janitor started", "interval", j.Interval, "max_age", j.MaxAge)
}

func (j *Janitor) Stop() {
	if j.cancel != nil {
		j.cancel()
		<-j.done
	}
	slog.Info("workspace janitor stopped")
}

func (j *Janitor) loop(ctx context.Context) {
	defer close(j.done)

	j.sweep()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *Janitor) sweep() {
	entries, err := os.ReadDir(j.ScratchRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("workspace janitor: read scratch root", "error", err)
		}
		return
	}

	cutoff := time.Now().Add(-j.MaxAge)
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "job-") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(j.ScratchRoot, e.Name())
		if err := os.RemoveAll(dir); err != nil {
			slog.Warn("workspace janitor: remove orphaned scratch dir", "dir", dir, "error", err)
		} else {
			slog.Info("workspace janitor: removed orphaned scratch dir", "dir", dir)
		}
	}
}
