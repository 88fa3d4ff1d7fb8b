// Package scanner walks an extracted job tree and classifies every
// member into a FileTask (C7), producing the per-type counts emitted
// as the job's ScanSummary.
package scanner

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Wxl-c137/blindmarker/internal/model"
)

// Result is the scanner's output: the ordered task list plus the
// summary counts derived from it.
type Result struct {
	Tasks   []model.FileTask
	Summary model.ScanSummary
}

// Scan walks root and returns one FileTask per regular file found,
// ordered deterministically by lowercase relative path and then by
// original casing (§4.7), so that scanning the same tree twice always
// yields the same sequence regardless of filesystem readdir order.
func Scan(root string) (Result, error) {
	type entry struct {
		rel  string
		abs  string
		lc   string
	}
	var entries []entry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		entries = append(entries, entry{rel: rel, abs: path, lc: strings.ToLower(rel)})
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].lc != entries[j].lc {
			return entries[i].lc < entries[j].lc
		}
		return entries[i].rel < entries[j].rel
	})

	var res Result
	res.Tasks = make([]model.FileTask, 0, len(entries))
	for _, e := range entries {
		t := Classify(e.rel)
		res.Tasks = append(res.Tasks, model.FileTask{
			RelativePath:     e.rel,
			AbsoluteTempPath: e.abs,
			Type:             t,
		})
		switch t {
		case model.TypeJSON:
			res.Summary.JSONCount++
		case model.TypeVAJ:
			res.Summary.VAJCount++
		case model.TypeVMI:
			res.Summary.VMICount++
		case model.TypePNG:
			res.Summary.ImageCount++
		}
	}
	return res, nil
}

// Classify maps a relative path to its FileType by extension alone
// (§4.7): .json/.vaj/.vmi are handled identically downstream as JSON
// variants, distinguished only for counting and type-mask filtering.
func Classify(relPath string) model.FileType {
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".json":
		return model.TypeJSON
	case ".vaj":
		return model.TypeVAJ
	case ".vmi":
		return model.TypeVMI
	case ".png":
		return model.TypePNG
	case ".jpg", ".jpeg":
		return model.TypeJPEG
	default:
		return model.TypeOther
	}
}

// Group partitions tasks by type into the four processing groups, in
// the fixed dispatch order json, vaj, vmi, images (§4.8). jpeg and
// other are excluded: §4.7 says they ride along in repack but are
// never marked.
func Group(tasks []model.FileTask) (json, vaj, vmi, images []model.FileTask) {
	for _, t := range tasks {
		switch t.Type {
		case model.TypeJSON:
			json = append(json, t)
		case model.TypeVAJ:
			vaj = append(vaj, t)
		case model.TypeVMI:
			vmi = append(vmi, t)
		case model.TypePNG:
			images = append(images, t)
		}
	}
	return
}
