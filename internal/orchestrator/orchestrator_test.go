package orchestrator_test

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/Wxl-c137/blindmarker/internal/imagecodec"
	"github.com/Wxl-c137/blindmarker/internal/model"
	"github.com/Wxl-c137/blindmarker/internal/orchestrator"
	"github.com/Wxl-c137/blindmarker/internal/progress"
	"github.com/Wxl-c137/blindmarker/internal/sse"
)

func randomPNGBytes(t *testing.T, seed int64) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func writeZip(t *testing.T, path string, entries map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(body); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func newSink() *progress.Sink {
	return progress.New(sse.New(), "test-job")
}

func TestProcessArchiveExcelFanOutProducesOneDirPerRow(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.zip")
	writeZip(t, src, map[string][]byte{
		"a.png": randomPNGBytes(t, 1),
		"b.png": randomPNGBytes(t, 2),
		"c.png": randomPNGBytes(t, 3),
	})

	scratch := filepath.Join(dir, "scratch")
	o := orchestrator.New(scratch, 4)

	cfg := &model.JobConfig{
		ArchivePath:  src,
		Payload:      model.WatermarkPayload{Rows: []string{"alpha", "beta", "gamma"}},
		EncodingMode: model.ModeMD5,
		TypeMask:     model.TypeMask{Images: true},
		OutputDir:    filepath.Join(dir, "out"),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	outDir, skips, err := o.ProcessArchive(context.Background(), cfg, newSink())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(skips) != 0 {
		t.Fatalf("unexpected skips: %+v", skips)
	}
	if outDir != cfg.OutputDir {
		t.Fatalf("outDir = %q, want %q", outDir, cfg.OutputDir)
	}

	for _, payload := range []string{"alpha", "beta", "gamma"} {
		archivePath := filepath.Join(cfg.OutputDir, payload, "in.zip")
		r, err := zip.OpenReader(archivePath)
		if err != nil {
			t.Fatalf("open %s: %v", archivePath, err)
		}
		if len(r.File) != 3 {
			t.Fatalf("%s: got %d entries, want 3", archivePath, len(r.File))
		}
		r.Close()
		wantSum := md5.Sum([]byte(payload))
		want := hex.EncodeToString(wantSum[:])

		for _, name := range []string{"a.png", "b.png", "c.png"} {
			data := readZipEntry(t, archivePath, name)
			got, err := imagecodec.Extract(data, nil)
			if err != nil {
				t.Fatalf("%s/%s: extract: %v", payload, name, err)
			}
			if got != want {
				t.Fatalf("%s/%s: got %q, want %q", payload, name, got, want)
			}
		}
	}
}

func readZipEntry(t *testing.T, archivePath, name string) []byte {
	t.Helper()
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				t.Fatal(err)
			}
			defer rc.Close()
			buf := make([]byte, f.UncompressedSize64)
			total := 0
			for total < len(buf) {
				n, err := rc.Read(buf[total:])
				total += n
				if err != nil {
					break
				}
			}
			return buf[:total]
		}
	}
	t.Fatalf("entry %s not found in %s", name, archivePath)
	return nil
}

func TestProcessArchiveJPEGPassthrough(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.zip")
	jpegBytes := []byte{0xFF, 0xD8, 0xFF, 0xD9} // minimal SOI/EOI marker pair, not a valid decodable image
	writeZip(t, src, map[string][]byte{
		"photo.jpg": jpegBytes,
		"a.png":     randomPNGBytes(t, 7),
	})

	scratch := filepath.Join(dir, "scratch")
	o := orchestrator.New(scratch, 2)
	cfg := &model.JobConfig{
		ArchivePath:  src,
		Payload:      model.WatermarkPayload{Single: "mark"},
		EncodingMode: model.ModeMD5,
		TypeMask:     model.TypeMask{Images: true},
		OutputDir:    filepath.Join(dir, "out"),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	outPath, _, err := o.ProcessArchive(context.Background(), cfg, newSink())
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	got := readZipEntry(t, outPath, "photo.jpg")
	if string(got) != string(jpegBytes) {
		t.Fatalf("jpeg entry mutated: got %v, want %v", got, jpegBytes)
	}
}

func TestProcessArchiveImageSelectionSkipsUnselected(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.zip")
	writeZip(t, src, map[string][]byte{
		"a.png": randomPNGBytes(t, 11),
		"b.png": randomPNGBytes(t, 12),
	})

	scratch := filepath.Join(dir, "scratch")
	o := orchestrator.New(scratch, 2)
	cfg := &model.JobConfig{
		ArchivePath:    src,
		Payload:        model.WatermarkPayload{Single: "mark"},
		EncodingMode:   model.ModeMD5,
		TypeMask:       model.TypeMask{Images: true},
		ImageSelection: map[string]struct{}{"a.png": {}},
		OutputDir:      filepath.Join(dir, "out"),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	outPath, _, err := o.ProcessArchive(context.Background(), cfg, newSink())
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	markedA := readZipEntry(t, outPath, "a.png")
	if _, err := imagecodec.Extract(markedA, nil); err != nil {
		t.Fatalf("a.png should carry a mark: %v", err)
	}

	originalB := readZipEntry(t, src, "b.png")
	passthroughB := readZipEntry(t, outPath, "b.png")
	if string(originalB) != string(passthroughB) {
		t.Fatalf("b.png should be untouched (not in image_selection)")
	}
}

func TestPayloadDirNameFallsBackWhenSanitizedEmpty(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.zip")
	writeZip(t, src, map[string][]byte{"a.png": randomPNGBytes(t, 20)})

	scratch := filepath.Join(dir, "scratch")
	o := orchestrator.New(scratch, 1)
	cfg := &model.JobConfig{
		ArchivePath:  src,
		Payload:      model.WatermarkPayload{Rows: []string{""}},
		EncodingMode: model.ModeMD5,
		TypeMask:     model.TypeMask{Images: true},
		OutputDir:    filepath.Join(dir, "out"),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	_, _, err := o.ProcessArchive(context.Background(), cfg, newSink())
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "row_1")); err != nil {
		t.Fatalf("expected fallback directory row_1: %v", err)
	}
}

func TestProcessArchiveImageTooSmallIsSkippedNotFatal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.zip")

	var tinyBuf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if err := png.Encode(&tinyBuf, img); err != nil {
		t.Fatal(err)
	}
	writeZip(t, src, map[string][]byte{"tiny.png": tinyBuf.Bytes()})

	scratch := filepath.Join(dir, "scratch")
	o := orchestrator.New(scratch, 1)
	cfg := &model.JobConfig{
		ArchivePath:  src,
		Payload:      model.WatermarkPayload{Single: "x"},
		EncodingMode: model.ModeMD5,
		TypeMask:     model.TypeMask{Images: true},
		OutputDir:    filepath.Join(dir, "out"),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	outPath, skips, err := o.ProcessArchive(context.Background(), cfg, newSink())
	if err != nil {
		t.Fatalf("process should succeed despite the skip: %v", err)
	}
	if len(skips) != 1 || skips[0].Code != model.SkipImageTooSmall {
		t.Fatalf("skips = %+v, want one ImageTooSmall", skips)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("output archive missing: %v", err)
	}
}

func TestListImagesInArchiveOrdersByRelativePath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.zip")
	writeZip(t, src, map[string][]byte{
		"z.png":        randomPNGBytes(t, 30),
		"a/photo.jpeg": {0xFF, 0xD8, 0xFF, 0xD9},
		"note.json":    []byte(`{}`),
	})

	scratch := filepath.Join(dir, "scratch")
	o := orchestrator.New(scratch, 2)

	paths, err := o.ListImagesInArchive(src)
	if err != nil {
		t.Fatalf("list images: %v", err)
	}
	want := []string{"a/photo.jpeg", "z.png"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, p := range want {
		if paths[i] != p {
			t.Fatalf("paths = %v, want %v", paths, want)
		}
	}
}

func TestScanAllWatermarksFindsStructuredAndImageMarks(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "embedded.zip")

	marked := randomPNGBytes(t, 40)
	var err error
	marked, err = imagecodec.Embed(marked, "secret", 0.5, false)
	if err != nil {
		t.Fatalf("embed fixture image: %v", err)
	}

	writeZip(t, src, map[string][]byte{
		"doc.json": []byte(`{"a":1,"_watermark":"hello"}`),
		"pic.png":  marked,
	})

	scratch := filepath.Join(dir, "scratch")
	o := orchestrator.New(scratch, 2)

	result, err := o.ScanAllWatermarks(context.Background(), src, "", true)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(result.JSONFindings) != 1 || result.JSONFindings[0].DecodedValue != "hello" {
		t.Fatalf("json findings = %+v", result.JSONFindings)
	}
	if result.ScannedPNGCount != 1 {
		t.Fatalf("scanned png count = %d, want 1", result.ScannedPNGCount)
	}
	wantSum := md5.Sum([]byte("secret"))
	want := hex.EncodeToString(wantSum[:])
	if len(result.ImageFindings) != 1 || result.ImageFindings[0].DecodedText != want {
		t.Fatalf("image findings = %+v, want %q", result.ImageFindings, want)
	}
}
