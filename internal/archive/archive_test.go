package archive_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/Wxl-c137/blindmarker/internal/archive"
	"github.com/Wxl-c137/blindmarker/internal/model"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %q: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write entry %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
}

func TestExtractRepackZipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.zip")
	writeZip(t, src, map[string]string{
		"a.txt":        "hello",
		"nested/b.txt": "world",
	})

	destDir := filepath.Join(dir, "extracted")
	if err := os.Mkdir(destDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := archive.Extract(src, destDir, archive.DefaultMaxBytes, archive.DefaultMaxEntries); err != nil {
		t.Fatalf("extract: %v", err)
	}

	gotA, err := os.ReadFile(filepath.Join(destDir, "a.txt"))
	if err != nil || string(gotA) != "hello" {
		t.Fatalf("a.txt = %q, %v", gotA, err)
	}
	gotB, err := os.ReadFile(filepath.Join(destDir, "nested", "b.txt"))
	if err != nil || string(gotB) != "world" {
		t.Fatalf("nested/b.txt = %q, %v", gotB, err)
	}

	out := filepath.Join(dir, "out.zip")
	repacked, err := archive.Repack(destDir, out, archive.KindZip)
	if err != nil {
		t.Fatalf("repack: %v", err)
	}
	if repacked != out {
		t.Fatalf("repacked path = %q, want %q", repacked, out)
	}

	r, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("reopen repacked zip: %v", err)
	}
	defer r.Close()

	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	if !names["a.txt"] || !names["nested/b.txt"] {
		t.Fatalf("repacked entries = %v", names)
	}
}

func TestExtractRejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.zip")
	writeZip(t, src, map[string]string{
		"../evil.txt": "pwned",
	})

	destDir := filepath.Join(dir, "extracted")
	if err := os.Mkdir(destDir, 0o755); err != nil {
		t.Fatal(err)
	}

	err := archive.Extract(src, destDir, archive.DefaultMaxBytes, archive.DefaultMaxEntries)
	if err != model.ErrPathTraversal {
		t.Fatalf("got %v, want ErrPathTraversal", err)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "evil.txt")); !os.IsNotExist(statErr) {
		t.Fatalf("traversal entry was written outside destDir")
	}
	entries, err := os.ReadDir(destDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("destDir is not empty after rejected extraction: %v", entries)
	}
}

func TestExtractEntryCountGuard(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "many.zip")
	entries := map[string]string{}
	for i := 0; i < 5; i++ {
		entries[filepath.ToSlash(filepath.Join("f", string(rune('a'+i))))] = "x"
	}
	writeZip(t, src, entries)

	destDir := filepath.Join(dir, "extracted")
	if err := os.Mkdir(destDir, 0o755); err != nil {
		t.Fatal(err)
	}

	err := archive.Extract(src, destDir, archive.DefaultMaxBytes, 2)
	if err != model.ErrTooManyEntries {
		t.Fatalf("got %v, want ErrTooManyEntries", err)
	}
}

func TestExtractSizeGuard(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "big.zip")
	big := make([]byte, 1024)
	writeZip(t, src, map[string]string{"big.bin": string(big)})

	destDir := filepath.Join(dir, "extracted")
	if err := os.Mkdir(destDir, 0o755); err != nil {
		t.Fatal(err)
	}

	err := archive.Extract(src, destDir, 100, archive.DefaultMaxEntries)
	if err != model.ErrArchiveTooLarge {
		t.Fatalf("got %v, want ErrArchiveTooLarge", err)
	}
}

func TestDetectKind(t *testing.T) {
	cases := map[string]archive.Kind{
		"a.zip": archive.KindZip,
		"a.var": archive.KindZip,
		"a.7z":  archive.KindSevenZip,
		"a.rar": archive.KindRar,
	}
	for name, want := range cases {
		got, ok := archive.DetectKind(name)
		if !ok || got != want {
			t.Fatalf("DetectKind(%q) = %v, %v; want %v, true", name, got, ok, want)
		}
	}
	if _, ok := archive.DetectKind("a.txt"); ok {
		t.Fatalf("DetectKind(.txt) should be unrecognized")
	}
}

func TestRepackDegradesSevenZipToZip(t *testing.T) {
	dir := t.TempDir()
	srcDir := filepath.Join(dir, "tree")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(srcDir, "a.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.7z")
	repacked, err := archive.Repack(srcDir, out, archive.KindSevenZip)
	if err != nil {
		t.Fatalf("repack: %v", err)
	}
	if repacked != filepath.Join(dir, "out.zip") {
		t.Fatalf("repacked path = %q, want out.zip", repacked)
	}
	if _, err := os.Stat(repacked); err != nil {
		t.Fatalf("degraded zip not written: %v", err)
	}
}
