// Package core provides tests for DriveSweep duplicate detection.
package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/drivesweep/drivesweep/internal/model"
)

func TestDuplicateDetector_FirstSeenWins(t *testing.T) {
	d := NewDuplicateDetector()
	now := time.Now()

	first := model.FileRecord{Name: "report.pdf", Path: "/drive/a/report.pdf", Size: 512, Modified: now}
	second := model.FileRecord{Name: "report.pdf", Path: "/drive/b/report.pdf", Size: 512, Modified: now}
	third := model.FileRecord{Name: "report.pdf", Path: "/drive/c/report.pdf", Size: 512, Modified: now}

	if _, ok := d.Observe(first); ok {
		t.Error("first sighting should not be a duplicate")
	}

	dup1, ok := d.Observe(second)
	if !ok {
		t.Fatal("second sighting should be a duplicate")
	}
	dup2, ok := d.Observe(third)
	if !ok {
		t.Fatal("third sighting should be a duplicate")
	}

	// Three files, two records, and the original never moves
	if dup1.Original != first.Path {
		t.Errorf("expected original %s, got %s", first.Path, dup1.Original)
	}
	if dup2.Original != first.Path {
		t.Errorf("expected original %s for the third copy too, got %s", first.Path, dup2.Original)
	}
	if dup1.Duplicate != second.Path {
		t.Errorf("expected duplicate %s, got %s", second.Path, dup1.Duplicate)
	}
}

func TestDuplicateDetector_NameAndSizeBothMatter(t *testing.T) {
	d := NewDuplicateDetector()

	d.Observe(model.FileRecord{Name: "data.bin", Path: "/drive/data.bin", Size: 100})

	// Same name, different size
	if _, ok := d.Observe(model.FileRecord{Name: "data.bin", Path: "/drive/other/data.bin", Size: 101}); ok {
		t.Error("same name with a different size is not a duplicate")
	}

	// Same size, different name
	if _, ok := d.Observe(model.FileRecord{Name: "data2.bin", Path: "/drive/data2.bin", Size: 100}); ok {
		t.Error("same size with a different name is not a duplicate")
	}

	// Both matching
	if _, ok := d.Observe(model.FileRecord{Name: "data.bin", Path: "/drive/copy/data.bin", Size: 100}); !ok {
		t.Error("matching name and size should be a duplicate")
	}
}

func TestDuplicateDetector_RecordFields(t *testing.T) {
	d := NewDuplicateDetector()
	modified := time.Now().Add(-time.Hour)

	d.Observe(model.FileRecord{Name: "song.mp3", Path: "/drive/song.mp3", Size: 2048})
	dup, ok := d.Observe(model.FileRecord{
		Name:         "song.mp3",
		Path:         "/drive/music/song.mp3",
		RelativePath: "music/song.mp3",
		Size:         2048,
		Modified:     modified,
	})
	if !ok {
		t.Fatal("expected a duplicate record")
	}

	if dup.RelativePath != "music/song.mp3" {
		t.Errorf("expected relative path of the duplicate, got %s", dup.RelativePath)
	}
	if dup.Size != 2048 {
		t.Errorf("expected size 2048, got %d", dup.Size)
	}
	if !dup.Modified.Equal(modified) {
		t.Errorf("expected the duplicate's mtime, got %v", dup.Modified)
	}
}

// TestAnalyzer_DuplicatesAcrossFolders verifies that the walk order
// makes the top-level copy the original for every later sighting.
func TestAnalyzer_DuplicatesAcrossFolders(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	content := []byte("same bytes everywhere")
	os.WriteFile(filepath.Join(tmpDir, "photo.jpg"), content, 0644)
	os.MkdirAll(filepath.Join(tmpDir, "alpha"), 0755)
	os.WriteFile(filepath.Join(tmpDir, "alpha", "photo.jpg"), content, 0644)
	os.MkdirAll(filepath.Join(tmpDir, "beta"), 0755)
	os.WriteFile(filepath.Join(tmpDir, "beta", "photo.jpg"), content, 0644)

	a := NewAnalyzer(nil)
	report, err := a.Analyze(tmpDir)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if len(report.Duplicates) != 2 {
		t.Fatalf("expected 2 duplicate records for 3 copies, got %d", len(report.Duplicates))
	}

	// Root files are visited before any subfolder
	original := filepath.Join(tmpDir, "photo.jpg")
	for _, dup := range report.Duplicates {
		if dup.Original != original {
			t.Errorf("expected original %s, got %s", original, dup.Original)
		}
	}
	if report.Duplicates[0].Duplicate != filepath.Join(tmpDir, "alpha", "photo.jpg") {
		t.Errorf("first duplicate should be the alpha copy, got %s", report.Duplicates[0].Duplicate)
	}
	if report.Duplicates[1].Duplicate != filepath.Join(tmpDir, "beta", "photo.jpg") {
		t.Errorf("second duplicate should be the beta copy, got %s", report.Duplicates[1].Duplicate)
	}
}
