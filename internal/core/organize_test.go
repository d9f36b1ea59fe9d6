// Package core provides tests for the DriveSweep organize planner.
package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/drivesweep/drivesweep/internal/model"
)

func TestPlanner_ExtensionMapping(t *testing.T) {
	p := NewPlanner()

	cases := []struct {
		name   string
		folder string
	}{
		{"photo.jpg", "Images"},
		{"scan.jpeg", "Images"},
		{"diagram.png", "Images"},
		{"loop.gif", "Images"},
		{"manual.pdf", "Documents"},
		{"letter.doc", "Documents"},
		{"letter.docx", "Documents"},
		{"notes.txt", "Documents"},
		{"clip.mp4", "Videos"},
		{"clip.mov", "Videos"},
		{"song.mp3", "Audio"},
		{"take.wav", "Audio"},
	}
	for _, c := range cases {
		folder, ok := p.Destination(c.name)
		if !ok {
			t.Errorf("%s should have a destination", c.name)
			continue
		}
		if folder != c.folder {
			t.Errorf("%s: expected %s, got %s", c.name, c.folder, folder)
		}
	}

	// Extensions match case-insensitively, names are kept as-is
	folder, ok := p.Destination("HOLIDAY.JPG")
	if !ok || folder != "Images" {
		t.Errorf("uppercase extension should map to Images, got %s %v", folder, ok)
	}
}

func TestPlanner_DotfilesAndUnmappedStay(t *testing.T) {
	p := NewPlanner()

	for _, name := range []string{".hidden.jpg", ".DS_Store", "README", "archive.zip", "binary.exe"} {
		if _, ok := p.Destination(name); ok {
			t.Errorf("%s should not be organized", name)
		}
	}
}

func TestPlanner_PlanFolder(t *testing.T) {
	profile := &model.FolderProfile{
		Path: "/drive/Downloads",
		LooseFiles: []model.FileRecord{
			{Name: "photo.jpg"},
			{Name: "notes.txt"},
			{Name: "archive.zip"},
			{Name: ".config.txt"},
		},
	}

	ops := NewPlanner().PlanFolder(profile)

	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ops))
	}
	if ops[0].Type != model.OperationMove {
		t.Errorf("expected move operations, got %s", ops[0].Type)
	}
	if ops[0].Source != filepath.Join("/drive/Downloads", "photo.jpg") {
		t.Errorf("unexpected source: %s", ops[0].Source)
	}
	if ops[0].Destination != filepath.Join("/drive/Downloads", "Images", "photo.jpg") {
		t.Errorf("unexpected destination: %s", ops[0].Destination)
	}
	if ops[1].Destination != filepath.Join("/drive/Downloads", "Documents", "notes.txt") {
		t.Errorf("unexpected destination: %s", ops[1].Destination)
	}
}

func TestPlanner_EmptyPlanForCleanFolder(t *testing.T) {
	profile := &model.FolderProfile{
		Path:       "/drive/empty",
		LooseFiles: []model.FileRecord{},
	}

	ops := NewPlanner().PlanFolder(profile)
	if ops == nil {
		t.Fatal("plan should be an empty slice, not nil")
	}
	if len(ops) != 0 {
		t.Errorf("expected no operations, got %d", len(ops))
	}
}

// TestOrganize_EndToEnd runs profile, plan and execute against a real
// folder and verifies what moved and what stayed.
func TestOrganize_EndToEnd(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	os.WriteFile(filepath.Join(tmpDir, "photo.jpg"), []byte("img"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "song.mp3"), []byte("mp3"), 0644)
	os.WriteFile(filepath.Join(tmpDir, "keep.zip"), []byte("zip"), 0644)
	os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("secret"), 0644)

	profile, err := ProfileFolder(tmpDir)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}

	ops := NewPlanner().PlanFolder(profile)
	result, err := NewExecutor(nil).Execute(context.Background(), ops, false)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if result.Summary.Failed != 0 {
		t.Fatalf("organize failed: %v", result.Errors)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "Images", "photo.jpg")); err != nil {
		t.Error("photo.jpg should be in Images")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "Audio", "song.mp3")); err != nil {
		t.Error("song.mp3 should be in Audio")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "keep.zip")); err != nil {
		t.Error("keep.zip should stay in place")
	}
	if _, err := os.Stat(filepath.Join(tmpDir, ".env")); err != nil {
		t.Error(".env should stay in place")
	}
}
