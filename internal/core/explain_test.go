// Package core provides tests for the DriveSweep path explainer.
package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/drivesweep/drivesweep/internal/model"
)

func TestExplainer_LiveProtectedFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "ai-report.pdf")
	os.WriteFile(path, []byte("0123456789"), 0644)

	exp, err := NewExplainer(nil, nil).Explain(context.Background(), path)
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}

	if !exp.Exists || exp.IsDir {
		t.Errorf("expected an existing file, got exists=%v dir=%v", exp.Exists, exp.IsDir)
	}
	if exp.Size != 10 {
		t.Errorf("expected size 10, got %d", exp.Size)
	}
	if exp.Fingerprint != "ai-report.pdf:10" {
		t.Errorf("unexpected fingerprint: %s", exp.Fingerprint)
	}
	if len(exp.Classifications) != 1 || exp.Classifications[0] != "protected" {
		t.Errorf("expected only 'protected', got %v", exp.Classifications)
	}
	if !strings.Contains(exp.ProtectedReason, "ai") {
		t.Errorf("reason should name the pattern, got %s", exp.ProtectedReason)
	}
	if exp.ScanID != "" {
		t.Error("no history store, no scan context")
	}
}

func TestExplainer_LiveDirectoryProfile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	os.WriteFile(filepath.Join(tmpDir, "one.txt"), []byte("x"), 0644)
	os.MkdirAll(filepath.Join(tmpDir, "sub"), 0755)

	exp, err := NewExplainer(nil, nil).Explain(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}

	if !exp.IsDir {
		t.Fatal("expected a directory")
	}
	if exp.Profile == nil {
		t.Fatal("directory explanation should carry a profile")
	}
	if exp.Profile.FileCount != 1 || len(exp.Profile.Subfolders) != 1 {
		t.Errorf("unexpected profile: %+v", exp.Profile)
	}
}

func TestExplainer_MissingPathWithoutHistory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// An unknown path is not an error, just an empty explanation
	exp, err := NewExplainer(nil, nil).Explain(context.Background(), filepath.Join(tmpDir, "gone.txt"))
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}

	if exp.Exists {
		t.Error("path should not exist")
	}
	if len(exp.Classifications) != 0 {
		t.Errorf("expected no classifications, got %v", exp.Classifications)
	}
}

// TestExplainer_RecordedVerdictsForMissingPath verifies that a deleted
// file keeps its recorded classifications and duplicate links.
func TestExplainer_RecordedVerdictsForMissingPath(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	h := newTestHistory(t, tmpDir)
	ctx := context.Background()

	gone := filepath.Join(tmpDir, "gone.bin")
	original := filepath.Join(tmpDir, "kept.bin")
	os.WriteFile(original, []byte("kept"), 0644)

	report := &model.AnalysisReport{
		DrivePath:  tmpDir,
		FileCount:  2,
		LargeFiles: []model.FileRecord{{Name: "gone.bin", Path: gone, Size: 200 * 1024 * 1024}},
		Duplicates: []model.DuplicateRecord{{Original: original, Duplicate: gone, Size: 200 * 1024 * 1024}},
	}
	scanID, err := h.SaveReport(ctx, report)
	if err != nil {
		t.Fatalf("failed to save report: %v", err)
	}

	opID, _ := h.LogPending(ctx, "batch-1", model.NewDelete(gone))
	h.MarkApplied(ctx, opID)

	exp, err := NewExplainer(nil, h).Explain(ctx, gone)
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}

	if exp.Exists {
		t.Fatal("the file should be missing")
	}
	if exp.ScanID != scanID {
		t.Errorf("expected scan %s, got %s", scanID, exp.ScanID)
	}
	if len(exp.Classifications) != 1 || exp.Classifications[0] != "large" {
		t.Errorf("expected recorded 'large' verdict, got %v", exp.Classifications)
	}
	if exp.Size != 200*1024*1024 {
		t.Errorf("expected the recorded size, got %d", exp.Size)
	}
	if exp.DuplicateOf != original {
		t.Errorf("expected duplicate-of %s, got %s", original, exp.DuplicateOf)
	}
	if len(exp.Operations) != 1 || exp.Operations[0].State != model.OperationStateApplied {
		t.Errorf("expected the applied delete in the log, got %v", exp.Operations)
	}

	// The surviving original lists its copies
	expOrig, err := NewExplainer(nil, h).Explain(ctx, original)
	if err != nil {
		t.Fatalf("explain failed: %v", err)
	}
	if len(expOrig.DuplicateCopies) != 1 || expOrig.DuplicateCopies[0] != gone {
		t.Errorf("expected one recorded copy, got %v", expOrig.DuplicateCopies)
	}
	// Live verdicts win for paths that still exist
	if expOrig.Fingerprint != "kept.bin:4" {
		t.Errorf("expected live fingerprint, got %s", expOrig.Fingerprint)
	}
}
