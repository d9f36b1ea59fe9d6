// Package core provides tests for the DriveSweep history store.
package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/drivesweep/drivesweep/internal/model"
)

func newTestHistory(t *testing.T, dir string) *HistoryStore {
	db, err := OpenEncryptedDB(filepath.Join(dir, "history.db"), "")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewHistoryStore(db)
	if err := h.Initialize(context.Background()); err != nil {
		t.Fatalf("failed to initialize history: %v", err)
	}
	return h
}

func sampleReport(drivePath string) *model.AnalysisReport {
	return &model.AnalysisReport{
		DrivePath:   drivePath,
		ScanTime:    time.Now(),
		TotalSize:   4096,
		FileCount:   3,
		FolderCount: 1,
		LargeFiles:  []model.FileRecord{{Name: "big.bin", Path: filepath.Join(drivePath, "big.bin"), Size: 4000}},
		Duplicates: []model.DuplicateRecord{{
			Original:  filepath.Join(drivePath, "a", "copy.txt"),
			Duplicate: filepath.Join(drivePath, "b", "copy.txt"),
			Size:      48,
		}},
		Errors: []model.ScanError{{Path: filepath.Join(drivePath, "sealed"), Message: "permission denied"}},
	}
}

func TestHistoryStore_SaveAndGetReport(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	h := newTestHistory(t, tmpDir)
	ctx := context.Background()

	report := sampleReport("/drive/main")
	scanID, err := h.SaveReport(ctx, report)
	if err != nil {
		t.Fatalf("failed to save report: %v", err)
	}
	if scanID == "" {
		t.Fatal("scan ID should not be empty")
	}

	loaded, err := h.GetReport(ctx, scanID)
	if err != nil {
		t.Fatalf("failed to load report: %v", err)
	}

	if loaded.DrivePath != "/drive/main" {
		t.Errorf("expected drive path '/drive/main', got '%s'", loaded.DrivePath)
	}
	if loaded.FileCount != 3 || loaded.TotalSize != 4096 {
		t.Errorf("counters not preserved: %d files, %d bytes", loaded.FileCount, loaded.TotalSize)
	}
	if len(loaded.LargeFiles) != 1 || loaded.LargeFiles[0].Name != "big.bin" {
		t.Errorf("large files not preserved: %v", loaded.LargeFiles)
	}
	if len(loaded.Duplicates) != 1 || loaded.Duplicates[0].Original == "" {
		t.Errorf("duplicates not preserved: %v", loaded.Duplicates)
	}
	if len(loaded.Errors) != 1 {
		t.Errorf("scan errors not preserved: %v", loaded.Errors)
	}
}

func TestHistoryStore_GetReportMissing(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	h := newTestHistory(t, tmpDir)

	_, err = h.GetReport(context.Background(), "no-such-scan")
	if err == nil {
		t.Fatal("loading a missing scan should fail")
	}
}

func TestHistoryStore_ListScansNewestFirst(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	h := newTestHistory(t, tmpDir)
	ctx := context.Background()

	var ids []string
	for _, drive := range []string{"/drive/one", "/drive/two", "/drive/three"} {
		id, err := h.SaveReport(ctx, sampleReport(drive))
		if err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		ids = append(ids, id)
	}

	scans, err := h.ListScans(ctx, 0)
	if err != nil {
		t.Fatalf("failed to list scans: %v", err)
	}
	if len(scans) != 3 {
		t.Fatalf("expected 3 scans, got %d", len(scans))
	}

	if scans[0].ScanID != ids[2] || scans[2].ScanID != ids[0] {
		t.Error("scans should be listed newest first")
	}
	if scans[0].DrivePath != "/drive/three" {
		t.Errorf("expected '/drive/three' first, got '%s'", scans[0].DrivePath)
	}
	if scans[0].DuplicateCount != 1 || scans[0].ErrorCount != 1 || scans[0].LargeCount != 1 {
		t.Errorf("summary counters wrong: %+v", scans[0])
	}
}

func TestHistoryStore_Prune(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	h := newTestHistory(t, tmpDir)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		h.SaveReport(ctx, sampleReport("/drive/main"))
	}
	var newest string
	newest, err = h.SaveReport(ctx, sampleReport("/drive/main"))
	if err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	removed, err := h.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}
	if removed != 4 {
		t.Errorf("expected 4 pruned scans, got %d", removed)
	}

	scans, _ := h.ListScans(ctx, 0)
	if len(scans) != 2 {
		t.Fatalf("expected 2 scans left, got %d", len(scans))
	}
	if scans[0].ScanID != newest {
		t.Error("pruning should keep the newest scans")
	}
}

func TestHistoryStore_LatestReportFor(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	h := newTestHistory(t, tmpDir)
	ctx := context.Background()

	h.SaveReport(ctx, sampleReport("/drive/main"))
	newest, err := h.SaveReport(ctx, sampleReport("/drive/main"))
	if err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	h.SaveReport(ctx, sampleReport("/drive/other"))

	// A path inside the drive resolves to the newest covering scan
	report, scanID, err := h.LatestReportFor(ctx, filepath.Join("/drive/main", "sub", "file.txt"))
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if report == nil {
		t.Fatal("expected a covering report")
	}
	if scanID != newest {
		t.Errorf("expected the newest covering scan %s, got %s", newest, scanID)
	}

	// The drive root itself is covered
	report, _, err = h.LatestReportFor(ctx, "/drive/main")
	if err != nil || report == nil {
		t.Errorf("drive root should be covered, got report=%v err=%v", report, err)
	}

	// Sibling prefixes do not match: /drive/main2 is not under /drive/main
	report, _, err = h.LatestReportFor(ctx, "/drive/main2/file.txt")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if report != nil && report.DrivePath == "/drive/main" {
		t.Error("path prefix matching must respect separators")
	}

	// Nothing covers an unrelated path, and that is not an error
	report, scanID, err = h.LatestReportFor(ctx, "/elsewhere/file.txt")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if report != nil || scanID != "" {
		t.Error("uncovered path should return no report")
	}
}

func TestHistoryStore_OperationsForPath(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	h := newTestHistory(t, tmpDir)
	ctx := context.Background()

	// The same path as a delete target and as a move destination
	id1, err := h.LogPending(ctx, "batch-1", model.NewDelete("/drive/photo.jpg"))
	if err != nil {
		t.Fatalf("failed to log: %v", err)
	}
	h.MarkApplied(ctx, id1)

	id2, _ := h.LogPending(ctx, "batch-2", model.NewMove("/drive/tmp.jpg", "/drive/photo.jpg"))
	h.MarkFailed(ctx, id2, os.ErrPermission)

	h.LogPending(ctx, "batch-2", model.NewDelete("/drive/unrelated.txt"))

	ops, err := h.OperationsForPath(ctx, "/drive/photo.jpg")
	if err != nil {
		t.Fatalf("failed to query: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations touching the path, got %d", len(ops))
	}

	// Newest first
	if ops[0].OperationID != id2 || ops[0].State != model.OperationStateFailed {
		t.Errorf("expected the failed move first, got %+v", ops[0])
	}
	if ops[0].Error == "" {
		t.Error("failed operation should carry its error text")
	}
	if ops[1].OperationID != id1 || ops[1].State != model.OperationStateApplied {
		t.Errorf("expected the applied delete second, got %+v", ops[1])
	}
	if ops[1].CompletedAt == nil {
		t.Error("completed operation should have a completion time")
	}

	ops, _ = h.OperationsForPath(ctx, "/drive/never-touched.txt")
	if len(ops) != 0 {
		t.Errorf("expected no operations, got %d", len(ops))
	}
}

func TestHistoryStore_SchemaVersion(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "drivesweep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	h := newTestHistory(t, tmpDir)

	version, err := h.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != "1.0" {
		t.Errorf("expected schema version 1.0, got %s", version)
	}
}

// Benchmark test for report recording
func BenchmarkHistoryStore_SaveReport(b *testing.B) {
	tmpDir, _ := os.MkdirTemp("", "drivesweep-bench-*")
	defer os.RemoveAll(tmpDir)

	db, _ := OpenEncryptedDB(filepath.Join(tmpDir, "history.db"), "")
	defer db.Close()
	h := NewHistoryStore(db)
	ctx := context.Background()
	h.Initialize(ctx)

	report := sampleReport("/drive/bench")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.SaveReport(ctx, report)
	}
}

// Test helper to verify no race conditions
func TestHistoryStore_Concurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping concurrent test in short mode")
	}

	tmpDir, _ := os.MkdirTemp("", "drivesweep-test-*")
	defer os.RemoveAll(tmpDir)

	db, _ := OpenEncryptedDB(filepath.Join(tmpDir, "history.db"), "")
	defer db.Close()
	h := NewHistoryStore(db)
	ctx := context.Background()
	h.Initialize(ctx)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(n int) {
			for j := 0; j < 10; j++ {
				h.SaveReport(ctx, sampleReport("/drive/concurrent"))
				h.ListScans(ctx, 5)
				time.Sleep(time.Millisecond)
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
