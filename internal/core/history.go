// Package core provides the history store for DriveSweep.
// Every scan and every real filesystem mutation is recorded here.
//
// INVARIANTS:
// - Operations are journaled BEFORE the filesystem is touched
// - Dry runs never reach the journal
// - Recorded reports are immutable snapshots, pruning only removes whole scans
package core

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/drivesweep/drivesweep/internal/model"
)

// HistoryStore records analysis reports and journals filesystem
// mutations in the encrypted database.
type HistoryStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewHistoryStore creates a history store on an open database.
func NewHistoryStore(edb *EncryptedDB) *HistoryStore {
	return &HistoryStore{db: edb.DB()}
}

// Initialize creates the schema if it doesn't exist.
func (h *HistoryStore) Initialize(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	schema := `
-- DriveSweep History Schema v1.0

-- One row per recorded scan, full report kept as JSON
CREATE TABLE IF NOT EXISTS scans (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_id         TEXT NOT NULL UNIQUE,
    drive_path      TEXT NOT NULL,
    scan_time       TEXT NOT NULL,
    total_size      INTEGER NOT NULL DEFAULT 0,
    file_count      INTEGER NOT NULL DEFAULT 0,
    folder_count    INTEGER NOT NULL DEFAULT 0,
    large_count     INTEGER NOT NULL DEFAULT 0,
    system_count    INTEGER NOT NULL DEFAULT 0,
    protected_count INTEGER NOT NULL DEFAULT 0,
    duplicate_count INTEGER NOT NULL DEFAULT 0,
    error_count     INTEGER NOT NULL DEFAULT 0,
    report_json     TEXT NOT NULL,
    created_at      TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_scans_drive ON scans(drive_path);
CREATE INDEX IF NOT EXISTS idx_scans_time ON scans(scan_time);

-- Durable journal of real filesystem mutations
CREATE TABLE IF NOT EXISTS operation_log (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    operation_id    TEXT NOT NULL UNIQUE,
    batch_id        TEXT NOT NULL,
    operation_type  TEXT NOT NULL CHECK(operation_type IN ('move', 'delete', 'rename')),
    source_path     TEXT NOT NULL,
    target_path     TEXT,
    state           TEXT NOT NULL DEFAULT 'pending'
                    CHECK(state IN ('pending', 'applied', 'failed')),
    error           TEXT,
    created_at      TEXT NOT NULL DEFAULT (datetime('now')),
    completed_at    TEXT
);
CREATE INDEX IF NOT EXISTS idx_oplog_batch ON operation_log(batch_id);
CREATE INDEX IF NOT EXISTS idx_oplog_state ON operation_log(state);

-- Store metadata
CREATE TABLE IF NOT EXISTS history_meta (
    key             TEXT PRIMARY KEY,
    value           TEXT NOT NULL
);

INSERT OR IGNORE INTO history_meta (key, value) VALUES
    ('schema_version', '1.0'),
    ('created_at', datetime('now'));
`
	if _, err := h.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// SchemaVersion returns the store's schema version.
func (h *HistoryStore) SchemaVersion(ctx context.Context) (string, error) {
	var version string
	err := h.db.QueryRowContext(ctx, `SELECT value FROM history_meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil {
		return "", fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// --- Scan Records ---

// SaveReport records one analysis report and returns its scan ID.
func (h *HistoryStore) SaveReport(ctx context.Context, report *model.AnalysisReport) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	scanID := uuid.New().String()
	query := `
		INSERT INTO scans (scan_id, drive_path, scan_time, total_size, file_count, folder_count,
		                   large_count, system_count, protected_count, duplicate_count, error_count, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = h.db.ExecContext(ctx, query,
		scanID, report.DrivePath, report.ScanTime.UTC().Format(time.RFC3339),
		report.TotalSize, report.FileCount, report.FolderCount,
		len(report.LargeFiles), len(report.SystemFiles), len(report.ProtectedFiles),
		len(report.Duplicates), len(report.Errors), string(reportJSON))
	if err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}

	return scanID, nil
}

// ListScans returns recorded scans, newest first.
func (h *HistoryStore) ListScans(ctx context.Context, limit int) ([]model.ScanSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, scan_id, drive_path, scan_time, total_size, file_count, folder_count,
		       large_count, system_count, protected_count, duplicate_count, error_count
		FROM scans ORDER BY id DESC LIMIT ?
	`
	rows, err := h.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var scans []model.ScanSummary
	for rows.Next() {
		var s model.ScanSummary
		var scanTime string
		err := rows.Scan(&s.ID, &s.ScanID, &s.DrivePath, &scanTime,
			&s.TotalSize, &s.FileCount, &s.FolderCount,
			&s.LargeCount, &s.SystemCount, &s.ProtectedCount,
			&s.DuplicateCount, &s.ErrorCount)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		s.ScanTime = parseDBTime(scanTime)
		scans = append(scans, s)
	}

	return scans, nil
}

// GetReport loads the full recorded report for a scan ID.
func (h *HistoryStore) GetReport(ctx context.Context, scanID string) (*model.AnalysisReport, error) {
	var reportJSON string
	err := h.db.QueryRowContext(ctx, `SELECT report_json FROM scans WHERE scan_id = ?`, scanID).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scan not found: %s", scanID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

// LatestReportFor returns the most recent recorded report whose drive
// path covers the given path, or nil when no scan covers it.
func (h *HistoryStore) LatestReportFor(ctx context.Context, path string) (*model.AnalysisReport, string, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT scan_id, drive_path FROM scans ORDER BY id DESC`)
	if err != nil {
		return nil, "", fmt.Errorf("failed to search scans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var scanID, drivePath string
		if err := rows.Scan(&scanID, &drivePath); err != nil {
			return nil, "", fmt.Errorf("failed to scan row: %w", err)
		}
		if !pathCovers(drivePath, path) {
			continue
		}
		rows.Close()
		report, err := h.GetReport(ctx, scanID)
		if err != nil {
			return nil, "", err
		}
		return report, scanID, nil
	}

	return nil, "", nil
}

// Prune keeps the newest keep scans and deletes the rest. The
// operation journal is an audit trail and is never pruned here.
func (h *HistoryStore) Prune(ctx context.Context, keep int) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	result, err := h.db.ExecContext(ctx, `
		DELETE FROM scans WHERE id NOT IN (SELECT id FROM scans ORDER BY id DESC LIMIT ?)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune scans: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned scans: %w", err)
	}
	return deleted, nil
}

// --- Operation Journal ---

// LogPending journals one operation before it is applied.
func (h *HistoryStore) LogPending(ctx context.Context, batchID string, op model.Operation) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	operationID := uuid.New().String()
	query := `
		INSERT INTO operation_log (operation_id, batch_id, operation_type, source_path, target_path, state)
		VALUES (?, ?, ?, ?, ?, 'pending')
	`
	var target interface{}
	if dst := op.DestinationPath(); dst != "" {
		target = dst
	}
	_, err := h.db.ExecContext(ctx, query, operationID, batchID, op.Type, op.TargetPath(), target)
	if err != nil {
		return "", fmt.Errorf("failed to log operation: %w", err)
	}

	return operationID, nil
}

// MarkApplied marks a journaled operation as applied.
func (h *HistoryStore) MarkApplied(ctx context.Context, operationID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	query := `UPDATE operation_log SET state = 'applied', completed_at = datetime('now') WHERE operation_id = ?`
	if _, err := h.db.ExecContext(ctx, query, operationID); err != nil {
		return fmt.Errorf("failed to mark operation applied: %w", err)
	}
	return nil
}

// MarkFailed marks a journaled operation as failed.
func (h *HistoryStore) MarkFailed(ctx context.Context, operationID string, opErr error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	query := `UPDATE operation_log SET state = 'failed', error = ?, completed_at = datetime('now') WHERE operation_id = ?`
	if _, err := h.db.ExecContext(ctx, query, opErr.Error(), operationID); err != nil {
		return fmt.Errorf("failed to mark operation failed: %w", err)
	}
	return nil
}

// ListOperations returns journaled operations, newest first.
func (h *HistoryStore) ListOperations(ctx context.Context, limit int) ([]model.LoggedOperation, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, operation_id, batch_id, operation_type, source_path, target_path,
		       state, error, created_at, completed_at
		FROM operation_log ORDER BY id DESC LIMIT ?
	`
	return h.queryOperations(ctx, query, limit)
}

// PendingOperations returns journaled operations that never completed.
// A pending row after a crash means the mutation may or may not have
// reached the filesystem.
func (h *HistoryStore) PendingOperations(ctx context.Context) ([]model.LoggedOperation, error) {
	query := `
		SELECT id, operation_id, batch_id, operation_type, source_path, target_path,
		       state, error, created_at, completed_at
		FROM operation_log WHERE state = 'pending' ORDER BY id ASC
	`
	return h.queryOperations(ctx, query)
}

// OperationsForPath returns journaled operations touching a path,
// newest first.
func (h *HistoryStore) OperationsForPath(ctx context.Context, path string) ([]model.LoggedOperation, error) {
	query := `
		SELECT id, operation_id, batch_id, operation_type, source_path, target_path,
		       state, error, created_at, completed_at
		FROM operation_log WHERE source_path = ? OR target_path = ? ORDER BY id DESC
	`
	return h.queryOperations(ctx, query, path, path)
}

func (h *HistoryStore) queryOperations(ctx context.Context, query string, args ...interface{}) ([]model.LoggedOperation, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	var ops []model.LoggedOperation
	for rows.Next() {
		var op model.LoggedOperation
		var target, errMsg, completedAt sql.NullString
		var createdAt string
		err := rows.Scan(&op.ID, &op.OperationID, &op.BatchID, &op.Type,
			&op.SourcePath, &target, &op.State, &errMsg, &createdAt, &completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		op.TargetPath = target.String
		op.Error = errMsg.String
		op.CreatedAt = parseDBTime(createdAt)
		if completedAt.Valid {
			t := parseDBTime(completedAt.String)
			op.CompletedAt = &t
		}
		ops = append(ops, op)
	}

	return ops, nil
}

// pathCovers reports whether path sits at or below root.
func pathCovers(root, path string) bool {
	return root == path || strings.HasPrefix(path, root+string(os.PathSeparator))
}

// parseDBTime parses both RFC3339 values written by Go and the
// 'YYYY-MM-DD HH:MM:SS' text SQLite's datetime() produces.
func parseDBTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02 15:04:05", s)
	return t
}
