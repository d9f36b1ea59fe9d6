// Package core provides the overview dashboard for DriveSweep.
//
// INVARIANTS:
// - Read-only operations only
// - NO side effects
// - Human-readable summary
package core

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"time"
)

// Dashboard provides a read-only overview of the recorded state.
type Dashboard struct {
	db        *sql.DB
	dbPath    string
	encrypted bool
	mu        sync.RWMutex
}

// NewDashboard creates a dashboard over an open history database.
func NewDashboard(edb *EncryptedDB) *Dashboard {
	return &Dashboard{
		db:        edb.DB(),
		dbPath:    edb.Path(),
		encrypted: edb.IsEncrypted(),
	}
}

// Overview contains the complete system overview.
type Overview struct {
	GeneratedAt time.Time `json:"generated_at"`

	// History summary
	SchemaVersion string     `json:"schema_version"`
	RecordedScans int        `json:"recorded_scans"`
	LastScanTime  *time.Time `json:"last_scan_time,omitempty"`
	LastDrivePath string     `json:"last_drive_path,omitempty"`

	// Aggregates from the most recent scan
	TotalSize      int64 `json:"total_size"`
	FileCount      int   `json:"file_count"`
	FolderCount    int   `json:"folder_count"`
	LargeFiles     int   `json:"large_files"`
	SystemFiles    int   `json:"system_files"`
	ProtectedFiles int   `json:"protected_files"`
	Duplicates     int   `json:"duplicates"`
	ScanErrors     int   `json:"scan_errors"`

	// Journal summary
	LoggedOperations  int `json:"logged_operations"`
	AppliedOperations int `json:"applied_operations"`
	FailedOperations  int `json:"failed_operations"`
	PendingOperations int `json:"pending_operations"`

	// Store summary
	DatabasePath string `json:"database_path"`
	DatabaseSize int64  `json:"database_size"`
	Encrypted    bool   `json:"encrypted"`
}

// GetOverview returns a complete read-only overview. Individual
// queries are best-effort: a missing table just leaves its fields zero.
func (d *Dashboard) GetOverview(ctx context.Context) (*Overview, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	o := &Overview{
		GeneratedAt:  time.Now(),
		DatabasePath: d.dbPath,
		Encrypted:    d.encrypted,
	}

	d.db.QueryRowContext(ctx, `SELECT value FROM history_meta WHERE key = 'schema_version'`).Scan(&o.SchemaVersion)

	// History summary
	d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scans`).Scan(&o.RecordedScans)

	var scanTime string
	err := d.db.QueryRowContext(ctx, `
		SELECT scan_time, drive_path, total_size, file_count, folder_count,
		       large_count, system_count, protected_count, duplicate_count, error_count
		FROM scans ORDER BY id DESC LIMIT 1
	`).Scan(&scanTime, &o.LastDrivePath, &o.TotalSize, &o.FileCount, &o.FolderCount,
		&o.LargeFiles, &o.SystemFiles, &o.ProtectedFiles, &o.Duplicates, &o.ScanErrors)
	if err == nil {
		t := parseDBTime(scanTime)
		o.LastScanTime = &t
	}

	// Journal summary
	d.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN state = 'applied' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN state = 'failed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN state = 'pending' THEN 1 ELSE 0 END), 0)
		FROM operation_log
	`).Scan(&o.LoggedOperations, &o.AppliedOperations, &o.FailedOperations, &o.PendingOperations)

	// Store summary
	if info, err := os.Stat(d.dbPath); err == nil {
		o.DatabaseSize = info.Size()
	}

	return o, nil
}
