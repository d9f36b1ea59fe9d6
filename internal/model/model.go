// Package model defines the core domain models for DriveSweep.
// Reports and results are value objects: created fresh per scan or
// execution, owned by the caller, never mutated by the core after
// construction.
package model

import (
	"time"
)

// FileRecord describes a single file flagged during analysis.
type FileRecord struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	RelativePath string    `json:"relative_path"`
	Size         int64     `json:"size"`
	Modified     time.Time `json:"modified"` // filesystem mtime, never wall clock
	Reason       string    `json:"reason,omitempty"`
}

// FolderProfile summarizes the immediate children of one directory.
// Size and FileCount cover loose files only, never nested contents.
type FolderProfile struct {
	Name         string       `json:"name"`
	Path         string       `json:"path"`
	RelativePath string       `json:"relative_path"`
	Size         int64        `json:"size"`
	FileCount    int          `json:"file_count"`
	Subfolders   []string     `json:"subfolders"`
	LooseFiles   []FileRecord `json:"loose_files"`
	LastModified *time.Time   `json:"last_modified,omitempty"`
}

// DuplicateRecord pairs a later-seen file with the first-seen file
// sharing its (name, size) fingerprint.
type DuplicateRecord struct {
	Original     string    `json:"original"`
	Duplicate    string    `json:"duplicate"`
	RelativePath string    `json:"relative_path"`
	Size         int64     `json:"size"`
	Modified     time.Time `json:"modified"`
}

// ScanError records one entry that could not be read during a scan.
type ScanError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// AnalysisReport is the root aggregate produced by one full scan.
// Classification lists are NOT mutually exclusive: a file may appear
// in several of them at once.
type AnalysisReport struct {
	DrivePath      string            `json:"drive_path"`
	ScanTime       time.Time         `json:"scan_time"`
	TotalSize      int64             `json:"total_size"`
	FileCount      int               `json:"file_count"`
	FolderCount    int               `json:"folder_count"`
	Folders        []FolderProfile   `json:"folders"`
	LargeFiles     []FileRecord      `json:"large_files"`
	SystemFiles    []FileRecord      `json:"system_files"`
	ProtectedFiles []FileRecord      `json:"protected_files"`
	Duplicates     []DuplicateRecord `json:"duplicates"`
	Errors         []ScanError       `json:"errors"`
}

// OperationType identifies the kind of a filesystem operation.
type OperationType string

const (
	OperationMove   OperationType = "move"
	OperationDelete OperationType = "delete"
	OperationRename OperationType = "rename"
)

// Operation is one declarative filesystem action. Operations are inert
// data with no lifecycle beyond construction and a single consumption
// by the executor. Only the fields of the matching variant are set.
type Operation struct {
	Type        OperationType `json:"type"`
	Source      string        `json:"source,omitempty"`
	Destination string        `json:"destination,omitempty"`
	Path        string        `json:"path,omitempty"`
	OldPath     string        `json:"old_path,omitempty"`
	NewPath     string        `json:"new_path,omitempty"`
}

// NewMove builds a move operation.
func NewMove(source, destination string) Operation {
	return Operation{Type: OperationMove, Source: source, Destination: destination}
}

// NewDelete builds a delete operation.
func NewDelete(path string) Operation {
	return Operation{Type: OperationDelete, Path: path}
}

// NewRename builds a rename operation.
func NewRename(oldPath, newPath string) Operation {
	return Operation{Type: OperationRename, OldPath: oldPath, NewPath: newPath}
}

// TargetPath returns the path an operation acts on, for reporting.
func (o Operation) TargetPath() string {
	switch o.Type {
	case OperationMove:
		return o.Source
	case OperationDelete:
		return o.Path
	case OperationRename:
		return o.OldPath
	}
	return ""
}

// DestinationPath returns where an operation lands, empty for deletes.
func (o Operation) DestinationPath() string {
	switch o.Type {
	case OperationMove:
		return o.Destination
	case OperationRename:
		return o.NewPath
	}
	return ""
}

// OperationError records one failed operation without aborting the batch.
type OperationError struct {
	OperationType OperationType `json:"operation_type"`
	Path          string        `json:"path"`
	Message       string        `json:"message"`
}

// OperationSummary counts the outcome of an executor run.
// Invariant: Successful + Failed == Total == len(input operations).
type OperationSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// OperationResult is the ledger produced by one executor run.
type OperationResult struct {
	DryRun  bool             `json:"dry_run"`
	Moved   []Operation      `json:"moved"`
	Deleted []Operation      `json:"deleted"`
	Renamed []Operation      `json:"renamed"`
	Errors  []OperationError `json:"errors"`
	Summary OperationSummary `json:"summary"`
}

// OperationState represents the journal state of a logged operation.
type OperationState string

const (
	OperationStatePending OperationState = "pending"
	OperationStateApplied OperationState = "applied"
	OperationStateFailed  OperationState = "failed"
)

// LoggedOperation is one row of the durable operation journal.
// NOTE: dry runs are never journaled, only real mutations.
type LoggedOperation struct {
	ID          int64          `json:"id"`
	OperationID string         `json:"operation_id"` // UUID
	BatchID     string         `json:"batch_id"`     // UUID, one per executor run
	Type        OperationType  `json:"operation_type"`
	SourcePath  string         `json:"source_path"`
	TargetPath  string         `json:"target_path,omitempty"`
	State       OperationState `json:"state"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// ScanSummary is one row of recorded scan history.
type ScanSummary struct {
	ID             int64     `json:"id"`
	ScanID         string    `json:"scan_id"` // UUID
	DrivePath      string    `json:"drive_path"`
	ScanTime       time.Time `json:"scan_time"`
	TotalSize      int64     `json:"total_size"`
	FileCount      int       `json:"file_count"`
	FolderCount    int       `json:"folder_count"`
	LargeCount     int       `json:"large_count"`
	SystemCount    int       `json:"system_count"`
	ProtectedCount int       `json:"protected_count"`
	DuplicateCount int       `json:"duplicate_count"`
	ErrorCount     int       `json:"error_count"`
}
