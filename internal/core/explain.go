// Package core: explain provides the read-only "why is this path flagged"
// surface for DriveSweep.
//
// INVARIANTS:
// - Explain never mutates the filesystem or the history database.
// - Classification verdicts for an existing path come from the live
//   classifier; recorded scans only supply context the filesystem no
//   longer has (deleted files, duplicate partners, past operations).
// - A path outside every recorded scan is not an error; the explanation
//   simply carries no scan context.
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/drivesweep/drivesweep/internal/model"
)

// Explainer assembles a per-path explanation from the live filesystem,
// the classifier settings, and (optionally) the scan history.
type Explainer struct {
	classifier *Classifier
	history    *HistoryStore
	mu         sync.RWMutex
}

// NewExplainer creates an explainer. history may be nil, in which case
// explanations carry live state only.
func NewExplainer(classifier *Classifier, history *HistoryStore) *Explainer {
	if classifier == nil {
		classifier = NewClassifier(0, nil)
	}
	return &Explainer{
		classifier: classifier,
		history:    history,
	}
}

// PathExplanation is everything DriveSweep knows about one path.
type PathExplanation struct {
	Path     string     `json:"path"`
	Exists   bool       `json:"exists"`
	IsDir    bool       `json:"is_dir"`
	Size     int64      `json:"size"`
	Modified *time.Time `json:"modified,omitempty"`

	// Fingerprint is the duplicate-detection identity (name plus size).
	Fingerprint string `json:"fingerprint,omitempty"`

	Classifications []string `json:"classifications"`
	ProtectedReason string   `json:"protected_reason,omitempty"`

	Profile *model.FolderProfile `json:"profile,omitempty"`

	// Scan context from the most recent recorded scan covering the path.
	ScanID          string                  `json:"scan_id,omitempty"`
	DrivePath       string                  `json:"drive_path,omitempty"`
	ScanTime        *time.Time              `json:"scan_time,omitempty"`
	DuplicateOf     string                  `json:"duplicate_of,omitempty"`
	DuplicateCopies []string                `json:"duplicate_copies,omitempty"`
	ScanErrors      []model.ScanError       `json:"scan_errors,omitempty"`
	Operations      []model.LoggedOperation `json:"operations,omitempty"`
}

// Explain builds the explanation for a single path.
func (e *Explainer) Explain(ctx context.Context, path string) (*PathExplanation, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	exp := &PathExplanation{
		Path:            abs,
		Classifications: []string{},
	}

	info, err := os.Stat(abs)
	if err == nil {
		exp.Exists = true
		exp.IsDir = info.IsDir()
		mod := info.ModTime()
		exp.Modified = &mod

		if !exp.IsDir {
			exp.Size = info.Size()
			e.classifyLive(exp, filepath.Base(abs), info.Size())
		} else if profile, perr := ProfileFolder(abs); perr == nil {
			exp.Profile = profile
		} else {
			exp.ScanErrors = append(exp.ScanErrors, model.ScanError{
				Path:    abs,
				Message: perr.Error(),
			})
		}
	}

	if e.history != nil {
		report, scanID, err := e.history.LatestReportFor(ctx, abs)
		if err != nil {
			return nil, fmt.Errorf("failed to load scan history: %w", err)
		}
		if report != nil {
			exp.ScanID = scanID
			exp.DrivePath = report.DrivePath
			t := report.ScanTime
			exp.ScanTime = &t
			e.fillFromReport(exp, report, abs)
		}

		ops, err := e.history.OperationsForPath(ctx, abs)
		if err != nil {
			return nil, fmt.Errorf("failed to load operation log: %w", err)
		}
		exp.Operations = ops
	}

	return exp, nil
}

func (e *Explainer) classifyLive(exp *PathExplanation, name string, size int64) {
	exp.Fingerprint = fmt.Sprintf("%s:%d", name, size)
	if e.classifier.IsLargeFile(size) {
		exp.Classifications = append(exp.Classifications, "large")
	}
	if e.classifier.IsSystemFile(name) {
		exp.Classifications = append(exp.Classifications, "system")
	}
	if pattern, ok := e.classifier.ProtectedMatch(name); ok {
		exp.Classifications = append(exp.Classifications, "protected")
		exp.ProtectedReason = fmt.Sprintf("name contains protected pattern %q", pattern)
	}
}

// fillFromReport copies the recorded view of the path into the
// explanation. For paths that no longer exist the recorded verdicts are
// the only ones available.
func (e *Explainer) fillFromReport(exp *PathExplanation, report *model.AnalysisReport, abs string) {
	if !exp.Exists {
		for _, f := range report.LargeFiles {
			if f.Path == abs {
				exp.Classifications = append(exp.Classifications, "large")
				exp.Size = f.Size
				break
			}
		}
		for _, f := range report.SystemFiles {
			if f.Path == abs {
				exp.Classifications = append(exp.Classifications, "system")
				break
			}
		}
		for _, f := range report.ProtectedFiles {
			if f.Path == abs {
				exp.Classifications = append(exp.Classifications, "protected")
				exp.ProtectedReason = f.Reason
				break
			}
		}
		for i := range report.Folders {
			if report.Folders[i].Path == abs {
				exp.IsDir = true
				exp.Profile = &report.Folders[i]
				break
			}
		}
	}

	for _, d := range report.Duplicates {
		switch abs {
		case d.Duplicate:
			exp.DuplicateOf = d.Original
		case d.Original:
			exp.DuplicateCopies = append(exp.DuplicateCopies, d.Duplicate)
		}
	}

	for _, se := range report.Errors {
		if se.Path == abs {
			exp.ScanErrors = append(exp.ScanErrors, se)
		}
	}
}
