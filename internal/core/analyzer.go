// Package core provides the tree analyzer for DriveSweep.
//
// INVARIANTS:
// - Depth-first, pre-order, deterministic child order
// - One directory listing per directory, shared by profile and recursion
// - Listing failure abandons that subtree only
// - Stat failure skips that entry only, siblings continue
// - Symlinks are never followed
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/drivesweep/drivesweep/internal/model"
)

// Analyzer walks a directory tree, profiling every folder, classifying
// every file and detecting duplicates in one sequential pass.
type Analyzer struct {
	classifier *Classifier
}

// NewAnalyzer creates an analyzer. A nil classifier uses the defaults.
func NewAnalyzer(classifier *Classifier) *Analyzer {
	if classifier == nil {
		classifier = NewClassifier(0, nil)
	}
	return &Analyzer{classifier: classifier}
}

// Analyze scans the tree rooted at drivePath and returns the complete
// report. Only failures on the root itself are fatal; anything deeper
// is captured inside the report instead of aborting the scan. A scan
// runs to completion, there is no cancellation: callers wanting a
// timeout must wrap the whole call and discard the report.
func (a *Analyzer) Analyze(drivePath string) (*model.AnalysisReport, error) {
	info, err := os.Stat(drivePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("path does not exist: %s", drivePath)
		}
		return nil, fmt.Errorf("read error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("read error: %s is not a directory", drivePath)
	}
	entries, err := os.ReadDir(drivePath)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	report := &model.AnalysisReport{
		DrivePath:      drivePath,
		ScanTime:       time.Now(),
		Folders:        []model.FolderProfile{},
		LargeFiles:     []model.FileRecord{},
		SystemFiles:    []model.FileRecord{},
		ProtectedFiles: []model.FileRecord{},
		Duplicates:     []model.DuplicateRecord{},
		Errors:         []model.ScanError{},
	}
	detector := NewDuplicateDetector()
	a.walk(drivePath, "", entries, false, report, detector)
	return report, nil
}

// walk processes one listed directory: classifies and fingerprints its
// files, builds its folder profile, then recurses into subdirectories.
// entries must come from a single ReadDir call so the profile and the
// recursion agree on one snapshot; os.ReadDir returns entries sorted
// by name, which pins the traversal order. withProfile is false for
// the scan root, which is not a child of anything.
func (a *Analyzer) walk(dir, rel string, entries []os.DirEntry, withProfile bool, report *model.AnalysisReport, detector *DuplicateDetector) {
	profile := model.FolderProfile{
		Name:         filepath.Base(dir),
		Path:         dir,
		RelativePath: rel,
		Subfolders:   []string{},
		LooseFiles:   []model.FileRecord{},
	}
	profileOK := true
	var profileErr error
	var subdirs []string

	for _, entry := range entries {
		childPath := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			report.Errors = append(report.Errors, model.ScanError{Path: childPath, Message: err.Error()})
			if profileOK {
				profileOK = false
				profileErr = err
			}
			continue
		}
		if info.IsDir() {
			profile.Subfolders = append(profile.Subfolders, entry.Name())
			subdirs = append(subdirs, entry.Name())
			continue
		}
		if !info.Mode().IsRegular() {
			// symlinks, sockets, devices
			continue
		}

		rec := model.FileRecord{
			Name:         entry.Name(),
			Path:         childPath,
			RelativePath: filepath.Join(rel, entry.Name()),
			Size:         info.Size(),
			Modified:     info.ModTime(),
		}
		profile.LooseFiles = append(profile.LooseFiles, rec)
		profile.Size += rec.Size
		profile.FileCount++
		if profile.LastModified == nil || rec.Modified.After(*profile.LastModified) {
			mod := rec.Modified
			profile.LastModified = &mod
		}

		report.FileCount++
		report.TotalSize += rec.Size
		if a.classifier.IsLargeFile(rec.Size) {
			report.LargeFiles = append(report.LargeFiles, rec)
		}
		if a.classifier.IsSystemFile(rec.Name) {
			report.SystemFiles = append(report.SystemFiles, rec)
		}
		if pattern, ok := a.classifier.ProtectedMatch(rec.Name); ok {
			prot := rec
			prot.Reason = fmt.Sprintf("name contains protected pattern %q", pattern)
			report.ProtectedFiles = append(report.ProtectedFiles, prot)
		}
		if dup, ok := detector.Observe(rec); ok {
			report.Duplicates = append(report.Duplicates, dup)
		}
	}

	// Folder profiles are all-or-nothing: one unreadable child voids
	// the profile, while the walk itself stays best-effort.
	if withProfile {
		if profileOK {
			report.Folders = append(report.Folders, profile)
		} else {
			report.Errors = append(report.Errors, model.ScanError{
				Path:    dir,
				Message: fmt.Sprintf("folder profile incomplete: %v", profileErr),
			})
		}
	}

	for _, name := range subdirs {
		report.FolderCount++
		childPath := filepath.Join(dir, name)
		childEntries, err := os.ReadDir(childPath)
		if err != nil {
			report.Errors = append(report.Errors, model.ScanError{Path: childPath, Message: err.Error()})
			continue
		}
		a.walk(childPath, filepath.Join(rel, name), childEntries, true, report, detector)
	}
}

// ProfileFolder builds the one-level profile of a single directory
// without recursing. Profiling is all-or-nothing: any unreadable child
// fails the whole profile.
func ProfileFolder(dir string) (*model.FolderProfile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list folder: %w", err)
	}

	profile := &model.FolderProfile{
		Name:       filepath.Base(dir),
		Path:       dir,
		Subfolders: []string{},
		LooseFiles: []model.FileRecord{},
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		if info.IsDir() {
			profile.Subfolders = append(profile.Subfolders, entry.Name())
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}
		rec := model.FileRecord{
			Name:         entry.Name(),
			Path:         filepath.Join(dir, entry.Name()),
			RelativePath: entry.Name(),
			Size:         info.Size(),
			Modified:     info.ModTime(),
		}
		profile.LooseFiles = append(profile.LooseFiles, rec)
		profile.Size += rec.Size
		profile.FileCount++
		if profile.LastModified == nil || rec.Modified.After(*profile.LastModified) {
			mod := rec.Modified
			profile.LastModified = &mod
		}
	}
	return profile, nil
}
