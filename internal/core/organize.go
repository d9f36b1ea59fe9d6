// Package core provides the organize planner for DriveSweep.
package core

import (
	"path/filepath"
	"strings"

	"github.com/drivesweep/drivesweep/internal/model"
)

// defaultExtensionFolders maps file extensions to destination folder
// names. Extensions match case-insensitively.
var defaultExtensionFolders = map[string]string{
	"jpg":  "Images",
	"jpeg": "Images",
	"png":  "Images",
	"gif":  "Images",
	"pdf":  "Documents",
	"doc":  "Documents",
	"docx": "Documents",
	"txt":  "Documents",
	"mp4":  "Videos",
	"mov":  "Videos",
	"mp3":  "Audio",
	"wav":  "Audio",
}

// Planner turns folder profiles into move operations that sort loose
// files into per-type subfolders.
type Planner struct {
	folders map[string]string
}

// NewPlanner creates a planner with the default extension mapping.
func NewPlanner() *Planner {
	return &Planner{folders: defaultExtensionFolders}
}

// PlanFolder builds the moves that would organize one folder's loose
// files. Dotfiles and files with no mapped extension stay untouched.
// The plan is inert: nothing happens until the executor consumes it.
func (p *Planner) PlanFolder(profile *model.FolderProfile) []model.Operation {
	operations := []model.Operation{}
	for _, f := range profile.LooseFiles {
		folder, ok := p.Destination(f.Name)
		if !ok {
			continue
		}
		operations = append(operations, model.NewMove(
			filepath.Join(profile.Path, f.Name),
			filepath.Join(profile.Path, folder, f.Name),
		))
	}
	return operations
}

// Destination returns the folder name a file would be sorted into.
func (p *Planner) Destination(name string) (string, bool) {
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if ext == "" {
		return "", false
	}
	folder, ok := p.folders[ext]
	return folder, ok
}
