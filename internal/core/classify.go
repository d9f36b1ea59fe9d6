// Package core provides the directory analysis engine and the
// operation executor for DriveSweep.
//
// INVARIANTS:
// - Classification is pure: no I/O, no failure modes
// - Categories are not mutually exclusive
// - Configuration is copied at construction and never mutated
package core

import (
	"strings"
)

// DefaultLargeFileThreshold is the size above which a file counts as large.
const DefaultLargeFileThreshold = 100 * 1024 * 1024 // 100 MiB

// DefaultProtectedPatterns mark a file name as protected when no custom
// patterns are configured.
var DefaultProtectedPatterns = []string{"gemini", "ai", "assistant", "code", "project"}

// systemFileNames is the fixed set of OS-generated housekeeping files.
var systemFileNames = map[string]bool{
	".DS_Store":       true,
	"Thumbs.db":       true,
	".Spotlight-V100": true,
	".fseventsd":      true,
}

// Classifier decides whether a filesystem entry is large, system
// clutter, or protected, given only its name and size.
type Classifier struct {
	threshold int64
	patterns  []string
}

// NewClassifier creates a classifier. A non-positive threshold or an
// empty pattern list falls back to the defaults.
func NewClassifier(threshold int64, patterns []string) *Classifier {
	if threshold <= 0 {
		threshold = DefaultLargeFileThreshold
	}
	if len(patterns) == 0 {
		patterns = DefaultProtectedPatterns
	}
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return &Classifier{threshold: threshold, patterns: lowered}
}

// IsLargeFile reports whether size exceeds the large-file threshold.
// The threshold itself is not large.
func (c *Classifier) IsLargeFile(size int64) bool {
	return size > c.threshold
}

// IsSystemFile reports whether name exactly matches a known
// OS housekeeping file.
func (c *Classifier) IsSystemFile(name string) bool {
	return systemFileNames[name]
}

// IsProtectedFile reports whether the lowercased name contains any
// configured protected pattern.
func (c *Classifier) IsProtectedFile(name string) bool {
	_, ok := c.ProtectedMatch(name)
	return ok
}

// ProtectedMatch returns the first protected pattern contained in the
// lowercased name. Matching is substring-based, not word-boundary:
// "aircraft.png" matches the pattern "ai". This is a known
// false-positive source and must stay that way.
func (c *Classifier) ProtectedMatch(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, p := range c.patterns {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}
