// Package core provides duplicate detection for DriveSweep.
//
// INVARIANTS:
// - Fingerprint = (file name, file size), never content hash
// - First-seen path stays the original for the rest of the walk
// - N files sharing a fingerprint produce exactly N-1 records
package core

import (
	"github.com/drivesweep/drivesweep/internal/model"
)

// fingerprint is the cheap duplicate-detection key. Two files with the
// same name and byte size are duplicate candidates; contents are never
// read. Callers needing certainty should hash the candidates afterward.
type fingerprint struct {
	name string
	size int64
}

// DuplicateDetector indexes files by fingerprint as a walk feeds them
// in. The walk must visit files in a deterministic order so that
// "first seen" is reproducible across runs on an unchanged tree.
type DuplicateDetector struct {
	seen map[fingerprint]string
}

// NewDuplicateDetector creates an empty detector.
func NewDuplicateDetector() *DuplicateDetector {
	return &DuplicateDetector{
		seen: make(map[fingerprint]string),
	}
}

// Observe feeds one file into the index. It returns a record when the
// fingerprint was already seen; the earlier path remains the original
// permanently, colliding paths are never promoted.
func (d *DuplicateDetector) Observe(rec model.FileRecord) (model.DuplicateRecord, bool) {
	fp := fingerprint{name: rec.Name, size: rec.Size}
	original, ok := d.seen[fp]
	if !ok {
		d.seen[fp] = rec.Path
		return model.DuplicateRecord{}, false
	}
	return model.DuplicateRecord{
		Original:     original,
		Duplicate:    rec.Path,
		RelativePath: rec.RelativePath,
		Size:         rec.Size,
		Modified:     rec.Modified,
	}, true
}
