// Package core provides the operation executor for DriveSweep.
//
// INVARIANTS:
// - Operations run strictly in input order, no reordering, no batching
// - One failing operation never aborts the rest
// - Dry runs leave the filesystem byte-for-byte untouched
// - Real mutations are journaled BEFORE execution when a log is attached
package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/drivesweep/drivesweep/internal/model"
)

// Executor applies declarative move/delete/rename operations. The
// mutex serializes runs through one instance; nothing guards separate
// instances or processes against overlapping paths, that contract is
// the caller's to keep.
type Executor struct {
	journal *HistoryStore
	mu      sync.Mutex
}

// NewExecutor creates an executor. A nil journal disables the durable
// operation log.
func NewExecutor(journal *HistoryStore) *Executor {
	return &Executor{
		journal: journal,
	}
}

// Execute applies or simulates every operation in input order and
// returns the full ledger. Failures are captured per operation, never
// raised: the returned error is always nil today and reserved for
// setup failures.
func (e *Executor) Execute(ctx context.Context, operations []model.Operation, dryRun bool) (*model.OperationResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := &model.OperationResult{
		DryRun:  dryRun,
		Moved:   []model.Operation{},
		Deleted: []model.Operation{},
		Renamed: []model.Operation{},
		Errors:  []model.OperationError{},
	}

	var batchID string
	if !dryRun && e.journal != nil {
		batchID = uuid.New().String()
	}

	for _, op := range operations {
		result.Summary.Total++
		if err := e.applyOne(ctx, batchID, op, dryRun); err != nil {
			result.Summary.Failed++
			result.Errors = append(result.Errors, model.OperationError{
				OperationType: op.Type,
				Path:          op.TargetPath(),
				Message:       err.Error(),
			})
			continue
		}
		result.Summary.Successful++
		switch op.Type {
		case model.OperationMove:
			result.Moved = append(result.Moved, op)
		case model.OperationDelete:
			result.Deleted = append(result.Deleted, op)
		case model.OperationRename:
			result.Renamed = append(result.Renamed, op)
		}
	}

	return result, nil
}

// applyOne validates the operation type, journals it when running for
// real, then performs the mutation. The type switch is exhaustive over
// the known variants; the default branch only catches operations built
// outside the model constructors.
func (e *Executor) applyOne(ctx context.Context, batchID string, op model.Operation, dryRun bool) error {
	var mutate func() error
	switch op.Type {
	case model.OperationMove:
		mutate = func() error { return movePath(op.Source, op.Destination) }
	case model.OperationRename:
		mutate = func() error { return movePath(op.OldPath, op.NewPath) }
	case model.OperationDelete:
		mutate = func() error { return deletePath(op.Path) }
	default:
		return fmt.Errorf("unsupported operation: %q", op.Type)
	}

	if dryRun {
		return nil
	}
	if e.journal == nil {
		return mutate()
	}

	operationID, err := e.journal.LogPending(ctx, batchID, op)
	if err != nil {
		return fmt.Errorf("failed to journal operation: %w", err)
	}
	if err := mutate(); err != nil {
		e.journal.MarkFailed(ctx, operationID, err)
		return err
	}
	e.journal.MarkApplied(ctx, operationID)
	return nil
}

// movePath moves src to dst, creating intermediate destination
// directories as needed. Rename is the same mutation recorded under a
// different ledger bucket.
func movePath(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination folder: %w", err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move: %w", err)
	}
	return nil
}

// deletePath removes a file or a whole directory tree. A missing path
// is an error: deletions are only recorded for paths that existed.
func deletePath(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	return nil
}
