// Package cli provides the engine integration for the DriveSweep CLI.
// This file contains the core initialization and command implementations.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/drivesweep/drivesweep/internal/config"
	"github.com/drivesweep/drivesweep/internal/core"
	"github.com/drivesweep/drivesweep/internal/filelock"
	"github.com/drivesweep/drivesweep/internal/model"
	"github.com/drivesweep/drivesweep/internal/ui"
)

// Engine holds the DriveSweep core components.
type Engine struct {
	Config     *config.Config
	Classifier *core.Classifier
	Analyzer   *core.Analyzer
	Planner    *core.Planner
	Executor   *core.Executor
	DB         *core.EncryptedDB
	History    *core.HistoryStore
	ConfigDir  string

	lock *filelock.FileLock
}

// Global engine instance
var engine *Engine

// InitEngine initializes the DriveSweep engine.
func InitEngine() (*Engine, error) {
	cfgDir := getConfigDir()

	cfg, err := config.Load(config.Path(cfgDir))
	if err != nil {
		return nil, err
	}

	classifier := core.NewClassifier(cfg.LargeFileThreshold, cfg.ProtectedPatterns)

	e := &Engine{
		Config:     cfg,
		Classifier: classifier,
		Analyzer:   core.NewAnalyzer(classifier),
		Planner:    core.NewPlanner(),
		ConfigDir:  cfgDir,
	}

	if cfg.HistoryEnabled {
		if err := os.MkdirAll(cfgDir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		e.lock = filelock.NewFileLock(filepath.Join(cfgDir, "history.lock"))

		dbPath := filepath.Join(cfgDir, "history.db")
		passphrase := os.Getenv("DRIVESWEEP_PASSPHRASE") // Optional encryption

		db, err := core.OpenEncryptedDB(dbPath, passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}

		history := core.NewHistoryStore(db)
		if err := history.Initialize(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to initialize history schema: %w", err)
		}

		e.DB = db
		e.History = history
	}

	// A nil history store disables journaling but not execution.
	e.Executor = core.NewExecutor(e.History)

	return e, nil
}

// GetEngine returns the engine, initializing if needed.
func GetEngine() (*Engine, error) {
	if engine != nil {
		return engine, nil
	}

	var err error
	engine, err = InitEngine()
	return engine, err
}

// lockHistory takes the advisory lock that keeps two drivesweep processes
// from mutating the same tree or history database at once. Read-only
// commands never take it.
func (e *Engine) lockHistory() error {
	if e.lock == nil {
		return nil
	}
	locked, err := e.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", e.ConfigDir, err)
	}
	if !locked {
		return fmt.Errorf("another drivesweep process is using %s", e.ConfigDir)
	}
	return nil
}

func (e *Engine) requireHistory() error {
	if e.History == nil {
		return fmt.Errorf("history is disabled (set history_enabled in %s)", config.Path(e.ConfigDir))
	}
	return nil
}

// ConfirmAction prompts the user for confirmation.
func ConfirmAction(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// Severity colors; fatih/color disables itself on non-terminals.
var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
)

// truncate shortens a name, keeping its head.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// truncatePath shortens a path, keeping its tail.
func truncatePath(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-(n-3):]
}

// --- Analysis Commands ---

// RunAnalyze analyzes a drive folder and renders the report.
func RunAnalyze(path string, jsonOutput, noHistory bool) error {
	e, err := GetEngine()
	if err != nil {
		return err
	}

	report, err := e.Analyzer.Analyze(path)
	if err != nil {
		return err
	}

	scanID := ""
	if e.History != nil && !noHistory {
		if err := e.lockHistory(); err != nil {
			return err
		}
		id, err := e.History.SaveReport(context.Background(), report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record scan: %v\n", err)
		} else {
			scanID = id
		}
	}

	if jsonOutput {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format report: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	printReport(report, scanID)
	return nil
}

// RunDuplicates analyzes a drive folder and shows only the duplicates.
func RunDuplicates(path string) error {
	e, err := GetEngine()
	if err != nil {
		return err
	}

	report, err := e.Analyzer.Analyze(path)
	if err != nil {
		return err
	}

	if len(report.Duplicates) == 0 {
		fmt.Println("No duplicates found.")
		return nil
	}

	printDuplicates(report, 0)

	if len(report.Errors) > 0 {
		fmt.Printf("%s %d paths could not be read; the list may be incomplete.\n",
			warnColor.Sprint("⚠️"), len(report.Errors))
	}
	return nil
}

func printReport(report *model.AnalysisReport, scanID string) {
	fmt.Printf("DriveSweep Analysis: %s\n", report.DrivePath)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("Scanned:  %s\n", report.ScanTime.Format("2006-01-02 15:04:05"))
	fmt.Printf("Total:    %s in %d files, %d folders\n",
		humanize.IBytes(uint64(report.TotalSize)), report.FileCount, report.FolderCount)
	fmt.Println()

	limit := 20
	if verbose {
		limit = 0 // unlimited
	}

	if len(report.LargeFiles) > 0 {
		fmt.Printf("Large Files (%d):\n", len(report.LargeFiles))
		fmt.Println("Size        Path")
		fmt.Println("────────────────────────────────────────────────────────────")
		for i, f := range report.LargeFiles {
			if limit > 0 && i >= limit {
				fmt.Printf("  ... and %d more (use --verbose)\n", len(report.LargeFiles)-i)
				break
			}
			fmt.Printf("%-11s %s\n", humanize.IBytes(uint64(f.Size)), truncatePath(f.RelativePath, 60))
		}
		fmt.Println()
	}

	if len(report.SystemFiles) > 0 {
		fmt.Printf("System Files (%d):\n", len(report.SystemFiles))
		fmt.Println("Name                 Path")
		fmt.Println("────────────────────────────────────────────────────────────")
		for i, f := range report.SystemFiles {
			if limit > 0 && i >= limit {
				fmt.Printf("  ... and %d more (use --verbose)\n", len(report.SystemFiles)-i)
				break
			}
			fmt.Printf("%-20s %s\n", truncate(f.Name, 20), truncatePath(f.RelativePath, 50))
		}
		fmt.Println()
	}

	if len(report.ProtectedFiles) > 0 {
		fmt.Printf("Protected Files (%d):\n", len(report.ProtectedFiles))
		fmt.Println("Path                                     Reason")
		fmt.Println("────────────────────────────────────────────────────────────")
		for i, f := range report.ProtectedFiles {
			if limit > 0 && i >= limit {
				fmt.Printf("  ... and %d more (use --verbose)\n", len(report.ProtectedFiles)-i)
				break
			}
			fmt.Printf("%-40s %s\n", truncatePath(f.RelativePath, 40), f.Reason)
		}
		fmt.Println()
	}

	if len(report.Duplicates) > 0 {
		printDuplicates(report, limit)
	}

	if len(report.Errors) > 0 {
		fmt.Printf("%s Scan Errors (%d):\n", warnColor.Sprint("⚠️"), len(report.Errors))
		for _, se := range report.Errors {
			fmt.Printf("  %s: %s\n", truncatePath(se.Path, 50), se.Message)
		}
		fmt.Println()
	}

	if verbose && len(report.Folders) > 0 {
		fmt.Printf("Folders (%d):\n", len(report.Folders))
		fmt.Println("Files   Size        Subdirs  Path")
		fmt.Println("────────────────────────────────────────────────────────────")
		for i := range report.Folders {
			p := &report.Folders[i]
			fmt.Printf("%-7d %-11s %-8d %s\n",
				p.FileCount, humanize.IBytes(uint64(p.Size)), len(p.Subfolders),
				truncatePath(p.RelativePath, 40))
		}
		fmt.Println()
	}

	clean := len(report.LargeFiles) == 0 && len(report.SystemFiles) == 0 &&
		len(report.ProtectedFiles) == 0 && len(report.Duplicates) == 0 &&
		len(report.Errors) == 0
	if clean {
		fmt.Printf("%s Nothing needs attention.\n", okColor.Sprint("✓"))
	}

	if scanID != "" && !quiet {
		fmt.Printf("%s Scan recorded: %s\n", okColor.Sprint("✓"), scanID)
	}
}

func printDuplicates(report *model.AnalysisReport, limit int) {
	var reclaim int64
	for _, d := range report.Duplicates {
		reclaim += d.Size
	}

	fmt.Printf("Duplicates (%d, %s reclaimable):\n",
		len(report.Duplicates), humanize.IBytes(uint64(reclaim)))
	fmt.Println("Size        Duplicate                                Original")
	fmt.Println("──────────────────────────────────────────────────────────────────────")
	for i, d := range report.Duplicates {
		if limit > 0 && i >= limit {
			fmt.Printf("  ... and %d more (use --verbose)\n", len(report.Duplicates)-i)
			break
		}
		fmt.Printf("%-11s %-40s %s\n",
			humanize.IBytes(uint64(d.Size)),
			truncatePath(d.Duplicate, 40),
			truncatePath(d.Original, 40))
	}
	fmt.Println()
}

// --- Mutation Commands ---

// RunOrganize sorts one folder's loose files into category subfolders.
func RunOrganize(path string) error {
	e, err := GetEngine()
	if err != nil {
		return err
	}

	profile, err := core.ProfileFolder(path)
	if err != nil {
		return err
	}

	ops := e.Planner.PlanFolder(profile)
	if len(ops) == 0 {
		fmt.Println("Nothing to organize.")
		return nil
	}

	if !quiet {
		fmt.Printf("Organize: %s\n", profile.Path)
		fmt.Println("────────────────────────────────────────────────────────────")
		for _, op := range ops {
			rel := strings.TrimPrefix(op.Destination, profile.Path+string(os.PathSeparator))
			fmt.Printf("  %s → %s\n", filepath.Base(op.Source), rel)
		}
		fmt.Println()
	}

	if dryRun {
		result, err := e.Executor.Execute(context.Background(), ops, true)
		if err != nil {
			return err
		}
		printLedger(result, true)
		return nil
	}

	if !ConfirmAction(fmt.Sprintf("Move %d files into category folders?", len(ops))) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := e.lockHistory(); err != nil {
		return err
	}
	result, err := e.Executor.Execute(context.Background(), ops, false)
	if err != nil {
		return err
	}
	printLedger(result, false)
	return ledgerErr(result)
}

// RunApply executes a JSON plan file through the executor.
func RunApply(planPath string) error {
	e, err := GetEngine()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(planPath)
	if err != nil {
		return fmt.Errorf("failed to read plan file: %w", err)
	}

	var ops []model.Operation
	if err := json.Unmarshal(data, &ops); err != nil {
		return fmt.Errorf("failed to parse plan file: %w", err)
	}

	if len(ops) == 0 {
		fmt.Println("Plan contains no operations.")
		return nil
	}

	if dryRun {
		result, err := e.Executor.Execute(context.Background(), ops, true)
		if err != nil {
			return err
		}
		printLedger(result, true)
		return nil
	}

	if !ConfirmAction(fmt.Sprintf("Apply %d operations from %s?", len(ops), planPath)) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := e.lockHistory(); err != nil {
		return err
	}
	result, err := e.Executor.Execute(context.Background(), ops, false)
	if err != nil {
		return err
	}
	printLedger(result, false)
	return ledgerErr(result)
}

// RunDelete deletes one file or directory through the executor.
func RunDelete(path string, force bool) error {
	e, err := GetEngine()
	if err != nil {
		return err
	}

	ops := []model.Operation{model.NewDelete(path)}

	if dryRun {
		result, err := e.Executor.Execute(context.Background(), ops, true)
		if err != nil {
			return err
		}
		printLedger(result, true)
		return nil
	}

	if !force && !ConfirmAction(fmt.Sprintf("Permanently delete %s?", path)) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := e.lockHistory(); err != nil {
		return err
	}
	result, err := e.Executor.Execute(context.Background(), ops, false)
	if err != nil {
		return err
	}
	printLedger(result, false)
	return ledgerErr(result)
}

func printLedger(result *model.OperationResult, dry bool) {
	if !quiet {
		for _, op := range result.Moved {
			if dry {
				fmt.Printf("[DRY-RUN] Would move: %s → %s\n", op.Source, op.Destination)
			} else {
				fmt.Printf("%s Moved: %s → %s\n", okColor.Sprint("✓"), op.Source, op.Destination)
			}
		}
		for _, op := range result.Deleted {
			if dry {
				fmt.Printf("[DRY-RUN] Would delete: %s\n", op.Path)
			} else {
				fmt.Printf("%s Deleted: %s\n", okColor.Sprint("✓"), op.Path)
			}
		}
		for _, op := range result.Renamed {
			if dry {
				fmt.Printf("[DRY-RUN] Would rename: %s → %s\n", op.OldPath, op.NewPath)
			} else {
				fmt.Printf("%s Renamed: %s → %s\n", okColor.Sprint("✓"), op.OldPath, op.NewPath)
			}
		}
	}

	for _, opErr := range result.Errors {
		fmt.Printf("%s %s %s: %s\n",
			failColor.Sprint("✗"), opErr.OperationType, opErr.Path, opErr.Message)
	}

	fmt.Printf("\nSummary: %d total, %d succeeded, %d failed\n",
		result.Summary.Total, result.Summary.Successful, result.Summary.Failed)
	if dry {
		fmt.Println("[DRY-RUN] No changes were made.")
	}
}

// ledgerErr surfaces per-operation failures as a command error so the
// process exits non-zero. The ledger itself was already printed.
func ledgerErr(result *model.OperationResult) error {
	if result.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d operations failed", result.Summary.Failed, result.Summary.Total)
	}
	return nil
}

// --- Explain Command ---

// RunExplain shows everything DriveSweep knows about one path.
func RunExplain(path string) error {
	e, err := GetEngine()
	if err != nil {
		return err
	}

	explainer := core.NewExplainer(e.Classifier, e.History)
	exp, err := explainer.Explain(context.Background(), path)
	if err != nil {
		return err
	}

	fmt.Printf("Path: %s\n", exp.Path)
	fmt.Println("═══════════════════════════════════════════════════════════════")

	switch {
	case !exp.Exists:
		fmt.Println("State:        missing")
	case exp.IsDir:
		fmt.Println("State:        present (directory)")
	default:
		fmt.Printf("State:        present (file, %s)\n", humanize.IBytes(uint64(exp.Size)))
	}
	if exp.Modified != nil {
		fmt.Printf("Modified:     %s\n", exp.Modified.Format("2006-01-02 15:04:05"))
	}
	if exp.Fingerprint != "" {
		fmt.Printf("Fingerprint:  %s\n", exp.Fingerprint)
	}

	if len(exp.Classifications) > 0 {
		fmt.Printf("Flags:        %s\n", strings.Join(exp.Classifications, ", "))
		if exp.ProtectedReason != "" {
			fmt.Printf("              %s\n", exp.ProtectedReason)
		}
	} else {
		fmt.Println("Flags:        none")
	}

	if exp.Profile != nil {
		p := exp.Profile
		fmt.Println("\nFolder Profile")
		fmt.Println("──────────────")
		fmt.Printf("Loose files:  %d (%s)\n", p.FileCount, humanize.IBytes(uint64(p.Size)))
		fmt.Printf("Subfolders:   %d\n", len(p.Subfolders))
		if p.LastModified != nil {
			fmt.Printf("Last change:  %s\n", p.LastModified.Format("2006-01-02 15:04:05"))
		}
	}

	if exp.ScanID != "" {
		fmt.Println("\nScan Context")
		fmt.Println("────────────")
		fmt.Printf("Scan:         %s (%s)\n", exp.ScanID[:8], exp.DrivePath)
		if exp.ScanTime != nil {
			fmt.Printf("Scanned:      %s\n", exp.ScanTime.Format("2006-01-02 15:04:05"))
		}
		if exp.DuplicateOf != "" {
			fmt.Printf("Duplicate of: %s\n", exp.DuplicateOf)
		}
		for _, c := range exp.DuplicateCopies {
			fmt.Printf("Copy:         %s\n", c)
		}
	}

	for _, se := range exp.ScanErrors {
		fmt.Printf("%s %s\n", warnColor.Sprint("⚠️"), se.Message)
	}

	if len(exp.Operations) > 0 {
		fmt.Println("\nOperations")
		fmt.Println("──────────")
		for _, op := range exp.Operations {
			line := fmt.Sprintf("[%s] %s %s", op.State, op.Type, op.SourcePath)
			if op.TargetPath != "" {
				line += " → " + op.TargetPath
			}
			fmt.Printf("  %s (%s)\n", line, op.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	return nil
}

// --- History Commands ---

// RunHistoryList lists recorded scans.
func RunHistoryList() error {
	e, err := GetEngine()
	if err != nil {
		return err
	}
	if err := e.requireHistory(); err != nil {
		return err
	}

	scans, err := e.History.ListScans(context.Background(), 0)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}

	if len(scans) == 0 {
		fmt.Println("No scans recorded.")
		return nil
	}

	fmt.Printf("Recorded Scans (%d):\n", len(scans))
	fmt.Println("ID        Scanned           Drive                          Files     Size  Dups  Errs")
	fmt.Println("──────────────────────────────────────────────────────────────────────────────────────")
	for _, s := range scans {
		fmt.Printf("%-9s %-17s %-30s %6d %8s %5d %5d\n",
			s.ScanID[:8],
			s.ScanTime.Format("2006-01-02 15:04"),
			truncatePath(s.DrivePath, 30),
			s.FileCount,
			humanize.IBytes(uint64(s.TotalSize)),
			s.DuplicateCount,
			s.ErrorCount)
	}

	return nil
}

// RunHistoryShow renders one recorded scan report.
func RunHistoryShow(scanID string) error {
	e, err := GetEngine()
	if err != nil {
		return err
	}
	if err := e.requireHistory(); err != nil {
		return err
	}

	report, err := e.History.GetReport(context.Background(), scanID)
	if err != nil {
		return err
	}

	printReport(report, scanID)
	return nil
}

// RunHistoryPrune deletes old scans beyond the retention limit.
func RunHistoryPrune(keep int) error {
	e, err := GetEngine()
	if err != nil {
		return err
	}
	if err := e.requireHistory(); err != nil {
		return err
	}

	if keep <= 0 {
		keep = e.Config.HistoryKeep
	}

	if dryRun {
		fmt.Printf("[DRY-RUN] Would prune recorded scans beyond the newest %d\n", keep)
		return nil
	}

	if !ConfirmAction(fmt.Sprintf("Prune recorded scans beyond the newest %d?", keep)) {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := e.lockHistory(); err != nil {
		return err
	}
	removed, err := e.History.Prune(context.Background(), keep)
	if err != nil {
		return fmt.Errorf("failed to prune scans: %w", err)
	}

	fmt.Printf("%s Pruned %d scans (keeping newest %d)\n", okColor.Sprint("✓"), removed, keep)
	return nil
}

// RunHistoryExport writes a consistent backup of the history database.
func RunHistoryExport(dir string) error {
	e, err := GetEngine()
	if err != nil {
		return err
	}
	if err := e.requireHistory(); err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("[DRY-RUN] Would export history database to: %s\n", dir)
		return nil
	}

	if err := e.lockHistory(); err != nil {
		return err
	}
	if err := e.DB.ExportBackup(context.Background(), dir); err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}

	fmt.Printf("%s History exported to: %s\n", okColor.Sprint("✓"), dir)
	return nil
}

// RunHistoryOps lists journaled operations.
func RunHistoryOps() error {
	e, err := GetEngine()
	if err != nil {
		return err
	}
	if err := e.requireHistory(); err != nil {
		return err
	}

	ops, err := e.History.ListOperations(context.Background(), 0)
	if err != nil {
		return fmt.Errorf("failed to list operations: %w", err)
	}

	if len(ops) == 0 {
		fmt.Println("No operations journaled.")
		return nil
	}

	fmt.Printf("Journaled Operations (%d):\n", len(ops))
	fmt.Println("ID        Type     State    Source                                    Created")
	fmt.Println("───────────────────────────────────────────────────────────────────────────────")
	pending := 0
	for _, op := range ops {
		if op.State == model.OperationStatePending {
			pending++
		}
		fmt.Printf("%-9s %-8s %-8s %-41s %s\n",
			op.OperationID[:8],
			op.Type,
			op.State,
			truncatePath(op.SourcePath, 41),
			op.CreatedAt.Format("2006-01-02 15:04"))
	}

	if pending > 0 {
		fmt.Printf("\n%s %d pending operations (from interrupted runs)\n",
			warnColor.Sprint("⚠️"), pending)
	}

	return nil
}

// --- Overview Command ---

// RunOverview displays a dashboard of the recorded state.
func RunOverview(jsonOutput bool) error {
	e, err := GetEngine()
	if err != nil {
		return err
	}
	if err := e.requireHistory(); err != nil {
		return err
	}

	dashboard := core.NewDashboard(e.DB)
	overview, err := dashboard.GetOverview(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get overview: %w", err)
	}

	if jsonOutput {
		output, _ := json.MarshalIndent(overview, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                     DriveSweep Overview                      ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()

	fmt.Println("📊 Scan History")
	fmt.Println("───────────────────────────────────────")
	fmt.Printf("   Recorded Scans: %d\n", overview.RecordedScans)
	if overview.LastScanTime != nil {
		fmt.Printf("   Last Scan:      %s\n", overview.LastScanTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("   Last Drive:     %s\n", overview.LastDrivePath)
	}
	fmt.Println()

	if overview.RecordedScans > 0 {
		fmt.Println("🔍 Latest Scan")
		fmt.Println("───────────────────────────────────────")
		fmt.Printf("   Total Size:     %s\n", humanize.IBytes(uint64(overview.TotalSize)))
		fmt.Printf("   Files:          %d\n", overview.FileCount)
		fmt.Printf("   Folders:        %d\n", overview.FolderCount)
		fmt.Printf("   Large Files:    %d\n", overview.LargeFiles)
		fmt.Printf("   System Files:   %d\n", overview.SystemFiles)
		fmt.Printf("   Protected:      %d\n", overview.ProtectedFiles)
		fmt.Printf("   Duplicates:     %d\n", overview.Duplicates)
		if overview.ScanErrors > 0 {
			fmt.Printf("   Scan Errors:    %d ⚠️\n", overview.ScanErrors)
		}
		fmt.Println()
	}

	fmt.Println("📝 Operation Journal")
	fmt.Println("───────────────────────────────────────")
	fmt.Printf("   Logged:         %d\n", overview.LoggedOperations)
	fmt.Printf("   Applied:        %d\n", overview.AppliedOperations)
	fmt.Printf("   Failed:         %d\n", overview.FailedOperations)
	if overview.PendingOperations > 0 {
		fmt.Printf("   Pending:        %d ⚠️\n", overview.PendingOperations)
	}
	fmt.Println()

	fmt.Println("💾 History Database")
	fmt.Println("───────────────────────────────────────")
	fmt.Printf("   Path:           %s\n", overview.DatabasePath)
	fmt.Printf("   Size:           %s\n", humanize.IBytes(uint64(overview.DatabaseSize)))
	if overview.Encrypted {
		fmt.Println("   Encryption:     enabled")
	} else {
		fmt.Println("   Encryption:     disabled (set DRIVESWEEP_PASSPHRASE to enable)")
	}
	fmt.Println()

	fmt.Printf("Generated: %s\n", overview.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Println()

	return nil
}

// --- Review Command ---

// RunReview opens the interactive duplicate review screen.
func RunReview(path string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("review requires an interactive terminal")
	}

	e, err := GetEngine()
	if err != nil {
		return err
	}

	// The review screen can delete files, so take the lock up front.
	if err := e.lockHistory(); err != nil {
		return err
	}

	result, err := ui.Run(e.Analyzer, e.Executor, path)
	if err != nil {
		return err
	}

	if result != nil {
		printLedger(result, false)
		return ledgerErr(result)
	}

	if !quiet {
		fmt.Println("Nothing deleted.")
	}
	return nil
}

// --- Config Commands ---

// RunConfigShow prints the effective settings.
func RunConfigShow() error {
	e, err := GetEngine()
	if err != nil {
		return err
	}

	path := config.Path(e.ConfigDir)
	fmt.Printf("Config file: %s", path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Print(" (not present, using defaults)")
	}
	fmt.Println()
	fmt.Println()

	data, err := yaml.Marshal(e.Config)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	fmt.Print(string(data))

	return nil
}

// RunConfigInit writes the default settings file.
func RunConfigInit() error {
	path := config.Path(getConfigDir())

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if dryRun {
		fmt.Printf("[DRY-RUN] Would write default config: %s\n", path)
		return nil
	}

	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("%s Wrote default config: %s\n", okColor.Sprint("✓"), path)
	return nil
}
