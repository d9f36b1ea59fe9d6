// Package cli implements the DriveSweep command-line interface.
// Built with cobra under the project's operational rules:
// - No background daemon: every scan and mutation is an explicit command
// - Dry-run everywhere a command can touch the filesystem
// - All destructive actions require confirmation
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	configDir string
	dryRun    bool
)

// rootCmd is the base command for DriveSweep.
var rootCmd = &cobra.Command{
	Use:   "drivesweep",
	Short: "Analyze and clean a local mirror of a cloud drive",
	Long: `DriveSweep inspects a locally mirrored drive folder and helps clean it up.

It provides:
  • Structural analysis (folder profiles, large/system/protected files)
  • Cheap duplicate detection by name and size
  • Move/delete/rename execution with dry-run and a full ledger
  • Optional scan history in an encrypted SQLite database
  • An interactive duplicate review screen

Analysis is read-only; nothing is mutated without an explicit command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Use alternate config directory")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show what would be done without doing it")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(duplicatesCmd)
	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(overviewCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(configCmd)
}

// getConfigDir returns the configuration directory path.
// First checks current directory for .drivesweep (repo-local), then falls
// back to user home.
func getConfigDir() string {
	if configDir != "" {
		return configDir
	}

	cwd, err := os.Getwd()
	if err == nil {
		localConfig := filepath.Join(cwd, ".drivesweep")
		if _, err := os.Stat(localConfig); err == nil {
			return localConfig
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".drivesweep"
	}
	return filepath.Join(home, ".drivesweep")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <path>",
	Short: "Analyze a drive folder",
	Long: `Walk the tree, profile every folder, and flag files needing attention.

Flags large files (over the configured threshold), OS clutter like
.DS_Store, files whose names match protected patterns, and duplicates
by name and size. The scan is recorded to history unless --no-history.

This is a READ-ONLY command with no side effects on the tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		noHistory, _ := cmd.Flags().GetBool("no-history")
		return RunAnalyze(args[0], jsonOutput, noHistory)
	},
}

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates <path>",
	Short: "List duplicate files in a drive folder",
	Long: `Run the same analysis as 'analyze' and show only the duplicates.

Duplicates are detected by (name, size) fingerprint, NOT content hash.
The first file seen with a fingerprint is the original; every later
match is reported against it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunDuplicates(args[0])
	},
}

var organizeCmd = &cobra.Command{
	Use:   "organize <path>",
	Short: "Sort loose files into category folders",
	Long: `Move the loose files of one folder into Images/Documents/Videos/Audio
subfolders based on extension.

Only immediate children are touched; subfolders, dotfiles, and files
with unmapped extensions are left alone. Use --dry-run to preview.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunOrganize(args[0])
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <plan.json>",
	Short: "Execute operations from a JSON plan file",
	Long: `Load a JSON array of move/delete/rename operations and execute them
strictly in order.

One failed operation never aborts the rest; the full ledger is printed.
Use --dry-run to preview the plan without touching the filesystem.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunApply(args[0])
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <path>",
	Short: "Delete a file or directory",
	Long: `Delete one file, or one directory recursively.

Real deletions are journaled to history before the filesystem is
touched. There is no undo. Use --dry-run to preview, --force to skip
the confirmation prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return RunDelete(args[0], force)
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain <path>",
	Short: "Explain what DriveSweep knows about a path",
	Long: `Show classification verdicts, the duplicate fingerprint, folder
profile for directories, and any recorded scan or operation history
for one path.

This is a READ-ONLY command with NO side effects.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunExplain(args[0])
	},
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "Output the report as JSON")
	analyzeCmd.Flags().Bool("no-history", false, "Do not record this scan to history")
	deleteCmd.Flags().Bool("force", false, "Skip confirmation prompt")

	// History subcommands
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyOpsCmd)
	historyPruneCmd.Flags().Int("keep", 0, "How many scans to keep (default from config)")
}

// History commands
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Scan history and operation log",
	Long: `Inspect recorded scans and the operation journal.

Every 'analyze' records a scan (unless --no-history) and every real
mutation is journaled before it happens. Dry-runs are never journaled.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded scans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunHistoryList()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <scan-id>",
	Short: "Show a recorded scan report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunHistoryShow(args[0])
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old scans beyond the retention limit",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		return RunHistoryPrune(keep)
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Export a consistent backup of the history database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunHistoryExport(args[0])
	},
}

var historyOpsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List journaled operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunHistoryOps()
	},
}

// Overview command
var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show a dashboard of recorded state",
	Long: `Display a read-only summary of everything DriveSweep has recorded.

Shows:
  • Recorded scans and the latest scan's aggregates
  • Operation journal counts (applied, failed, pending)
  • History database location, size, and encryption state

This is a READ-ONLY command with NO side effects.

Examples:
  drivesweep overview           # Show dashboard
  drivesweep overview --json    # Export as JSON`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return RunOverview(jsonOutput)
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review <path>",
	Short: "Interactively review and delete duplicates",
	Long: `Open an interactive screen to review duplicates in a drive folder.

Mark the copies to delete, preview the batch, and confirm. Deletions
go through the ordinary executor path and are journaled to history.
Requires an interactive terminal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunReview(args[0])
	},
}

// Config commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the settings file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunConfigShow()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunConfigInit()
	},
}

func init() {
	overviewCmd.Flags().Bool("json", false, "Output as JSON")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
