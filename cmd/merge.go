package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	engine "reg-manager/core/backup"
	"reg-manager/core/config"
	"reg-manager/core/database"
	"reg-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mergePolicy        string
	mergePreserveNewer bool
	mergeOnly          []string
	mergeSkip          []string
	mergeOverridesFile string
	mergeApply         bool
	mergeYes           bool
)

// mergeCmd merges a backup artifact into the registration store.
var mergeCmd = &cobra.Command{
	Use:   "merge <artifact.json>",
	Short: "Merge a backup artifact into the registration store",
	Long: `Merge applies a backup artifact to the registration store inside one
transaction. The command always simulates first and prints the accounting;
nothing is written unless --apply is given and the action is confirmed.

Conflicts between stored and incoming rows are resolved by the policy.
Under the manual policy every conflict needs an answer in an overrides
file: a JSON object keyed "table/recordID" whose entries either pick
{"action": "skip"} or supply {"action": "use_custom", "custom": {...}}.
Unanswered conflicts are skipped and reported.

Examples:
  # Simulate with the configured default policy
  reg-manager merge backup.json

  # Apply, taking the artifact's side of every conflict
  reg-manager merge backup.json --policy incoming_wins --apply

  # Apply non-interactively
  reg-manager merge backup.json --apply --yes

  # Manual policy with an overrides file
  reg-manager merge backup.json --policy manual --overrides answers.json --apply`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergePolicy, "policy", "", "Conflict policy: incoming_wins, current_wins, merge_fields, manual (default from config)")
	mergeCmd.Flags().BoolVar(&mergePreserveNewer, "preserve-newer", false, "Keep stored rows whose update timestamp is newer than the artifact's")
	mergeCmd.Flags().StringSliceVar(&mergeOnly, "only", nil, "Restrict the run to the named tables (repeatable)")
	mergeCmd.Flags().StringSliceVar(&mergeSkip, "skip", nil, "Exclude the named tables (repeatable)")
	mergeCmd.Flags().StringVar(&mergeOverridesFile, "overrides", "", "JSON file with per-conflict decisions for the manual policy")
	mergeCmd.Flags().BoolVar(&mergeApply, "apply", false, "Write the merge to the store (default is simulate only)")
	mergeCmd.Flags().BoolVar(&mergeYes, "yes", false, "Auto-confirm the apply (non-interactive)")

	RootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	schema, err := cfg.Merge.ResolveSchema()
	if err != nil {
		return fmt.Errorf("failed to resolve merge schema: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection required: %w", err)
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}
	art, err := engine.Extract(raw)
	if err != nil {
		return err
	}

	overrides, err := loadOverrides(mergeOverridesFile)
	if err != nil {
		return err
	}

	opts := cfg.Merge.ApplyDefaults(engine.Options{
		Policy:        engine.Policy(mergePolicy),
		PreserveNewer: mergePreserveNewer,
		OnlyTables:    mergeOnly,
		SkipTables:    mergeSkip,
	})

	l.Info("Merging artifact",
		zap.String("file", args[0]),
		zap.String("exported_by", art.Metadata.ExportedBy),
		zap.String("policy", string(opts.Policy)),
		zap.Int("overrides", len(overrides)))

	// Step 1: Simulate (always runs)
	opts.DryRun = true
	preview, err := engine.Merge(ctx, db, schema, art, opts, overrides, l)
	if err != nil {
		return fmt.Errorf("merge simulation failed: %w", err)
	}

	printMergeReport(l, preview)

	if unresolved := preview.TotalUnresolved(); unresolved > 0 {
		l.Warn("Unresolved conflicts will be skipped",
			zap.Int("count", unresolved),
			zap.String("hint", "answer them in an --overrides file"))
	}

	if !mergeApply {
		l.Info("Simulation only. Use --apply to write the merge to the store.")
		return nil
	}

	// Step 2: Apply (if confirmed)
	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	opts.DryRun = false
	l.Info("Applying merge...")
	result, err := engine.Merge(ctx, db, schema, art, opts, overrides, l)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	printMergeReport(l, result)
	l.Info("Merge applied",
		zap.Int("imported", result.TotalImported()),
		zap.Int("skipped", result.TotalSkipped()),
		zap.Int("record_errors", len(result.Errors)))
	return nil
}

// loadOverrides reads a JSON overrides file keyed by conflict key.
func loadOverrides(path string) (engine.Overrides, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file: %w", err)
	}
	var overrides engine.Overrides
	if err := json.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file: %w", err)
	}
	return overrides, nil
}

// printMergeReport prints per-table accounting and a record-error sample.
func printMergeReport(l *zap.Logger, res *engine.Result) {
	l.Info("Merge report",
		zap.Bool("simulated", res.Simulated),
		zap.Int("tables", len(res.Tables)),
		zap.Int("imported", res.TotalImported()),
		zap.Int("skipped", res.TotalSkipped()),
		zap.Int("unresolved", res.TotalUnresolved()),
		zap.Int("record_errors", len(res.Errors)),
	)

	names := make([]string, 0, len(res.Tables))
	for name := range res.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := res.Tables[name]
		l.Info("Table result",
			zap.String("table", name),
			zap.Int("imported", t.Imported),
			zap.Int("skipped", t.Skipped),
			zap.Int("skipped_unresolved", t.SkippedUnresolved),
			zap.Int("errors", t.Errors),
		)
	}

	if len(res.Errors) > 0 {
		maxShow := 5
		if len(res.Errors) < maxShow {
			maxShow = len(res.Errors)
		}
		for i := 0; i < maxShow; i++ {
			e := res.Errors[i]
			l.Warn("Record error",
				zap.String("table", e.Table),
				zap.String("record_id", e.RecordID),
				zap.String("op", e.Op),
				zap.String("reason", e.Reason),
			)
		}
		if len(res.Errors) > maxShow {
			l.Warn("Additional record errors not shown", zap.Int("count", len(res.Errors)-maxShow))
		}
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if mergeYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm writing the merge: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
