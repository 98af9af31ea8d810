package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	engine "reg-manager/core/backup"
	"reg-manager/core/config"
	"reg-manager/core/database"
	"reg-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzePolicy        string
	analyzePreserveNewer bool
	analyzeOnly          []string
	analyzeSkip          []string
	analyzeJSON          bool
)

// analyzeCmd previews a merge without writing to the store.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <artifact.json>",
	Short: "Preview merging a backup artifact into the registration store",
	Long: `Analyze compares a backup artifact against the current registration store
and reports, per table, how many rows are new, identical, or conflicting.
The store is never written.

Conflicts are printed with their override keys ("table/recordID"), so the
report doubles as the worksheet for building an overrides file for merge.

Examples:
  # Preview with the configured default policy
  reg-manager analyze backup.json

  # Preview a field-by-field merge that keeps newer local edits
  reg-manager analyze backup.json --policy merge_fields --preserve-newer

  # Restrict the preview to two tables
  reg-manager analyze backup.json --only attendees --only registrations

  # Write the full analysis (conflict payloads included) to a JSON file
  reg-manager analyze backup.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzePolicy, "policy", "", "Conflict policy: incoming_wins, current_wins, merge_fields, manual (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzePreserveNewer, "preserve-newer", false, "Keep stored rows whose update timestamp is newer than the artifact's")
	analyzeCmd.Flags().StringSliceVar(&analyzeOnly, "only", nil, "Restrict the run to the named tables (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&analyzeSkip, "skip", nil, "Exclude the named tables (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Write the full analysis to analysis_<unix>.json")

	RootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
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

	opts := cfg.Merge.ApplyDefaults(engine.Options{
		Policy:        engine.Policy(analyzePolicy),
		PreserveNewer: analyzePreserveNewer,
		OnlyTables:    analyzeOnly,
		SkipTables:    analyzeSkip,
	})

	l.Info("Analyzing artifact",
		zap.String("file", args[0]),
		zap.String("exported_by", art.Metadata.ExportedBy),
		zap.Time("exported_at", art.Metadata.ExportedAt),
		zap.String("policy", string(opts.Policy)))

	analysis, err := engine.Analyze(ctx, db, schema, art, opts)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printAnalysisReport(l, analysis)

	if analyzeJSON {
		filename := fmt.Sprintf("analysis_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		l.Info("Analysis saved", zap.String("file", filename), zap.Int("conflicts", len(analysis.Conflicts)))
	}

	return nil
}

// printAnalysisReport prints the per-table verdicts and a conflict sample.
func printAnalysisReport(l *zap.Logger, analysis *engine.Analysis) {
	var rows, newRows, identical, conflicting int
	for _, stats := range analysis.Tables {
		rows += stats.Rows
		newRows += stats.New
		identical += stats.Identical
		conflicting += stats.Conflicting
	}

	l.Info("Analysis report",
		zap.String("policy", string(analysis.Options.Policy)),
		zap.Int("tables", len(analysis.Order)),
		zap.Int("rows", rows),
		zap.Int("new", newRows),
		zap.Int("identical", identical),
		zap.Int("conflicting", conflicting),
	)

	for _, name := range analysis.Order {
		stats := analysis.Tables[name]
		l.Info("Table analysis",
			zap.String("table", name),
			zap.Int("rows", stats.Rows),
			zap.Int("new", stats.New),
			zap.Int("identical", stats.Identical),
			zap.Int("conflicting", stats.Conflicting),
		)
	}

	if len(analysis.Conflicts) > 0 {
		maxShow := 5
		if len(analysis.Conflicts) < maxShow {
			maxShow = len(analysis.Conflicts)
		}
		for i := 0; i < maxShow; i++ {
			c := analysis.Conflicts[i]
			l.Info("Sample conflict",
				zap.String("key", c.Key()),
				zap.String("proposed", string(c.Proposed)),
			)
		}
		if len(analysis.Conflicts) > maxShow {
			l.Info("Additional conflicts not shown", zap.Int("count", len(analysis.Conflicts)-maxShow))
		}
	}
}
