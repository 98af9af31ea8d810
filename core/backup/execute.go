package backup

import (
	"context"
	"errors"
	"fmt"

	"reg-manager/core/database"
	"reg-manager/core/record"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TableResult is the executor's accounting for one table. For every table,
// Imported + Skipped + Errors equals the number of artifact rows seen, and
// SkippedUnresolved counts the subset of Skipped caused by Manual conflicts
// nobody answered.
type TableResult struct {
	// Imported counts rows inserted or updated.
	Imported int `json:"imported"`

	// Skipped counts rows that required no write: identical rows,
	// current-wins conflicts, explicit skips, and unresolved conflicts.
	Skipped int `json:"skipped"`

	// SkippedUnresolved counts Manual conflicts that reached apply time
	// without an override. Always <= Skipped.
	SkippedUnresolved int `json:"skipped_unresolved"`

	// Errors counts rows that failed to apply and were rolled back
	// individually.
	Errors int `json:"errors"`
}

// Result is the outcome of one merge application.
type Result struct {
	// Success is true whenever the unit of work committed. Per-record
	// errors do not clear it; a unit-of-work failure returns an error
	// instead of a Result.
	Success bool `json:"success"`

	// Simulated is true for dry runs. Simulated results carry the counts
	// the merge would have produced, assuming every write succeeds.
	Simulated bool `json:"simulated"`

	// Tables holds per-table accounting.
	Tables map[string]TableResult `json:"tables"`

	// Conflicts echoes the analysis conflicts with their final resolutions.
	Conflicts []Conflict `json:"conflicts"`

	// Errors lists every row that failed to apply.
	Errors []RecordError `json:"errors"`
}

// TotalImported sums imported rows across all tables.
func (r *Result) TotalImported() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Imported
	}
	return n
}

// TotalSkipped sums skipped rows across all tables.
func (r *Result) TotalSkipped() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Skipped
	}
	return n
}

// TotalUnresolved sums unresolved-conflict skips across all tables.
func (r *Result) TotalUnresolved() int {
	n := 0
	for _, t := range r.Tables {
		n += t.SkippedUnresolved
	}
	return n
}

// Apply executes an analysis against the store inside one transaction.
//
// Row failures are contained: each write runs under a savepoint, so a failed
// row rolls back alone, is recorded in Result.Errors, and the merge moves on.
// Two failures are fatal and roll back the whole unit of work: the store
// becoming unavailable, and a failed insert of a new row in a table that a
// later table in this run depends on, since rows applied afterwards may
// reference it. Fatal failures return a nil Result and an error wrapping
// ErrUnitOfWork; accumulated statistics are discarded with the rollback.
//
// When the analysis ran with DryRun, Apply issues no writes and returns the
// simulated accounting.
func Apply(ctx context.Context, db *gorm.DB, schema *Schema, analysis *Analysis, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}

	result := &Result{
		Success:   true,
		Simulated: analysis.Options.DryRun,
		Tables:    make(map[string]TableResult, len(analysis.plans)),
		Conflicts: analysis.Conflicts,
	}

	if analysis.Options.DryRun {
		for i := range analysis.plans {
			plan := &analysis.plans[i]
			result.Tables[plan.name] = simulateTable(analysis, plan, log)
		}
		return result, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range analysis.plans {
			plan := &analysis.plans[i]
			tr, err := applyTable(tx, schema, analysis, plan, result, log)
			if err != nil {
				return err
			}
			result.Tables[plan.name] = tr
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUnitOfWork) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnitOfWork, err)
	}

	for name, tr := range result.Tables {
		log.Info("table merged",
			zap.String("table", name),
			zap.Int("imported", tr.Imported),
			zap.Int("skipped", tr.Skipped),
			zap.Int("errors", tr.Errors))
	}
	return result, nil
}

// simulateTable produces the counts a table would yield, assuming every
// write succeeds. Unresolved conflicts still surface loudly.
func simulateTable(analysis *Analysis, plan *tablePlan, log *zap.Logger) TableResult {
	var tr TableResult
	for _, d := range plan.decisions {
		switch d.class {
		case ClassificationNew:
			tr.Imported++
		case ClassificationIdentical:
			tr.Skipped++
		case ClassificationConflicting:
			c := analysis.conflictAt(d)
			if _, willWrite := conflictRow(c); willWrite {
				tr.Imported++
				continue
			}
			tr.Skipped++
			if c != nil && c.Final == ResolutionUndecided {
				c.Final = ResolutionSkippedUnresolved
				tr.SkippedUnresolved++
				logUnresolved(log, c)
			}
		}
	}
	return tr
}

// applyTable walks one table's decisions in snapshot order, writing through
// savepoints so failures stay contained to their row.
func applyTable(tx *gorm.DB, schema *Schema, analysis *Analysis, plan *tablePlan, result *Result, log *zap.Logger) (TableResult, error) {
	var tr TableResult

	// Pre-validate against the live schema once per table: rows carrying
	// unknown columns fail cleanly here instead of poisoning a statement.
	// A nil column set marks a table the store does not have; every write
	// against it becomes a record error.
	var columns map[string]bool
	if tx.Migrator().HasTable(plan.name) {
		var err error
		columns, err = database.ColumnSet(tx, plan.name)
		if err != nil {
			return tr, fmt.Errorf("%w: inspecting table %q: %v", ErrUnitOfWork, plan.name, err)
		}
	}

	for _, d := range plan.decisions {
		switch d.class {
		case ClassificationIdentical:
			tr.Skipped++

		case ClassificationNew:
			if err := applyRow(tx, plan, &tr, result, columns, d, "insert", d.incoming); err != nil {
				if fatal := newRowFatality(schema, analysis, plan.name); fatal != nil {
					return tr, fmt.Errorf("%w: inserting %s[%s], required by %v later in this merge: %v",
						ErrUnitOfWork, plan.name, d.key, fatal, err)
				}
			}

		case ClassificationConflicting:
			c := analysis.conflictAt(d)
			row, willWrite := conflictRow(c)
			if !willWrite {
				tr.Skipped++
				if c != nil && c.Final == ResolutionUndecided {
					c.Final = ResolutionSkippedUnresolved
					tr.SkippedUnresolved++
					logUnresolved(log, c)
				}
				continue
			}
			// Updates target rows that already exist, so a failure never
			// strands a later table's foreign keys. Always local.
			_ = applyRow(tx, plan, &tr, result, columns, d, "update", row)
		}
	}
	return tr, nil
}

// conflictRow returns the row a resolved conflict wants written and whether
// a write should happen at all.
func conflictRow(c *Conflict) (record.Row, bool) {
	if c == nil {
		return nil, false
	}
	switch c.Final {
	case ResolutionIncoming:
		return c.Incoming, true
	case ResolutionMerged, ResolutionCustom:
		return c.Merged, true
	default:
		return nil, false
	}
}

// applyRow writes one row under a savepoint. On failure the savepoint rolls
// back, the error is recorded, and the returned error lets the caller decide
// whether the failure is fatal for the unit of work.
func applyRow(tx *gorm.DB, plan *tablePlan, tr *TableResult, result *Result, columns map[string]bool, d rowDecision, op string, row record.Row) error {
	if columns == nil {
		err := fmt.Errorf("table does not exist in the store")
		recordFailure(tr, result, plan.name, d.key, op, err)
		return err
	}
	if unknown := unknownColumns(columns, row); unknown != "" {
		err := fmt.Errorf("unknown column %q", unknown)
		recordFailure(tr, result, plan.name, d.key, op, err)
		return err
	}

	err := tx.Transaction(func(stx *gorm.DB) error {
		if op == "insert" {
			return stx.Table(plan.name).Create(row.Native()).Error
		}

		values := row.Clone()
		where := make(map[string]any, len(plan.primaryKey))
		for _, pk := range plan.primaryKey {
			where[pk] = row.Get(pk).Native()
			delete(values, pk)
		}
		if len(values) == 0 {
			return nil
		}
		// Affected-row counts are not checked: a no-op update reports zero
		// on MySQL, and callers serialize merges, so the matched row cannot
		// vanish mid-merge.
		return stx.Table(plan.name).Where(where).Updates(values.Native()).Error
	})
	if err != nil {
		recordFailure(tr, result, plan.name, d.key, op, err)
		return err
	}

	tr.Imported++
	return nil
}

// unknownColumns returns the first row field the live table does not have,
// or "" when all fields are known.
func unknownColumns(columns map[string]bool, row record.Row) string {
	for _, f := range row.Fields() {
		if !columns[f] {
			return f
		}
	}
	return ""
}

// recordFailure books one per-record failure into the table and merge
// accounting.
func recordFailure(tr *TableResult, result *Result, table, key, op string, err error) {
	tr.Errors++
	result.Errors = append(result.Errors, RecordError{
		Table:    table,
		RecordID: key,
		Op:       op,
		Reason:   err.Error(),
	})
}

// newRowFatality reports whether a failed new-row insert in the given table
// endangers the rest of the merge: it returns the tables later in the apply
// order that declare a dependency on it, or nil when the failure is safely
// local.
func newRowFatality(schema *Schema, analysis *Analysis, table string) []string {
	if schema == nil {
		return nil
	}

	later := make(map[string]bool)
	seen := false
	for _, name := range analysis.Order {
		if name == table {
			seen = true
			continue
		}
		if seen {
			later[name] = true
		}
	}

	var fatal []string
	for _, dependent := range schema.Dependents(table) {
		if later[dependent] {
			fatal = append(fatal, dependent)
		}
	}
	return fatal
}

func logUnresolved(log *zap.Logger, c *Conflict) {
	log.Warn("manual conflict had no override and was skipped",
		zap.String("table", c.Table),
		zap.String("record", c.RecordID))
}

// Merge runs the full pipeline: analyze the artifact, resolve Manual
// conflicts with the caller's overrides, and apply. It is the one call
// sites use unless they need to inspect the analysis between phases.
func Merge(ctx context.Context, db *gorm.DB, schema *Schema, art *Artifact, opts Options, overrides Overrides, log *zap.Logger) (*Result, error) {
	analysis, err := Analyze(ctx, db, schema, art, opts)
	if err != nil {
		return nil, err
	}
	if err := analysis.Resolve(overrides); err != nil {
		return nil, err
	}
	return Apply(ctx, db, schema, analysis, log)
}
