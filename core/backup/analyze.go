package backup

import (
	"context"
	"fmt"

	"reg-manager/core/record"

	"gorm.io/gorm"
)

// Classification is the analyzer's verdict for one incoming row.
type Classification string

const (
	// ClassificationNew marks a row absent from the current store.
	// New rows are always accepted regardless of policy.
	ClassificationNew Classification = "new"

	// ClassificationIdentical marks a row whose incoming fields all match
	// the stored row. Identical rows are no-ops.
	ClassificationIdentical Classification = "identical"

	// ClassificationConflicting marks a row present on both sides with at
	// least one differing field.
	ClassificationConflicting Classification = "conflicting"
)

// Resolution is the decided outcome for a conflicting row.
type Resolution string

const (
	// ResolutionUndecided is the initial state of Manual-policy conflicts.
	ResolutionUndecided Resolution = "undecided"

	// ResolutionIncoming applies the incoming row.
	ResolutionIncoming Resolution = "incoming"

	// ResolutionCurrent keeps the stored row.
	ResolutionCurrent Resolution = "current"

	// ResolutionMerged applies the field-by-field merged row.
	ResolutionMerged Resolution = "merged"

	// ResolutionCustom applies caller-supplied data from an override.
	ResolutionCustom Resolution = "custom"

	// ResolutionSkip keeps the stored row per an explicit override.
	ResolutionSkip Resolution = "skip"

	// ResolutionSkippedUnresolved marks a Manual conflict that reached apply
	// time with no override. The row is kept, but the skip is counted
	// separately from ordinary skips so it cannot pass unnoticed.
	ResolutionSkippedUnresolved Resolution = "skipped_unresolved"
)

// Conflict records one row that exists on both sides with differing fields.
type Conflict struct {
	// Table is the table the row belongs to.
	Table string `json:"table"`

	// RecordID is the canonical primary key of the row.
	RecordID string `json:"record_id"`

	// Current is the stored row at analysis time.
	Current record.Row `json:"current"`

	// Incoming is the artifact's row.
	Incoming record.Row `json:"incoming"`

	// Merged holds the row the executor will apply when the resolution is
	// ResolutionMerged or ResolutionCustom. Nil otherwise.
	Merged record.Row `json:"merged,omitempty"`

	// Proposed is the resolution the policy suggested at analysis time.
	Proposed Resolution `json:"proposed_resolution"`

	// Final is the resolution the executor will act on. It equals Proposed
	// for automatic policies and starts undecided under Manual.
	Final Resolution `json:"final_resolution"`
}

// Key identifies the conflict for override lookup: "table/recordID".
func (c *Conflict) Key() string {
	return c.Table + "/" + c.RecordID
}

// TableStats aggregates the analyzer's verdicts for one table.
type TableStats struct {
	// Rows is the number of rows the artifact carries for the table.
	Rows int `json:"rows"`

	// New counts rows absent from the current store.
	New int `json:"new"`

	// Identical counts rows already matching the store.
	Identical int `json:"identical"`

	// Conflicting counts rows present on both sides with differences.
	Conflicting int `json:"conflicting"`
}

// rowDecision is the analyzer's per-row plan, consumed by the executor.
// conflict indexes Analysis.Conflicts, or -1 when the row did not conflict.
type rowDecision struct {
	key      string
	class    Classification
	incoming record.Row
	conflict int
}

// tablePlan carries one included table's decisions in snapshot order.
type tablePlan struct {
	name       string
	primaryKey []string
	decisions  []rowDecision
}

// Analysis is the output of Analyze: per-table statistics, the conflict
// list, and the executor's row-by-row plan.
type Analysis struct {
	// Options echoes the options the analysis ran under.
	Options Options `json:"options"`

	// Order lists the included tables in the order the executor will apply
	// them: dependency order for schema tables, artifact order for the rest.
	Order []string `json:"order"`

	// Tables holds per-table classification counts.
	Tables map[string]TableStats `json:"tables"`

	// Conflicts lists every conflicting row across all included tables.
	Conflicts []Conflict `json:"conflicts"`

	plans []tablePlan
}

// Analyze compares an artifact against the current store and produces the
// merge plan. It is read-only: the store is queried table by table but never
// written. Store read failures wrap ErrUnitOfWork; invalid options wrap
// ErrPolicyViolation.
func Analyze(ctx context.Context, db *gorm.DB, schema *Schema, art *Artifact, opts Options) (*Analysis, error) {
	if err := opts.Validate(art); err != nil {
		return nil, err
	}

	included := opts.selectTables(art)
	order := applyOrder(schema, included)

	byName := make(map[string]*TableSnapshot, len(included))
	for _, t := range included {
		byName[t.Name] = t
	}

	analysis := &Analysis{
		Options: opts,
		Order:   order,
		Tables:  make(map[string]TableStats, len(included)),
	}

	for _, name := range order {
		snap := byName[name]

		index, err := loadIndex(ctx, db, snap)
		if err != nil {
			return nil, err
		}

		var spec *TableSpec
		if schema != nil {
			spec = schema.Table(name)
		}

		plan := tablePlan{name: name, primaryKey: snap.PrimaryKey}
		stats := TableStats{Rows: len(snap.Rows)}

		for _, incoming := range snap.Rows {
			key := snap.Key(incoming)
			current, exists := index[key]

			decision := rowDecision{key: key, incoming: incoming, conflict: -1}
			switch {
			case !exists:
				decision.class = ClassificationNew
				stats.New++
			case incomingMatches(current, incoming):
				decision.class = ClassificationIdentical
				stats.Identical++
			default:
				decision.class = ClassificationConflicting
				stats.Conflicting++
				decision.conflict = len(analysis.Conflicts)
				analysis.Conflicts = append(analysis.Conflicts, buildConflict(name, key, current, incoming, spec, opts))
			}
			plan.decisions = append(plan.decisions, decision)
		}

		analysis.Tables[name] = stats
		analysis.plans = append(analysis.plans, plan)
	}

	return analysis, nil
}

// applyOrder sequences the included tables: schema tables first, in the
// schema's dependency order, then tables the schema does not know about, in
// artifact order.
func applyOrder(schema *Schema, included []*TableSnapshot) []string {
	includedSet := make(map[string]bool, len(included))
	for _, t := range included {
		includedSet[t.Name] = true
	}

	var order []string
	known := make(map[string]bool)
	if schema != nil {
		// Validate has already run at schema load time, so MergeOrder
		// cannot fail here.
		full, _ := schema.MergeOrder()
		for _, name := range full {
			known[name] = true
			if includedSet[name] {
				order = append(order, name)
			}
		}
	}
	for _, t := range included {
		if !known[t.Name] {
			order = append(order, t.Name)
		}
	}
	return order
}

// loadIndex reads the full current table into a key-addressed map. One
// query per table; row-by-row lookups against the store are never issued.
// A table the store does not have yields an empty index: every incoming row
// classifies as new, and the executor books them as record errors when the
// table is still absent at apply time.
func loadIndex(ctx context.Context, db *gorm.DB, snap *TableSnapshot) (map[string]record.Row, error) {
	if !db.WithContext(ctx).Migrator().HasTable(snap.Name) {
		return map[string]record.Row{}, nil
	}

	var raw []map[string]interface{}
	if err := db.WithContext(ctx).Table(snap.Name).Find(&raw).Error; err != nil {
		return nil, fmt.Errorf("%w: loading current rows of table %q: %v", ErrUnitOfWork, snap.Name, err)
	}

	index := make(map[string]record.Row, len(raw))
	for _, m := range raw {
		row := record.FromMap(m)
		index[row.Key(snap.PrimaryKey...)] = row
	}
	return index, nil
}

// incomingMatches reports whether applying the incoming row would be a
// no-op: every field the artifact carries already holds in the store.
// Columns the artifact does not mention are left out of the comparison,
// since the executor would not touch them either.
func incomingMatches(current, incoming record.Row) bool {
	for f, v := range incoming {
		if !v.Equal(current.Get(f)) {
			return false
		}
	}
	return true
}

// buildConflict constructs the conflict record and applies the policy's
// proposed resolution.
func buildConflict(table, key string, current, incoming record.Row, spec *TableSpec, opts Options) Conflict {
	c := Conflict{
		Table:    table,
		RecordID: key,
		Current:  current.Clone(),
		Incoming: incoming.Clone(),
	}

	switch opts.Policy {
	case PolicyIncomingWins:
		c.Proposed = ResolutionIncoming
	case PolicyCurrentWins:
		c.Proposed = ResolutionCurrent
	case PolicyMergeFields:
		c.Proposed = ResolutionMerged
		updatedField := ""
		if spec != nil {
			updatedField = spec.UpdatedField
		}
		c.Merged = mergeRows(current, incoming, updatedField, opts.PreserveNewer)
	case PolicyManual:
		c.Proposed = ResolutionUndecided
	}

	c.Final = c.Proposed
	return c
}

// mergeRows computes the MergeFields union of two rows. Fields present on
// only one side carry over unchanged. For fields present on both, the
// incoming value wins, unless preserveNewer is set and the stored row's
// update timestamp is strictly newer than the incoming row's, in which case
// the stored values are kept.
func mergeRows(current, incoming record.Row, updatedField string, preserveNewer bool) record.Row {
	keepCurrent := false
	if preserveNewer && updatedField != "" {
		cur := current.Get(updatedField)
		inc := incoming.Get(updatedField)
		if cur.Kind() == record.KindTime && inc.Kind() == record.KindTime && cur.TimeVal().After(inc.TimeVal()) {
			keepCurrent = true
		}
	}

	merged := current.Clone()
	for f, v := range incoming {
		if keepCurrent && current.Has(f) {
			continue
		}
		merged[f] = v
	}
	return merged
}

// OverrideSkip and OverrideUseCustom are the actions a caller may take on a
// Manual conflict.
const (
	OverrideSkip      = "skip"
	OverrideUseCustom = "use_custom"
)

// Override is one caller decision for a Manual conflict.
type Override struct {
	// Action is OverrideSkip or OverrideUseCustom.
	Action string `json:"action"`

	// Custom carries field values to apply when Action is OverrideUseCustom.
	// They are overlaid on the incoming row, so a partial edit is enough.
	Custom record.Row `json:"custom,omitempty"`
}

// Overrides maps Conflict.Key() to the caller's decision.
type Overrides map[string]Override

// Resolve applies caller overrides to Manual conflicts. Overrides are only
// meaningful under PolicyManual; supplying them under an automatic policy,
// or referencing a conflict the analysis never produced, wraps
// ErrPolicyViolation. Conflicts left unresolved stay undecided and are
// skipped loudly at apply time.
func (a *Analysis) Resolve(ov Overrides) error {
	if len(ov) == 0 {
		return nil
	}
	if a.Options.Policy != PolicyManual {
		return fmt.Errorf("%w: conflict overrides require the %s policy, got %s",
			ErrPolicyViolation, PolicyManual, a.Options.Policy)
	}

	byKey := make(map[string]*Conflict, len(a.Conflicts))
	for i := range a.Conflicts {
		byKey[a.Conflicts[i].Key()] = &a.Conflicts[i]
	}

	for key, o := range ov {
		c, ok := byKey[key]
		if !ok {
			return fmt.Errorf("%w: override references unknown conflict %q", ErrPolicyViolation, key)
		}
		switch o.Action {
		case OverrideSkip:
			c.Final = ResolutionSkip
			c.Merged = nil
		case OverrideUseCustom:
			merged := c.Incoming.Clone()
			for f, v := range o.Custom {
				merged[f] = v
			}
			c.Final = ResolutionCustom
			c.Merged = merged
		default:
			return fmt.Errorf("%w: override for %q has unknown action %q", ErrPolicyViolation, key, o.Action)
		}
	}
	return nil
}

// conflictAt returns the conflict a decision points to.
func (a *Analysis) conflictAt(d rowDecision) *Conflict {
	if d.conflict < 0 || d.conflict >= len(a.Conflicts) {
		return nil
	}
	return &a.Conflicts[d.conflict]
}
