package backup

import (
	"fmt"
)

// Policy decides how a conflicting record is resolved when both the current
// store and the incoming artifact carry it with different field values.
type Policy string

const (
	// PolicyIncomingWins takes the artifact's row wholesale.
	PolicyIncomingWins Policy = "incoming_wins"

	// PolicyCurrentWins keeps the stored row untouched. The conflict is
	// still reported so operators can see what diverged.
	PolicyCurrentWins Policy = "current_wins"

	// PolicyMergeFields combines both rows field by field: fields changed
	// only on one side take that side's value, fields changed on both sides
	// take the incoming value unless PreserveNewer says otherwise.
	PolicyMergeFields Policy = "merge_fields"

	// PolicyManual resolves nothing automatically. Every conflict must be
	// answered with an Override before the merge executes; unanswered
	// conflicts are skipped loudly.
	PolicyManual Policy = "manual"
)

// valid reports whether the policy is one of the defined names.
func (p Policy) valid() bool {
	switch p {
	case PolicyIncomingWins, PolicyCurrentWins, PolicyMergeFields, PolicyManual:
		return true
	}
	return false
}

// Options bundles the knobs for one analyze or merge run.
type Options struct {
	// Policy is the conflict resolution strategy. Required.
	Policy Policy `json:"policy"`

	// PreserveNewer, when set, lets a stored row win a MergeFields conflict
	// if its update timestamp is strictly newer than the incoming row's.
	// It has no effect under other policies or on tables without an update
	// timestamp column.
	PreserveNewer bool `json:"preserve_newer"`

	// SkipTables excludes the named tables from the run even when the
	// artifact carries them.
	SkipTables []string `json:"skip_tables,omitempty"`

	// OnlyTables, when non-empty, restricts the run to the named tables.
	// SkipTables still applies on top of the restriction.
	OnlyTables []string `json:"only_tables,omitempty"`

	// DryRun computes the full result without touching the database.
	DryRun bool `json:"dry_run"`
}

// Validate checks the options against the artifact they will run over.
// Violations wrap ErrPolicyViolation.
func (o Options) Validate(art *Artifact) error {
	if !o.Policy.valid() {
		return fmt.Errorf("%w: unknown policy %q", ErrPolicyViolation, o.Policy)
	}

	carried := make(map[string]bool, len(art.Tables))
	for i := range art.Tables {
		carried[art.Tables[i].Name] = true
	}
	for _, name := range o.OnlyTables {
		if !carried[name] {
			return fmt.Errorf("%w: only_tables names %q, which the artifact does not carry",
				ErrPolicyViolation, name)
		}
	}

	if len(o.selectTables(art)) == 0 {
		return fmt.Errorf("%w: table filters exclude every table in the artifact", ErrPolicyViolation)
	}
	return nil
}

// selectTables applies OnlyTables then SkipTables to the artifact's tables,
// preserving artifact order.
func (o Options) selectTables(art *Artifact) []*TableSnapshot {
	skip := make(map[string]bool, len(o.SkipTables))
	for _, name := range o.SkipTables {
		skip[name] = true
	}
	only := make(map[string]bool, len(o.OnlyTables))
	for _, name := range o.OnlyTables {
		only[name] = true
	}

	var out []*TableSnapshot
	for i := range art.Tables {
		t := &art.Tables[i]
		if len(only) > 0 && !only[t.Name] {
			continue
		}
		if skip[t.Name] {
			continue
		}
		out = append(out, t)
	}
	return out
}
