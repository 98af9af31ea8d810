package patch

import (
	"testing"
	"time"

	"reg-manager/core/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	t1 = time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC)
	t2 = time.Date(2025, 10, 3, 12, 0, 0, 0, time.UTC)
)

func baseSettings() record.Row {
	return record.Row{
		"event_name":        record.String("RegCon 2025"),
		"capacity":          record.Int(400),
		"waitlist_enabled":  record.Bool(true),
		"contact_email":     record.String("ops@reg.io"),
		"registration_open": record.Time(t0),
	}
}

func TestDiff(t *testing.T) {
	updated := baseSettings()
	updated["capacity"] = record.Int(500)      // changed
	updated["venue"] = record.String("Hall B") // added
	delete(updated, "contact_email")           // removed

	meta := Meta{Source: SourceLocal, Actor: "admin@reg.io", At: t1}
	changes := Diff(baseSettings(), updated, meta)

	require.Len(t, changes, 3)

	// Sorted field order: capacity, contact_email, venue.
	assert.Equal(t, "capacity", changes[0].Field)
	assert.True(t, changes[0].Old.Equal(record.Int(400)))
	assert.True(t, changes[0].New.Equal(record.Int(500)))

	assert.Equal(t, "contact_email", changes[1].Field)
	assert.True(t, changes[1].New.IsNull(), "a removed field diffs to null")

	assert.Equal(t, "venue", changes[2].Field)
	assert.True(t, changes[2].Old.IsNull(), "an added field diffs from null")

	for _, c := range changes {
		assert.Equal(t, SourceLocal, c.Source)
		assert.Equal(t, "admin@reg.io", c.Actor)
		assert.Equal(t, t1, c.At)
	}
}

func TestDiff_EqualObjectsProduceNothing(t *testing.T) {
	changes := Diff(baseSettings(), baseSettings(), Meta{Source: SourceLocal})
	assert.Empty(t, changes)
}

func TestDiff_StampsCallTimeWhenMetaOmitsIt(t *testing.T) {
	updated := baseSettings()
	updated["capacity"] = record.Int(10)

	changes := Diff(baseSettings(), updated, Meta{Source: SourceRemote})
	require.Len(t, changes, 1)
	assert.WithinDuration(t, time.Now().UTC(), changes[0].At, time.Minute)
}

func TestCompute_Minimality(t *testing.T) {
	base := baseSettings()
	updated := baseSettings()
	updated["capacity"] = record.Int(500)
	updated["venue"] = record.String("Hall B")
	delete(updated, "contact_email")

	p := Compute(base, updated)

	assert.Equal(t, []string{"capacity", "contact_email", "venue"}, p.FieldNames())
	assert.True(t, p.Fields["capacity"].Equal(record.Int(500)))
	assert.True(t, p.Fields["contact_email"].IsNull())
	assert.True(t, p.Fields["venue"].Equal(record.String("Hall B")))

	// Every patched field genuinely differs between base and updated.
	for f, v := range p.Fields {
		assert.False(t, base.Get(f).Equal(v), "field %s did not change", f)
	}
}

func TestCompute_EqualObjectsYieldEmptyPatch(t *testing.T) {
	p := Compute(baseSettings(), baseSettings())
	assert.True(t, p.IsEmpty())
}

func TestApply(t *testing.T) {
	base := baseSettings()
	p := Patch{Fields: map[string]record.Value{
		"capacity":      record.Int(500),
		"contact_email": record.Null(),
		"event_name":    record.String("RegCon 2025"), // already holds this value
	}}

	merged, changes := Apply(base, p, Meta{Source: SourceRemote, At: t2})

	// Only patched fields moved; the rest carried over.
	assert.True(t, merged.Get("capacity").Equal(record.Int(500)))
	assert.True(t, merged.Get("contact_email").IsNull())
	assert.True(t, merged.Get("waitlist_enabled").Equal(record.Bool(true)))
	assert.True(t, merged.Get("registration_open").Equal(record.Time(t0)))

	// The no-op assignment leaves no trail.
	require.Len(t, changes, 2)
	assert.Equal(t, "capacity", changes[0].Field)
	assert.Equal(t, "contact_email", changes[1].Field)
	for _, c := range changes {
		assert.Equal(t, SourceRemote, c.Source)
		assert.Equal(t, t2, c.At)
	}

	// The base object is untouched.
	assert.True(t, base.Get("capacity").Equal(record.Int(400)))
	assert.True(t, base.Has("contact_email"))
}

func TestApply_EmptyPatchIsIdentity(t *testing.T) {
	base := baseSettings()
	merged, changes := Apply(base, Patch{}, Meta{Source: SourceLocal})
	assert.Empty(t, changes)
	assert.True(t, base.Equal(merged))
}

func TestApply_ComputedPatchConverges(t *testing.T) {
	base := baseSettings()
	updated := baseSettings()
	updated["capacity"] = record.Int(750)
	updated["venue"] = record.String("Hall B")
	delete(updated, "contact_email")

	merged, changes := Apply(base, Compute(base, updated), Meta{Source: SourceRemote, At: t1})

	report := ValidateSync(merged, updated)
	assert.True(t, report.InSync, "applying the computed patch must converge: %+v", report.Mismatches)
	assert.Len(t, changes, 3)
}

func TestMergeChanges(t *testing.T) {
	local := []Change{
		{Field: "capacity", At: t0, Source: SourceLocal},
		{Field: "venue", At: t2, Source: SourceLocal},
	}
	imported := []Change{
		{Field: "capacity", At: t1, Source: SourceImport},
		{Field: "event_name", At: t0, Source: SourceImport},
	}

	timeline := MergeChanges(local, imported)

	require.Len(t, timeline, 4)
	fields := make([]string, len(timeline))
	for i, c := range timeline {
		fields[i] = c.Field
	}
	// t0 entries keep argument order (local before imported), then t1, t2.
	assert.Equal(t, []string{"capacity", "event_name", "capacity", "venue"}, fields)
	assert.Equal(t, SourceLocal, timeline[0].Source)
	assert.Equal(t, SourceImport, timeline[1].Source)
}

func TestValidateSync(t *testing.T) {
	t.Run("Mirrored", func(t *testing.T) {
		report := ValidateSync(baseSettings(), baseSettings())
		assert.True(t, report.InSync)
		assert.Empty(t, report.Mismatches)
	})

	t.Run("Drifted", func(t *testing.T) {
		mirror := baseSettings()
		mirror["capacity"] = record.Int(300)
		delete(mirror, "venue") // absent on both sides, no mismatch
		mirror["extra_flag"] = record.Bool(false)

		report := ValidateSync(baseSettings(), mirror)

		assert.False(t, report.InSync)
		require.Len(t, report.Mismatches, 2)
		assert.Equal(t, "capacity", report.Mismatches[0].Field)
		assert.True(t, report.Mismatches[0].A.Equal(record.Int(400)))
		assert.True(t, report.Mismatches[0].B.Equal(record.Int(300)))
		assert.Equal(t, "extra_flag", report.Mismatches[1].Field)
		assert.True(t, report.Mismatches[1].A.IsNull())
	})
}
