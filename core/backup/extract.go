package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Extract decodes and validates a raw artifact payload. It is the only entry
// point for untrusted backup data: everything downstream assumes an artifact
// that passed Extract is structurally sound.
//
// Numbers are decoded through json.Number (via record.Row), so 64-bit
// identifiers survive without float truncation. Errors wrap
// ErrMalformedArtifact or ErrUnsupportedVersion so callers can branch with
// errors.Is.
func Extract(raw []byte) (*Artifact, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedArtifact)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var art Artifact
	if err := dec.Decode(&art); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}

	// Reject trailing garbage after the artifact object.
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after artifact object", ErrMalformedArtifact)
	}

	if art.FormatVersion < MinFormatVersion || art.FormatVersion > FormatVersion {
		return nil, fmt.Errorf("%w: got version %d, supported %d through %d",
			ErrUnsupportedVersion, art.FormatVersion, MinFormatVersion, FormatVersion)
	}

	if err := validate(&art); err != nil {
		return nil, err
	}
	return &art, nil
}

// validate enforces the structural rules every downstream stage relies on:
// named tables, declared primary keys, unique table names, and rows that
// carry their full key.
func validate(art *Artifact) error {
	if art.Metadata.ExportedAt.IsZero() {
		return fmt.Errorf("%w: metadata.exported_at is missing", ErrMalformedArtifact)
	}
	if len(art.Tables) == 0 {
		return fmt.Errorf("%w: artifact carries no tables", ErrMalformedArtifact)
	}

	seen := make(map[string]bool, len(art.Tables))
	for i := range art.Tables {
		t := &art.Tables[i]
		if t.Name == "" {
			return fmt.Errorf("%w: table %d has no name", ErrMalformedArtifact, i)
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: table %q appears twice", ErrMalformedArtifact, t.Name)
		}
		seen[t.Name] = true

		if len(t.PrimaryKey) == 0 {
			return fmt.Errorf("%w: table %q declares no primary key", ErrMalformedArtifact, t.Name)
		}

		// Declared record counts catch truncated payloads before any rows
		// are trusted.
		if want, ok := art.Metadata.RecordCounts[t.Name]; ok && want != len(t.Rows) {
			return fmt.Errorf("%w: table %q carries %d rows, metadata declares %d",
				ErrMalformedArtifact, t.Name, len(t.Rows), want)
		}

		keys := make(map[string]bool, len(t.Rows))
		for j, row := range t.Rows {
			for _, pk := range t.PrimaryKey {
				if !row.Has(pk) || row.Get(pk).IsNull() {
					return fmt.Errorf("%w: table %q row %d is missing key column %q",
						ErrMalformedArtifact, t.Name, j, pk)
				}
			}
			k := t.Key(row)
			if keys[k] {
				return fmt.Errorf("%w: table %q carries duplicate record %q",
					ErrMalformedArtifact, t.Name, k)
			}
			keys[k] = true
		}
	}
	return nil
}
