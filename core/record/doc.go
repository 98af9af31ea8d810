// Package record defines the typed value model shared by the backup and
// patch engines.
//
// Rows arrive from two very different sources: JSON backup artifacts decoded
// with encoding/json, and live database rows scanned through GORM. The same
// logical value shows up with different Go types depending on the path it
// took (json.Number vs int64, []byte vs string, RFC 3339 strings vs
// time.Time). Value is a small tagged union that absorbs those differences
// once, at the boundary, so the engines compare and merge rows without
// per-call-site type switches or reflection.
//
// # Normalization
//
// FromAny maps any scalar the application encounters onto one of six kinds:
// null, bool, int, float, string, and time. Two cross-kind equivalences are
// honored by Equal because they are artifacts of transport, not data:
//
//   - int and float compare numerically, since JSON has one number type
//   - bool compares against 0/1 integers, since MySQL stores booleans as
//     TINYINT(1) and scans them back as integers
//
// Strings in RFC 3339 or SQLite DATETIME form are promoted to time values on
// the way in, so timestamps compare as instants rather than as encodings.
//
// # Usage
//
//	row := record.FromMap(scanned)
//	if !row.Get("credits").Equal(record.Int(500)) {
//	    // field diverged
//	}
//	key := row.Key("id")
package record
