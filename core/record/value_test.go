package record_test

import (
	"encoding/json"
	"testing"
	"time"

	"reg-manager/core/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny_Kinds(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want record.Kind
	}{
		{"Nil", nil, record.KindNull},
		{"Bool", true, record.KindBool},
		{"Int", 42, record.KindInt},
		{"Int64", int64(42), record.KindInt},
		{"Uint", uint(7), record.KindInt},
		{"Float64", 3.5, record.KindFloat},
		{"String", "hello", record.KindString},
		{"Bytes", []byte("hello"), record.KindString},
		{"Time", time.Now(), record.KindTime},
		{"JSONNumberInt", json.Number("9007199254740993"), record.KindInt},
		{"JSONNumberFloat", json.Number("2.25"), record.KindFloat},
		{"RFC3339String", "2025-11-02T09:30:00Z", record.KindTime},
		{"SQLiteDatetime", "2025-11-02 09:30:00", record.KindTime},
		{"NotQuiteADate", "2025-11-02 late", record.KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, record.FromAny(tt.in).Kind())
		})
	}
}

func TestFromAny_PreservesLargeIntegers(t *testing.T) {
	// 2^53+1 is not representable as a float64; json.Number must keep it.
	v := record.FromAny(json.Number("9007199254740993"))
	require.Equal(t, record.KindInt, v.Kind())
	assert.Equal(t, int64(9007199254740993), v.IntVal())
}

func TestValue_Equal(t *testing.T) {
	ts := time.Date(2025, 11, 2, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b record.Value
		want bool
	}{
		{"NullNull", record.Null(), record.Null(), true},
		{"NullString", record.Null(), record.String(""), false},
		{"IntInt", record.Int(5), record.Int(5), true},
		{"IntIntDiff", record.Int(5), record.Int(6), false},
		{"IntFloat", record.Int(5), record.Float(5.0), true},
		{"IntFloatDiff", record.Int(5), record.Float(5.5), false},
		{"BoolIntTrue", record.Bool(true), record.Int(1), true},
		{"BoolIntFalse", record.Bool(false), record.Int(0), true},
		{"BoolIntMismatch", record.Bool(true), record.Int(0), false},
		{"StringString", record.String("a"), record.String("a"), true},
		{"StringNumberNoCoerce", record.String("5"), record.Int(5), false},
		{"TimeInstants", record.Time(ts), record.Time(ts.In(time.FixedZone("X", 3600))), true},
		{"TimeDiff", record.Time(ts), record.Time(ts.Add(time.Second)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a), "equality must be symmetric")
		})
	}
}

func TestValue_EqualAcrossSources(t *testing.T) {
	// The same row field decoded from an artifact and scanned from the
	// database must compare equal despite arriving as different Go types.
	fromArtifact := record.FromAny(json.Number("500"))
	fromMySQL := record.FromAny(int64(500))
	fromSQLiteText := record.FromAny("2025-11-02T09:30:00Z")
	fromScan := record.FromAny(time.Date(2025, 11, 2, 9, 30, 0, 0, time.UTC))

	assert.True(t, fromArtifact.Equal(fromMySQL))
	assert.True(t, fromSQLiteText.Equal(fromScan))
}

func TestValue_Canonical(t *testing.T) {
	tests := []struct {
		name string
		v    record.Value
		want string
	}{
		{"Null", record.Null(), ""},
		{"BoolTrue", record.Bool(true), "1"},
		{"BoolFalse", record.Bool(false), "0"},
		{"Int", record.Int(42), "42"},
		{"IntegralFloat", record.Float(42.0), "42"},
		{"FractionalFloat", record.Float(2.5), "2.5"},
		{"String", record.String("abc"), "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.Canonical())
		})
	}
}

func TestValue_CanonicalAgreesWithEqual(t *testing.T) {
	pairs := [][2]record.Value{
		{record.Int(7), record.Float(7.0)},
		{record.Bool(true), record.Int(1)},
		{record.Bool(false), record.Int(0)},
	}
	for _, p := range pairs {
		require.True(t, p[0].Equal(p[1]))
		assert.Equal(t, p[0].Canonical(), p[1].Canonical())
	}
}

func TestValue_Compare(t *testing.T) {
	assert.Equal(t, -1, record.Int(1).Compare(record.Int(2)))
	assert.Equal(t, 1, record.Int(3).Compare(record.Float(2.5)))
	assert.Equal(t, 0, record.Int(2).Compare(record.Float(2)))
	assert.Equal(t, -1, record.String("a").Compare(record.String("b")))

	early := record.Time(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	late := record.Time(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, -1, early.Compare(late))
	assert.Equal(t, 1, late.Compare(early))
}

func TestValue_JSONRoundTrip(t *testing.T) {
	ts := time.Date(2025, 11, 2, 9, 30, 0, 0, time.UTC)
	values := []record.Value{
		record.Null(),
		record.Bool(true),
		record.Int(9007199254740993),
		record.Float(2.5),
		record.String("plain"),
		record.Time(ts),
	}

	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var back record.Value
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, v.Equal(back), "round trip changed %s value %s", v.Kind(), v.Canonical())
	}
}

func TestValue_UnmarshalRejectsComposite(t *testing.T) {
	var v record.Value
	assert.Error(t, v.UnmarshalJSON([]byte(`{"nested":1}`)))
	assert.Error(t, v.UnmarshalJSON([]byte(`[1,2]`)))
}
