package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Time is a timezone-aware timestamp.
//
// Tendem may send timestamps without an offset; those are read as UTC.
// This is a decode-time default, not an inference of the real zone.
type Time struct {
	time.Time
}

// layouts accepted after normalization, in order of likelihood
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
}

const dateLayout = "2006-01-02"

// millisThreshold separates epoch seconds from epoch milliseconds,
// values above it are treated as milliseconds.
const millisThreshold = 20_000_000_000

// NormalizeTimestamp makes a textual timestamp explicit about its zone.
//
// Precedence: an explicit offset in the time part is kept, then a trailing
// zone letter (Z or z) is kept, otherwise "Z" (UTC) is appended.
// Zoned values are returned unchanged.
func NormalizeTimestamp(s string) string {
	v := strings.TrimSpace(s)
	if v == "" {
		return v
	}
	if hasExplicitOffset(v) {
		return v
	}
	if hasZoneLetter(v) {
		return v
	}
	return v + "Z"
}

// timePartIndex returns the index where the time part starts, or -1
func timePartIndex(v string) int {
	return strings.IndexAny(v, "Tt ")
}

func hasExplicitOffset(v string) bool {
	idx := timePartIndex(v)
	if idx < 0 {
		return false
	}
	return strings.ContainsAny(v[idx+1:], "+-")
}

func hasZoneLetter(v string) bool {
	last := v[len(v)-1]
	return last == 'Z' || last == 'z'
}

// ParseTime parses an RFC 3339 timestamp, treating offset-less values as UTC.
// Date-only values are midnight UTC.
func ParseTime(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	if len(v) == len(dateLayout) {
		t, err := time.ParseInLocation(dateLayout, v, time.UTC)
		if err != nil {
			return time.Time{}, errors.Wrapf(err, "invalid timestamp %q", s)
		}
		return t, nil
	}

	v = NormalizeTimestamp(v)
	if idx := timePartIndex(v); idx > 0 {
		v = v[:idx] + "T" + v[idx+1:]
	}
	if hasZoneLetter(v) {
		v = v[:len(v)-1] + "Z"
	}

	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, errors.Wrapf(lastErr, "invalid timestamp %q", s)
}

// FromUnix converts epoch seconds, or milliseconds for large values, to UTC.
func FromUnix(v int64) time.Time {
	if v > millisThreshold || v < -millisThreshold {
		return time.UnixMilli(v).UTC()
	}
	return time.Unix(v, 0).UTC()
}

// MarshalJSON implements json.Marshaler
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
// Accepts RFC 3339 strings, with or without offset, and Unix epoch numbers.
func (t *Time) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return errors.New("timestamp is required")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.WithStack(err)
		}
		return t.UnmarshalText([]byte(s))
	}

	num := string(data)
	if i, err := strconv.ParseInt(num, 10, 64); err == nil {
		t.Time = FromUnix(i)
		return nil
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return errors.Newf("invalid timestamp %s", num)
	}
	t.Time = fromUnixFloat(f)
	return nil
}

// fromUnixFloat is FromUnix for fractional epoch values
func fromUnixFloat(f float64) time.Time {
	if f > millisThreshold || f < -millisThreshold {
		f /= 1000
	}
	sec := math.Floor(f)
	return time.Unix(int64(sec), int64((f-sec)*float64(time.Second))).UTC()
}

// MarshalText implements encoding.TextMarshaler
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.Format(time.RFC3339Nano)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Time) UnmarshalText(text []byte) error {
	v, err := ParseTime(string(text))
	if err != nil {
		return err
	}
	t.Time = v
	return nil
}
