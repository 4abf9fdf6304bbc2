// Package instant converts between document timestamps and time.Time.
//
// A document instant is either an integer number of seconds since the Unix
// epoch (UTC) or free-form date text. Instants are written back in the
// canonical layout "2006-01-02T15:04:05-0700", with fractional seconds added
// only when present so that a parse/format round trip is lossless.
package instant

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"

	policyErrors "starttls-hq/everywhere/pkg/policy/errors"
)

const (
	// Layout is the canonical serialized form of an instant.
	Layout = "2006-01-02T15:04:05-0700"

	// LayoutFractional is used when the instant has sub-second precision.
	LayoutFractional = "2006-01-02T15:04:05.999999999-0700"
)

// layouts are tried before falling back to free-form parsing, so that
// canonical output always parses back to the same instant.
var layouts = []string{
	Layout,
	LayoutFractional,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// Instants outside these years cannot be written in the canonical layout.
const (
	minYear = 0
	maxYear = 9999
)

// Parse converts an epoch-seconds integer or date text into a time.Time.
// Text without a zone is interpreted as UTC. Instants outside years
// 0000-9999 are rejected.
func Parse(value any) (time.Time, error) {
	t, err := parse(value)
	if err != nil {
		return time.Time{}, err
	}
	if y := t.Year(); y < minYear || y > maxYear {
		return time.Time{}, malformed(value, fmt.Errorf("year %d out of range", y))
	}
	return t, nil
}

func parse(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case int:
		return fromEpoch(int64(v)), nil
	case int64:
		return fromEpoch(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, malformed(value, err)
		}
		return fromEpoch(n), nil
	case float64:
		// YAML and untyped JSON decoders produce float64 for integers.
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return time.Time{}, malformed(value, nil)
		}
		return fromEpoch(int64(v)), nil
	case string:
		return parseText(v)
	}
	return time.Time{}, malformed(value, nil)
}

// Format renders t in the canonical layout.
func Format(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format(LayoutFractional)
	}
	return t.Format(Layout)
}

func parseText(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, malformed(s, err)
	}
	return t, nil
}

func fromEpoch(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}

func malformed(value any, cause error) *policyErrors.Error {
	return &policyErrors.Error{
		Type:    policyErrors.ErrorTypeMalformedInstant,
		Value:   value,
		Message: fmt.Sprintf("invalid date: %v", value),
		Err:     cause,
	}
}
