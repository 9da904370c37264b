// Package compensation extracts numeric rates from free-text compensation fields.
//
// Only the leading value is read: "£800-£1,000" parses as 800. Whether ranges
// should contribute their midpoint instead is an open product decision.
package compensation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Pattern is the leading currency-then-digits match, shared with the SQL
// implementation of the average so both stores agree on which rows count.
const Pattern = `^[£$€]?[0-9][0-9,]*`

// SQLPrefilter selects rows eligible for averaging in Postgres.
const SQLPrefilter = `^[£$€]?[0-9]`

var leading = regexp.MustCompile(Pattern)

// LeadingRate returns the leading numeric value of s with every non-digit
// stripped. ok is false when s does not start with an optional currency
// symbol followed by a digit. Values wider than int64 still parse, matching
// the NUMERIC cast used in Postgres.
func LeadingRate(s string) (rate float64, ok bool) {
	m := leading.FindString(s)
	if m == "" {
		return 0, false
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, m)
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		// beyond float64; Postgres rejects the float8 cast too
		return 0, false
	}
	return v, true
}

// Average returns the rounded mean of the parseable values. ok is false when
// no value parsed; unparseable values are excluded rather than counted as zero.
func Average(values []string) (avg int, ok bool) {
	var sum float64
	var n int
	for _, v := range values {
		r, parsed := LeadingRate(v)
		if !parsed {
			continue
		}
		sum += r
		n++
	}
	if n == 0 {
		return 0, false
	}
	return Round(sum / float64(n)), true
}

// Round rounds half away from zero and clamps the result to [0, math.MaxInt].
func Round(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxInt {
		return math.MaxInt
	}
	return int(math.Round(v))
}
