// Package ordernum formats human-readable order numbers.
//
// Two variants exist. Sequential numbers (ORD-YYMMDD-0001) require an atomic
// counter at the storage layer; the order repository supplies one via a single
// conditional-increment statement, so the racy read-max-then-write pattern is
// never used. Timestamp numbers (ORD-YYMMDD-1700000000000) need no
// coordination at the cost of longer, non-sequential identifiers.
package ordernum

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const prefix = "ORD"

// DayKey returns the YYMMDD date stamp used to scope daily sequences
func DayKey(t time.Time) string {
	return t.Format("060102")
}

// Sequential formats an order number from a date and a daily sequence value
func Sequential(t time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, DayKey(t), seq)
}

// TimestampSuffix formats an order number whose uniqueness comes from the
// millisecond timestamp rather than a coordinated counter
func TimestampSuffix(t time.Time) string {
	return fmt.Sprintf("%s-%s-%d", prefix, DayKey(t), t.UnixMilli())
}

// Parse splits an order number into its date stamp and suffix. It accepts
// both the sequential and the timestamp variant.
func Parse(orderNumber string) (day string, seq int64, err error) {
	parts := strings.Split(orderNumber, "-")
	if len(parts) != 3 || parts[0] != prefix {
		return "", 0, fmt.Errorf("malformed order number %q", orderNumber)
	}

	if len(parts[1]) != 6 {
		return "", 0, fmt.Errorf("malformed date stamp in order number %q", orderNumber)
	}

	seq, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed suffix in order number %q: %w", orderNumber, err)
	}

	return parts[1], seq, nil
}
