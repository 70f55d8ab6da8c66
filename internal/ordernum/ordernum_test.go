package ordernum

import (
	"testing"
	"time"
)

func TestSequential(t *testing.T) {
	at := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		seq  int64
		want string
	}{
		{1, "ORD-260828-0001"},
		{42, "ORD-260828-0042"},
		{9999, "ORD-260828-9999"},
		{10000, "ORD-260828-10000"},
	}

	for _, tt := range tests {
		if got := Sequential(at, tt.seq); got != tt.want {
			t.Errorf("Sequential(%d) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}

func TestTimestampSuffix(t *testing.T) {
	at := time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC)

	got := TimestampSuffix(at)
	want := "ORD-260828-1787913000000"
	if got != want {
		t.Errorf("TimestampSuffix() = %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	day, seq, err := Parse("ORD-260828-0042")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if day != "260828" {
		t.Errorf("day = %q, want 260828", day)
	}
	if seq != 42 {
		t.Errorf("seq = %d, want 42", seq)
	}

	for _, bad := range []string{"", "ORD-260828", "INV-260828-0001", "ORD-2608-0001", "ORD-260828-xyz"} {
		if _, _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	at := time.Now()
	day, seq, err := Parse(Sequential(at, 7))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if day != DayKey(at) || seq != 7 {
		t.Errorf("round trip gave day=%q seq=%d, want day=%q seq=7", day, seq, DayKey(at))
	}
}
