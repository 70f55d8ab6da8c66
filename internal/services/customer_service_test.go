package services

import "testing"

func TestSanitizeContactValue(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		usable bool
	}{
		{"sara@example.com", "sara@example.com", true},
		{"  +966500000001  ", "+966500000001", true},
		{"", "", false},
		{"   ", "", false},
		{"-", "", false},
		{"n/a", "", false},
		{"N/A", "", false},
		{"none", "", false},
		{"NULL", "", false},
		{"undefined", "", false},
		{"nada", "nada", true}, // only exact placeholders are junk
	}

	for _, tt := range tests {
		got, usable := SanitizeContactValue(tt.in)
		if got != tt.want || usable != tt.usable {
			t.Errorf("SanitizeContactValue(%q) = (%q, %v), want (%q, %v)",
				tt.in, got, usable, tt.want, tt.usable)
		}
	}
}
