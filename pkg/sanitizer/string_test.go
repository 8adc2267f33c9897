package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace only", "   \t\n ", ""},
		{"already clean", "Weekend Trip", "Weekend Trip"},
		{"leading and trailing", "  Weekend Trip  ", "Weekend Trip"},
		{"internal runs", "Weekend   \t Trip", "Weekend Trip"},
		{"newlines collapse", "Weekend\n\nTrip", "Weekend Trip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSanitizeGroupName(t *testing.T) {
	if got := SanitizeGroupName("  North Street   EV Club "); got != "North Street EV Club" {
		t.Errorf("unexpected result: %q", got)
	}
}

func TestSanitizeNotes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"control characters stripped", "pick up\x00 groceries\x07", "pick up groceries"},
		{"whitespace normalized", "  airport   run ", "airport run"},
		{"tabs and newlines collapse", "long\ttrip\nnotes", "long trip notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeNotes(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
