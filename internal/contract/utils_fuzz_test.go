package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateID fuzzes the TruncateID function.
func FuzzTruncateID(f *testing.F) {
	seeds := []struct {
		id       string
		maxWidth int
	}{
		{"S01", 10},
		{"2026-sprint-14-backend-platform", 20},
		{"", 5},
		{"a", 1},
		{"sprint", 0},
		{"sprint", -3},
	}
	for _, seed := range seeds {
		f.Add(seed.id, seed.maxWidth)
	}

	f.Fuzz(func(t *testing.T, id string, maxWidth int) {
		got := TruncateID(id, maxWidth)
		if maxWidth > 3 && utf8.RuneCountInString(got) > maxWidth {
			t.Errorf("TruncateID(%q, %d) = %q, longer than maxWidth", id, maxWidth, got)
		}
	})
}
