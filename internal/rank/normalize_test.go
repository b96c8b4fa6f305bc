// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import "testing"

func TestNormalizeAuthorName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "John Smith", "john smith"},
		{"initials", "J. Smith", "j smith"},
		{"hyphenated", "Jean-Luc Picard", "jean luc picard"},
		{"extra whitespace", "  John   Smith ", "john smith"},
		{"apostrophe", "O'Brien", "o brien"},
		{"empty", "", ""},
		{"punctuation only", "...", ""},
		{"mixed case", "MARIA de la Cruz", "maria de la cruz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAuthorName(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeAuthorName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeAuthorNameIdempotent(t *testing.T) {
	inputs := []string{"J. Smith", "Jean-Luc Picard", "O'Brien", "Maria de la Cruz"}
	for _, in := range inputs {
		once := NormalizeAuthorName(in)
		twice := NormalizeAuthorName(once)
		if once != twice {
			t.Errorf("NormalizeAuthorName not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
