package domain

import (
	"reflect"
	"testing"
)

func TestFindWenMatches_CaseAndElongation(t *testing.T) {
	matches := FindWenMatches("WEN moon? wen lambo? WEEEEEN!")

	expected := []string{"WEN", "wen", "WEEEEEN"}
	if !reflect.DeepEqual(matches, expected) {
		t.Errorf("Expected %v, got %v", expected, matches)
	}
}

func TestFindWenMatches_WordBoundary(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"embedded prefix", "I love wendys burgers"},
		{"no pattern", "grab a towel"},
		{"embedded suffix", "owen said hi"},
		{"digit adjacent", "wen2 the moon"},
		{"letter before", "xwen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if matches := FindWenMatches(tt.text); len(matches) != 0 {
				t.Errorf("Expected no matches for %q, got %v", tt.text, matches)
			}
		})
	}
}

func TestFindWenMatches_Punctuation(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"wen?", []string{"wen"}},
		{"(wen)", []string{"wen"}},
		{"wen wen wen", []string{"wen", "wen", "wen"}},
		{"wwwen and weeen and wennn", []string{"wwwen", "weeen", "wennn"}},
		{"", nil},
		{"gm everyone", nil},
	}

	for _, tt := range tests {
		matches := FindWenMatches(tt.text)
		if !reflect.DeepEqual(matches, tt.expected) {
			t.Errorf("FindWenMatches(%q): expected %v, got %v", tt.text, tt.expected, matches)
		}
	}
}

func TestFindWenMatches_GreedyNonOverlapping(t *testing.T) {
	// A single elongated run is one match, not many
	matches := FindWenMatches("weeeeen")
	if len(matches) != 1 || matches[0] != "weeeeen" {
		t.Errorf("Expected single match [weeeeen], got %v", matches)
	}
}

func TestCountWenMatches(t *testing.T) {
	count, matches := CountWenMatches("wen wen? WEN!")
	if count != 3 {
		t.Errorf("Expected count 3, got %d", count)
	}
	if count != len(matches) {
		t.Errorf("Count %d does not match len(matches) %d", count, len(matches))
	}
}
