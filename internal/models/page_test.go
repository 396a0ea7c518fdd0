// ABOUTME: Tests for Page and Segment types
// ABOUTME: Verifies display key derivation and embedding presence checks

package models

import "testing"

func TestSegmentDisplayKey(t *testing.T) {
	tests := []struct {
		name    string
		segment Segment
		want    string
	}{
		{"single segment page", Segment{PageTitle: "Theia", Ordinal: 0}, "Theia"},
		{"first of many", Segment{PageTitle: "Theia", Ordinal: 1}, "Theia (1)"},
		{"later segment", Segment{PageTitle: "Galaxy", Ordinal: 12}, "Galaxy (12)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.segment.DisplayKey(); got != tt.want {
				t.Errorf("DisplayKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSegmentDisplayKey_Uniqueness(t *testing.T) {
	// Ordinals from the same page must not collide with each other or with
	// the bare title of a different single-segment page.
	keys := map[string]bool{}
	segments := []Segment{
		{PageTitle: "Theia"},
		{PageTitle: "Kneall", Ordinal: 1},
		{PageTitle: "Kneall", Ordinal: 2},
	}
	for _, seg := range segments {
		key := seg.DisplayKey()
		if keys[key] {
			t.Errorf("duplicate display key %q", key)
		}
		keys[key] = true
	}
}

func TestSegmentHasEmbedding(t *testing.T) {
	if (Segment{}).HasEmbedding() {
		t.Error("segment without vector reported HasEmbedding() = true")
	}
	seg := Segment{Embedding: []float32{0.1, 0.2}}
	if !seg.HasEmbedding() {
		t.Error("segment with vector reported HasEmbedding() = false")
	}
}
