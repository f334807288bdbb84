package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStepMapText(t *testing.T) {
	// "abcd" at path 0, replace [1,3) with "xyz".
	sm := StepMap{Path: Path{0}, From: 1, To: 3, NewSize: 3, Text: true}

	tests := []struct {
		name    string
		pos     Pos
		bias    int
		want    Pos
		deleted bool
	}{
		{"before", NewPos(Path{0}, 0), 1, NewPos(Path{0}, 0), false},
		{"at start", NewPos(Path{0}, 1), 1, NewPos(Path{0}, 1), false},
		{"inside right", NewPos(Path{0}, 2), 1, NewPos(Path{0}, 4), true},
		{"inside left", NewPos(Path{0}, 2), -1, NewPos(Path{0}, 1), true},
		{"at end", NewPos(Path{0}, 3), -1, NewPos(Path{0}, 4), false},
		{"after", NewPos(Path{0}, 4), 1, NewPos(Path{0}, 5), false},
		{"other block", NewPos(Path{1}, 0), 1, NewPos(Path{1}, 0), false},
		{"container level", NewPos(nil, 1), 1, NewPos(nil, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sm.Map(tt.pos, tt.bias)
			if diff := cmp.Diff(tt.want, got.Pos); diff != "" {
				t.Errorf("Map(%s) mismatch (-want +got):\n%s", tt.pos, diff)
			}
			if got.Deleted != tt.deleted {
				t.Errorf("Map(%s).Deleted = %v, want %v", tt.pos, got.Deleted, tt.deleted)
			}
		})
	}
}

func TestStepMapInsertionBias(t *testing.T) {
	sm := StepMap{Path: Path{0}, From: 2, To: 2, NewSize: 2, Text: true}
	if got := sm.Map(NewPos(Path{0}, 2), -1).Pos; got.Offset != 2 {
		t.Errorf("left bias offset = %d, want 2", got.Offset)
	}
	if got := sm.Map(NewPos(Path{0}, 2), 1).Pos; got.Offset != 4 {
		t.Errorf("right bias offset = %d, want 4", got.Offset)
	}
	if got := sm.Map(NewPos(Path{0}, 2), 0).Pos; got.Offset != 4 {
		t.Errorf("zero bias offset = %d, want 4", got.Offset)
	}
}

func TestStepMapReplaceChildren(t *testing.T) {
	// Remove child 1 of the root.
	sm := StepMap{Path: nil, From: 1, To: 2, NewSize: 0}

	tests := []struct {
		name    string
		pos     Pos
		bias    int
		want    Pos
		deleted bool
	}{
		{"earlier child", NewPos(Path{0}, 1), 1, NewPos(Path{0}, 1), false},
		{"later child shifts", NewPos(Path{2}, 1), 1, NewPos(Path{1}, 1), false},
		{"inside removed child", NewPos(Path{1, 0}, 3), 1, NewPos(nil, 1), true},
		{"inside removed child left", NewPos(Path{1}, 0), -1, NewPos(nil, 1), true},
		{"before removed", NewPos(nil, 1), 1, NewPos(nil, 1), false},
		{"after removed", NewPos(nil, 2), -1, NewPos(nil, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sm.Map(tt.pos, tt.bias)
			if !got.Pos.Equal(tt.want) {
				t.Errorf("Map(%s) = %s, want %s", tt.pos, got.Pos, tt.want)
			}
			if got.Deleted != tt.deleted {
				t.Errorf("Map(%s).Deleted = %v, want %v", tt.pos, got.Deleted, tt.deleted)
			}
		})
	}
}

func TestMappingIdentity(t *testing.T) {
	m := Identity()
	pos := NewPos(Path{3, 1}, 7)
	res := m.Map(pos, 1)
	if !res.Pos.Equal(pos) || res.Deleted {
		t.Errorf("identity mapping changed %s to %+v", pos, res)
	}

	var nilMapping *Mapping
	if got := nilMapping.MapPos(pos, -1); !got.Equal(pos) {
		t.Errorf("nil mapping changed %s to %s", pos, got)
	}
}

func TestMappingComposes(t *testing.T) {
	m := NewMapping(
		StepMap{Path: Path{0}, From: 0, To: 0, NewSize: 3, Text: true},
		StepMap{Path: nil, From: 0, To: 0, NewSize: 1},
	)
	got := m.Map(NewPos(Path{0}, 1), 1)
	want := NewPos(Path{1}, 4)
	if !got.Pos.Equal(want) {
		t.Errorf("Map = %s, want %s", got.Pos, want)
	}
	if m.Len() != 2 || len(m.Maps()) != 2 {
		t.Errorf("Len = %d", m.Len())
	}
}
