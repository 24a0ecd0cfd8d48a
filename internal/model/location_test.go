package model

import "testing"

func TestPositionAdjacent(t *testing.T) {
	tests := []struct {
		a, b Position
		want bool
	}{
		{NewPosition(5, 5), NewPosition(5, 5), true},
		{NewPosition(5, 5), NewPosition(6, 6), true},
		{NewPosition(5, 5), NewPosition(4, 5), true},
		{NewPosition(5, 5), NewPosition(7, 5), false},
		{NewPosition(5, 5), NewPosition(5, 3), false},
	}
	for _, tt := range tests {
		if got := tt.a.Adjacent(tt.b); got != tt.want {
			t.Errorf("%v.Adjacent(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDistanceSquared(t *testing.T) {
	a := NewPosition(0, 0)
	b := NewPosition(3, 4)
	if got := a.DistanceSquared(b); got != 25 {
		t.Errorf("DistanceSquared = %d, want 25", got)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{LowX: 2, LowY: 2, HighX: 8, HighY: 6}

	if !r.Contains(NewPosition(2, 2)) || !r.Contains(NewPosition(8, 6)) {
		t.Error("Rect bounds are inclusive")
	}
	if r.Contains(NewPosition(9, 4)) {
		t.Error("Rect contains a cell past its bounds")
	}
}

func TestRoomInsideExcludesDoor(t *testing.T) {
	room := NewRoom(1, 1, ShopGeneral,
		Rect{LowX: 2, LowY: 2, HighX: 8, HighY: 6}, NewPosition(9, 4))

	if !room.Inside(NewPosition(4, 4)) {
		t.Error("interior cell not inside")
	}
	// Дверь лежит на стене, вне bounds
	if room.Inside(room.Door()) {
		t.Error("door counted as inside")
	}
}
