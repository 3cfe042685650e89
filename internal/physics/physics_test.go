package physics

import "testing"

func TestDistanceSquared(t *testing.T) {
	if got := DistanceSquared(0, 0, 10, 0); got != 100 {
		t.Errorf("DistanceSquared = %v, want 100", got)
	}
	if got := DistanceSquared(1, 1, 4, 5); got != 25 {
		t.Errorf("DistanceSquared = %v, want 25", got)
	}
}

func TestReflect(t *testing.T) {
	tests := []struct {
		name     string
		pos, vel float64
		want     float64
	}{
		{"inside keeps velocity", 50, 0.1, 0.1},
		{"on lower bound keeps velocity", 0, -0.1, -0.1},
		{"on upper bound keeps velocity", 100, 0.1, 0.1},
		{"below zero flips", -0.05, -0.1, 0.1},
		{"past limit flips", 100.05, 0.1, -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reflect(tt.pos, tt.vel, 100); got != tt.want {
				t.Errorf("Reflect(%v, %v) = %v, want %v", tt.pos, tt.vel, got, tt.want)
			}
		})
	}
}

func TestPointInRect(t *testing.T) {
	if !PointInRect(1, 1, 0, 0, 2, 2) {
		t.Error("expected point inside")
	}
	if PointInRect(2, 1, 0, 0, 2, 2) {
		t.Error("right edge is exclusive")
	}
}
