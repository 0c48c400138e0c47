package models

import "testing"

func TestComputeOverall(t *testing.T) {
	tests := []struct {
		name  string
		stats [6]int
		want  int
	}{
		{"all fifty", [6]int{50, 50, 50, 50, 50, 50}, 50},
		{"rounds up", [6]int{80, 80, 80, 80, 80, 81}, 80},
		{"rounds mean", [6]int{99, 99, 99, 1, 1, 1}, 50},
		{"max", [6]int{99, 99, 99, 99, 99, 99}, 99},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Profile{
				StatPace:      tt.stats[0],
				StatShooting:  tt.stats[1],
				StatPassing:   tt.stats[2],
				StatDribbling: tt.stats[3],
				StatDefending: tt.stats[4],
				StatPhysical:  tt.stats[5],
			}
			if got := p.ComputeOverall(); got != tt.want {
				t.Fatalf("ComputeOverall() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClampStats(t *testing.T) {
	p := Profile{
		StatPace:      0,
		StatShooting:  -10,
		StatPassing:   100,
		StatDribbling: 999,
		StatDefending: 1,
		StatPhysical:  99,
	}
	p.ClampStats()

	for name, got := range map[string]int{
		"pace":      p.StatPace,
		"shooting":  p.StatShooting,
		"passing":   p.StatPassing,
		"dribbling": p.StatDribbling,
		"defending": p.StatDefending,
		"physical":  p.StatPhysical,
	} {
		if got < 1 || got > 99 {
			t.Errorf("%s = %d, want within 1-99", name, got)
		}
	}
	if p.StatPace != 1 || p.StatPassing != 99 {
		t.Errorf("clamp bounds wrong: pace=%d passing=%d", p.StatPace, p.StatPassing)
	}
}
