package models

import "testing"

func TestInvolvesTeam(t *testing.T) {
	idx := func(i int) *int { return &i }

	tests := []struct {
		name  string
		match Match
		team  int
		want  bool
	}{
		{"team a side", Match{TeamAIndex: idx(0), TeamBIndex: idx(1)}, 0, true},
		{"team b side", Match{TeamAIndex: idx(0), TeamBIndex: idx(1)}, 1, true},
		{"not involved", Match{TeamAIndex: idx(0), TeamBIndex: idx(1)}, 2, false},
		{"no linkage", Match{}, 0, false},
		{"one side linked", Match{TeamBIndex: idx(2)}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.match.InvolvesTeam(tt.team); got != tt.want {
				t.Fatalf("InvolvesTeam(%d) = %v, want %v", tt.team, got, tt.want)
			}
		})
	}
}

func TestHasBadge(t *testing.T) {
	p := Participant{Badges: []string{"MVP", "Artilheiro"}}
	if !p.HasBadge("MVP") {
		t.Fatal("HasBadge(MVP) = false, want true")
	}
	if p.HasBadge("Paredão") {
		t.Fatal("HasBadge(Paredão) = true, want false")
	}
}
