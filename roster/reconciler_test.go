package roster

import (
	"math/rand"
	"testing"

	"github.com/mitchelson/dividida/models"
)

func member(id string) models.Participant {
	return models.Participant{ID: id, Name: id, Status: models.ParticipantApproved}
}

func memberInTeam(id string, teamIndex int) models.Participant {
	p := member(id)
	p.TeamIndex = &teamIndex
	return p
}

func nMembers(n int) []models.Participant {
	out := make([]models.Participant, n)
	for i := range out {
		out[i] = member(string(rune('a' + i)))
	}
	return out
}

func TestNumTeams(t *testing.T) {
	tests := []struct {
		name           string
		count          int
		playersPerTeam int
		want           int
	}{
		{"exact fill", 10, 5, 2},
		{"overflow adds a team", 11, 5, 3},
		{"floor of two", 3, 5, 2},
		{"empty list still two", 0, 5, 2},
		{"clamped players per team", 4, 0, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReconciler(nMembers(tt.count), tt.playersPerTeam)
			if got := r.NumTeams(); got != tt.want {
				t.Fatalf("NumTeams() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTeamsRoundRobinFill(t *testing.T) {
	r := NewReconciler(nMembers(6), 3)
	teams := r.Teams()
	if len(teams) != 2 {
		t.Fatalf("len(teams) = %d, want 2", len(teams))
	}
	assertOrder(t, teams[0], "a", "c", "e")
	assertOrder(t, teams[1], "b", "d", "f")
	if r.Dirty() {
		t.Fatal("resolving the view must not mark the session dirty")
	}
}

func TestTeamsKeepsValidPersistedIndex(t *testing.T) {
	list := []models.Participant{
		memberInTeam("keeper", 1),
		member("floater-1"),
		member("floater-2"),
	}
	r := NewReconciler(list, 2)
	teams := r.Teams()
	assertOrder(t, teams[0], "floater-1")
	assertOrder(t, teams[1], "keeper", "floater-2")
}

func TestTeamsReassignsOutOfRangeIndex(t *testing.T) {
	list := []models.Participant{
		memberInTeam("stale", 7),
		memberInTeam("negative", -1),
		member("fresh"),
	}
	r := NewReconciler(list, 2)
	teams := r.Teams()
	total := 0
	for i := 0; i < r.NumTeams(); i++ {
		for _, p := range teams[i] {
			if p.TeamIndex == nil || *p.TeamIndex != i {
				t.Fatalf("participant %s in bucket %d carries team index %v", p.ID, i, p.TeamIndex)
			}
			total++
		}
	}
	if total != 3 {
		t.Fatalf("partition holds %d participants, want 3", total)
	}
}

func TestAssignToTeam(t *testing.T) {
	r := NewReconciler(nMembers(4), 2)
	if err := r.AssignToTeam("a", 1); err != nil {
		t.Fatalf("AssignToTeam() error: %v", err)
	}
	if !r.Dirty() {
		t.Fatal("AssignToTeam must mark the session dirty")
	}
	teams := r.Teams()
	found := false
	for _, p := range teams[1] {
		if p.ID == "a" {
			found = true
		}
	}
	if !found {
		t.Fatal("participant a not in team 1 after assignment")
	}

	if err := r.AssignToTeam("a", 5); err == nil {
		t.Fatal("AssignToTeam must reject an out-of-range team index")
	}
	if err := r.AssignToTeam("ghost", 0); err == nil {
		t.Fatal("AssignToTeam must reject an unknown participant")
	}
}

func TestShuffleBalancesTeams(t *testing.T) {
	r := NewReconciler(nMembers(11), 5)
	r.Shuffle(rand.New(rand.NewSource(42)))
	if !r.Dirty() {
		t.Fatal("Shuffle must mark the session dirty")
	}

	teams := r.Teams()
	min, max := len(nMembers(11)), 0
	total := 0
	for i := 0; i < r.NumTeams(); i++ {
		n := len(teams[i])
		total += n
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	if total != 11 {
		t.Fatalf("shuffle lost participants: %d of 11", total)
	}
	if max-min > 1 {
		t.Fatalf("team sizes differ by more than one: min %d, max %d", min, max)
	}
}

func TestShuffleDiscardsPriorAssignments(t *testing.T) {
	list := []models.Participant{
		memberInTeam("a", 1),
		memberInTeam("b", 1),
		memberInTeam("c", 1),
		memberInTeam("d", 1),
	}
	r := NewReconciler(list, 2)
	r.Shuffle(rand.New(rand.NewSource(7)))
	teams := r.Teams()
	if len(teams[0]) != 2 || len(teams[1]) != 2 {
		t.Fatalf("shuffle must re-partition by position: got %d/%d", len(teams[0]), len(teams[1]))
	}
}

func TestBuildSaveBatchSortOrder(t *testing.T) {
	r := NewReconciler(nMembers(6), 3)
	batch := r.BuildSaveBatch()
	if len(batch) != 6 {
		t.Fatalf("len(batch) = %d, want 6", len(batch))
	}

	// Round-robin fill puts a,c,e in team 0 and b,d,f in team 1;
	// sort_order is team_index*playersPerTeam + position in team.
	want := map[string]Assignment{
		"a": {ParticipantID: "a", TeamIndex: 0, SortOrder: 0},
		"c": {ParticipantID: "c", TeamIndex: 0, SortOrder: 1},
		"e": {ParticipantID: "e", TeamIndex: 0, SortOrder: 2},
		"b": {ParticipantID: "b", TeamIndex: 1, SortOrder: 3},
		"d": {ParticipantID: "d", TeamIndex: 1, SortOrder: 4},
		"f": {ParticipantID: "f", TeamIndex: 1, SortOrder: 5},
	}
	for _, a := range batch {
		w, ok := want[a.ParticipantID]
		if !ok {
			t.Fatalf("unexpected participant %s in batch", a.ParticipantID)
		}
		if a != w {
			t.Errorf("assignment for %s = %+v, want %+v", a.ParticipantID, a, w)
		}
	}
}

func TestTeamAverageOverall(t *testing.T) {
	ratedID, unratedID := "user-1", "user-2"
	strong := memberInTeam("strong", 0)
	strong.UserID = &ratedID
	anon := memberInTeam("anon", 0)
	noProfile := memberInTeam("no-profile", 0)
	noProfile.UserID = &unratedID
	loner := memberInTeam("loner", 1)

	r := NewReconciler([]models.Participant{strong, anon, noProfile, loner}, 3)
	profiles := map[string]models.Profile{
		ratedID: {
			StatPace: 80, StatShooting: 80, StatPassing: 80,
			StatDribbling: 80, StatDefending: 80, StatPhysical: 80,
		},
	}

	avg, ok := r.TeamAverageOverall(0, profiles)
	if !ok {
		t.Fatal("team 0 has a rated member, average expected")
	}
	if avg != 80 {
		t.Fatalf("TeamAverageOverall(0) = %v, want 80", avg)
	}

	if _, ok := r.TeamAverageOverall(1, profiles); ok {
		t.Fatal("team 1 has no rated member, no average expected")
	}
}
