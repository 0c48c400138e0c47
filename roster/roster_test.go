package roster

import (
	"testing"
	"time"

	"github.com/mitchelson/dividida/models"
)

func day(hour, min int) time.Time {
	return time.Date(2025, 6, 14, hour, min, 0, 0, time.UTC)
}

func approved(id string, createdAt time.Time) models.Participant {
	p := models.Participant{
		ID:     id,
		Name:   id,
		Status: models.ParticipantApproved,
	}
	p.CreatedAt = createdAt
	return p
}

func paid(id string, createdAt, paidAt time.Time) models.Participant {
	p := approved(id, createdAt)
	p.Paid = true
	t := paidAt
	p.PaidAt = &t
	return p
}

func ids(list []models.Participant) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func assertOrder(t *testing.T, got []models.Participant, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("order = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("order = %v, want %v", g, want)
		}
	}
}

func TestSortApprovedPaymentMode(t *testing.T) {
	list := []models.Participant{
		approved("unpaid-9h", day(9, 0)),
		paid("paid-10h", day(8, 0), day(10, 0)),
		paid("paid-930h", day(8, 30), day(9, 30)),
	}
	SortApproved(list, models.SortModePayment)
	assertOrder(t, list, "paid-930h", "paid-10h", "unpaid-9h")
}

func TestSortApprovedPaymentModeUnpaidByCreation(t *testing.T) {
	list := []models.Participant{
		approved("late", day(11, 0)),
		approved("early", day(9, 0)),
		paid("payer", day(10, 0), day(10, 5)),
	}
	SortApproved(list, models.SortModePayment)
	assertOrder(t, list, "payer", "early", "late")
}

func TestSortApprovedPaidNilPaidAtSortsFirst(t *testing.T) {
	noStamp := approved("no-stamp", day(9, 0))
	noStamp.Paid = true
	list := []models.Participant{
		paid("stamped", day(8, 0), day(9, 30)),
		noStamp,
	}
	SortApproved(list, models.SortModePayment)
	assertOrder(t, list, "no-stamp", "stamped")
}

func TestSortApprovedTeamsAndArrivalShareComparator(t *testing.T) {
	build := func() []models.Participant {
		a := approved("third", day(9, 0))
		a.SortOrder = 2
		b := approved("first", day(9, 10))
		b.SortOrder = 0
		c := approved("second-old", day(8, 0))
		c.SortOrder = 1
		d := approved("second-new", day(10, 0))
		d.SortOrder = 1
		return []models.Participant{a, b, c, d}
	}

	for _, mode := range []string{models.SortModeTeams, models.SortModeArrival} {
		list := build()
		SortApproved(list, mode)
		assertOrder(t, list, "first", "second-old", "second-new", "third")
	}
}

func TestSortApprovedUnknownModeFallsBackToPayment(t *testing.T) {
	list := []models.Participant{
		approved("unpaid", day(9, 0)),
		paid("paid", day(9, 5), day(9, 30)),
	}
	SortApproved(list, "whatever")
	assertOrder(t, list, "paid", "unpaid")
}

func TestValuePerPerson(t *testing.T) {
	fixed := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		court    float64
		fixed    *float64
		approved int
		want     float64
	}{
		{"even split", 100, nil, 4, 25},
		{"fixed overrides count", 100, fixed(10), 4, 10},
		{"fixed zero ignored", 100, fixed(0), 4, 25},
		{"no participants", 100, nil, 0, 0},
		{"zero court value", 0, nil, 4, 0},
		{"negative court value", -5, nil, 4, 0},
		{"fixed wins even with no participants", 0, fixed(15), 0, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValuePerPerson(tt.court, tt.fixed, tt.approved)
			if got != tt.want {
				t.Fatalf("ValuePerPerson() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValuePerPersonKeepsPrecision(t *testing.T) {
	got := ValuePerPerson(100, nil, 3)
	if got < 33.33 || got > 33.34 {
		t.Fatalf("ValuePerPerson(100, nil, 3) = %v, want full-precision third", got)
	}
}

func TestTeamGroupsPartition(t *testing.T) {
	var list []models.Participant
	for i := 0; i < 11; i++ {
		list = append(list, approved(string(rune('a'+i)), day(9, i)))
	}

	groups := TeamGroups(list, 5)
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	wantSizes := []int{5, 5, 1}
	for i, g := range groups {
		if len(g.Participants) != wantSizes[i] {
			t.Errorf("group %d size = %d, want %d", i, len(g.Participants), wantSizes[i])
		}
	}
	if groups[0].Label != "Time 1" || groups[2].Label != "Time 3" {
		t.Errorf("labels = %q/%q, want Time 1/Time 3", groups[0].Label, groups[2].Label)
	}
}

func TestTeamGroupsClampsPlayersPerTeam(t *testing.T) {
	list := []models.Participant{
		approved("a", day(9, 0)),
		approved("b", day(9, 1)),
	}
	groups := TeamGroups(list, 0)
	if len(groups) != 2 {
		t.Fatalf("len(groups) = %d, want 2 (players_per_team clamped to 1)", len(groups))
	}
}

func TestComputeEmptyList(t *testing.T) {
	game := &models.Game{SortMode: models.SortModeTeams, PlayersPerTeam: 5, CourtValue: 100}
	r := Compute(game, nil)
	if len(r.ApprovedOrdered) != 0 || len(r.PendingOrdered) != 0 {
		t.Fatal("empty input must yield empty ordered lists")
	}
	if r.ValuePerPerson != 0 {
		t.Fatalf("ValuePerPerson = %v, want 0", r.ValuePerPerson)
	}
	if len(r.TeamGroups) != 0 {
		t.Fatal("empty input must yield no team groups")
	}
}

func TestComputePendingKeepsJoinOrder(t *testing.T) {
	late := models.Participant{ID: "late", Status: models.ParticipantPending}
	late.CreatedAt = day(11, 0)
	late.SortOrder = 0
	early := models.Participant{ID: "early", Status: models.ParticipantPending}
	early.CreatedAt = day(9, 0)
	early.SortOrder = 5
	rejected := models.Participant{ID: "gone", Status: models.ParticipantRejected}

	game := &models.Game{SortMode: models.SortModeArrival, PlayersPerTeam: 5}
	r := Compute(game, []models.Participant{late, early, rejected})
	assertOrder(t, r.PendingOrdered, "early", "late")
	if len(r.ApprovedOrdered) != 0 {
		t.Fatal("rejected participants must not appear in any list")
	}
}

func TestComputeTeamsModeBuildsGroups(t *testing.T) {
	var list []models.Participant
	for i := 0; i < 4; i++ {
		p := approved(string(rune('a'+i)), day(9, i))
		p.SortOrder = i
		list = append(list, p)
	}
	game := &models.Game{
		SortMode:       models.SortModeTeams,
		PlayersPerTeam: 2,
		CourtValue:     80,
	}
	r := Compute(game, list)
	if len(r.TeamGroups) != 2 {
		t.Fatalf("len(TeamGroups) = %d, want 2", len(r.TeamGroups))
	}
	if r.ValuePerPerson != 20 {
		t.Fatalf("ValuePerPerson = %v, want 20", r.ValuePerPerson)
	}
	assertOrder(t, r.TeamGroups[0].Participants, "a", "b")
	assertOrder(t, r.TeamGroups[1].Participants, "c", "d")
}
