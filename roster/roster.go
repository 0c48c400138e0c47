// Package roster holds the pure list logic of a game: who shows up in
// which order, what each person owes, and how the confirmed list is
// partitioned into teams. Nothing here touches storage; callers pass
// materialized records in and persist the results themselves.
package roster

import (
	"fmt"
	"sort"
	"time"

	"github.com/mitchelson/dividida/models"
)

// Roster is the per-render view of a game's participant list.
type Roster struct {
	ApprovedOrdered []models.Participant
	PendingOrdered  []models.Participant
	ValuePerPerson  float64
	TeamGroups      []models.TeamGroup
}

// Compute resolves the display order, per-person value and (in teams
// mode) the derived team grouping for a game. Degenerate inputs (no
// participants, zero court value, bad players_per_team) yield empty or
// zero results, never an error.
func Compute(game *models.Game, participants []models.Participant) Roster {
	approved := filterByStatus(participants, models.ParticipantApproved)
	pending := filterByStatus(participants, models.ParticipantPending)

	SortApproved(approved, game.SortMode)
	sortByCreation(pending)

	r := Roster{
		ApprovedOrdered: approved,
		PendingOrdered:  pending,
		ValuePerPerson:  ValuePerPerson(game.CourtValue, game.FixedValuePerPerson, len(approved)),
	}
	if game.SortMode == models.SortModeTeams {
		r.TeamGroups = TeamGroups(approved, game.PlayersPerTeam)
	}
	return r
}

// SortApproved orders the confirmed list in place according to the
// game's sort mode. Unknown modes fall back to payment ordering.
func SortApproved(participants []models.Participant, sortMode string) {
	switch sortMode {
	case models.SortModeTeams, models.SortModeArrival:
		// Same comparator for both: the modes differ only in who is
		// allowed to mutate sort_order, not in how it is read.
		sort.SliceStable(participants, func(i, j int) bool {
			if participants[i].SortOrder != participants[j].SortOrder {
				return participants[i].SortOrder < participants[j].SortOrder
			}
			return participants[i].CreatedAt.Before(participants[j].CreatedAt)
		})
	default:
		sort.SliceStable(participants, func(i, j int) bool {
			a, b := participants[i], participants[j]
			if a.Paid != b.Paid {
				return a.Paid
			}
			if a.Paid {
				return paidTime(a).Before(paidTime(b))
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
	}
}

// ValuePerPerson derives the amount each confirmed player owes. A
// fixed per-person value greater than zero overrides the even split.
func ValuePerPerson(courtValue float64, fixed *float64, approvedCount int) float64 {
	if fixed != nil && *fixed > 0 {
		return *fixed
	}
	if approvedCount == 0 || courtValue <= 0 {
		return 0
	}
	return courtValue / float64(approvedCount)
}

// TeamGroups slices the already-sorted confirmed list into consecutive
// chunks of playersPerTeam (last chunk may be short), labelling chunk
// i as "Time {i+1}". This is a recomputed display view and neither
// reads nor writes the persisted team_index.
func TeamGroups(sortedApproved []models.Participant, playersPerTeam int) []models.TeamGroup {
	if playersPerTeam < 1 {
		playersPerTeam = 1
	}
	var groups []models.TeamGroup
	for i := 0; i < len(sortedApproved); i += playersPerTeam {
		end := i + playersPerTeam
		if end > len(sortedApproved) {
			end = len(sortedApproved)
		}
		groups = append(groups, models.TeamGroup{
			Label:        TeamLabel(i / playersPerTeam),
			Participants: sortedApproved[i:end],
		})
	}
	return groups
}

// TeamLabel names team bucket i (0-based) in the conventional form.
func TeamLabel(teamIndex int) string {
	return fmt.Sprintf("Time %d", teamIndex+1)
}

func filterByStatus(participants []models.Participant, status string) []models.Participant {
	var out []models.Participant
	for _, p := range participants {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

func sortByCreation(participants []models.Participant) {
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].CreatedAt.Before(participants[j].CreatedAt)
	})
}

// paidTime treats a missing paid_at as the zero time so it sorts as
// earliest; among paid participants it should not occur.
func paidTime(p models.Participant) time.Time {
	if p.PaidAt != nil {
		return *p.PaidAt
	}
	return time.Time{}
}
