package roster

import (
	"fmt"
	"math/rand"

	"github.com/mitchelson/dividida/models"
)

// Assignment is one save-ready row for the batched team-assignment
// write: which participant goes to which bucket, and at which slot.
type Assignment struct {
	ParticipantID string `json:"participant_id"`
	TeamIndex     int    `json:"team_index"`
	SortOrder     int    `json:"sort_order"`
}

// Reconciler maintains a working partition of approved participants
// into team buckets, backed by the persisted team_index/sort_order
// fields. All mutations are in-memory until BuildSaveBatch; the
// session is dirty from the first change until the caller saves.
type Reconciler struct {
	participants   []models.Participant
	playersPerTeam int
	numTeams       int
	dirty          bool
}

// NewReconciler snapshots the given participants (approved list, in
// display order) into a working view. playersPerTeam below 1 is
// clamped to 1.
func NewReconciler(participants []models.Participant, playersPerTeam int) *Reconciler {
	if playersPerTeam < 1 {
		playersPerTeam = 1
	}
	snapshot := make([]models.Participant, len(participants))
	copy(snapshot, participants)

	numTeams := (len(snapshot) + playersPerTeam - 1) / playersPerTeam
	if numTeams < 2 {
		numTeams = 2
	}
	return &Reconciler{
		participants:   snapshot,
		playersPerTeam: playersPerTeam,
		numTeams:       numTeams,
	}
}

// NumTeams is max(2, ceil(count / playersPerTeam)).
func (r *Reconciler) NumTeams() int {
	return r.numTeams
}

// Dirty reports whether the working view has unsaved changes.
func (r *Reconciler) Dirty() bool {
	return r.dirty
}

// Teams resolves the working partition: participants keep a persisted
// team_index when it is a valid bucket, everyone else is filled in
// round-robin by list position. The round-robin indices exist only in
// this view until the caller saves a batch.
func (r *Reconciler) Teams() map[int][]models.Participant {
	teams := make(map[int][]models.Participant, r.numTeams)
	for i := 0; i < r.numTeams; i++ {
		teams[i] = nil
	}

	var unassigned []models.Participant
	for _, p := range r.participants {
		if p.TeamIndex != nil && *p.TeamIndex >= 0 && *p.TeamIndex < r.numTeams {
			teams[*p.TeamIndex] = append(teams[*p.TeamIndex], p)
		} else {
			unassigned = append(unassigned, p)
		}
	}
	for i, p := range unassigned {
		target := i % r.numTeams
		p.TeamIndex = intPtr(target)
		teams[target] = append(teams[target], p)
	}
	return teams
}

// AssignToTeam moves one participant to the given bucket in the
// working view and marks the session dirty.
func (r *Reconciler) AssignToTeam(participantID string, teamIndex int) error {
	if teamIndex < 0 || teamIndex >= r.numTeams {
		return fmt.Errorf("team index %d out of range [0,%d)", teamIndex, r.numTeams)
	}
	for i := range r.participants {
		if r.participants[i].ID == participantID {
			r.participants[i].TeamIndex = intPtr(teamIndex)
			r.dirty = true
			return nil
		}
	}
	return fmt.Errorf("participant %s not in roster", participantID)
}

// Shuffle randomly permutes the whole list and re-partitions it by
// position (team_index = i mod numTeams), discarding all prior
// assignments.
func (r *Reconciler) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(r.participants), func(i, j int) {
		r.participants[i], r.participants[j] = r.participants[j], r.participants[i]
	})
	for i := range r.participants {
		r.participants[i].TeamIndex = intPtr(i % r.numTeams)
	}
	r.dirty = true
}

// BuildSaveBatch emits one assignment per participant from the
// resolved partition, with sort_order = team_index * playersPerTeam +
// position within the team. Persisting the batch is the caller's job
// and is not atomic across rows.
func (r *Reconciler) BuildSaveBatch() []Assignment {
	teams := r.Teams()
	var batch []Assignment
	for teamIdx := 0; teamIdx < r.numTeams; teamIdx++ {
		for pos, p := range teams[teamIdx] {
			batch = append(batch, Assignment{
				ParticipantID: p.ID,
				TeamIndex:     teamIdx,
				SortOrder:     teamIdx*r.playersPerTeam + pos,
			})
		}
	}
	return batch
}

// TeamAverageOverall is the mean overall of the bucket members that
// have a rated profile. The second return is false when no member is
// rated: such buckets show no average, not zero.
func (r *Reconciler) TeamAverageOverall(teamIndex int, profiles map[string]models.Profile) (float64, bool) {
	teams := r.Teams()
	var sum, n int
	for _, p := range teams[teamIndex] {
		if p.UserID == nil {
			continue
		}
		prof, ok := profiles[*p.UserID]
		if !ok {
			continue
		}
		sum += prof.ComputeOverall()
		n++
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}

func intPtr(i int) *int {
	return &i
}
