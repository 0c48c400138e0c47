package models

const (
	MatchScheduled = "scheduled"
	MatchPlaying   = "playing"
	MatchFinished  = "finished"
)

const (
	GoalTeamA = "a"
	GoalTeamB = "b"
)

// Match records one in-game scorekeeping session between two of the
// game's teams. The clock (ElapsedSeconds) is persisted whenever the
// timer is paused or the match finished. Finished is terminal.
type Match struct {
	ID     string `json:"id" gorm:"primaryKey"`
	GameID string `json:"game_id" gorm:"not null;index"`

	TeamAName string `json:"team_a_name" gorm:"not null"`
	TeamBName string `json:"team_b_name" gorm:"not null"`

	// Structural team linkage. Display names are free text; counting
	// matches played keys off these indices, never off name parsing.
	TeamAIndex *int `json:"team_a_index,omitempty"`
	TeamBIndex *int `json:"team_b_index,omitempty"`

	ScoreA int `json:"score_a" gorm:"default:0;check:score_a >= 0"`
	ScoreB int `json:"score_b" gorm:"default:0;check:score_b >= 0"`

	Status         string `json:"status" gorm:"default:'scheduled'"` // scheduled | playing | finished
	ElapsedSeconds int    `json:"elapsed_seconds" gorm:"default:0"`
	MatchOrder     int    `json:"match_order" gorm:"column:match_order;default:0"`

	Timestamps
}

// InvolvesTeam reports whether the given team bucket played this match.
func (m *Match) InvolvesTeam(teamIndex int) bool {
	if m.TeamAIndex != nil && *m.TeamAIndex == teamIndex {
		return true
	}
	if m.TeamBIndex != nil && *m.TeamBIndex == teamIndex {
		return true
	}
	return false
}

// Goal is one entry in a match's goal log. The match score is derived
// from this log: inserting a goal increments the corresponding score
// and deleting one decrements it, both inside a single transaction.
type Goal struct {
	ID            string `json:"id" gorm:"primaryKey"`
	MatchID       string `json:"match_id" gorm:"not null;index"`
	GameID        string `json:"game_id" gorm:"not null;index"`
	ParticipantID string `json:"participant_id" gorm:"not null;index"`
	Team          string `json:"team" gorm:"type:varchar(1);check:team IN ('a','b')"`
	Minute        int    `json:"minute" gorm:"default:0"` // elapsed seconds at scoring time

	Timestamps
}
