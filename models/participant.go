package models

import (
	"time"
)

const (
	ParticipantPending  = "pending"
	ParticipantApproved = "approved"
	ParticipantRejected = "rejected"
)

// ParticipantBadges lists the tags an admin can pin on a player.
var ParticipantBadges = []string{
	"MVP", "Artilheiro", "Craque", "Paredão", "Garçom",
	"Cestinha", "Ace", "Bola Murcha", "Pipoqueiro",
}

// Participant is one name on a game's list. Self-serve join creates it
// as pending; only the admin moves it to approved or rejected.
type Participant struct {
	ID     string `json:"id" gorm:"primaryKey"`
	GameID string `json:"game_id" gorm:"not null;index"`
	Name   string `json:"name" gorm:"not null"`
	Status string `json:"status" gorm:"default:'pending'"` // pending | approved | rejected

	// Paid and PaidAt are set and cleared together.
	Paid   bool       `json:"paid" gorm:"default:false"`
	PaidAt *time.Time `json:"paid_at,omitempty"`

	Badges []string `json:"badges" gorm:"serializer:json;type:jsonb"`

	// SortOrder is the manual arrival rank or the team-slot rank,
	// depending on the game's sort mode.
	SortOrder int  `json:"sort_order" gorm:"column:sort_order;default:0"`
	TeamIndex *int `json:"team_index,omitempty"`

	// Optional link to a player profile.
	UserID *string `json:"user_id,omitempty" gorm:"index"`

	Timestamps
}

// HasBadge reports whether the participant carries the given tag.
func (p *Participant) HasBadge(badge string) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}
