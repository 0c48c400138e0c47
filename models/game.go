// models/game.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CategoryFutebol    = "futebol"
	CategoryFutsal     = "futsal"
	CategoryVolei      = "volei"
	CategoryBeachTenis = "beachtenis"
	CategoryFutvolei   = "futvolei"
)

const (
	SortModePayment = "payment"
	SortModeTeams   = "teams"
	SortModeArrival = "arrival"
)

// Game is one pickup-sports event: a court booking, its bill, and the
// PIX data used to collect each player's share. Ownership is the admin
// password, not a user account.
type Game struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Slug     string `json:"slug" gorm:"index"`
	GameDate string `json:"game_date" gorm:"not null"` // YYYY-MM-DD
	GameTime string `json:"game_time" gorm:"not null"` // HH:MM

	CourtValue          float64  `json:"court_value" gorm:"type:numeric(10,2);default:0"`
	FixedValuePerPerson *float64 `json:"fixed_value_per_person,omitempty" gorm:"type:numeric(10,2)"`

	PasswordHash string `json:"-" gorm:"not null"`

	// PIX is "configured" only when all three are non-empty.
	PixKey          string `json:"pix_key"`
	PixReceiverName string `json:"pix_receiver_name"`
	PixCity         string `json:"pix_city"`

	Category         string `json:"category" gorm:"default:'futebol'"`
	ListClosed       bool   `json:"list_closed" gorm:"default:false"`
	Location         string `json:"location"`
	SortMode         string `json:"sort_mode" gorm:"default:'payment'"` // payment | teams | arrival
	PlayersPerTeam   int    `json:"players_per_team" gorm:"default:5"`
	ChampionPhotoURL string `json:"champion_photo_url"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:GameID"`

	// Calculated fields (not stored in DB)
	ApprovedOrdered []Participant `json:"approved_ordered,omitempty" gorm:"-"`
	PendingOrdered  []Participant `json:"pending_ordered,omitempty" gorm:"-"`
	ValuePerPerson  float64       `json:"value_per_person,omitempty" gorm:"-"`
	TeamGroups      []TeamGroup   `json:"team_groups,omitempty" gorm:"-"`
	PixPayload      string        `json:"pix_payload,omitempty" gorm:"-"`
}

// TeamGroup is the derived per-render partition of the confirmed list
// in teams mode. It is a display view only and independent of the
// persisted Participant.TeamIndex.
type TeamGroup struct {
	Label        string        `json:"label"`
	Participants []Participant `json:"participants"`
}

// PixConfigured reports whether the game has everything needed to
// render a scannable BR Code.
func (g *Game) PixConfigured() bool {
	return g.PixKey != "" && g.PixReceiverName != "" && g.PixCity != ""
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
