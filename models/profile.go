package models

// Profile is a player's public card: six skill stats (each 1-99), a
// derived overall, and career totals. The stored career counters are a
// fallback; whenever the totals can be recomputed from participation
// history the derived numbers win.
type Profile struct {
	ID          string `json:"id" gorm:"primaryKey"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Position    string `json:"position" gorm:"default:'ATA'"`

	StatPace      int `json:"stat_pace" gorm:"default:50"`
	StatShooting  int `json:"stat_shooting" gorm:"default:50"`
	StatPassing   int `json:"stat_passing" gorm:"default:50"`
	StatDribbling int `json:"stat_dribbling" gorm:"default:50"`
	StatDefending int `json:"stat_defending" gorm:"default:50"`
	StatPhysical  int `json:"stat_physical" gorm:"default:50"`

	// Stored career counters (manually editable, superseded by the
	// derived values when history is available).
	GamesPlayed int `json:"games_played" gorm:"default:0"`
	Goals       int `json:"goals" gorm:"default:0"`
	Assists     int `json:"assists" gorm:"default:0"`

	Timestamps

	// Calculated fields (not stored in DB)
	Overall int `json:"overall" gorm:"-"`
}

// ComputeOverall returns the rounded mean of the six skill stats.
func (p *Profile) ComputeOverall() int {
	sum := p.StatPace + p.StatShooting + p.StatPassing +
		p.StatDribbling + p.StatDefending + p.StatPhysical
	return (sum + 3) / 6
}

// ClampStats forces every skill stat into the valid 1-99 range.
func (p *Profile) ClampStats() {
	for _, s := range []*int{
		&p.StatPace, &p.StatShooting, &p.StatPassing,
		&p.StatDribbling, &p.StatDefending, &p.StatPhysical,
	} {
		if *s < 1 {
			*s = 1
		}
		if *s > 99 {
			*s = 99
		}
	}
}
