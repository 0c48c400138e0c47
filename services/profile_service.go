package services

import (
	"errors"
	"path/filepath"

	"github.com/mitchelson/dividida/models"
	"github.com/mitchelson/dividida/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// CareerStats are the numbers derived from participation history. They
// take precedence over the manually stored counters whenever the player
// has any history at all.
type CareerStats struct {
	GamesPlayed   int `json:"games_played"`
	MatchesPlayed int `json:"matches_played"`
	Goals         int `json:"goals"`
}

// GetProfile returns the player card with the overall and, when the
// player has participation history, career totals recomputed from it.
func (s *ProfileService) GetProfile(c *fiber.Ctx) error {
	id := c.Params("id")

	var profile models.Profile
	if err := s.DB.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	profile.Overall = profile.ComputeOverall()

	stats, hasHistory, err := s.DeriveCareerStats(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to derive career stats"})
	}
	if hasHistory {
		profile.GamesPlayed = stats.GamesPlayed
		profile.Goals = stats.Goals
	}

	return c.JSON(fiber.Map{
		"profile":        profile,
		"derived":        hasHistory,
		"matches_played": stats.MatchesPlayed,
	})
}

// DeriveCareerStats recomputes a player's totals from the participation
// rows linked to the profile. Matches played is counted through the
// structural team index of finished matches, so renaming a team on the
// scoreboard never changes anyone's history.
func (s *ProfileService) DeriveCareerStats(profileID string) (CareerStats, bool, error) {
	var participations []models.Participant
	if err := s.DB.Where("user_id = ? AND status = ?", profileID, models.ParticipantApproved).
		Find(&participations).Error; err != nil {
		return CareerStats{}, false, err
	}
	if len(participations) == 0 {
		return CareerStats{}, false, nil
	}

	stats := CareerStats{GamesPlayed: len(participations)}

	participantIDs := make([]string, 0, len(participations))
	for _, p := range participations {
		participantIDs = append(participantIDs, p.ID)
	}
	var goals int64
	if err := s.DB.Model(&models.Goal{}).
		Where("participant_id IN ?", participantIDs).
		Count(&goals).Error; err != nil {
		return CareerStats{}, false, err
	}
	stats.Goals = int(goals)

	for _, p := range participations {
		if p.TeamIndex == nil {
			continue
		}
		var matches []models.Match
		if err := s.DB.Where("game_id = ? AND status = ?", p.GameID, models.MatchFinished).
			Find(&matches).Error; err != nil {
			return CareerStats{}, false, err
		}
		for _, m := range matches {
			if m.InvolvesTeam(*p.TeamIndex) {
				stats.MatchesPlayed++
			}
		}
	}

	return stats, true, nil
}

type profileInput struct {
	DisplayName *string `json:"display_name"`
	Position    *string `json:"position"`

	StatPace      *int `json:"stat_pace"`
	StatShooting  *int `json:"stat_shooting"`
	StatPassing   *int `json:"stat_passing"`
	StatDribbling *int `json:"stat_dribbling"`
	StatDefending *int `json:"stat_defending"`
	StatPhysical  *int `json:"stat_physical"`

	GamesPlayed *int `json:"games_played"`
	Goals       *int `json:"goals"`
	Assists     *int `json:"assists"`
}

// UpsertProfile creates or edits the player card. Only known fields are
// written; skill stats land clamped to 1-99.
func (s *ProfileService) UpsertProfile(c *fiber.Ctx) error {
	id := c.Params("id")

	var input profileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var profile models.Profile
	err := s.DB.First(&profile, "id = ?", id).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	created := errors.Is(err, gorm.ErrRecordNotFound)
	if created {
		profile = models.Profile{
			ID:            id,
			Position:      "ATA",
			StatPace:      50,
			StatShooting:  50,
			StatPassing:   50,
			StatDribbling: 50,
			StatDefending: 50,
			StatPhysical:  50,
		}
	}

	if input.DisplayName != nil {
		profile.DisplayName = *input.DisplayName
	}
	if input.Position != nil && *input.Position != "" {
		profile.Position = *input.Position
	}
	setStat(&profile.StatPace, input.StatPace)
	setStat(&profile.StatShooting, input.StatShooting)
	setStat(&profile.StatPassing, input.StatPassing)
	setStat(&profile.StatDribbling, input.StatDribbling)
	setStat(&profile.StatDefending, input.StatDefending)
	setStat(&profile.StatPhysical, input.StatPhysical)
	profile.ClampStats()

	if input.GamesPlayed != nil && *input.GamesPlayed >= 0 {
		profile.GamesPlayed = *input.GamesPlayed
	}
	if input.Goals != nil && *input.Goals >= 0 {
		profile.Goals = *input.Goals
	}
	if input.Assists != nil && *input.Assists >= 0 {
		profile.Assists = *input.Assists
	}

	if err := s.DB.Save(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save profile"})
	}

	profile.Overall = profile.ComputeOverall()
	if created {
		return c.Status(fiber.StatusCreated).JSON(profile)
	}
	return c.JSON(profile)
}

func setStat(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

// UploadAvatar stores the player's picture in R2 and saves the URL.
func (s *ProfileService) UploadAvatar(c *fiber.Ctx) error {
	id := c.Params("id")

	var profile models.Profile
	if err := s.DB.First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	avatar, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar is required"})
	}
	if avatar.Size > 5*1024*1024 { // 5MB
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar too large (max 5MB)"})
	}

	ext := filepath.Ext(avatar.Filename)
	if ext == "" {
		ext = ".png"
	}
	key := "avatars/" + uuid.NewString() + ext
	avatarURL, err := utils.UploadFileToR2(avatar, key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload avatar"})
	}

	profile.AvatarURL = avatarURL
	if err := s.DB.Save(&profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save avatar URL"})
	}
	return c.JSON(fiber.Map{"avatar_url": avatarURL})
}
