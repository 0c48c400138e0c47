package services

import (
	"errors"
	"strings"
	"time"

	"github.com/mitchelson/dividida/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParticipantService struct {
	DB *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{DB: db}
}

// JoinGame is the self-serve entry to a game's list. New names come in
// as pending; the admin promotes them later.
func (s *ParticipantService) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("id")

	var input struct {
		Name   string  `json:"name"`
		UserID *string `json:"user_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if game.ListClosed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "list is closed"})
	}

	// One entry per name (case-insensitive) and per linked user.
	var count int64
	if err := s.DB.Model(&models.Participant{}).
		Where("game_id = ? AND LOWER(name) = LOWER(?)", gameID, input.Name).
		Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if count > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name already on the list"})
	}
	if input.UserID != nil && *input.UserID != "" {
		if err := s.DB.Model(&models.Participant{}).
			Where("game_id = ? AND user_id = ?", gameID, *input.UserID).
			Count(&count).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
		}
		if count > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user already on the list"})
		}
	}

	// New entries go to the end of the manual order.
	var maxOrder int
	s.DB.Model(&models.Participant{}).
		Where("game_id = ?", gameID).
		Select("COALESCE(MAX(sort_order), -1)").Scan(&maxOrder)

	participant := &models.Participant{
		ID:        uuid.NewString(),
		GameID:    gameID,
		Name:      input.Name,
		Status:    models.ParticipantPending,
		SortOrder: maxOrder + 1,
	}
	if input.UserID != nil && *input.UserID != "" {
		participant.UserID = input.UserID
	}

	if err := s.DB.Create(participant).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to join game"})
	}
	return c.Status(fiber.StatusCreated).JSON(participant)
}

// GetParticipants lists every entry of a game, newest last.
func (s *ParticipantService) GetParticipants(c *fiber.Ctx) error {
	gameID := c.Params("id")

	var participants []models.Participant
	if err := s.DB.Where("game_id = ?", gameID).
		Order("created_at ASC").
		Find(&participants).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch participants"})
	}
	return c.JSON(participants)
}

type participantUpdate struct {
	Name      *string   `json:"name"`
	Status    *string   `json:"status"`
	Paid      *bool     `json:"paid"`
	Badges    *[]string `json:"badges"`
	SortOrder *int      `json:"sort_order"`
}

// UpdateParticipant is the admin edit: approval status, payment flag,
// badges and manual ordering. Paid and paid_at move together: marking
// paid stamps the time, unmarking clears it.
func (s *ParticipantService) UpdateParticipant(c *fiber.Ctx) error {
	gameID := c.Params("id")
	participantID := c.Params("participantId")

	var participant models.Participant
	if err := s.DB.First(&participant, "id = ? AND game_id = ?", participantID, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "participant not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var input participantUpdate
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		participant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Status != nil {
		switch *input.Status {
		case models.ParticipantPending, models.ParticipantApproved, models.ParticipantRejected:
			participant.Status = *input.Status
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status (use: pending, approved, rejected)"})
		}
	}
	if input.Paid != nil && *input.Paid != participant.Paid {
		participant.Paid = *input.Paid
		if *input.Paid {
			now := time.Now()
			participant.PaidAt = &now
		} else {
			participant.PaidAt = nil
		}
	}
	if input.Badges != nil {
		participant.Badges = *input.Badges
	}
	if input.SortOrder != nil {
		participant.SortOrder = *input.SortOrder
	}

	if err := s.DB.Save(&participant).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update participant"})
	}
	return c.JSON(participant)
}

// DeleteParticipant removes one entry from the list.
func (s *ParticipantService) DeleteParticipant(c *fiber.Ctx) error {
	gameID := c.Params("id")
	participantID := c.Params("participantId")

	var participant models.Participant
	if err := s.DB.First(&participant, "id = ? AND game_id = ?", participantID, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "participant not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&participant).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to remove participant"})
	}
	return c.JSON(fiber.Map{"message": "participant removed", "id": participantID})
}

// ReorderParticipants rewrites sort_order from an explicit id order.
// Applies to arrival and teams modes, where the admin drags the list.
func (s *ParticipantService) ReorderParticipants(c *fiber.Ctx) error {
	gameID := c.Params("id")

	var input struct {
		OrderedIDs []string `json:"ordered_ids"`
	}
	if err := c.BodyParser(&input); err != nil || len(input.OrderedIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ordered_ids is required"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for index, id := range input.OrderedIDs {
			if err := tx.Model(&models.Participant{}).
				Where("id = ? AND game_id = ?", id, gameID).
				Update("sort_order", index).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to reorder participants"})
	}
	return c.JSON(fiber.Map{"message": "order saved", "count": len(input.OrderedIDs)})
}

type teamAssignment struct {
	ParticipantID string `json:"participant_id"`
	TeamIndex     int    `json:"team_index"`
	SortOrder     int    `json:"sort_order"`
}

type assignmentResult struct {
	ParticipantID string `json:"participant_id"`
	Saved         bool   `json:"saved"`
	Error         string `json:"error,omitempty"`
}

// AssignTeams persists a batch of team assignments row by row. The
// batch is not atomic: each row succeeds or fails on its own and the
// response reports every outcome, so a partial save is visible to the
// caller instead of silently half-applied.
func (s *ParticipantService) AssignTeams(c *fiber.Ctx) error {
	gameID := c.Params("id")

	var input struct {
		Assignments []teamAssignment `json:"assignments"`
	}
	if err := c.BodyParser(&input); err != nil || len(input.Assignments) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "assignments is required"})
	}

	results := make([]assignmentResult, 0, len(input.Assignments))
	failed := 0
	for _, a := range input.Assignments {
		res := assignmentResult{ParticipantID: a.ParticipantID}
		update := s.DB.Model(&models.Participant{}).
			Where("id = ? AND game_id = ?", a.ParticipantID, gameID).
			Updates(map[string]interface{}{
				"team_index": a.TeamIndex,
				"sort_order": a.SortOrder,
			})
		switch {
		case update.Error != nil:
			res.Error = update.Error.Error()
			failed++
		case update.RowsAffected == 0:
			res.Error = "participant not found"
			failed++
		default:
			res.Saved = true
		}
		results = append(results, res)
	}

	status := fiber.StatusOK
	if failed > 0 && failed == len(results) {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(fiber.Map{
		"results": results,
		"saved":   len(results) - failed,
		"failed":  failed,
	})
}
