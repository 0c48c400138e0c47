package services

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchelson/dividida/models"
	"github.com/mitchelson/dividida/pix"
	"github.com/mitchelson/dividida/roster"
	"github.com/mitchelson/dividida/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

type GameService struct {
	DB *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db}
}

// MinimalGame struct for lightweight listing
type MinimalGame struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	GameDate         string `json:"game_date"`
	GameTime         string `json:"game_time"`
	Category         string `json:"category"`
	Location         string `json:"location"`
	ListClosed       bool   `json:"list_closed"`
	ParticipantCount int    `json:"participant_count"`
	ApprovedCount    int    `json:"approved_count"`
}

type gameInput struct {
	Name                string   `json:"name"`
	GameDate            string   `json:"game_date"`
	GameTime            string   `json:"game_time"`
	CourtValue          *float64 `json:"court_value"`
	FixedValuePerPerson *float64 `json:"fixed_value_per_person"`
	Password            string   `json:"password"`
	PixKey              *string  `json:"pix_key"`
	PixReceiverName     *string  `json:"pix_receiver_name"`
	PixCity             *string  `json:"pix_city"`
	Category            *string  `json:"category"`
	ListClosed          *bool    `json:"list_closed"`
	Location            *string  `json:"location"`
	SortMode            *string  `json:"sort_mode"`
	PlayersPerTeam      *int     `json:"players_per_team"`
}

// CreateGame registers a new game. The admin password is mandatory and
// stored only as a bcrypt hash; whoever knows it manages the game.
func (s *GameService) CreateGame(c *fiber.Ctx) error {
	var input gameInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if input.Name == "" || input.GameDate == "" || input.GameTime == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name, game_date and game_time are required"})
	}
	if input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password is required"})
	}
	if _, err := time.Parse("2006-01-02", input.GameDate); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "game_date must be YYYY-MM-DD"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to hash password"})
	}

	game := &models.Game{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Slug:         slug.Make(input.Name),
		GameDate:     input.GameDate,
		GameTime:     input.GameTime,
		PasswordHash: string(hash),
	}
	if input.CourtValue != nil {
		game.CourtValue = *input.CourtValue
	}
	if input.FixedValuePerPerson != nil && *input.FixedValuePerPerson > 0 {
		game.FixedValuePerPerson = input.FixedValuePerPerson
	}
	if input.PixKey != nil {
		game.PixKey = *input.PixKey
	}
	if input.PixReceiverName != nil {
		game.PixReceiverName = *input.PixReceiverName
	}
	if input.PixCity != nil {
		game.PixCity = *input.PixCity
	}
	if input.Category != nil && *input.Category != "" {
		game.Category = *input.Category
	}
	if input.Location != nil {
		game.Location = *input.Location
	}
	if input.SortMode != nil && *input.SortMode != "" {
		game.SortMode = *input.SortMode
	}
	if input.PlayersPerTeam != nil && *input.PlayersPerTeam > 0 {
		game.PlayersPerTeam = *input.PlayersPerTeam
	}

	if err := s.DB.Create(game).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create game"})
	}

	return c.Status(fiber.StatusCreated).JSON(game)
}

// GetAllGames returns a lightweight listing ordered by game date.
func (s *GameService) GetAllGames(c *fiber.Ctx) error {
	var games []models.Game
	if err := s.DB.Preload("Participants").
		Order("game_date ASC, game_time ASC").
		Find(&games).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch games"})
	}

	minimal := make([]MinimalGame, 0, len(games))
	for _, game := range games {
		approved := 0
		for _, p := range game.Participants {
			if p.Status == models.ParticipantApproved {
				approved++
			}
		}
		minimal = append(minimal, MinimalGame{
			ID:               game.ID,
			Name:             game.Name,
			Slug:             game.Slug,
			GameDate:         game.GameDate,
			GameTime:         game.GameTime,
			Category:         game.Category,
			Location:         game.Location,
			ListClosed:       game.ListClosed,
			ParticipantCount: len(game.Participants),
			ApprovedCount:    approved,
		})
	}
	return c.JSON(minimal)
}

// GetGameByID returns the full game view: ordered lists, per-person
// value, team groups in teams mode, and the BR Code payload when PIX is
// configured.
func (s *GameService) GetGameByID(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	if err := s.DB.Preload("Participants").First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.attachRosterView(&game); err != nil {
		log.Printf("[Game] pix payload for %s: %v", game.ID, err)
	}
	return c.JSON(game)
}

// GetGameBySlug resolves the pretty share URL segment to the same view
// as GetGameByID.
func (s *GameService) GetGameBySlug(c *fiber.Ctx) error {
	gameSlug := c.Params("slug")

	var game models.Game
	if err := s.DB.Preload("Participants").First(&game, "slug = ?", gameSlug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.attachRosterView(&game); err != nil {
		log.Printf("[Game] pix payload for %s: %v", game.ID, err)
	}
	return c.JSON(game)
}

// attachRosterView fills the calculated fields of a loaded game.
func (s *GameService) attachRosterView(game *models.Game) error {
	view := roster.Compute(game, game.Participants)
	game.ApprovedOrdered = view.ApprovedOrdered
	game.PendingOrdered = view.PendingOrdered
	game.ValuePerPerson = view.ValuePerPerson
	game.TeamGroups = view.TeamGroups

	payload, err := pix.Encode(game.PixKey, game.PixReceiverName, game.PixCity, view.ValuePerPerson)
	if err != nil {
		return err
	}
	game.PixPayload = payload
	return nil
}

// UpdateGame applies partial edits. A renamed game gets a fresh slug; a
// new password replaces the stored hash.
func (s *GameService) UpdateGame(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var input gameInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if input.Name != "" && input.Name != game.Name {
		game.Name = input.Name
		game.Slug = slug.Make(input.Name)
	}
	if input.GameDate != "" {
		if _, err := time.Parse("2006-01-02", input.GameDate); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "game_date must be YYYY-MM-DD"})
		}
		game.GameDate = input.GameDate
	}
	if input.GameTime != "" {
		game.GameTime = input.GameTime
	}
	if input.CourtValue != nil {
		game.CourtValue = *input.CourtValue
	}
	if input.FixedValuePerPerson != nil {
		if *input.FixedValuePerPerson > 0 {
			game.FixedValuePerPerson = input.FixedValuePerPerson
		} else {
			game.FixedValuePerPerson = nil
		}
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to hash password"})
		}
		game.PasswordHash = string(hash)
	}
	if input.PixKey != nil {
		game.PixKey = *input.PixKey
	}
	if input.PixReceiverName != nil {
		game.PixReceiverName = *input.PixReceiverName
	}
	if input.PixCity != nil {
		game.PixCity = *input.PixCity
	}
	if input.Category != nil && *input.Category != "" {
		game.Category = *input.Category
	}
	if input.ListClosed != nil {
		game.ListClosed = *input.ListClosed
	}
	if input.Location != nil {
		game.Location = *input.Location
	}
	if input.SortMode != nil && *input.SortMode != "" {
		game.SortMode = *input.SortMode
	}
	if input.PlayersPerTeam != nil && *input.PlayersPerTeam > 0 {
		game.PlayersPerTeam = *input.PlayersPerTeam
	}

	if err := s.DB.Save(&game).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update game"})
	}
	return c.JSON(game)
}

// DeleteGame soft-deletes the game and hard-deletes its dependents
// (participants, matches, goals have no standalone value).
func (s *GameService) DeleteGame(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&models.Goal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.Match{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&game).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete game"})
	}

	return c.JSON(fiber.Map{
		"message": "game deleted successfully",
		"id":      id,
	})
}

// VerifyPassword checks a candidate admin password against the stored
// hash. Wrong passwords get 401 and no detail.
func (s *GameService) VerifyPassword(c *fiber.Ctx) error {
	id := c.Params("id")

	var input struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil || input.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password is required"})
	}

	var game models.Game
	if err := s.DB.Select("id, password_hash").First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(game.PasswordHash), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid password"})
	}
	return c.JSON(fiber.Map{"valid": true})
}

// UploadChampionPhoto stores the winning team's photo in R2 and saves
// the public URL on the game.
func (s *GameService) UploadChampionPhoto(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo is required"})
	}
	if photo.Size > 10*1024*1024 { // 10MB
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo too large (max 10MB)"})
	}

	ext := filepath.Ext(photo.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := "champions/" + uuid.NewString() + ext
	photoURL, err := utils.UploadFileToR2(photo, key)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload photo"})
	}

	game.ChampionPhotoURL = photoURL
	if err := s.DB.Save(&game).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save photo URL"})
	}

	return c.JSON(fiber.Map{"champion_photo_url": photoURL})
}

// ShareGame builds the WhatsApp invite for a game: the message text and
// the ready-to-open wa.me link.
func (s *GameService) ShareGame(c *fiber.Ctx) error {
	id := c.Params("id")

	var game models.Game
	if err := s.DB.Preload("Participants").First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	view := roster.Compute(&game, game.Participants)

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	gameURL := fmt.Sprintf("%s/jogo/%s", baseURL, game.Slug)

	message := fmt.Sprintf("⚽ *%s*\n📅 %s às %s", game.Name, formatDateBR(game.GameDate), game.GameTime)
	if game.Location != "" {
		message += fmt.Sprintf("\n📍 %s", game.Location)
	}
	if view.ValuePerPerson > 0 {
		message += fmt.Sprintf("\n💰 R$ %.2f por pessoa", view.ValuePerPerson)
	}
	message += fmt.Sprintf("\n\nEntre na lista: %s", gameURL)

	return c.JSON(fiber.Map{
		"message":      message,
		"url":          gameURL,
		"whatsapp_url": "https://wa.me/?text=" + url.QueryEscape(message),
	})
}

// formatDateBR turns YYYY-MM-DD into DD/MM/YYYY for display. Unparsable
// input passes through unchanged.
func formatDateBR(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}
