package services

import (
	"errors"
	"sort"

	"github.com/mitchelson/dividida/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchService struct {
	DB *gorm.DB
}

func NewMatchService(db *gorm.DB) *MatchService {
	return &MatchService{DB: db}
}

type matchInput struct {
	TeamAName  string `json:"team_a_name"`
	TeamBName  string `json:"team_b_name"`
	TeamAIndex *int   `json:"team_a_index"`
	TeamBIndex *int   `json:"team_b_index"`
	MatchOrder *int   `json:"match_order"`
}

// CreateMatch opens a scorekeeping session between two teams. Team
// indices, when present, link the match to the persisted team buckets;
// display names stay free text.
func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	gameID := c.Params("id")

	var input matchInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.TeamAName == "" || input.TeamBName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "team_a_name and team_b_name are required"})
	}

	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	match := &models.Match{
		ID:         uuid.NewString(),
		GameID:     gameID,
		TeamAName:  input.TeamAName,
		TeamBName:  input.TeamBName,
		TeamAIndex: input.TeamAIndex,
		TeamBIndex: input.TeamBIndex,
		Status:     models.MatchScheduled,
	}
	if input.MatchOrder != nil {
		match.MatchOrder = *input.MatchOrder
	} else {
		var maxOrder int
		s.DB.Model(&models.Match{}).
			Where("game_id = ?", gameID).
			Select("COALESCE(MAX(match_order), -1)").Scan(&maxOrder)
		match.MatchOrder = maxOrder + 1
	}

	if err := s.DB.Create(match).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create match"})
	}
	return c.Status(fiber.StatusCreated).JSON(match)
}

// GetMatches lists a game's matches in play order.
func (s *MatchService) GetMatches(c *fiber.Ctx) error {
	gameID := c.Params("id")

	var matches []models.Match
	if err := s.DB.Where("game_id = ?", gameID).
		Order("match_order ASC, created_at ASC").
		Find(&matches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch matches"})
	}
	return c.JSON(matches)
}

type matchUpdate struct {
	Status         *string `json:"status"`
	ElapsedSeconds *int    `json:"elapsed_seconds"`
	TeamAName      *string `json:"team_a_name"`
	TeamBName      *string `json:"team_b_name"`
}

// UpdateMatch moves the status machine and checkpoints the clock. The
// allowed transitions are scheduled→playing→finished (playing→playing
// is an idempotent no-op); a finished match is terminal and any further
// mutation gets 409.
func (s *MatchService) UpdateMatch(c *fiber.Ctx) error {
	gameID := c.Params("id")
	matchID := c.Params("matchId")

	var match models.Match
	if err := s.DB.First(&match, "id = ? AND game_id = ?", matchID, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if match.Status == models.MatchFinished {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "match already finished"})
	}

	var input matchUpdate
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if input.Status != nil {
		switch *input.Status {
		case models.MatchPlaying:
			match.Status = models.MatchPlaying
		case models.MatchFinished:
			match.Status = models.MatchFinished
		case models.MatchScheduled:
			if match.Status == models.MatchPlaying {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "match already started"})
			}
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status (use: scheduled, playing, finished)"})
		}
	}
	if input.ElapsedSeconds != nil && *input.ElapsedSeconds >= 0 {
		match.ElapsedSeconds = *input.ElapsedSeconds
	}
	if input.TeamAName != nil && *input.TeamAName != "" {
		match.TeamAName = *input.TeamAName
	}
	if input.TeamBName != nil && *input.TeamBName != "" {
		match.TeamBName = *input.TeamBName
	}

	if err := s.DB.Save(&match).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update match"})
	}
	return c.JSON(match)
}

// DeleteMatch removes a match and its goal log together.
func (s *MatchService) DeleteMatch(c *fiber.Ctx) error {
	gameID := c.Params("id")
	matchID := c.Params("matchId")

	var match models.Match
	if err := s.DB.First(&match, "id = ? AND game_id = ?", matchID, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", matchID).Delete(&models.Goal{}).Error; err != nil {
			return err
		}
		return tx.Delete(&match).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete match"})
	}
	return c.JSON(fiber.Map{"message": "match deleted", "id": matchID})
}

// GetGoals returns a match's goal log in scoring order.
func (s *MatchService) GetGoals(c *fiber.Ctx) error {
	matchID := c.Params("matchId")

	var goals []models.Goal
	if err := s.DB.Where("match_id = ?", matchID).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch goals"})
	}
	return c.JSON(goals)
}

// AddGoal appends to the goal log and bumps the matching score. Both
// writes happen in one transaction so the log and the scoreboard never
// drift apart.
func (s *MatchService) AddGoal(c *fiber.Ctx) error {
	gameID := c.Params("id")
	matchID := c.Params("matchId")

	var input struct {
		ParticipantID string `json:"participant_id"`
		Team          string `json:"team"`
		Minute        int    `json:"minute"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if input.Team != models.GoalTeamA && input.Team != models.GoalTeamB {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "team must be 'a' or 'b'"})
	}
	if input.ParticipantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "participant_id is required"})
	}

	var match models.Match
	if err := s.DB.First(&match, "id = ? AND game_id = ?", matchID, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "match not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if match.Status == models.MatchFinished {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "match already finished"})
	}

	goal := &models.Goal{
		ID:            uuid.NewString(),
		MatchID:       matchID,
		GameID:        gameID,
		ParticipantID: input.ParticipantID,
		Team:          input.Team,
		Minute:        input.Minute,
	}

	scoreColumn := "score_a"
	if input.Team == models.GoalTeamB {
		scoreColumn = "score_b"
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(goal).Error; err != nil {
			return err
		}
		return tx.Model(&models.Match{}).
			Where("id = ?", matchID).
			Update(scoreColumn, gorm.Expr(scoreColumn+" + 1")).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record goal"})
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

// DeleteGoal undoes a logged goal: the row goes away and the score
// comes back down (never below zero), in one transaction.
func (s *MatchService) DeleteGoal(c *fiber.Ctx) error {
	matchID := c.Params("matchId")
	goalID := c.Params("goalId")

	var goal models.Goal
	if err := s.DB.First(&goal, "id = ? AND match_id = ?", goalID, matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "goal not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	scoreColumn := "score_a"
	if goal.Team == models.GoalTeamB {
		scoreColumn = "score_b"
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&goal).Error; err != nil {
			return err
		}
		return tx.Model(&models.Match{}).
			Where("id = ?", matchID).
			Update(scoreColumn, gorm.Expr("GREATEST("+scoreColumn+" - 1, 0)")).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete goal"})
	}
	return c.JSON(fiber.Map{"message": "goal deleted", "id": goalID})
}

type scorerEntry struct {
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Goals         int    `json:"goals"`
}

type teamStanding struct {
	Team           string `json:"team"`
	Played         int    `json:"played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
}

// GetSummary builds the post-game page: scorer ranking from the goal
// log and team standings from finished matches, plus the champion
// photo when one was uploaded.
func (s *MatchService) GetSummary(c *fiber.Ctx) error {
	gameID := c.Params("id")

	var game models.Game
	if err := s.DB.First(&game, "id = ?", gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var matches []models.Match
	if err := s.DB.Where("game_id = ? AND status = ?", gameID, models.MatchFinished).
		Order("match_order ASC").
		Find(&matches).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch matches"})
	}

	var goals []models.Goal
	if err := s.DB.Where("game_id = ?", gameID).Find(&goals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch goals"})
	}

	var participants []models.Participant
	if err := s.DB.Where("game_id = ?", gameID).Find(&participants).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch participants"})
	}
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	// Scorer ranking from the goal log.
	goalCount := make(map[string]int)
	for _, g := range goals {
		goalCount[g.ParticipantID]++
	}
	scorers := make([]scorerEntry, 0, len(goalCount))
	for id, n := range goalCount {
		scorers = append(scorers, scorerEntry{
			ParticipantID: id,
			Name:          names[id],
			Goals:         n,
		})
	}
	sort.Slice(scorers, func(i, j int) bool {
		if scorers[i].Goals != scorers[j].Goals {
			return scorers[i].Goals > scorers[j].Goals
		}
		return scorers[i].Name < scorers[j].Name
	})

	// Standings over finished matches, keyed by display name.
	table := make(map[string]*teamStanding)
	get := func(team string) *teamStanding {
		if st, ok := table[team]; ok {
			return st
		}
		st := &teamStanding{Team: team}
		table[team] = st
		return st
	}
	for _, m := range matches {
		a, b := get(m.TeamAName), get(m.TeamBName)
		a.Played++
		b.Played++
		a.GoalsFor += m.ScoreA
		a.GoalsAgainst += m.ScoreB
		b.GoalsFor += m.ScoreB
		b.GoalsAgainst += m.ScoreA
		switch {
		case m.ScoreA > m.ScoreB:
			a.Wins++
			b.Losses++
		case m.ScoreB > m.ScoreA:
			b.Wins++
			a.Losses++
		default:
			a.Draws++
			b.Draws++
		}
	}
	standings := make([]teamStanding, 0, len(table))
	for _, st := range table {
		st.GoalDifference = st.GoalsFor - st.GoalsAgainst
		standings = append(standings, *st)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		if standings[i].GoalDifference != standings[j].GoalDifference {
			return standings[i].GoalDifference > standings[j].GoalDifference
		}
		return standings[i].Team < standings[j].Team
	})

	return c.JSON(fiber.Map{
		"game_id":            gameID,
		"champion_photo_url": game.ChampionPhotoURL,
		"top_scorers":        scorers,
		"standings":          standings,
		"matches":            matches,
	})
}
