// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/mitchelson/dividida/models"

	"github.com/go-co-op/gocron/v2"
)

// StartMaintenanceScheduler runs the periodic jobs: match scores are
// re-derived from the goal log (the log is the source of truth, the
// scoreboard a cache of it), and join lists of games whose date has
// passed get closed.
func (s *GameService) StartMaintenanceScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: reconcile scoreboards with the goal log.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(s.reconcileScores),
	)

	// Every hour: close lists of games already played.
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.closeExpiredLists),
	)
}

func (s *GameService) reconcileScores() {
	var matches []models.Match
	if err := s.DB.Find(&matches).Error; err != nil {
		log.Printf("[Scheduler] DB error loading matches: %v", err)
		return
	}

	for _, m := range matches {
		var countA, countB int64
		if err := s.DB.Model(&models.Goal{}).
			Where("match_id = ? AND team = ?", m.ID, models.GoalTeamA).
			Count(&countA).Error; err != nil {
			log.Printf("[Scheduler] goal count for match %s: %v", m.ID, err)
			continue
		}
		if err := s.DB.Model(&models.Goal{}).
			Where("match_id = ? AND team = ?", m.ID, models.GoalTeamB).
			Count(&countB).Error; err != nil {
			log.Printf("[Scheduler] goal count for match %s: %v", m.ID, err)
			continue
		}

		if int(countA) == m.ScoreA && int(countB) == m.ScoreB {
			continue
		}
		if err := s.DB.Model(&models.Match{}).
			Where("id = ?", m.ID).
			Updates(map[string]interface{}{
				"score_a": countA,
				"score_b": countB,
			}).Error; err != nil {
			log.Printf("[Scheduler] failed to reconcile match %s: %v", m.ID, err)
		} else {
			log.Printf("[Scheduler] reconciled match %s: %dx%d -> %dx%d",
				m.ID, m.ScoreA, m.ScoreB, countA, countB)
		}
	}
}

func (s *GameService) closeExpiredLists() {
	today := time.Now().Format("2006-01-02")
	result := s.DB.Model(&models.Game{}).
		Where("game_date < ? AND list_closed = ?", today, false).
		Update("list_closed", true)
	if result.Error != nil {
		log.Printf("[Scheduler] failed to close expired lists: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[Scheduler] closed %d expired game list(s)", result.RowsAffected)
	}
}
