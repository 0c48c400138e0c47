// workers/stats_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"github.com/mitchelson/dividida/models"
	"github.com/mitchelson/dividida/services"

	"gorm.io/gorm"
)

// ProfileStatsWorker keeps the stored career counters of every profile
// in line with the derived numbers. The API already prefers derived
// totals on read; this loop folds them back into the stored columns so
// they stay usable as a fallback and in raw queries.
type ProfileStatsWorker struct {
	db       *gorm.DB
	profiles *services.ProfileService
	interval time.Duration
}

func NewProfileStatsWorker(db *gorm.DB) *ProfileStatsWorker {
	return &ProfileStatsWorker{
		db:       db,
		profiles: services.NewProfileService(db),
		interval: 10 * time.Minute,
	}
}

func (w *ProfileStatsWorker) Start(ctx context.Context) {
	log.Println("Starting profile stats worker...")

	if err := w.recomputeAll(); err != nil {
		log.Printf("[Stats] initial recompute failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.recomputeAll(); err != nil {
				log.Printf("[Stats] recompute failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("Profile stats worker stopped")
			return
		}
	}
}

func (w *ProfileStatsWorker) recomputeAll() error {
	var profiles []models.Profile
	if err := w.db.Find(&profiles).Error; err != nil {
		return err
	}

	updated := 0
	for _, p := range profiles {
		stats, hasHistory, err := w.profiles.DeriveCareerStats(p.ID)
		if err != nil {
			log.Printf("[Stats] derive for profile %s: %v", p.ID, err)
			continue
		}
		if !hasHistory {
			continue
		}
		if stats.GamesPlayed == p.GamesPlayed && stats.Goals == p.Goals {
			continue
		}
		if err := w.db.Model(&models.Profile{}).
			Where("id = ?", p.ID).
			Updates(map[string]interface{}{
				"games_played": stats.GamesPlayed,
				"goals":        stats.Goals,
			}).Error; err != nil {
			log.Printf("[Stats] update for profile %s: %v", p.ID, err)
			continue
		}
		updated++
	}

	if updated > 0 {
		log.Printf("[Stats] refreshed career counters for %d profile(s)", updated)
	}
	return nil
}
