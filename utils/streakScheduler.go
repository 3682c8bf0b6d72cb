package utils

import (
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeStreakScheduler sets up the daily learning-streak maintenance job
func InitializeStreakScheduler() {
	log.Println("[STREAK-SCHEDULER] Initializing streak scheduler...")

	c := cron.New()

	// Run daily just after midnight to break streaks for idle learners
	c.AddFunc("5 0 * * *", func() {
		log.Println("[STREAK-SCHEDULER] Running daily streak check...")
		ResetExpiredStreaks()
	})

	c.Start()
	log.Println("[STREAK-SCHEDULER] Streak scheduler started - runs daily at 00:05")
}

// ResetExpiredStreaks zeroes the current streak for learners with no
// activity in the last 48 hours. Longest streaks are preserved.
func ResetExpiredStreaks() {
	db := database.Database.Db
	cutoff := time.Now().Add(-48 * time.Hour)

	res := db.Model(&models.User{}).
		Where("current_streak > 0 AND (last_activity_at IS NULL OR last_activity_at < ?)", cutoff).
		UpdateColumn("current_streak", 0)
	if res.Error != nil {
		log.Printf("[STREAK-SCHEDULER] Failed to reset streaks: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		log.Printf("[STREAK-SCHEDULER] Reset streaks for %d idle learners", res.RowsAffected)
	}
}
