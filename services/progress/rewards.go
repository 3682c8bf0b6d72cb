package progress

import (
	"errors"
	"log"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// RewardEvent identifies a qualifying transition. Callers only emit an event
// on a false-to-true transition, never on a no-op resubmission, so XP deltas
// are applied at most once per transition.
type RewardEvent string

const (
	EventLectureCompleted     RewardEvent = "LECTURE_COMPLETED"
	EventQuizPassed           RewardEvent = "QUIZ_PASSED"
	EventFinalTestPassed      RewardEvent = "FINAL_TEST_PASSED"
	EventCourseCompleted      RewardEvent = "COURSE_COMPLETED"
	EventFirstCourseCompleted RewardEvent = "FIRST_COURSE_COMPLETED"
	EventCourseMilestone      RewardEvent = "COURSE_MILESTONE"
)

// Milestone badges awarded on the Nth completed course
var milestoneBadges = map[int64]string{
	1:  "First Course Completed",
	5:  "Course Champion",
	10: "Learning Legend",
}

var rewardClient = resty.New().SetTimeout(5 * time.Second)

// ApplyReward applies the XP and badge side effects for one reward event.
// Reward application is best-effort: failures are logged and never roll back
// or block the progress mutation that triggered them.
func ApplyReward(userID uint, event RewardEvent) {
	db := database.Database.Db

	amount := xpForEvent(event)
	if amount > 0 {
		if err := grantXP(db, userID, event, amount); err != nil {
			log.Printf("[REWARDS] Failed to grant %d XP for %s to user %d: %v", amount, event, userID, err)
		}
	}

	if event == EventCourseCompleted {
		applyCompletionMilestones(db, userID)
	}

	postRewardWebhook(userID, event, map[string]interface{}{
		"user_id": userID,
		"event":   string(event),
		"xp":      amount,
	})
}

func xpForEvent(event RewardEvent) int {
	cfg := config.AppConfig
	switch event {
	case EventLectureCompleted:
		return cfg.XPLectureCompleted
	case EventQuizPassed:
		return cfg.XPQuizPassed
	case EventFinalTestPassed:
		return cfg.XPFinalTestPassed
	case EventCourseCompleted:
		return cfg.XPCourseCompleted
	case EventFirstCourseCompleted:
		return cfg.XPFirstCourseBonus
	default:
		return 0
	}
}

func grantXP(db *gorm.DB, userID uint, event RewardEvent, amount int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		txn := courseModels.XPTransaction{
			UserID: userID,
			Event:  string(event),
			Amount: amount,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("experience_points", gorm.Expr("experience_points + ?", amount)).Error
	})
}

// applyCompletionMilestones awards milestone badges based on how many
// courses the learner has completed. The badge check runs against the
// learner's existing badge list, so replays never duplicate a badge.
func applyCompletionMilestones(db *gorm.DB, userID uint) {
	var completedCourses int64
	if err := db.Model(&courseModels.CourseProgress{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&completedCourses).Error; err != nil {
		log.Printf("[REWARDS] Failed to count completed courses for user %d: %v", userID, err)
		return
	}

	badge, ok := milestoneBadges[completedCourses]
	if !ok {
		return
	}

	granted, err := grantBadge(db, userID, badge)
	if err != nil {
		log.Printf("[REWARDS] Failed to grant badge %q to user %d: %v", badge, userID, err)
		return
	}
	if !granted {
		return
	}

	if completedCourses == 1 {
		if err := grantXP(db, userID, EventFirstCourseCompleted, xpForEvent(EventFirstCourseCompleted)); err != nil {
			log.Printf("[REWARDS] Failed to grant first-course bonus to user %d: %v", userID, err)
		}
	}

	postRewardWebhook(userID, EventCourseMilestone, map[string]interface{}{
		"user_id":   userID,
		"event":     string(EventCourseMilestone),
		"milestone": completedCourses,
		"badge":     badge,
	})
}

// grantBadge appends a named badge unless the learner already holds it.
// The (user, name) unique index backstops the pre-check under concurrency.
func grantBadge(db *gorm.DB, userID uint, name string) (bool, error) {
	var existing courseModels.UserBadge
	if err := db.Where("user_id = ? AND name = ?", userID, name).First(&existing).Error; err == nil {
		return false, nil
	}

	badge := courseModels.UserBadge{
		UserID:    userID,
		Name:      name,
		AwardedAt: time.Now(),
	}
	if err := db.Create(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	log.Printf("[REWARDS] Awarded badge %q to user %d", name, userID)
	return true, nil
}

// postRewardWebhook forwards the event to an external gamification
// accumulator when one is configured. Fire-and-forget.
func postRewardWebhook(userID uint, event RewardEvent, body map[string]interface{}) {
	url := config.AppConfig.RewardWebhookURL
	if url == "" {
		return
	}

	go func() {
		_, err := rewardClient.R().
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(url)
		if err != nil {
			log.Printf("[REWARDS] Webhook delivery failed for user %d event %s: %v", userID, event, err)
		}
	}()
}

// touchStreak maintains the learner's daily activity streak. Called after
// every learner action; never fails the caller.
func touchStreak(userID uint) {
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return
	}

	now := time.Now()

	switch {
	case user.LastActivityAt == nil:
		user.CurrentStreak = 1
	case sameCalendarDay(*user.LastActivityAt, now):
		// already counted today
	case sameCalendarDay(*user.LastActivityAt, now.AddDate(0, 0, -1)):
		user.CurrentStreak++
	default:
		user.CurrentStreak = 1
	}
	if user.CurrentStreak > user.LongestStreak {
		user.LongestStreak = user.CurrentStreak
	}
	user.LastActivityAt = &now

	if err := db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"current_streak":   user.CurrentStreak,
		"longest_streak":   user.LongestStreak,
		"last_activity_at": user.LastActivityAt,
	}).Error; err != nil {
		log.Printf("[REWARDS] Failed to update streak for user %d: %v", userID, err)
	}
}

// sameCalendarDay compares local calendar days, not 24-hour windows, so
// 11pm activity followed by 1am activity counts as consecutive days.
func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
