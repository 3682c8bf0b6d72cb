package progress

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/models"
	courseModels "lms/models/course"
)

func TestXPForEvent(t *testing.T) {
	setupTestDB(t) // loads config
	cfg := config.AppConfig

	tests := []struct {
		event RewardEvent
		want  int
	}{
		{EventLectureCompleted, cfg.XPLectureCompleted},
		{EventQuizPassed, cfg.XPQuizPassed},
		{EventFinalTestPassed, cfg.XPFinalTestPassed},
		{EventCourseCompleted, cfg.XPCourseCompleted},
		{EventFirstCourseCompleted, cfg.XPFirstCourseBonus},
		{EventCourseMilestone, 0},
		{RewardEvent("UNKNOWN"), 0},
	}

	for _, tt := range tests {
		if got := xpForEvent(tt.event); got != tt.want {
			t.Errorf("xpForEvent(%s) = %d, want %d", tt.event, got, tt.want)
		}
	}
}

func TestGrantXPRecordsTransactionAndBalance(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, "vera")

	if err := grantXP(db, user.ID, EventQuizPassed, 20); err != nil {
		t.Fatalf("grantXP() error = %v", err)
	}
	if err := grantXP(db, user.ID, EventLectureCompleted, 10); err != nil {
		t.Fatalf("grantXP() error = %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, user.ID)
	if reloaded.ExperiencePoints != 30 {
		t.Errorf("experience points = %d, want 30", reloaded.ExperiencePoints)
	}

	var txns int64
	db.Model(&courseModels.XPTransaction{}).Where("user_id = ?", user.ID).Count(&txns)
	if txns != 2 {
		t.Errorf("transactions = %d, want 2", txns)
	}
}

func TestGrantBadgeIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, "walt")

	granted, err := grantBadge(db, user.ID, "First Course Completed")
	if err != nil {
		t.Fatalf("grantBadge() error = %v", err)
	}
	if !granted {
		t.Fatal("first grant should report granted")
	}

	granted, err = grantBadge(db, user.ID, "First Course Completed")
	if err != nil {
		t.Fatalf("repeat grantBadge() error = %v", err)
	}
	if granted {
		t.Error("repeat grant should report not granted")
	}

	var count int64
	db.Model(&courseModels.UserBadge{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Errorf("badges = %d, want 1", count)
	}
}

func TestFirstCourseCompletionAwardsMilestone(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, "xena")
	sc := seedCourse(t, "Go Basics", [][]string{{"VIDEO"}})
	enrollUser(t, user.ID, sc.course.ID)

	completeAllLectures(t, user.ID, sc)
	if _, err := CompleteCourseManually(user.ID, sc.course.ID); err != nil {
		t.Fatalf("CompleteCourseManually() error = %v", err)
	}

	var badge courseModels.UserBadge
	if err := db.Where("user_id = ? AND name = ?", user.ID, "First Course Completed").First(&badge).Error; err != nil {
		t.Fatalf("milestone badge not granted: %v", err)
	}

	// Bonus XP for the first completed course, on top of the completion XP
	var bonus int64
	db.Model(&courseModels.XPTransaction{}).
		Where("user_id = ? AND event = ?", user.ID, string(EventFirstCourseCompleted)).
		Count(&bonus)
	if bonus != 1 {
		t.Errorf("first-course bonus transactions = %d, want 1", bonus)
	}

	var reloaded models.User
	db.First(&reloaded, user.ID)
	want := int64(config.AppConfig.XPLectureCompleted +
		config.AppConfig.XPCourseCompleted +
		config.AppConfig.XPFirstCourseBonus)
	if reloaded.ExperiencePoints != want {
		t.Errorf("experience points = %d, want %d", reloaded.ExperiencePoints, want)
	}

	// Completing again awards nothing further
	if _, err := CompleteCourseManually(user.ID, sc.course.ID); err != nil {
		t.Fatalf("repeat CompleteCourseManually() error = %v", err)
	}
	db.First(&reloaded, user.ID)
	if reloaded.ExperiencePoints != want {
		t.Errorf("experience points grew on replay: %d, want %d", reloaded.ExperiencePoints, want)
	}
}

func TestMilestoneWebhookPostsEvent(t *testing.T) {
	setupTestDB(t)

	received := make(chan map[string]interface{}, 8)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			received <- body
		}
	}))
	t.Cleanup(srv.Close)

	config.AppConfig.RewardWebhookURL = srv.URL
	t.Cleanup(func() { config.AppConfig.RewardWebhookURL = "" })

	user := seedUser(t, "zane")
	sc := seedCourse(t, "Go Basics", [][]string{{"VIDEO"}})
	enrollUser(t, user.ID, sc.course.ID)
	completeAllLectures(t, user.ID, sc)
	if _, err := CompleteCourseManually(user.ID, sc.course.ID); err != nil {
		t.Fatalf("CompleteCourseManually() error = %v", err)
	}

	// Delivery is async; wait for the milestone event among the posted events
	deadline := time.After(5 * time.Second)
	for {
		select {
		case body := <-received:
			if body["event"] != string(EventCourseMilestone) {
				continue
			}
			if n, ok := body["milestone"].(float64); !ok || n != 1 {
				t.Errorf("milestone = %v, want 1", body["milestone"])
			}
			if body["badge"] != "First Course Completed" {
				t.Errorf("badge = %v, want %q", body["badge"], "First Course Completed")
			}
			return
		case <-deadline:
			t.Fatal("milestone webhook event never delivered")
		}
	}
}

func TestSameCalendarDay(t *testing.T) {
	base := time.Date(2026, 8, 28, 23, 30, 0, 0, time.Local)

	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want bool
	}{
		{"identical", base, base, true},
		{"morning-vs-night-same-day", time.Date(2026, 8, 28, 0, 10, 0, 0, time.Local), base, true},
		{"across-midnight", base, time.Date(2026, 8, 29, 0, 10, 0, 0, time.Local), false},
		{"within-24h-but-next-day", base, base.Add(2 * time.Hour), false},
		{"different-month", base, time.Date(2026, 9, 28, 23, 30, 0, 0, time.Local), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameCalendarDay(tt.a, tt.b); got != tt.want {
				t.Errorf("sameCalendarDay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTouchStreakLateNightBoundary(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, "zoe")

	// Last activity at 23:30 local yesterday: the previous calendar day even
	// though it may fall inside the current UTC day
	y, m, d := time.Now().Local().Date()
	lateYesterday := time.Date(y, m, d, 0, 0, 0, 0, time.Local).Add(-30 * time.Minute)
	db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"current_streak":   3,
		"longest_streak":   3,
		"last_activity_at": lateYesterday,
	})

	touchStreak(user.ID)

	var reloaded models.User
	db.First(&reloaded, user.ID)
	if reloaded.CurrentStreak != 4 {
		t.Errorf("streak = %d, want 4 after late-night consecutive day", reloaded.CurrentStreak)
	}
	if reloaded.LongestStreak != 4 {
		t.Errorf("longest streak = %d, want 4", reloaded.LongestStreak)
	}
}

func TestTouchStreakProgression(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, "yuri")

	// First activity starts the streak
	touchStreak(user.ID)
	var reloaded models.User
	db.First(&reloaded, user.ID)
	if reloaded.CurrentStreak != 1 || reloaded.LongestStreak != 1 {
		t.Fatalf("streak = %d/%d, want 1/1", reloaded.CurrentStreak, reloaded.LongestStreak)
	}
	if reloaded.LastActivityAt == nil {
		t.Fatal("last activity not recorded")
	}

	// Same-day activity is a no-op
	touchStreak(user.ID)
	db.First(&reloaded, user.ID)
	if reloaded.CurrentStreak != 1 {
		t.Errorf("same-day streak = %d, want 1", reloaded.CurrentStreak)
	}

	// Activity the day after yesterday's extends the streak
	yesterday := reloaded.LastActivityAt.AddDate(0, 0, -1)
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_activity_at", yesterday)
	touchStreak(user.ID)
	db.First(&reloaded, user.ID)
	if reloaded.CurrentStreak != 2 || reloaded.LongestStreak != 2 {
		t.Errorf("extended streak = %d/%d, want 2/2", reloaded.CurrentStreak, reloaded.LongestStreak)
	}

	// A gap resets the current streak but keeps the longest
	stale := reloaded.LastActivityAt.AddDate(0, 0, -3)
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_activity_at", stale)
	touchStreak(user.ID)
	db.First(&reloaded, user.ID)
	if reloaded.CurrentStreak != 1 {
		t.Errorf("streak after gap = %d, want 1", reloaded.CurrentStreak)
	}
	if reloaded.LongestStreak != 2 {
		t.Errorf("longest streak = %d, want 2", reloaded.LongestStreak)
	}
}
