package progress

import (
	"errors"
	"log"

	"lms/database"
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// ReconcileEnrollment folds the authoritative progress record into the
// coarse enrollment summary. The summary never regresses: its completion
// percentage only moves up, and once completed it never reverts to
// incomplete. Returns true when the summary row changed.
func ReconcileEnrollment(enrollment *courseModels.Enrollment, p *courseModels.CourseProgress) bool {
	changed := false

	if p.OverallProgress > enrollment.CompletionPercentage {
		enrollment.CompletionPercentage = p.OverallProgress
		changed = true
	}

	if p.IsCompleted {
		if !enrollment.IsCompleted {
			enrollment.IsCompleted = true
			changed = true
		}
		if enrollment.Status != "COMPLETED" {
			enrollment.Status = "COMPLETED"
			changed = true
		}
		if enrollment.CompletedAt == nil && p.CompletedAt != nil {
			enrollment.CompletedAt = p.CompletedAt
			changed = true
		}
	}

	return changed
}

// reconcileAndSave syncs the enrollment summary after a progress mutation or
// opportunistically on read. Failures are logged, never propagated: the
// summary is a rebuildable projection and self-heals on the next call.
func reconcileAndSave(userID, courseID uint, p *courseModels.CourseProgress) {
	db := database.Database.Db

	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&enrollment).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[RECONCILER] Failed to load enrollment for user %d course %d: %v", userID, courseID, err)
		}
		return
	}

	if ReconcileEnrollment(&enrollment, p) {
		if err := db.Save(&enrollment).Error; err != nil {
			log.Printf("[RECONCILER] Failed to save enrollment for user %d course %d: %v", userID, courseID, err)
		}
	}
}
