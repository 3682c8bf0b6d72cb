package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's enrollment in a course with a coarse,
// denormalized completion summary used for listings and dashboards.
// It is not authoritative; CourseProgress is. The reconciler keeps this row
// from ever reporting a lower completion value than the progress record.
type Enrollment struct {
	gorm.Model
	UserID               uint       `json:"user_id" gorm:"uniqueIndex:idx_enroll_user_course;not null"`
	CourseID             uint       `json:"course_id" gorm:"uniqueIndex:idx_enroll_user_course;not null"`
	Status               string     `json:"status" gorm:"default:'ACTIVE'"` // ACTIVE, COMPLETED, DROPPED
	CompletionPercentage float64    `json:"completion_percentage" gorm:"default:0"`
	IsCompleted          bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt          *time.Time `json:"completed_at"`
	IsDeleted            bool       `gorm:"default:false"`
}
