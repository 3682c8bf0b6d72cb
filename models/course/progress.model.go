package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseProgress is the authoritative per-learner, per-course progress record.
// The Enrollment row carries a coarse copy for listings; this record wins
// whenever the two disagree.
type CourseProgress struct {
	gorm.Model
	UserID   uint `json:"user_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID uint `json:"course_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`

	Modules []ModuleProgress `json:"modules" gorm:"foreignKey:ProgressID"`

	// Cursor for "resume where you left off"
	CurrentModuleIndex  int `json:"current_module_index" gorm:"default:0"`
	CurrentLectureIndex int `json:"current_lecture_index" gorm:"default:0"`

	FinalTestAttempts    []TestAttempt `json:"final_test_attempts" gorm:"foreignKey:ProgressID"`
	FinalTestPassed      bool          `json:"final_test_passed" gorm:"default:false"`
	FinalTestScore       float64       `json:"final_test_score" gorm:"default:0"`
	FinalTestCompletedAt *time.Time    `json:"final_test_completed_at"`

	// Percentage of modules completed. Can read 100 before the final test is
	// passed; IsCompleted is the only flag that accounts for the final test.
	OverallProgress float64    `json:"overall_progress" gorm:"default:0"`
	IsCompleted     bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt     *time.Time `json:"completed_at"`

	CertificateGenerated bool   `json:"certificate_generated" gorm:"default:false"`
	CertificateID        string `json:"certificate_id"`

	TotalTimeSpent int  `json:"total_time_spent" gorm:"default:0"` // minutes
	Version        uint `json:"-" gorm:"default:1"`                // optimistic concurrency token
	IsDeleted      bool `gorm:"default:false"`
}

// ModuleProgress tracks a learner's progress through one module,
// index-aligned with the course's module order.
type ModuleProgress struct {
	gorm.Model
	ProgressID           uint              `json:"-" gorm:"index;not null"`
	ModuleIndex          int               `json:"module_index"`
	IsUnlocked           bool              `json:"is_unlocked" gorm:"default:false"`
	UnlockedAt           *time.Time        `json:"unlocked_at"`
	Completed            bool              `json:"completed" gorm:"default:false"`
	CompletedAt          *time.Time        `json:"completed_at"`
	CompletionPercentage float64           `json:"completion_percentage" gorm:"default:0"`
	Lectures             []LectureProgress `json:"lectures" gorm:"foreignKey:ModuleProgressID"`
}

// LectureProgress tracks completion of a single lecture
type LectureProgress struct {
	gorm.Model
	ModuleProgressID  uint       `json:"-" gorm:"index;not null"`
	LectureIndex      int        `json:"lecture_index"`
	Completed         bool       `json:"completed" gorm:"default:false"`
	WatchedPercentage int        `json:"watched_percentage" gorm:"default:0"` // 0-100
	Score             *float64   `json:"score"`                               // quiz/assignment score, nil until graded
	Attempts          int        `json:"attempts" gorm:"default:0"`
	SubmittedAt       *time.Time `json:"submitted_at"`
	SubmissionText    string     `json:"submission_text" gorm:"type:text"`
	SubmissionURL     string     `json:"submission_url"`
	TimeSpent         int        `json:"time_spent" gorm:"default:0"` // minutes
}

// TestAttempt is one graded submission of the course final test.
// Attempts are retained for review and never overwritten; AttemptNumber is
// 1-based and never reused.
type TestAttempt struct {
	gorm.Model
	ProgressID    uint           `json:"-" gorm:"index;not null"`
	AttemptNumber int            `json:"attempt_number"`
	Answers       datatypes.JSON `json:"answers"` // per-question grading detail
	Score         int            `json:"score"`   // points earned
	MaxScore      int            `json:"max_score"`
	Percentage    float64        `json:"percentage"`
	Passed        bool           `json:"passed" gorm:"default:false"`
	TimeSpent     int            `json:"time_spent" gorm:"default:0"` // minutes
}
