package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Description  string `json:"description"`
	Instructor   string `json:"instructor"`
	Duration     int64  `json:"duration" gorm:"default:0"`     // duration in hours
	Status       string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL string `json:"thumbnail_url"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}

// FinalTest is the course-level gated assessment configuration.
// One per course; lecture quizzes are configured on the Lecture itself.
type FinalTest struct {
	gorm.Model
	CourseID            uint    `json:"course_id" gorm:"uniqueIndex;not null"`
	Enabled             bool    `json:"enabled" gorm:"default:true"`
	PassingScore        float64 `json:"passing_score" gorm:"default:70"`          // percentage required to pass
	MinCertificateScore float64 `json:"min_certificate_score" gorm:"default:70"`  // minimum percentage for certificate
	TimeLimit           int     `json:"time_limit" gorm:"default:60"`             // minutes
	MaxAttempts         int     `json:"max_attempts" gorm:"default:3"`            // attempt ceiling
	IsDeleted           bool    `gorm:"default:false"`
}

// Question belongs either to a quiz lecture or to the course final test.
type Question struct {
	gorm.Model
	LectureID     *uint          `json:"lecture_id" gorm:"index"`    // set for lecture quiz questions
	FinalTestID   *uint          `json:"final_test_id" gorm:"index"` // set for final test questions
	Type          string         `json:"type" gorm:"default:'MCQ'"`  // MCQ, TRUE_FALSE, SHORT_ANSWER
	Prompt        string         `json:"prompt" gorm:"type:text"`
	Options       datatypes.JSON `json:"options"`        // JSON array of option texts for MCQ/TRUE_FALSE
	CorrectOption int            `json:"correct_option"` // option index for MCQ/TRUE_FALSE
	CorrectAnswer string         `json:"correct_answer"` // expected text for SHORT_ANSWER
	Points        int            `json:"points" gorm:"default:1"`
	OrderIndex    int            `json:"order_index" gorm:"default:0"`
	IsDeleted     bool           `gorm:"default:false"`
}
