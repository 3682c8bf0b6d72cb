package course

import "gorm.io/gorm"

// CourseModule represents a section/module within a course.
// Module order is the unit of unlock-gating: a learner can only enter
// module i+1 after completing module i.
type CourseModule struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"` // Module order in course
	IsDeleted   bool   `gorm:"default:false"`
}

// Lecture is the smallest content unit within a module
type Lecture struct {
	gorm.Model
	ModuleID     uint    `json:"module_id" gorm:"index;not null"`
	Title        string  `json:"title"`
	Type         string  `json:"type" gorm:"default:'VIDEO'"` // VIDEO, TEXT, QUIZ, ASSIGNMENT
	VideoURL     string  `json:"video_url"`
	TextContent  string  `json:"text_content" gorm:"type:text"`
	OrderIndex   int     `json:"order_index" gorm:"default:0"`
	PassingScore float64 `json:"passing_score" gorm:"default:70"` // for QUIZ/ASSIGNMENT lectures
	MaxAttempts  int     `json:"max_attempts" gorm:"default:0"`   // 0 = unlimited quiz attempts
	IsPublished  bool    `json:"is_published" gorm:"default:true"`
	IsDeleted    bool    `gorm:"default:false"`
}
