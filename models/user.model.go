package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage        string     `gorm:"default:''"`
	Name                string     `gorm:"default:''"`
	Email               string     `gorm:"unique;not null"`
	Role                string     `gorm:"default:'STUDENT'"` // STUDENT, INSTRUCTOR, ADMIN
	Password            string     `gorm:"not null"`
	ExperiencePoints    int64      `json:"experience_points" gorm:"default:0"`
	CurrentStreak       int        `json:"current_streak" gorm:"default:0"` // consecutive active days
	LongestStreak       int        `json:"longest_streak" gorm:"default:0"`
	LastActivityAt      *time.Time `json:"last_activity_at"`
	LastLogin           time.Time  `gorm:"default:NULL"`
	FailedLoginAttempts int        `gorm:"default:0"`
	IsDeleted           bool       `gorm:"default:false"`
}
