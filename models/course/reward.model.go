package course

import (
	"time"

	"gorm.io/gorm"
)

// UserBadge is a named badge held by a user. The (user, name) unique index
// makes badge grants idempotent at the storage layer.
type UserBadge struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_badge_user_name;not null"`
	Name      string    `json:"name" gorm:"uniqueIndex:idx_badge_user_name;not null"`
	AwardedAt time.Time `json:"awarded_at"`
}

// XPTransaction records one experience-point award for audit
type XPTransaction struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index;not null"`
	Event  string `json:"event"`
	Amount int    `json:"amount"`
}
