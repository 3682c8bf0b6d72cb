package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetUserRewards returns the learner's XP total, streaks and badge list
func GetUserRewards(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var badges []courseModels.UserBadge
	db.Where("user_id = ?", userID).Order("awarded_at asc").Find(&badges)

	var recentXP []courseModels.XPTransaction
	db.Where("user_id = ?", userID).Order("created_at desc").Limit(20).Find(&recentXP)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Rewards fetched successfully!", fiber.Map{
		"experience_points": user.ExperiencePoints,
		"current_streak":    user.CurrentStreak,
		"longest_streak":    user.LongestStreak,
		"badges":            badges,
		"recent_xp":         recentXP,
	})
}
