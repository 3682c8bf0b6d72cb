package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetAllCourses lists published active courses
func GetAllCourses(c *fiber.Ctx) error {
	if _, ok := currentUserID(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []courseModels.Course
	if err := database.Database.Db.
		Where("is_deleted = ? AND is_published = ? AND status = ?", false, true, "ACTIVE").
		Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
		"total":   len(courses),
	})
}

// GetCourseDetails returns a course with its ordered modules and lectures.
// Question banks are never included here; quiz questions are fetched through
// the sanitized question endpoints.
func GetCourseDetails(c *fiber.Ctx) error {
	if _, ok := currentUserID(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.CourseModule
	db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_index asc").Find(&modules)

	type ModuleWithLectures struct {
		courseModels.CourseModule
		Lectures []courseModels.Lecture `json:"lectures"`
	}

	result := make([]ModuleWithLectures, len(modules))
	for i, mod := range modules {
		var lectures []courseModels.Lecture
		db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", mod.ID, false, true).
			Order("order_index asc").Find(&lectures)
		result[i] = ModuleWithLectures{CourseModule: mod, Lectures: lectures}
	}

	// Final test summary without its question bank
	var finalTest courseModels.FinalTest
	var finalTestInfo interface{}
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&finalTest).Error; err == nil {
		finalTestInfo = fiber.Map{
			"enabled":               finalTest.Enabled,
			"passing_score":         finalTest.PassingScore,
			"min_certificate_score": finalTest.MinCertificateScore,
			"time_limit":            finalTest.TimeLimit,
			"max_attempts":          finalTest.MaxAttempts,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", fiber.Map{
		"course":     course,
		"modules":    result,
		"final_test": finalTestInfo,
	})
}

// GetFinalTestQuestions returns the final test question bank with the
// correct answers stripped out.
func GetFinalTestQuestions(c *fiber.Ctx) error {
	if _, ok := currentUserID(c); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	db := database.Database.Db

	var finalTest courseModels.FinalTest
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).First(&finalTest).Error; err != nil || !finalTest.Enabled {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Final test not found!", nil)
	}

	var questions []courseModels.Question
	db.Where("final_test_id = ? AND is_deleted = ?", finalTest.ID, false).
		Order("order_index asc").Find(&questions)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Final test fetched successfully!", fiber.Map{
		"time_limit":   finalTest.TimeLimit,
		"max_attempts": finalTest.MaxAttempts,
		"questions":    sanitizeQuestions(questions),
	})
}

// sanitizeQuestions strips grading fields before questions leave the API
func sanitizeQuestions(questions []courseModels.Question) []fiber.Map {
	out := make([]fiber.Map, len(questions))
	for i, q := range questions {
		out[i] = fiber.Map{
			"id":      q.ID,
			"type":    q.Type,
			"prompt":  q.Prompt,
			"options": q.Options,
			"points":  q.Points,
		}
	}
	return out
}
