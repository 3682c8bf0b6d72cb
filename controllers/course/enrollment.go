package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/progress"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	// Check if course exists and is active
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "ACTIVE").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not active!", nil)
	}

	// Check if user is already enrolled
	var existingEnrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}

	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: uint(courseID),
		Status:   "ACTIVE",
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	tx.Commit()

	go func(email, name, courseName string) {
		if err := utils.SendEnrollmentEmail(email, name, courseName); err != nil {
			log.Printf("Failed to send enrollment email: %v", err)
		}
	}(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

// DropCourse marks the enrollment dropped. The progress record is retained
// for historical and certificate purposes.
func DropCourse(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.Status == "COMPLETED" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Completed courses cannot be dropped!", nil)
	}

	enrollment.Status = "DROPPED"
	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to drop course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course dropped successfully!", enrollment)
}

// GetUserEnrollmentsList gets all enrollments for the current user. Each
// summary is reconciled against the authoritative progress record on read so
// stale rows self-heal.
func GetUserEnrollmentsList(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type EnrollmentWithCourse struct {
		courseModels.Enrollment
		CourseName        string `json:"course_name"`
		CourseDescription string `json:"course_description"`
		CourseInstructor  string `json:"course_instructor"`
	}

	result := make([]EnrollmentWithCourse, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]

		// Opportunistic reconcile against the progress record
		var p courseModels.CourseProgress
		if err := db.Where("user_id = ? AND course_id = ?", userID, e.CourseID).First(&p).Error; err == nil {
			if progress.ReconcileEnrollment(e, &p) {
				db.Save(e)
			}
		}

		var course courseModels.Course
		db.Where("id = ?", e.CourseID).First(&course)
		result[i] = EnrollmentWithCourse{
			Enrollment:        *e,
			CourseName:        course.Title,
			CourseDescription: course.Description,
			CourseInstructor:  course.Instructor,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": result,
		"total":       len(result),
	})
}
