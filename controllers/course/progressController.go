package controllers

import (
	"errors"
	"lms/middleware"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
)

// GetProgress returns the learner's progress record for a course, creating
// it lazily on first access after enrollment.
func GetProgress(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	p, err := progress.GetOrCreateProgress(userID, uint(courseID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", p)
}

// RecordLectureProgress records a watch/completion event for one lecture
func RecordLectureProgress(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleIdx := c.Locals("moduleIndex").(int)
	lectureIdx := c.Locals("lectureIndex").(int)
	upd := c.Locals("validatedLectureUpdate").(*progress.LectureUpdate)

	p, err := progress.RecordLectureProgress(userID, uint(courseID), moduleIdx, lectureIdx, *upd)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture progress recorded!", p)
}

// SubmitQuiz submits a lecture quiz for grading
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleIdx := c.Locals("moduleIndex").(int)
	lectureIdx := c.Locals("lectureIndex").(int)
	answers := c.Locals("validatedAnswers").([]progress.AnswerInput)

	result, err := progress.SubmitQuiz(userID, uint(courseID), moduleIdx, lectureIdx, answers)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", result)
}

// SubmitFinalTest submits the course final test for grading
func SubmitFinalTest(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	answers := c.Locals("validatedAnswers").([]progress.AnswerInput)
	timeSpent := c.Locals("validatedTimeSpent").(int)

	result, err := progress.SubmitFinalTest(userID, uint(courseID), answers, timeSpent)
	if err != nil {
		// An already-passed test is a benign idempotent response with the
		// existing result, not a failure.
		if errors.Is(err, progress.ErrAlreadyCompleted) {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Final test already passed!", result)
		}
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Final test submitted!", result)
}

// CompleteCourse manually marks a course complete once every module is done
func CompleteCourse(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	p, err := progress.CompleteCourseManually(userID, uint(courseID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course completed!", p)
}
