package courseValidator

import (
	"lms/middleware"
	"lms/services/progress"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CourseID validates the :id route parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// LectureRef validates the :id/:module_index/:lecture_index route parameters.
// Indexes are 0-based positions in the course structure; range checks against
// the actual structure happen in the service layer.
func LectureRef() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, err := strconv.Atoi(strings.TrimSpace(c.Params("id")))
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		moduleIdx, err := strconv.Atoi(strings.TrimSpace(c.Params("module_index")))
		if err != nil || moduleIdx < 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module index!", nil)
		}

		lectureIdx, err := strconv.Atoi(strings.TrimSpace(c.Params("lecture_index")))
		if err != nil || lectureIdx < 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lecture index!", nil)
		}

		c.Locals("courseID", courseID)
		c.Locals("moduleIndex", moduleIdx)
		c.Locals("lectureIndex", lectureIdx)
		return c.Next()
	}
}

// LectureUpdateBody validates the lecture progress payload
func LectureUpdateBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(progress.LectureUpdate)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.WatchedPercentage != nil && (*reqData.WatchedPercentage < 0 || *reqData.WatchedPercentage > 100) {
			errors["watched_percentage"] = "Watched percentage must be between 0 and 100!"
		}
		if reqData.TimeSpent < 0 {
			errors["time_spent"] = "Time spent cannot be negative!"
		}
		if len(reqData.SubmissionURL) > 2048 {
			errors["submission_url"] = "Submission URL is too long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLectureUpdate", reqData)
		return c.Next()
	}
}

// QuizSubmission validates a quiz answer payload
func QuizSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers []progress.AnswerInput `json:"answers"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if len(reqData.Answers) == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please submit at least one answer!", nil)
		}

		c.Locals("validatedAnswers", reqData.Answers)
		return c.Next()
	}
}

// FinalTestSubmission validates a final test payload
func FinalTestSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers   []progress.AnswerInput `json:"answers"`
			TimeSpent int                    `json:"time_spent"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(reqData.Answers) == 0 {
			errors["answers"] = "Please submit at least one answer!"
		}
		if reqData.TimeSpent < 0 {
			errors["time_spent"] = "Time spent cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAnswers", reqData.Answers)
		c.Locals("validatedTimeSpent", reqData.TimeSpent)
		return c.Next()
	}
}

// VerificationCode validates the public :code route parameter
func VerificationCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
		if code == "" || len(code) > 32 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid verification code!", nil)
		}

		c.Locals("verificationCode", code)
		return c.Next()
	}
}
