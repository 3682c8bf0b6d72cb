package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course listing and details (published courses)
	courseGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCourses)
	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)
	courseGroup.Post("/:id/drop", middleware.JWTMiddleware, validators.CourseID(), controllers.DropCourse)

	// Progress tracking
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetProgress)
	courseGroup.Post("/:id/module/:module_index/lecture/:lecture_index/progress",
		middleware.JWTMiddleware, validators.LectureRef(), validators.LectureUpdateBody(), controllers.RecordLectureProgress)

	// Quiz submission
	courseGroup.Post("/:id/module/:module_index/lecture/:lecture_index/quiz",
		middleware.JWTMiddleware, validators.LectureRef(), validators.QuizSubmission(), controllers.SubmitQuiz)

	// Final test
	courseGroup.Get("/:id/final-test", middleware.JWTMiddleware, validators.CourseID(), controllers.GetFinalTestQuestions)
	courseGroup.Post("/:id/final-test", middleware.JWTMiddleware, validators.CourseID(), validators.FinalTestSubmission(), controllers.SubmitFinalTest)

	// Manual completion (courses without an enabled final test)
	courseGroup.Post("/:id/complete", middleware.JWTMiddleware, validators.CourseID(), controllers.CompleteCourse)

	// Certificates
	courseGroup.Get("/:id/certificate", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCertificate)
	courseGroup.Get("/:id/certificate/download", middleware.JWTMiddleware, validators.CourseID(), controllers.DownloadCertificate)

	// Public certificate verification (no auth; codes are shareable)
	app.Get("/certificate/verify/:code", validators.VerificationCode(), controllers.VerifyCertificate)

	// User-level listings
	userGroup := app.Group("/user")
	userGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
	userGroup.Get("/rewards", middleware.JWTMiddleware, controllers.GetUserRewards)
}
