package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
)

// GetCertificate returns the learner's certificate for a course. Before
// completion this is a NotFound; after completion every call returns the
// same certificate.
func GetCertificate(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	cert, err := progress.GetCertificate(userID, uint(courseID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", cert)
}

// DownloadCertificate returns the certificate data for rendering and bumps
// the download counter. Rendering into a document is the client's concern.
func DownloadCertificate(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	cert, err := progress.GetCertificate(userID, uint(courseID))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	if err := progress.IncrementCertificateDownload(cert.ID); err == nil {
		cert.DownloadCount++
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate ready for download!", cert)
}

// VerifyCertificate is the public certificate lookup by verification code
func VerifyCertificate(c *fiber.Ctx) error {
	code := c.Locals("verificationCode").(string)

	cert, err := progress.VerifyCertificate(code)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	// Public payload: enough to confirm authenticity, nothing more
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid!", fiber.Map{
		"certificate_number": cert.CertificateNumber,
		"student_name":       cert.StudentName,
		"course_name":        cert.CourseName,
		"instructor_name":    cert.InstructorName,
		"grade":              cert.Grade,
		"final_score":        cert.FinalScore,
		"issued_at":          cert.IssuedAt,
	})
}

// GetUserCertificates gets all certificates for the current user
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"total":        len(certificates),
	})
}
