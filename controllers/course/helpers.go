package controllers

import (
	"errors"
	"lms/middleware"
	"lms/services/progress"

	"github.com/gofiber/fiber/v2"
)

// serviceErrorResponse maps the progress core's sentinel errors to HTTP
// responses. Business-rule failures keep distinguishable messages so clients
// can show a specific prompt.
func serviceErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	case errors.Is(err, progress.ErrInvalidIndex):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Module or lecture index out of range!", nil)
	case errors.Is(err, progress.ErrPrerequisitesNotMet):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Prerequisites not met!", nil)
	case errors.Is(err, progress.ErrAttemptsExhausted):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "No attempts remaining!", nil)
	case errors.Is(err, progress.ErrValidation):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid submission!", nil)
	case errors.Is(err, progress.ErrConflict):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Please retry, a concurrent update was in progress!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

// currentUserID pulls the authenticated user id set by the JWT middleware
func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userId").(uint)
	return userID, ok
}
