package controllers

import (
	"errors"
	"fmt"
	"projecttracker/backend/models"
	"projecttracker/backend/services"
	"projecttracker/backend/utils"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const integrityErrorMessage = "Integrity error: Something went wrong with the database."

func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// respondError maps domain and storage errors onto status codes. Anything
// unrecognised on a write path is reported as an integrity failure, after
// the surrounding transaction has rolled back.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error, notFound string) error {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return utils.BadRequest(c, ve.Message)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.NotFound(c, notFound)
	case errors.Is(err, services.ErrUserNotFound):
		return utils.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmailExists):
		return utils.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidAdminSecret),
		errors.Is(err, services.ErrAccountNotVerified):
		return utils.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrInvalidVerificationCode):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotificationFailed):
		return utils.Error(c, fiber.StatusBadGateway, err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated):
		logger.Warn().Err(err).Str("path", c.Path()).Msg("Constraint violation")
		return utils.BadRequest(c, integrityErrorMessage)
	}

	logger.Error().Err(err).Str("path", c.Path()).Msg("Database write failed")
	if c.Method() == fiber.MethodGet {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.BadRequest(c, integrityErrorMessage)
}

func parseDateField(field, value string) (time.Time, error) {
	t, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, models.NewValidationError(fmt.Sprintf("Invalid %s, expected YYYY-MM-DD.", field))
	}
	return t, nil
}
