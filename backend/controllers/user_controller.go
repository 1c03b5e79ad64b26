package controllers

import (
	"errors"
	"projecttracker/backend/models"
	"projecttracker/backend/services"
	"projecttracker/backend/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type UserController struct {
	DB     *gorm.DB
	Auth   *services.AuthService
	Logger zerolog.Logger
}

func NewUserController(db *gorm.DB, auth *services.AuthService, logger zerolog.Logger) *UserController {
	return &UserController{DB: db, Auth: auth, Logger: logger}
}

type CreateUserRequest struct {
	Username   string `json:"username" example:"john_doe" validate:"required"`
	Email      string `json:"email" example:"user@example.com" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	IsAdmin    bool   `json:"is_admin"`
	IsVerified bool   `json:"is_verified"`
}

type UpdateUserRequest struct {
	Username   *string `json:"username" example:"john_doe"`
	Email      *string `json:"email" example:"user@example.com"`
	Password   *string `json:"password"`
	IsAdmin    *bool   `json:"is_admin"`
	IsVerified *bool   `json:"is_verified"`
}

// emailTaken reports whether another user already owns the address.
func emailTaken(tx *gorm.DB, email string, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} models.UserResponse
// @Router /users [get]
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := uc.DB.Order("id").Find(&users).Error; err != nil {
		return respondError(c, uc.Logger, err, "")
	}

	result := make([]models.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, users[i].ToResponse())
	}
	return c.JSON(result)
}

// CreateUser godoc
// @Summary Create user
// @Description Administrative creation, no verification email is sent
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "User data"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /users [post]
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var input CreateUserRequest
	if handled, err := utils.ParseBody(c, &input); handled {
		return err
	}

	hash, err := uc.Auth.HashPassword(input.Password)
	if err != nil {
		uc.Logger.Error().Err(err).Msg("Failed to hash password")
		return utils.InternalServerError(c, "Failed to hash password")
	}

	user := models.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        services.NormalizeEmail(input.Email),
		PasswordHash: hash,
		IsAdmin:      input.IsAdmin,
		IsVerified:   input.IsVerified,
	}

	if err := user.Validate(); err != nil {
		return respondError(c, uc.Logger, err, "")
	}

	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		taken, err := emailTaken(tx, user.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return services.ErrEmailExists
		}
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return services.ErrEmailExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return respondError(c, uc.Logger, err, "")
	}

	return c.Status(fiber.StatusCreated).JSON(user.ToResponse())
}

// GetUser godoc
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /users/{id} [get]
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		return respondError(c, uc.Logger, err, "User not found")
	}

	return c.JSON(user.ToResponse())
}

// UpdateUser godoc
// @Summary Update user
// @Description Overwrites only the fields present in the body. A new password is re-hashed.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /users/{id} [put]
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input UpdateUserRequest
	if handled, err := utils.ParseBody(c, &input); handled {
		return err
	}

	var user models.User
	err := uc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		if input.Username != nil {
			user.Username = strings.TrimSpace(*input.Username)
		}
		if input.Email != nil {
			email := services.NormalizeEmail(*input.Email)
			if email != user.Email {
				taken, err := emailTaken(tx, email, user.ID)
				if err != nil {
					return err
				}
				if taken {
					return services.ErrEmailExists
				}
			}
			user.Email = email
		}
		if input.Password != nil {
			if *input.Password == "" {
				return models.NewValidationError("Password cannot be empty.")
			}
			hash, err := uc.Auth.HashPassword(*input.Password)
			if err != nil {
				return err
			}
			user.PasswordHash = hash
		}
		if input.IsAdmin != nil {
			user.IsAdmin = *input.IsAdmin
		}
		if input.IsVerified != nil {
			user.IsVerified = *input.IsVerified
		}

		if err := user.Validate(); err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return services.ErrEmailExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return respondError(c, uc.Logger, err, "User not found")
	}

	return c.JSON(user.ToResponse())
}

// DeleteUser godoc
// @Summary Delete user
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /users/{id} [delete]
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid user ID")
	}

	err := uc.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return respondError(c, uc.Logger, err, "User not found")
	}

	return utils.NoContent(c)
}
