package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"projecttracker/backend/middleware"
	"projecttracker/backend/models"
	"projecttracker/backend/services"
	"projecttracker/backend/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	sessionUserKey         = "user_id"
	verificationCodeLength = 6
)

type AuthController struct {
	DB       *gorm.DB
	Auth     *services.AuthService
	Sessions *session.Store
	Logger   zerolog.Logger
}

func NewAuthController(db *gorm.DB, auth *services.AuthService, sessions *session.Store, logger zerolog.Logger) *AuthController {
	return &AuthController{DB: db, Auth: auth, Sessions: sessions, Logger: logger}
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	AdminSecret string `json:"adminSecret"`
}

// UnmarshalJSON also accepts the snake_case spelling of the admin secret.
func (r *RegisterRequest) UnmarshalJSON(data []byte) error {
	type plain RegisterRequest
	var aux struct {
		plain
		AdminSecretSnake string `json:"admin_secret"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = RegisterRequest(aux.plain)
	if r.AdminSecret == "" {
		r.AdminSecret = aux.AdminSecretSnake
	}
	return nil
}

// VerifyRequest leaves the code optional: an already verified account is
// answered before the code is looked at.
type VerifyRequest struct {
	Email            string `json:"email" validate:"required"`
	VerificationCode string `json:"verification_code"`
}

// UnmarshalJSON also accepts the code as a JSON number. Leading zeros lost
// that way are restored.
func (r *VerifyRequest) UnmarshalJSON(data []byte) error {
	var aux struct {
		Email            string          `json:"email"`
		VerificationCode json.RawMessage `json:"verification_code"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Email = aux.Email
	r.VerificationCode = ""

	raw := bytes.TrimSpace(aux.VerificationCode)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '"':
		return json.Unmarshal(raw, &r.VerificationCode)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return err
		}
		code := n.String()
		if len(code) < verificationCodeLength && strings.Trim(code, "0123456789") == "" {
			code = strings.Repeat("0", verificationCodeLength-len(code)) + code
		}
		r.VerificationCode = code
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	Role    string `json:"role"`
}

type LoginResponse struct {
	Message     string             `json:"message"`
	AccessToken string             `json:"access_token"`
	Role        string             `json:"role"`
	User        models.UserSummary `json:"user"`
}

// Home godoc
// @Summary API welcome message
// @Tags meta
// @Produce json
// @Success 200 {object} utils.MessageResponse
// @Router / [get]
func (ac *AuthController) Home(c *fiber.Ctx) error {
	return utils.Message(c, fiber.StatusOK, "Welcome to the Project Tracker API")
}

// Register godoc
// @Summary Register a new user
// @Description Creates an unverified account and emails a 6-digit verification code
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	// a wrong admin secret is refused before anything else is looked at
	if _, err := ac.Auth.ResolveAdminSecret(input.AdminSecret); err != nil {
		return respondError(c, ac.Logger, err, "")
	}

	if handled, err := utils.ValidateBody(c, &input); handled {
		return err
	}

	result, err := ac.Auth.Register(c.UserContext(), services.RegisterInput{
		Username:    input.Username,
		Email:       input.Email,
		Password:    input.Password,
		AdminSecret: input.AdminSecret,
	})
	if err != nil {
		return respondError(c, ac.Logger, err, "")
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		Message: "User registered successfully. Check your email for verification code",
		Role:    result.Role,
	})
}

// Verify godoc
// @Summary Verify email address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Email and verification code"
// @Success 200 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /verify [post]
func (ac *AuthController) Verify(c *fiber.Ctx) error {
	var input VerifyRequest
	if handled, err := utils.ParseBody(c, &input); handled {
		return err
	}

	alreadyVerified, err := ac.Auth.Verify(c.UserContext(), input.Email, input.VerificationCode)
	if err != nil {
		return respondError(c, ac.Logger, err, "")
	}

	if alreadyVerified {
		return utils.Message(c, fiber.StatusOK, "User already verified")
	}
	return utils.Message(c, fiber.StatusOK, "User verified successfully")
}

// Login godoc
// @Summary User login
// @Description Authenticate a verified user and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if handled, err := utils.ParseBody(c, &input); handled {
		return err
	}

	result, err := ac.Auth.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return respondError(c, ac.Logger, err, "")
	}

	sess, err := ac.Sessions.Get(c)
	if err != nil {
		ac.Logger.Error().Err(err).Msg("Could not load session")
		return utils.InternalServerError(c, "Could not start session")
	}
	sess.Set(sessionUserKey, result.User.ID)
	if err := sess.Save(); err != nil {
		ac.Logger.Error().Err(err).Msg("Could not save session")
		return utils.InternalServerError(c, "Could not start session")
	}

	return c.JSON(LoginResponse{
		Message:     fmt.Sprintf("Login successful as %s", result.Role),
		AccessToken: result.Token,
		Role:        result.Role,
		User:        result.User.Summary(),
	})
}

// Logout godoc
// @Summary Log out
// @Description Drops the server-side session. Issued JWTs stay valid until they expire.
// @Tags auth
// @Produce json
// @Success 200 {object} utils.MessageResponse
// @Router /logout [post]
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	sess, err := ac.Sessions.Get(c)
	if err == nil {
		err = sess.Destroy()
	}
	if err != nil {
		ac.Logger.Warn().Err(err).Msg("Could not clear session")
	}

	return utils.Message(c, fiber.StatusOK, "Logged out successfully")
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /me [get]
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return utils.Unauthorized(c, "User not found")
	}

	return c.JSON(user.ToResponse())
}
