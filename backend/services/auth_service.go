package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"projecttracker/backend/config"
	"projecttracker/backend/models"
	"projecttracker/backend/utils"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB         *gorm.DB
	Cfg        *config.Config
	Notifier   Notifier
	Logger     zerolog.Logger
	BcryptCost int
}

func NewAuthService(db *gorm.DB, cfg *config.Config, notifier Notifier, logger zerolog.Logger) *AuthService {
	return &AuthService{
		DB:         db,
		Cfg:        cfg,
		Notifier:   notifier,
		Logger:     logger,
		BcryptCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	AdminSecret string
}

type RegisterResult struct {
	User *models.User
	Role string
}

type LoginResult struct {
	Token string
	User  *models.User
	Role  string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateVerificationCode returns six random decimal digits.
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ResolveAdminSecret grants admin for the configured secret. An empty secret
// means a regular registration; any other mismatch is refused.
func (s *AuthService) ResolveAdminSecret(secret string) (bool, error) {
	if secret == "" {
		return false, nil
	}
	if s.Cfg.AdminSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(s.Cfg.AdminSecret)) != 1 {
		return false, ErrInvalidAdminSecret
	}
	return true, nil
}

// Register creates an unverified account and mails its verification code.
// The insert and the mail share a transaction, so a failed send leaves no
// user behind.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	email := NormalizeEmail(in.Email)

	isAdmin, err := s.ResolveAdminSecret(in.AdminSecret)
	if err != nil {
		return nil, err
	}

	passwordHash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	user := models.User{
		Username:         strings.TrimSpace(in.Username),
		Email:            email,
		PasswordHash:     passwordHash,
		IsAdmin:          isAdmin,
		VerificationCode: &code,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailExists
		}

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailExists
			}
			return err
		}

		body := fmt.Sprintf("Your verification code is: %s", code)
		if err := s.Notifier.Send(ctx, user.Email, VerificationSubject, body); err != nil {
			s.Logger.Error().Err(err).Str("email", user.Email).Msg("Failed to send verification email")
			return ErrNotificationFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info().Uint("user_id", user.ID).Str("role", user.Role()).Msg("User registered")

	return &RegisterResult{User: &user, Role: user.Role()}, nil
}

// Verify reports alreadyVerified=true, without touching the row, when the
// account was verified earlier.
func (s *AuthService) Verify(ctx context.Context, email, code string) (alreadyVerified bool, err error) {
	email = NormalizeEmail(email)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if user.IsVerified {
			alreadyVerified = true
			return nil
		}

		if !user.CheckVerificationCode(strings.TrimSpace(code)) {
			return ErrInvalidVerificationCode
		}

		return tx.Save(&user).Error
	})

	return alreadyVerified, err
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrAccountNotVerified
	}

	token, err := utils.GenerateJWTToken(user.ID, s.Cfg)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResult{Token: token, User: &user, Role: user.Role()}, nil
}
