package services

import "errors"

var (
	ErrEmailExists             = errors.New("Email already exists")
	ErrInvalidAdminSecret      = errors.New("Invalid admin secret")
	ErrUserNotFound            = errors.New("User not found")
	ErrInvalidVerificationCode = errors.New("Invalid verification code")
	ErrInvalidCredentials      = errors.New("Invalid credentials")
	ErrAccountNotVerified      = errors.New("Account not verified. Please verify your email")
	ErrNotificationFailed      = errors.New("Could not send verification email")
)
