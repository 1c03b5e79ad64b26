package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin   = "Admin"
	RoleStudent = "Student"
)

type User struct {
	ID               uint      `gorm:"primaryKey"`
	Username         string    `gorm:"size:100;not null"`
	Email            string    `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash     string    `gorm:"size:200;not null"`
	IsAdmin          bool      `gorm:"not null;default:false"`
	IsVerified       bool      `gorm:"not null;default:false"`
	VerificationCode *string   `gorm:"size:6"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleStudent
}

func (u *User) Validate() error {
	if shorterThan(strings.TrimSpace(u.Username), 3) {
		return NewValidationError("Username must be at least 3 characters long.")
	}
	if !strings.Contains(u.Email, "@") {
		return NewValidationError("Invalid email address.")
	}
	return nil
}

// CheckVerificationCode marks the user verified and clears the stored code
// when code matches. It does not persist.
func (u *User) CheckVerificationCode(code string) bool {
	if u.VerificationCode == nil || *u.VerificationCode != code {
		return false
	}
	u.IsVerified = true
	u.VerificationCode = nil
	return true
}

type UserResponse struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsAdmin    bool   `json:"is_admin"`
	IsVerified bool   `json:"is_verified"`
	CreatedAt  string `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		IsVerified: u.IsVerified,
		CreatedAt:  formatTimestamp(u.CreatedAt),
	}
}

// UserSummary is what login hands back next to the token.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}
