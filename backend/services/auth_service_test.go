package services

import (
	"context"
	"errors"
	"fmt"
	"projecttracker/backend/config"
	"projecttracker/backend/models"
	"projecttracker/backend/utils"
	"regexp"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type sentMessage struct {
	Recipient, Subject, Body string
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (n *captureNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentMessage{recipient, subject, body})
	return nil
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func (n *captureNotifier) lastCode(t *testing.T) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	m := codePattern.FindStringSubmatch(n.sent[len(n.sent)-1].Body)
	require.Len(t, m, 2)
	return m[1]
}

func newTestService(t *testing.T) (*AuthService, *captureNotifier) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := utils.OpenDB("sqlite", dsn)
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:       "testsecret",
		JWTExpiresHours: 1,
		AdminSecret:     "admin-secret",
	}
	notifier := &captureNotifier{}
	svc := NewAuthService(db, cfg, notifier, zerolog.Nop())
	svc.BcryptCost = bcrypt.MinCost
	return svc, notifier
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	return n
}

func TestGenerateVerificationCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateVerificationCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}

func TestRegisterAssignsRoles(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	student, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "Ada@Example.com ", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, student.Role)
	assert.Equal(t, "ada@example.com", student.User.Email)
	assert.False(t, student.User.IsVerified)

	admin, err := svc.Register(ctx, RegisterInput{Username: "root", Email: "root@example.com", Password: "password1", AdminSecret: "admin-secret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.User.IsAdmin)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "ada@example.com", notifier.sent[0].Recipient)
	assert.Equal(t, VerificationSubject, notifier.sent[0].Subject)
	assert.NotEqual(t, "password1", student.User.PasswordHash)
}

func TestRegisterRejectsWrongAdminSecret(t *testing.T) {
	svc, notifier := newTestService(t)

	_, err := svc.Register(context.Background(), RegisterInput{Username: "x", Email: "", Password: "", AdminSecret: "guess"})
	assert.ErrorIs(t, err, ErrInvalidAdminSecret)
	assert.Empty(t, notifier.sent)
	assert.Zero(t, countUsers(t, svc.DB))
}

func TestRegisterAdminDisabledWithoutConfiguredSecret(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Cfg.AdminSecret = ""

	_, err := svc.Register(context.Background(), RegisterInput{Username: "ada", Email: "ada@example.com", Password: "pw", AdminSecret: "anything"})
	assert.ErrorIs(t, err, ErrInvalidAdminSecret)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "ada2", Email: "ADA@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Equal(t, int64(1), countUsers(t, svc.DB))
}

func TestRegisterRollsBackWhenMailFails(t *testing.T) {
	svc, notifier := newTestService(t)
	notifier.err = errors.New("relay down")

	_, err := svc.Register(context.Background(), RegisterInput{Username: "ada", Email: "ada@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrNotificationFailed)
	assert.Zero(t, countUsers(t, svc.DB))
}

func TestVerifyFlow(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	code := notifier.lastCode(t)

	_, err = svc.Verify(ctx, "nobody@example.com", code)
	assert.ErrorIs(t, err, ErrUserNotFound)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	_, err = svc.Verify(ctx, "ada@example.com", wrong)
	assert.ErrorIs(t, err, ErrInvalidVerificationCode)

	already, err := svc.Verify(ctx, "ada@example.com", code)
	require.NoError(t, err)
	assert.False(t, already)

	var user models.User
	require.NoError(t, svc.DB.Where("email = ?", "ada@example.com").First(&user).Error)
	assert.True(t, user.IsVerified)
	assert.Nil(t, user.VerificationCode)

	already, err = svc.Verify(ctx, "ada@example.com", "whatever")
	require.NoError(t, err)
	assert.True(t, already)

	already, err = svc.Verify(ctx, "ada@example.com", "")
	require.NoError(t, err)
	assert.True(t, already)
}

func TestLoginFlow(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "ada", Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "missing@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ada@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrAccountNotVerified)

	_, err = svc.Verify(ctx, "ada@example.com", notifier.lastCode(t))
	require.NoError(t, err)

	result, err := svc.Login(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.RoleStudent, result.Role)

	userID, err := utils.ParseJWTToken(result.Token, svc.Cfg)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
}
