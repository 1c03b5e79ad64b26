package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"projecttracker/backend/config"
	"projecttracker/backend/routes"
	"projecttracker/backend/utils"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mailbox struct {
	mu     sync.Mutex
	bodies map[string]string
	err    error
}

func (m *mailbox) Send(ctx context.Context, recipient, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.bodies[recipient] = body
	return nil
}

var codePattern = regexp.MustCompile(`\d{6}`)

func (m *mailbox) code(t *testing.T, recipient string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	code := codePattern.FindString(m.bodies[recipient])
	require.NotEmpty(t, code, "no verification code mailed to %s", recipient)
	return code
}

type testEnv struct {
	app  *fiber.App
	db   *gorm.DB
	mail *mailbox
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := utils.OpenDB("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:       "testsecret",
		JWTExpiresHours: 1,
		AdminSecret:     "admin-secret",
		SecretKey:       "cookie-secret",
		AllowOrigins:    "*",
	}
	mail := &mailbox{bodies: map[string]string{}}
	logger := zerolog.Nop()

	app := routes.NewApp(cfg, logger)
	routes.SetupRoutes(app, db, cfg, logger, mail)

	return &testEnv{app: app, db: db, mail: mail}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers ...string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var out map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func (e *testEnv) list(t *testing.T, path string) []interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out []interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (e *testEnv) register(t *testing.T, email, secret string) (*http.Response, map[string]interface{}) {
	t.Helper()
	body := map[string]interface{}{
		"username": "student",
		"email":    email,
		"password": "password123",
	}
	if secret != "" {
		body["adminSecret"] = secret
	}
	return e.do(t, http.MethodPost, "/register", body)
}

func (e *testEnv) createCohort(t *testing.T, name string) float64 {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/cohorts", map[string]interface{}{
		"name":               name,
		"description":        "desc",
		"start_date":         "2024-01-01",
		"end_date":           "2024-06-01",
		"number_of_students": 20,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	return body["id"].(float64)
}

func (e *testEnv) createProject(t *testing.T, name string) float64 {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/projects", map[string]interface{}{
		"name":        name,
		"description": "A project long enough to describe",
		"github_url":  "https://github.com/example/tracker",
		"type":        "web",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	return body["id"].(float64)
}

func (e *testEnv) createMember(t *testing.T, projectID, cohortID float64) float64 {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/project_members", map[string]interface{}{
		"project_id":   projectID,
		"cohort_id":    cohortID,
		"student_name": "Alice",
		"role":         "Developer",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	return body["id"].(float64)
}

func TestHome(t *testing.T) {
	env := setup(t)

	resp, body := env.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["message"])
}
