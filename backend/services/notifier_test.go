package services

import (
	"bytes"
	"context"
	"projecttracker/backend/config"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotifierFallsBackToLog(t *testing.T) {
	n := NewNotifier(config.MailConfig{}, zerolog.Nop())
	_, ok := n.(*LogNotifier)
	assert.True(t, ok)

	n = NewNotifier(config.MailConfig{Server: "smtp.example.com", Port: 587}, zerolog.Nop())
	_, ok = n.(*SMTPNotifier)
	assert.True(t, ok)
}

func TestNewSMTPNotifier(t *testing.T) {
	n := NewSMTPNotifier(config.MailConfig{
		Server:        "smtp.example.com",
		Port:          465,
		Username:      "user",
		Password:      "pass",
		UseSSL:        true,
		DefaultSender: "tracker@example.com",
	})

	assert.Equal(t, "smtp.example.com", n.Dialer.Host)
	assert.Equal(t, 465, n.Dialer.Port)
	assert.True(t, n.Dialer.SSL)
	require.NotNil(t, n.Dialer.TLSConfig)
	assert.Equal(t, "smtp.example.com", n.Dialer.TLSConfig.ServerName)
	assert.Equal(t, "tracker@example.com", n.From)
}

func TestSMTPNotifierHonoursCancelledContext(t *testing.T) {
	n := NewSMTPNotifier(config.MailConfig{Server: "127.0.0.1", Port: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Send(ctx, "ada@example.com", "subject", "body")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLogNotifierWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	n := &LogNotifier{Logger: zerolog.New(&buf)}

	err := n.Send(context.Background(), "ada@example.com", VerificationSubject, "Your verification code is: 123456")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ada@example.com")
	assert.Contains(t, buf.String(), "123456")
}
