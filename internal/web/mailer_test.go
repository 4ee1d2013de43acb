package web

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveen44/portfolio/internal/config"
)

func TestContactMessage_Validate(t *testing.T) {
	tests := []struct {
		name string
		msg  ContactMessage
		want error
	}{
		{"ok", ContactMessage{"Ada", "ada@example.com", "hi"}, nil},
		{"empty name", ContactMessage{"", "ada@example.com", "hi"}, errMissingField},
		{"empty message", ContactMessage{"Ada", "ada@example.com", ""}, errMissingField},
		{"newline in name", ContactMessage{"Ada\r\nBcc: x@example.com", "ada@example.com", "hi"}, errNameNewline},
		{"not an address", ContactMessage{"Ada", "ada", "hi"}, errBadEmail},
		{"display name", ContactMessage{"Ada", "Ada <ada@example.com>", "hi"}, errBadEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewSMTPMailer_DisabledWithoutCredentials(t *testing.T) {
	assert.Nil(t, NewSMTPMailer(config.SMTPConfig{Host: "smtp.example.com", Port: "587"}, nil))
}

func TestSMTPMailer_Send(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{
		Host: "smtp.example.com",
		Port: "587",
		User: "site@example.com",
		Pass: "pw",
	}, nil)
	require.NotNil(t, m)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, m.Send(ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "Hello"}))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "site@example.com", gotFrom)
	assert.Equal(t, []string{"site@example.com"}, gotTo, "recipient defaults to the SMTP user")

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Portfolio Contact: Ada\r\n")
	assert.Contains(t, body, "Reply-To: ada@example.com\r\n")
	assert.Contains(t, body, "Message:\nHello\n")
}

func TestSMTPMailer_SendError(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "h", Port: "25", User: "u", Pass: "p", To: "me@example.com"}, nil)
	require.NotNil(t, m)
	relayErr := errors.New("relay down")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return relayErr }

	err := m.Send(ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "Hello"})
	assert.ErrorIs(t, err, relayErr)
}
