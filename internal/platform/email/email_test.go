package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hrdash/internal/platform/config"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	m := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.example.com"})
	_, ok := m.(noopMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), "a@example.com", "s", "b"))
}

var sentAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func TestBuildMessageStripsHeaderInjection(t *testing.T) {
	msg := string(buildMessage("hr@example.com", "a@example.com", "Payroll\r\nBcc: x@evil", "body", sentAt))
	assert.True(t, strings.HasPrefix(msg, "From: hr@example.com\r\n"))
	assert.Contains(t, msg, "Subject: Payroll  Bcc: x@evil\r\n")
	assert.Contains(t, msg, "Date: Sun, 01 Mar 2026 09:30:00 +0000\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nbody"))
}

func TestBuildMessageEncodesNonASCIISubjectAndNormalisesLines(t *testing.T) {
	msg := string(buildMessage("hr@example.com", "a@example.com", "راتب مارس", "line one\nline two", sentAt))
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.True(t, strings.HasSuffix(msg, "line one\r\nline two"))
}

func TestSendRejectsMalformedRecipient(t *testing.T) {
	m := New(config.Config{EmailEnabled: true, SMTPHost: "127.0.0.1", SMTPPort: 1})
	err := m.Send(context.Background(), "not an address", "s", "b")
	assert.ErrorContains(t, err, "recipient")
}
