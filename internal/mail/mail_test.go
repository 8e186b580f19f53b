package mail

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"go-payroll/internal/notification"
	"go-payroll/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sentAt = time.Date(2026, 3, 31, 9, 30, 0, 0, time.UTC)

func TestBuildMessage(t *testing.T) {
	raw := string(buildMessage("payroll@acme.test", "ada@example.com", "Ada Lovelace", "Salary Payment Notification", "<p>hi</p>", sentAt))

	assert.True(t, strings.HasPrefix(raw, "From: payroll@acme.test\r\n"))
	assert.Contains(t, raw, "To: \"Ada Lovelace\" <ada@example.com>\r\n")
	assert.Contains(t, raw, "Subject: Salary Payment Notification\r\n")
	assert.Contains(t, raw, "Date: Tue, 31 Mar 2026 09:30:00 +0000\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=\"UTF-8\"\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>hi</p>"))
}

func TestBuildMessage_NoRecipientName(t *testing.T) {
	raw := string(buildMessage("payroll@acme.test", "ada@example.com", " ", "s", "b", sentAt))
	assert.Contains(t, raw, "To: ada@example.com\r\n")
}

func TestBuildMessage_RecipientNameEncoding(t *testing.T) {
	t.Run("quotes are escaped", func(t *testing.T) {
		raw := string(buildMessage("payroll@acme.test", "ada@example.com", `Ada "The Countess" Lovelace`, "s", "b", sentAt))
		assert.Contains(t, raw, `To: "Ada \"The Countess\" Lovelace" <ada@example.com>`+"\r\n")
	})

	t.Run("non-ascii names are encoded words", func(t *testing.T) {
		raw := string(buildMessage("payroll@acme.test", "jose@example.com", "José Müller", "s", "b", sentAt))
		assert.Contains(t, raw, "To: =?utf-8?q?Jos=C3=A9_M=C3=BCller?= <jose@example.com>\r\n")
	})
}

func TestTemplates_RenderSalaryPayment(t *testing.T) {
	body, err := DefaultTemplates().Render(notification.TemplateSalaryPayment, map[string]any{
		"firstName":        "Ada",
		"messageContent":   "Your salary has been approved <b>today</b>.",
		"month":            "March",
		"year":             "2026",
		"amount":           "410000.00",
		"notificationDate": "2026-03-31",
		"institution":      "Acme Payroll",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Dear Ada,")
	assert.Contains(t, body, "March 2026")
	assert.Contains(t, body, "410000.00")
	assert.Contains(t, body, "Acme Payroll")
	assert.Contains(t, body, "&lt;b&gt;today&lt;/b&gt;")
}

func TestTemplates_UnknownTemplate(t *testing.T) {
	_, err := DefaultTemplates().Render("NOPE", nil)
	assert.EqualError(t, err, `unknown email template "NOPE"`)
}

func TestNew_DisabledReturnsNoop(t *testing.T) {
	m := New(config.MailConfig{Enabled: false, SMTPHost: "smtp.acme.test"})
	_, ok := m.(noopMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), notification.Message{To: "ada@example.com"}))
}

func TestSMTPMailer_DialFailureIsDeliveryError(t *testing.T) {
	m := New(config.MailConfig{
		Enabled:  true,
		From:     "payroll@acme.test",
		SMTPHost: "127.0.0.1",
		SMTPPort: 1,
	})

	err := m.Send(context.Background(), notification.Message{
		To:         "ada@example.com",
		Subject:    notification.SubjectSalaryPayment,
		TemplateID: notification.TemplateSalaryPayment,
		Variables:  map[string]any{"firstName": "Ada"},
	})

	var deliveryErr *notification.DeliveryError
	assert.True(t, errors.As(err, &deliveryErr))
}

func TestSMTPMailer_UnknownTemplateIsNotDeliveryError(t *testing.T) {
	m := New(config.MailConfig{Enabled: true, From: "payroll@acme.test", SMTPHost: "127.0.0.1", SMTPPort: 1})

	err := m.Send(context.Background(), notification.Message{To: "ada@example.com", TemplateID: "NOPE"})

	var deliveryErr *notification.DeliveryError
	require.Error(t, err)
	assert.False(t, errors.As(err, &deliveryErr))
}

func TestSMTPMailer_StalledServerHitsDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()
	defer func() {
		select {
		case conn := <-accepted:
			conn.Close()
		default:
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	m := New(config.MailConfig{
		Enabled:  true,
		From:     "payroll@acme.test",
		SMTPHost: "127.0.0.1",
		SMTPPort: addr.Port,
	}).(*smtpMailer)
	m.timeout = 100 * time.Millisecond

	start := time.Now()
	err = m.Send(context.Background(), notification.Message{
		To:         "ada@example.com",
		Subject:    notification.SubjectSalaryPayment,
		TemplateID: notification.TemplateSalaryPayment,
		Variables:  map[string]any{"firstName": "Ada"},
	})

	var deliveryErr *notification.DeliveryError
	assert.True(t, errors.As(err, &deliveryErr))
	assert.Less(t, time.Since(start), 5*time.Second)
}
