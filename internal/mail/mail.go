package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strings"
	"time"

	"go-payroll/internal/notification"
	"go-payroll/internal/shared/config"

	"go.uber.org/zap"
)

const (
	dialTimeout = 10 * time.Second
	// sendTimeout bounds one whole SMTP conversation, dial excluded.
	sendTimeout = 30 * time.Second
)

type noopMailer struct {
	logger *zap.Logger
}

func (m noopMailer) Send(ctx context.Context, msg notification.Message) error {
	m.logger.Info("email disabled, message dropped",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("template", msg.TemplateID),
	)
	return nil
}

type smtpMailer struct {
	cfg       config.MailConfig
	templates *Templates
	timeout   time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// New returns an SMTP mailer, or a mailer that only logs when email is
// disabled or no SMTP host is configured.
func New(cfg config.MailConfig, logger ...*zap.Logger) notification.Mailer {
	l := zap.L().Named("mail")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mail")
	}
	if !cfg.Enabled || cfg.SMTPHost == "" {
		return noopMailer{logger: l}
	}
	return &smtpMailer{
		cfg:       cfg,
		templates: DefaultTemplates(),
		timeout:   sendTimeout,
		now:       time.Now,
		logger:    l,
	}
}

// Send renders the template body and hands it to the SMTP server. Only
// transport failures are returned as *notification.DeliveryError.
func (s *smtpMailer) Send(ctx context.Context, msg notification.Message) error {
	body, err := s.templates.Render(msg.TemplateID, msg.Variables)
	if err != nil {
		return err
	}

	raw := buildMessage(s.cfg.From, msg.To, msg.RecipientName, msg.Subject, body, s.now())
	if err := s.deliver(ctx, msg.To, raw); err != nil {
		return &notification.DeliveryError{Err: err}
	}

	s.logger.Debug("email delivered", zap.String("to", msg.To), zap.String("template", msg.TemplateID))
	return nil
}

func (s *smtpMailer) deliver(ctx context.Context, to string, raw []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	deadline := s.now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.cfg.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.SMTPHost}); err != nil {
			return err
		}
	}

	if s.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, recipientName, subject, body string, date time.Time) []byte {
	toHeader := to
	if name := strings.TrimSpace(recipientName); name != "" {
		toHeader = (&netmail.Address{Name: name, Address: to}).String()
	}
	headers := []string{
		fmt.Sprintf("From: %s", from),
		fmt.Sprintf("To: %s", toHeader),
		fmt.Sprintf("Subject: %s", mime.QEncoding.Encode("utf-8", subject)),
		fmt.Sprintf("Date: %s", date.Format(time.RFC1123Z)),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n" + body)
}
