package notify

import (
	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"gedops/internal/config"
	"gedops/logger"
)

type (
	// Mailer delivers operator notifications. Delivery failures are
	// logged, never propagated: a missed email must not fail a backup.
	Mailer interface {
		Send(subject, body string)
	}

	smtpMailer struct {
		cfg config.Config
	}
)

// NewMailer returns nil when notifications are disabled; callers treat a
// nil Mailer as "do not notify".
func NewMailer(cfg config.Config) Mailer {
	if !cfg.SendBackupNotifications {
		return nil
	}
	return &smtpMailer{cfg: cfg}
}

func (m smtpMailer) Send(subject, body string) {
	if err := m.send(subject, body); err != nil {
		logger.Error("failed to send notification",
			zap.String("subject", subject),
			zap.Error(err))
		return
	}
	logger.Info("notification sent",
		zap.String("to", m.cfg.BackupNotificationEmail),
		zap.String("subject", subject))
}

func (m smtpMailer) send(subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.SMTPFrom); err != nil {
		return errors.Wrap(err, "invalid sender address")
	}
	if err := msg.To(m.cfg.BackupNotificationEmail); err != nil {
		return errors.Wrap(err, "invalid recipient address")
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{mail.WithPort(m.cfg.SMTPPort)}
	if m.cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.SMTPUser),
			mail.WithPassword(m.cfg.SMTPPassword))
	}

	client, err := mail.NewClient(m.cfg.SMTPHost, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to build SMTP client")
	}
	return client.DialAndSend(msg)
}
