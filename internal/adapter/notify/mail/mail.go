package mail

import (
	"context"
	"fmt"
	"io"

	"github.com/MikeRez0/trucksy/internal/adapter/config"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"go.uber.org/zap"
	gomail "gopkg.in/mail.v2"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	from   string
	dialer sender
	logger *zap.Logger
}

var _ port.Mailer = (*Mailer)(nil)

// NewMailer returns a mailer over SMTP. Without a host mails are logged and dropped.
func NewMailer(cfg *config.Mail, logger *zap.Logger) *Mailer {
	m := &Mailer{from: cfg.From, logger: logger}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

func (m *Mailer) Send(ctx context.Context, mail *port.Mail) error {
	if mail.To == "" {
		return fmt.Errorf("mail %q has no recipient", mail.Subject)
	}
	if m.dialer == nil {
		m.logger.Debug("smtp disabled, mail dropped",
			zap.String("to", mail.To), zap.String("subject", mail.Subject))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(m.message(mail)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", mail.To, err)
	}
	return nil
}

func (m *Mailer) message(mail *port.Mail) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", mail.HTML)

	for _, a := range mail.Attachments {
		data := a.Data
		msg.Attach(a.Filename,
			gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}
	return msg
}
