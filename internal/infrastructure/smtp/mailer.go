package smtp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-access-gate/internal/config"
	"github.com/wneessen/go-mail"
)

// Mailer sends emails.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type mailer struct {
	host string
	from string
	opts []mail.Option
}

// NewMailer builds a go-mail backed Mailer. A new client is dialed for every
// message, so one Mailer can be shared by concurrent callers.
func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host: cfg.SMTPHost,
		from: cfg.SMTPFrom,
		opts: clientOptions(cfg),
	}
}

func clientOptions(cfg *config.Config) []mail.Option {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTimeout(cfg.CollaboratorTimeout),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	switch cfg.SMTPTLS {
	case "ssl":
		opts = append(opts, mail.WithSSL())
	case "starttls":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	return opts
}

func (m *mailer) SendEmail(ctx context.Context, to, subject, body string) error {
	msg, err := buildMessage(m.from, to, subject, body)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(m.host, m.opts...)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	slog.Info("email sent", "to", to, "host", m.host)
	return nil
}

func buildMessage(from, to, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}
