package email

import (
	"log/slog"
	"time"

	"github.com/inbucket/html2text"
	mail "github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

const sendTimeout = 15 * time.Second

// Mailer delivers notification mail on a best effort basis. Send never
// reports failure to the caller: when SMTP is not configured or delivery
// fails, the full message is written to the log so operators can recover
// manually.
type Mailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		logger: slog.With("component", "mailer"),
	}
}

// Send delivers one message per recipient list. The text alternative part is
// derived from the HTML body.
func (m *Mailer) Send(to []string, subject string, html string) {
	if len(to) == 0 {
		return
	}

	if m.cfg.Host == "" {
		m.logger.Info("SMTP not configured, printing mail instead",
			"to", to, "subject", subject, "body", html)
		return
	}

	msg, err := m.buildMessage(to, subject, html)
	if err != nil {
		m.fallback(to, subject, html, err)
		return
	}

	client, err := m.newClient()
	if err != nil {
		m.fallback(to, subject, html, err)
		return
	}

	if err := client.DialAndSend(msg); err != nil {
		m.fallback(to, subject, html, err)
		return
	}

	m.logger.Info("Sent mail", "to", to, "subject", subject)
}

func (m *Mailer) buildMessage(to []string, subject string, html string) (*mail.Msg, error) {
	text, err := htmlToText(html)
	if err != nil {
		text = ""
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(to...); err != nil {
		return nil, err
	}
	msg.Subject(subject)

	if text != "" {
		msg.SetBodyString(mail.TypeTextPlain, text)
		msg.AddAlternativeString(mail.TypeTextHTML, html)
	} else {
		msg.SetBodyString(mail.TypeTextHTML, html)
	}

	return msg, nil
}

func (m *Mailer) newClient() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(sendTimeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

// fallback writes the undeliverable message to the log. Lost notifications
// must never be silent.
func (m *Mailer) fallback(to []string, subject string, html string, err error) {
	m.logger.Error("Failed to send mail, printing instead",
		"error", err, "to", to, "subject", subject, "body", html)
}

// htmlToText converts HTML to plain text
func htmlToText(htmlContent string) (string, error) {
	text, err := html2text.FromString(htmlContent, html2text.Options{
		PrettyTables: true,
		OmitLinks:    false,
	})
	if err != nil {
		slog.Error("failed to convert HTML to text", "error", err)
		return "", err
	}
	return text, nil
}
