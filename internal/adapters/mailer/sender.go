// internal/adapters/mailer/sender.go
package mailer

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"yacht_automate/internal/adapters/observability"
	"yacht_automate/internal/shared"
)

type Message struct {
	FromName  string
	FromEmail string
	To        string
	Subject   string
	HTML      string
}

type Sender interface {
	// Send delivers msg. delivered is false when the message was only logged.
	Send(ctx context.Context, msg Message) (delivered bool, err error)
}

type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
}

func (c SMTPConfig) Configured() bool { return c.Host != "" && c.User != "" && c.Pass != "" }

func (c SMTPConfig) withDefaults() SMTPConfig {
	if c.Port == 0 {
		c.Port = 587
	}
	return c
}

// SMTPSender delivers over SMTP with PLAIN auth, rate limited per sender.
type SMTPSender struct {
	cfg  SMTPConfig
	rl   *rate.Limiter
	dial func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg SMTPConfig, perSecond int) *SMTPSender {
	cfg = cfg.withDefaults()
	if perSecond <= 0 {
		perSecond = 2
	}
	return &SMTPSender{
		cfg:  cfg,
		rl:   rate.NewLimiter(rate.Limit(perSecond), perSecond),
		dial: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (bool, error) {
	if err := s.rl.Wait(ctx); err != nil {
		return false, err
	}
	from := msg.FromEmail
	if from == "" {
		from = s.cfg.User
	}
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)

	start := time.Now()
	errc := make(chan error, 1)
	go func() { errc <- s.dial(addr, auth, from, []string{msg.To}, buildMIME(from, msg)) }()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-errc:
	}
	status := 250
	if err != nil {
		status = 554
	}
	observability.ObserveExternal("smtp", s.cfg.Host, status, time.Since(start))
	if err != nil {
		return false, fmt.Errorf("smtp send to %s: %w", shared.RedactEmail(msg.To), err)
	}
	return true, nil
}

func buildMIME(from string, msg Message) []byte {
	name := msg.FromName
	if name == "" {
		name = "Yacht Charter"
	}
	sender := mail.Address{Name: headerText(name), Address: headerText(from)}
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", sender.String())
	fmt.Fprintf(&b, "To: %s\r\n", headerText(msg.To))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerText(msg.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

// headerText folds control characters (CR, LF, tabs) into single spaces so a
// value always stays on its own header line.
func headerText(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// LogSender stands in for SMTP when a tenant has none configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) (bool, error) {
	log.Info().
		Str("from", msg.FromName).
		Str("to", shared.RedactEmail(msg.To)).
		Str("subject", msg.Subject).
		Int("body_bytes", len(msg.HTML)).
		Msg("no SMTP configured, e-mail logged instead of sent")
	return false, nil
}

var ErrNoRecipient = errors.New("mailer: alert recipient not configured")

// AlertMailer sends operator alerts through system SMTP; it satisfies observability.Alerter.
type AlertMailer struct {
	Sender Sender
	To     string
	Env    string
}

func (a AlertMailer) Alert(ctx context.Context, msg string) error {
	if a.To == "" {
		return ErrNoRecipient
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := a.Sender.Send(ctx, Message{
		FromName: "Yacht Automate Alert",
		To:       a.To,
		Subject:  "Yacht Automate System Alert",
		HTML: "<h2>System Alert</h2><p><strong>Message:</strong> " + template.HTMLEscapeString(msg) +
			"</p><p><strong>Time:</strong> " + now + "</p><p><strong>Environment:</strong> " + template.HTMLEscapeString(a.Env) + "</p>",
	})
	log.Error().Str("alert", msg).Msg("system alert")
	return err
}
