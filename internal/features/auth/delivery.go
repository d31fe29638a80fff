package auth

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/xyz-asif/civic-connect/internal/pkg/logger"
)

// Sender delivers a code to its target. Delivery is best effort.
type Sender interface {
	Send(ctx context.Context, target, code string, ttl time.Duration) error
}

// LogSender writes a masked delivery line instead of sending anything
type LogSender struct {
	Log *logger.Logger
}

func (s LogSender) Send(_ context.Context, target, code string, ttl time.Duration) error {
	l := s.Log
	if l == nil {
		l = logger.Default()
	}
	l.Info("no delivery channel configured; code for %s issued, valid %s", target, ttl)
	return nil
}

// SMTPSender emails the code through a plain SMTP relay
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	if from == "" {
		from = user
	}
	return &SMTPSender{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		auth: auth,
		from: from,
	}
}

func (s *SMTPSender) Send(ctx context.Context, target, code string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := verificationEmail(s.from, target, code, ttl)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{target}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", target, err)
	}
	return nil
}

func verificationEmail(from, to, code string, ttl time.Duration) string {
	minutes := int(ttl.Minutes())
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Your Civic Connect verification code\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	fmt.Fprintf(&b, "Your verification code is %s. It expires in %d minutes.\r\n", code, minutes)
	return b.String()
}
