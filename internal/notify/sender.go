package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. It is
// the default when no SMTP server is configured.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger.Named("mail")}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email suppressed, no SMTP configured",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// SMTPSender delivers messages through a plain SMTP relay.
type SMTPSender struct {
	addr string
	from string
}

func NewSMTPSender(addr, from string) (*SMTPSender, error) {
	if addr == "" {
		return nil, fmt.Errorf("smtp address must not be empty")
	}
	if from == "" {
		return nil, fmt.Errorf("smtp sender address must not be empty")
	}
	return &SMTPSender{addr: addr, from: from}, nil
}

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(s.addr, nil, s.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}
