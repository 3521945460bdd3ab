package alert

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/soundprediction/verity/pkg/config"
)

// Alerter defines an interface for sending alerts
type Alerter interface {
	Alert(subject, message string) error
}

// New returns the alerter described by cfg. Disabled alerting or an alert
// config without an SMTP host falls back to logging.
func New(cfg config.AlertConfig, logger *slog.Logger) Alerter {
	if cfg.Enabled && cfg.SMTPHost != "" && len(cfg.To) > 0 {
		return NewEmailAlerter(cfg)
	}
	return NewLogAlerter(logger)
}

// EmailAlerter implements Alerter using SMTP
type EmailAlerter struct {
	cfg  config.AlertConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailAlerter creates a new email alerter
func NewEmailAlerter(cfg config.AlertConfig) *EmailAlerter {
	return &EmailAlerter{
		cfg:  cfg,
		send: smtp.SendMail,
	}
}

// Alert sends an email with the given subject and message
func (a *EmailAlerter) Alert(subject, message string) error {
	if !a.cfg.Enabled {
		return nil
	}

	var auth smtp.Auth
	if a.cfg.Username != "" {
		auth = smtp.PlainAuth("", a.cfg.Username, a.cfg.Password, a.cfg.SMTPHost)
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.SMTPHost, a.cfg.SMTPPort)
	if err := a.send(addr, auth, a.cfg.From, a.cfg.To, buildMessage(a.cfg.To, subject, message)); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	return nil
}

func buildMessage(to []string, subject, body string) []byte {
	return []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: [verity] %s\r\n"+
		"\r\n"+
		"%s\r\n", strings.Join(to, ","), subject, body))
}

// LogAlerter writes alerts to the structured log.
type LogAlerter struct {
	logger *slog.Logger
}

func NewLogAlerter(logger *slog.Logger) *LogAlerter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogAlerter{logger: logger}
}

func (l *LogAlerter) Alert(subject, message string) error {
	l.logger.Error("alert", "subject", subject, "message", message)
	return nil
}

// NoOpAlerter is a dummy alerter for when alerting is disabled
type NoOpAlerter struct{}

func (n *NoOpAlerter) Alert(subject, message string) error {
	return nil
}
