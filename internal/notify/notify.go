// Package notify mails a short change summary after a scrape. Sending is
// opportunistic, a run without smtp settings skips it and so does a run
// where nothing newsworthy happened.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"lunchwatch/internal/diff"
	"net/smtp"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"
)

// Config holds the smtp settings, all read from the environment. To takes a
// comma separated list of recipients.
type Config struct {
	Server   string   `env:"LUNCHWATCH_SMTP_HOST"`
	Port     int      `env:"LUNCHWATCH_SMTP_PORT" envDefault:"587"`
	From     string   `env:"LUNCHWATCH_SMTP_FROM"`
	Password string   `env:"LUNCHWATCH_SMTP_PASSWORD"`
	To       []string `env:"LUNCHWATCH_NOTIFY_TO"`
}

// LoadConfigFromEnv reads the smtp settings, consulting a .env file in the
// working directory when one exists.
func LoadConfigFromEnv() Config {
	_ = godotenv.Load()

	var cfg Config
	_ = env.Parse(&cfg)
	return cfg
}

// Enabled reports whether enough settings are present to send anything.
func (c Config) Enabled() bool {
	return c.Server != "" && c.From != "" && len(c.To) > 0
}

// Message is a rendered notification.
type Message struct {
	Subject string
	Body    string
}

// Compose renders the change summary for one run. It reports false when
// nothing newsworthy happened, which includes the very first capture where
// every dish counts as new.
func Compose(weekLabel string, menuDiff diff.MenuDiff, priceDiff diff.PriceDiff) (Message, bool) {
	if !menuDiff.HasBaseline {
		return Message{}, false
	}

	var priceLines []string
	for _, change := range priceDiff.Changes {
		if !change.HasBaseline || change.Delta == 0 {
			continue
		}
		symbol := "↑"
		if change.Delta < 0 {
			symbol = "↓"
		}
		priceLines = append(priceLines, fmt.Sprintf("  %s %s: %d → %d kr",
			symbol, change.Category, change.Previous, change.Current))
	}

	if len(menuDiff.New) == 0 && len(menuDiff.Removed) == 0 && len(priceLines) == 0 {
		return Message{}, false
	}

	var body strings.Builder
	if weekLabel != "" {
		body.WriteString(weekLabel + "\n")
	}
	if len(menuDiff.New) > 0 {
		body.WriteString("\nNya rätter:\n")
		for _, dish := range menuDiff.New {
			body.WriteString("  + " + dish + "\n")
		}
	}
	if len(menuDiff.Removed) > 0 {
		body.WriteString("\nBorttagna rätter:\n")
		for _, dish := range menuDiff.Removed {
			body.WriteString("  - " + dish + "\n")
		}
	}
	if len(priceLines) > 0 {
		body.WriteString("\nPrisändringar:\n")
		for _, line := range priceLines {
			body.WriteString(line + "\n")
		}
	}

	subject := "Kajen Gävle: menyn har ändrats"
	if weekLabel != "" {
		subject = fmt.Sprintf("Kajen Gävle %s: menyn har ändrats", weekLabel)
	}
	return Message{Subject: subject, Body: body.String()}, true
}

// Send mails msg to every configured recipient.
func Send(ctx context.Context, cfg Config, msg Message) error {
	ctx, span := tracer.Start(ctx, "Send")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Lunchwatch <%s>", cfg.From)
	mail.To = cfg.To
	mail.Subject = msg.Subject
	mail.Text = []byte(msg.Body)

	addr := fmt.Sprintf("%s:%d", cfg.Server, cfg.Port)
	err := mail.Send(addr, smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return fmt.Errorf("send notification: %w", err)
	}

	slog.InfoContext(ctx, "notification sent", "to", cfg.To, "subject", msg.Subject)
	return nil
}
