package email

import (
	"context"
	"strings"

	"jobh_backend/internal/logger"
)

// LogProvider только пишет письмо в лог; используется, когда SMTP выключен
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	logger.CtxInfo(ctx, "email delivery disabled, message logged",
		"to", strings.Join(email.To, ","),
		"subject", email.Subject,
	)
	return nil
}

func (p *LogProvider) Validate() error { return nil }

func (p *LogProvider) Close() error { return nil }
