package email

import "jobh_backend/internal/config"

const defaultSMTPPort = 587

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// ConfigFrom берет SMTP-настройки из секции email; порт по умолчанию 587
func ConfigFrom(cfg *config.Config) *SMTPConfig {
	port := cfg.Email.SMTPPort
	if port == 0 {
		port = defaultSMTPPort
	}
	return &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      port,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
	}
}
