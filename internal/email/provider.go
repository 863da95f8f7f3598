package email

import "context"

// Provider отправляет письма
type Provider interface {
	Send(ctx context.Context, email *Email) error

	// Validate проверяет конфигурацию провайдера
	Validate() error

	Close() error
}

// TemplateRenderer - все, что нужно уведомлениям от шаблонов
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
