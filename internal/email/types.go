package email

// Email - одно уведомление одному или нескольким получателям.
// Вложения модулю не нужны: письма о статусе отклика только текстовые.
type Email struct {
	From     string
	To       []string
	ReplyTo  string
	Subject  string
	Body     string
	HTMLBody string
}

type TemplateData map[string]interface{}
