package email

// Message - одно письмо. From пустой - берется отправитель из SMTPConfig.
type Message struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData - данные для шаблона письма
type TemplateData map[string]interface{}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// Provider отправляет уведомления пользователям
type Provider interface {
	Send(msg *Message) error
	// SendTemplate рендерит шаблон и отправляет письмо
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error
	Validate() error
	Close() error
}

type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
	// LoadTemplates загружает *.html из директории, имя файла - имя шаблона
	LoadTemplates(dirPath string) error
}
