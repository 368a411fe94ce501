package app

import (
	"proconnect_backend/internal/email"
	"proconnect_backend/internal/logger"
)

// LogEmailProvider используется, когда отправка почты выключена:
// письма рендерятся и пишутся в лог вместо SMTP.
type LogEmailProvider struct {
	renderer email.TemplateRenderer
}

func NewLogEmailProvider(renderer email.TemplateRenderer) *LogEmailProvider {
	return &LogEmailProvider{renderer: renderer}
}

func (m *LogEmailProvider) Send(msg *email.Message) error {
	logger.Info("Email delivery disabled, message logged",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}

func (m *LogEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	body, err := m.renderer.Render(templateName, data)
	if err != nil {
		return err
	}
	return m.Send(&email.Message{To: to, Subject: subject, HTMLBody: body})
}

func (m *LogEmailProvider) Validate() error { return nil }
func (m *LogEmailProvider) Close() error    { return nil }
