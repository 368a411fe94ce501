package email

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_DefaultTemplates(t *testing.T) {
	tm := NewTemplateManager()

	body, err := tm.Render(TemplateAccountDecision, TemplateData{"Name": "Ada", "Status": "approved"})
	require.NoError(t, err)
	assert.Contains(t, body, "Hello Ada")
	assert.Contains(t, body, "has been approved")

	body, err = tm.Render(TemplateOpportunityDecision, TemplateData{
		"Name":   "Ada",
		"Title":  "<b>Go developer</b>",
		"Status": "rejected",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "&lt;b&gt;Go developer&lt;/b&gt;")
	assert.NotContains(t, body, "public listing")

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)

	assert.ElementsMatch(t, []string{
		TemplateAccountDecision, TemplateOpportunityDecision, TemplateMembershipDecision,
	}, tm.TemplateNames())
}

func TestTemplateManager_LoadTemplatesOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TemplateMembershipDecision+".html"), []byte("custom {{.Tier}}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	tm := NewTemplateManager()
	require.NoError(t, tm.LoadTemplates(dir))

	body, err := tm.Render(TemplateMembershipDecision, TemplateData{"Tier": "Gold"})
	require.NoError(t, err)
	assert.Equal(t, "custom Gold", body)
	assert.Len(t, tm.TemplateNames(), 3)
}

func TestSMTPProvider_Validate(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "no-reply@example.com"}, nil)
	assert.NoError(t, p.Validate())

	assert.Error(t, NewSMTPProvider(&SMTPConfig{Port: 587, FromEmail: "a@example.com"}, nil).Validate())
	assert.Error(t, NewSMTPProvider(&SMTPConfig{Host: "h", Port: 0, FromEmail: "a@example.com"}, nil).Validate())
	assert.Error(t, NewSMTPProvider(&SMTPConfig{Host: "h", Port: 25}, nil).Validate())

	err := p.Send(&Message{Subject: "no recipients"})
	assert.Error(t, err)

	err = p.SendTemplate([]string{"a@example.com"}, "subject", TemplateAccountDecision, nil)
	assert.Error(t, err, "provider without renderer cannot send templates")
}

func TestSMTPProvider_BuildMessage(t *testing.T) {
	p := NewSMTPProvider(&SMTPConfig{
		Host:      "smtp.example.com",
		Port:      587,
		FromEmail: "no-reply@example.com",
		FromName:  "ProConnect",
	}, NewTemplateManager())

	m := p.buildMessage(&Message{
		To:       []string{"ada@example.com"},
		Subject:  "Your account",
		Body:     "plain",
		HTMLBody: "<p>html</p>",
	})

	assert.Equal(t, []string{`"ProConnect" <no-reply@example.com>`}, m.GetHeader("From"))
	assert.Equal(t, []string{"ada@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Your account"}, m.GetHeader("Subject"))

	explicit := p.buildMessage(&Message{From: "team@example.com", To: []string{"ada@example.com"}})
	assert.Equal(t, []string{"team@example.com"}, explicit.GetHeader("From"))
}
