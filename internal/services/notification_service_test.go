package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proconnect_backend/internal/email"
	"proconnect_backend/internal/models"
)

type capturedMail struct {
	To       []string
	Template string
	Data     email.TemplateData
}

type fakeProvider struct {
	mails []capturedMail
	err   error
}

func (p *fakeProvider) Send(*email.Message) error { return p.err }

func (p *fakeProvider) SendTemplate(to []string, _ string, templateName string, data email.TemplateData) error {
	p.mails = append(p.mails, capturedMail{To: to, Template: templateName, Data: data})
	return p.err
}

func (p *fakeProvider) Validate() error { return nil }
func (p *fakeProvider) Close() error    { return nil }

func TestNotification_OnlyFinalDecisions(t *testing.T) {
	provider := &fakeProvider{}
	service := NewNotificationService(provider)
	ctx := context.Background()

	account := &models.Account{ID: "u1", Email: "u1@example.com", DisplayName: "Ann", ApprovalStatus: models.ApprovalStatusPending}
	service.AccountDecision(ctx, account)
	assert.Empty(t, provider.mails)

	account.ApprovalStatus = models.ApprovalStatusApproved
	service.AccountDecision(ctx, account)
	require.Len(t, provider.mails, 1)
	assert.Equal(t, []string{"u1@example.com"}, provider.mails[0].To)
	assert.Equal(t, email.TemplateAccountDecision, provider.mails[0].Template)
	assert.Equal(t, "approved", provider.mails[0].Data["Status"])

	service.MembershipDecision(ctx, account, &models.MembershipTier{Name: "Gold"}, models.ApprovalStatusRejected)
	require.Len(t, provider.mails, 2)
	assert.Equal(t, "Gold", provider.mails[1].Data["Tier"])

	service.OpportunityDecision(ctx, account, &models.Opportunity{Title: "Go developer", ApprovalStatus: models.ApprovalStatusApproved})
	require.Len(t, provider.mails, 3)
	assert.Equal(t, email.TemplateOpportunityDecision, provider.mails[2].Template)
}

func TestNotification_SendFailureIsSwallowed(t *testing.T) {
	provider := &fakeProvider{err: errors.New("smtp down")}
	service := NewNotificationService(provider)

	assert.NotPanics(t, func() {
		service.AccountDecision(context.Background(), &models.Account{
			ID: "u1", Email: "u1@example.com", ApprovalStatus: models.ApprovalStatusRejected,
		})
	})
	assert.Len(t, provider.mails, 1)

	NewNotificationService(nil).AccountDecision(context.Background(), &models.Account{ApprovalStatus: models.ApprovalStatusApproved})
}
