package services

import (
	"context"

	"proconnect_backend/internal/email"
	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/models"
)

// NotificationService - письма о решениях модерации.
// Ошибки отправки только логируются: решение уже сохранено.
type NotificationService interface {
	AccountDecision(ctx context.Context, account *models.Account)
	OpportunityDecision(ctx context.Context, owner *models.Account, opportunity *models.Opportunity)
	MembershipDecision(ctx context.Context, account *models.Account, tier *models.MembershipTier, status models.ApprovalStatus)
}

type notificationService struct {
	provider email.Provider
}

func NewNotificationService(provider email.Provider) NotificationService {
	return &notificationService{provider: provider}
}

func (s *notificationService) AccountDecision(ctx context.Context, account *models.Account) {
	if account == nil || !isDecision(account.ApprovalStatus) {
		return
	}
	s.send(ctx, account, "Your ProConnect account was "+string(account.ApprovalStatus), email.TemplateAccountDecision, email.TemplateData{
		"Name":   account.DisplayName,
		"Status": string(account.ApprovalStatus),
	})
}

func (s *notificationService) OpportunityDecision(ctx context.Context, owner *models.Account, opportunity *models.Opportunity) {
	if owner == nil || opportunity == nil || !isDecision(opportunity.ApprovalStatus) {
		return
	}
	s.send(ctx, owner, "Your posting was "+string(opportunity.ApprovalStatus), email.TemplateOpportunityDecision, email.TemplateData{
		"Name":   owner.DisplayName,
		"Status": string(opportunity.ApprovalStatus),
		"Title":  opportunity.Title,
	})
}

func (s *notificationService) MembershipDecision(ctx context.Context, account *models.Account, tier *models.MembershipTier, status models.ApprovalStatus) {
	if account == nil || !isDecision(status) {
		return
	}
	tierName := ""
	if tier != nil {
		tierName = tier.Name
	}
	s.send(ctx, account, "Your membership application was "+string(status), email.TemplateMembershipDecision, email.TemplateData{
		"Name":   account.DisplayName,
		"Status": string(status),
		"Tier":   tierName,
	})
}

func (s *notificationService) send(ctx context.Context, to *models.Account, subject, templateName string, data email.TemplateData) {
	if s.provider == nil || to.Email == "" {
		return
	}
	if err := s.provider.SendTemplate([]string{to.Email}, subject, templateName, data); err != nil {
		logger.CtxWithError(ctx, "Failed to send notification", err, "user_id", to.ID, "template", templateName)
		return
	}
	logger.CtxDebug(ctx, "Notification sent", "user_id", to.ID, "template", templateName)
}

// isDecision - письмо уходит только на approved/rejected
func isDecision(status models.ApprovalStatus) bool {
	return status == models.ApprovalStatusApproved || status == models.ApprovalStatusRejected
}
