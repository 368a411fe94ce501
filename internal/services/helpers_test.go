package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/validator"
	"proconnect_backend/pkg/apperrors"
)

// requireAppError проверяет HTTP код ошибки приложения
func requireAppError(t *testing.T, err error, httpCode int) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T: %v", err, err)
	require.Equal(t, httpCode, appErr.HTTPCode, "unexpected error: %v", err)
	return appErr
}

// issuePaths - пути нарушений из VALIDATION_FAILED
func issuePaths(t *testing.T, err error) []string {
	t.Helper()
	appErr := requireAppError(t, err, 400)
	require.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	issues, ok := appErr.Details.([]validator.Issue)
	require.True(t, ok, "details must be an issue list, got %T", appErr.Details)

	paths := make([]string, 0, len(issues))
	for _, is := range issues {
		paths = append(paths, is.Path)
	}
	return paths
}

type sentNotification struct {
	Kind   string
	UserID string
	Status models.ApprovalStatus
}

// recordingNotifier запоминает отправленные уведомления
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) record(kind, userID string, status models.ApprovalStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Kind: kind, UserID: userID, Status: status})
}

func (n *recordingNotifier) AccountDecision(_ context.Context, account *models.Account) {
	n.record("account", account.ID, account.ApprovalStatus)
}

func (n *recordingNotifier) OpportunityDecision(_ context.Context, owner *models.Account, opportunity *models.Opportunity) {
	n.record("opportunity", owner.ID, opportunity.ApprovalStatus)
}

func (n *recordingNotifier) MembershipDecision(_ context.Context, account *models.Account, _ *models.MembershipTier, status models.ApprovalStatus) {
	n.record("membership", account.ID, status)
}

func (n *recordingNotifier) Sent() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}
