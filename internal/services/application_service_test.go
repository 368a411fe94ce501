package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/internal/testutil"
	"proconnect_backend/pkg/apperrors"
)

func TestApplicationFlow(t *testing.T) {
	f := newOpportunityFixture(t)
	testutil.CreateAccount(t, f.db, "emp", models.RoleEmployer)
	testutil.CreateAccount(t, f.db, "seeker", models.RoleJobSeeker)
	testutil.CreateAccount(t, f.db, "pro", models.RoleProfessional)
	ctx := context.Background()

	service := NewApplicationService(
		repositories.NewApplicationRepository(),
		repositories.NewOpportunityRepository(),
		repositories.NewRoleRepository(),
	)
	job := createApprovedJob(t, f, "emp")

	_, err := service.Apply(ctx, f.db, "pro", job.ID, &dto.ApplyRequest{})
	appErr := requireAppError(t, err, 403)
	assert.Equal(t, apperrors.ErrJobSeekerRoleRequired.Message, appErr.Message)

	application, err := service.Apply(ctx, f.db, "seeker", job.ID, &dto.ApplyRequest{CoverLetter: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApplied, application.Status)

	_, err = service.Apply(ctx, f.db, "seeker", job.ID, &dto.ApplyRequest{})
	requireAppError(t, err, 409)

	mine, err := service.ListMine(f.db, "seeker")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = service.ListForOpportunity(f.db, "seeker", job.ID)
	requireAppError(t, err, 403)
	received, err := service.ListForOpportunity(f.db, "emp", job.ID)
	require.NoError(t, err)
	assert.Len(t, received, 1)

	// Соискатель может только отозвать
	_, err = service.UpdateStatus(ctx, f.db, "seeker", application.ID, models.ApplicationStatusOffer)
	requireAppError(t, err, 403)
	_, err = service.UpdateStatus(ctx, f.db, "pro", application.ID, models.ApplicationStatusRejected)
	requireAppError(t, err, 403)

	updated, err := service.UpdateStatus(ctx, f.db, "emp", application.ID, models.ApplicationStatusInterview)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusInterview, updated.Status)

	withdrawn, err := service.UpdateStatus(ctx, f.db, "seeker", application.ID, models.ApplicationStatusWithdrawn)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusWithdrawn, withdrawn.Status)
}

func TestApply_OnlyOpenApprovedJobs(t *testing.T) {
	f := newOpportunityFixture(t)
	testutil.CreateAccount(t, f.db, "emp", models.RoleEmployer, models.RoleJobSeeker)
	testutil.CreateAccount(t, f.db, "seeker", models.RoleJobSeeker)
	ctx := context.Background()

	service := NewApplicationService(
		repositories.NewApplicationRepository(),
		repositories.NewOpportunityRepository(),
		repositories.NewRoleRepository(),
	)

	pending, err := f.service.Create(ctx, f.db, "emp", jobRequest(validJobDetails), manualReview)
	require.NoError(t, err)
	_, err = service.Apply(ctx, f.db, "seeker", pending.ID, &dto.ApplyRequest{})
	requireAppError(t, err, 400)

	partnership, err := f.service.Create(ctx, f.db, "emp", &dto.CreateOpportunityRequest{
		Type: models.OpportunityTypePartnership, Title: "Partner", Description: "d",
		Details: []byte(`{"partnershipType":"distribution"}`),
	}, NewPostingPolicy(true, nil))
	require.NoError(t, err)
	_, err = service.Apply(ctx, f.db, "seeker", partnership.ID, &dto.ApplyRequest{})
	requireAppError(t, err, 400)

	own := createApprovedJob(t, f, "emp")
	_, err = service.Apply(ctx, f.db, "emp", own.ID, &dto.ApplyRequest{})
	requireAppError(t, err, 400)

	_, err = service.Apply(ctx, f.db, "seeker", "missing", &dto.ApplyRequest{})
	requireAppError(t, err, 404)
}
