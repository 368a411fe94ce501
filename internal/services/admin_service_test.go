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
)

func newAdminService(notifier NotificationService) AdminService {
	return NewAdminService(
		repositories.NewUserRepository(),
		repositories.NewProfileRepository(),
		repositories.NewRoleRepository(),
		notifier,
	)
}

func TestAdmin_SetApprovalStatusNotifies(t *testing.T) {
	db := testutil.NewTestDB(t)
	notifier := &recordingNotifier{}
	service := newAdminService(notifier)
	ctx := context.Background()

	account := testutil.CreateAccount(t, db, "u1", models.RoleJobSeeker)
	require.NoError(t, db.Model(account).Update("approval_status", models.ApprovalStatusPending).Error)

	updated, err := service.SetApprovalStatus(ctx, db, "u1", models.ApprovalStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusRejected, updated.ApprovalStatus)
	assert.Equal(t, []sentNotification{{Kind: "account", UserID: "u1", Status: models.ApprovalStatusRejected}}, notifier.Sent())

	_, err = service.SetApprovalStatus(ctx, db, "ghost", models.ApprovalStatusApproved)
	requireAppError(t, err, 404)

	stats, err := service.GetStats(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.UsersByApproval[models.ApprovalStatusRejected])
}

func TestAdmin_SetRolesAllowsAdminAndDropsProfiles(t *testing.T) {
	db := testutil.NewTestDB(t)
	service := newAdminService(&recordingNotifier{})
	ctx := context.Background()
	testutil.CreateAccount(t, db, "u1", models.RoleEmployer)

	_, err := newUserService().SaveRoleProfile(ctx, db, "u1", models.RoleEmployer, &dto.EmployerProfileInput{CompanyName: "Acme"})
	require.NoError(t, err)

	roles, err := service.SetRoles(ctx, db, "u1", &dto.SetRolesRequest{Roles: &dto.RoleSelection{Admin: true}})
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleAdmin}, roles.Roles())

	user, err := service.GetUser(db, "u1")
	require.NoError(t, err)
	assert.True(t, user.Roles.Admin)
	assert.Nil(t, user.RoleProfiles.Employer)
}

func TestAdmin_DeleteUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	service := newAdminService(&recordingNotifier{})
	ctx := context.Background()
	testutil.CreateAccount(t, db, "boss", models.RoleAdmin)
	testutil.CreateAccount(t, db, "u1", models.RoleEmployer)

	requireAppError(t, service.DeleteUser(ctx, db, "boss", "boss"), 400)

	require.NoError(t, service.DeleteUser(ctx, db, "boss", "u1"))
	_, err := service.GetUser(db, "u1")
	requireAppError(t, err, 404)

	requireAppError(t, service.DeleteUser(ctx, db, "boss", "u1"), 404)

	page, err := service.ListUsers(db, &dto.AdminUserListQuery{Role: models.RoleAdmin}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}
