package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/internal/testutil"
	"proconnect_backend/pkg/apperrors"
)

func newUserService() UserService {
	return NewUserService(
		repositories.NewUserRepository(),
		repositories.NewProfileRepository(),
		repositories.NewRoleRepository(),
	)
}

func TestAssignRoles(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateAccount(t, db, "u1", models.RoleEmployer)
	testutil.CreateAccount(t, db, "boss", models.RoleAdmin, models.RoleInvestor)
	service := newUserService()
	ctx := context.Background()

	_, err := service.SaveRoleProfile(ctx, db, "u1", models.RoleEmployer, &dto.EmployerProfileInput{CompanyName: "Acme"})
	require.NoError(t, err)

	t.Run("admin is not self assignable", func(t *testing.T) {
		_, err := service.AssignRoles(ctx, db, "u1", &dto.AssignRolesRequest{Roles: &dto.RoleSelection{Admin: true, Employer: true}})
		appErr := requireAppError(t, err, 403)
		assert.Equal(t, apperrors.ErrAdminRoleNotAssignable.Message, appErr.Message)
	})

	t.Run("at least one role", func(t *testing.T) {
		_, err := service.AssignRoles(ctx, db, "u1", &dto.AssignRolesRequest{Roles: &dto.RoleSelection{}})
		assert.Contains(t, issuePaths(t, err), "roles")
	})

	t.Run("dropped role loses its profile", func(t *testing.T) {
		roles, err := service.AssignRoles(ctx, db, "u1", &dto.AssignRolesRequest{Roles: &dto.RoleSelection{JobSeeker: true}})
		require.NoError(t, err)
		assert.Equal(t, []models.Role{models.RoleJobSeeker}, roles.Roles())

		profiles, err := repositories.NewProfileRepository().FindRoleProfiles(db, "u1")
		require.NoError(t, err)
		assert.Nil(t, profiles.Employer)
	})

	t.Run("existing admin keeps the flag", func(t *testing.T) {
		roles, err := service.AssignRoles(ctx, db, "boss", &dto.AssignRolesRequest{Roles: &dto.RoleSelection{Professional: true}})
		require.NoError(t, err)
		assert.True(t, roles.Has(models.RoleAdmin))
		assert.True(t, roles.Has(models.RoleProfessional))
		assert.False(t, roles.Has(models.RoleInvestor))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.AssignRoles(ctx, db, "ghost", &dto.AssignRolesRequest{Roles: &dto.RoleSelection{Investor: true}})
		requireAppError(t, err, 404)
	})
}

func TestSaveRoleProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateAccount(t, db, "inv", models.RoleInvestor)
	service := newUserService()
	ctx := context.Background()

	_, err := service.SaveRoleProfile(ctx, db, "inv", models.RoleEmployer, &dto.EmployerProfileInput{CompanyName: "Acme"})
	requireAppError(t, err, 403)

	_, err = service.SaveRoleProfile(ctx, db, "inv", models.RoleAdmin, &dto.EmployerProfileInput{})
	requireAppError(t, err, 400)

	min, max := decimal.NewFromInt(50000), decimal.NewFromInt(1000)
	_, err = service.SaveRoleProfile(ctx, db, "inv", models.RoleInvestor, &dto.InvestorProfileInput{
		InvestorType: "angel", TicketMin: &min, TicketMax: &max,
	})
	assert.Contains(t, issuePaths(t, err), "ticketMax")

	max = decimal.NewFromInt(250000)
	saved, err := service.SaveRoleProfile(ctx, db, "inv", models.RoleInvestor, &dto.InvestorProfileInput{
		InvestorType: "vc", FocusAreas: []string{"fintech"}, TicketMin: &min, TicketMax: &max, Currency: "usd",
	})
	require.NoError(t, err)
	investor := saved.(*models.InvestorProfile)
	assert.Equal(t, "USD", investor.Currency)

	profile, err := service.GetProfile(db, "inv")
	require.NoError(t, err)
	require.NotNil(t, profile.RoleProfiles.Investor)
	assert.True(t, profile.RoleProfiles.Investor.TicketMax.Decimal.Equal(max))
	assert.JSONEq(t, `["fintech"]`, string(profile.RoleProfiles.Investor.FocusAreas))
	assert.True(t, profile.Roles.Investor)
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateAccount(t, db, "u1", models.RoleProfessional)
	service := newUserService()

	headline := "  Staff engineer  "
	display := "Ada"
	profile, err := service.UpdateProfile(context.Background(), db, "u1", &dto.UpdateProfileRequest{
		Headline:    &headline,
		DisplayName: &display,
	})
	require.NoError(t, err)
	assert.Equal(t, "Staff engineer", profile.Headline)
	assert.Equal(t, "First u1", profile.FirstName)

	account, err := repositories.NewUserRepository().FindByID(db, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", account.DisplayName)

	_, err = service.UpdateProfile(context.Background(), db, "ghost", &dto.UpdateProfileRequest{Headline: &headline})
	requireAppError(t, err, 404)
}
