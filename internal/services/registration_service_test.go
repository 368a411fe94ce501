package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"proconnect_backend/internal/docstore"
	"proconnect_backend/internal/identity"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/internal/testutil"
	"proconnect_backend/internal/validator"
	"proconnect_backend/pkg/apperrors"
)

// failingRoleRepo - вставка набора ролей всегда падает
type failingRoleRepo struct {
	repositories.RoleRepository
}

func (r *failingRoleRepo) Create(_ *gorm.DB, _ *models.RoleSet) error {
	return errors.New("user_roles insert failed")
}

// failingProfileRepo - вставка профиля всегда падает
type failingProfileRepo struct {
	repositories.ProfileRepository
}

func (r *failingProfileRepo) Create(_ *gorm.DB, _ *models.Profile) error {
	return errors.New("user_profiles insert failed")
}

type registrationFixture struct {
	db      *gorm.DB
	intents *docstore.MemoryStore
	service RegistrationService
}

func newRegistrationFixture(t *testing.T, autoApprove bool, roleRepo repositories.RoleRepository) *registrationFixture {
	t.Helper()
	return newRegistrationFixtureWith(t, autoApprove, repositories.NewProfileRepository(), roleRepo)
}

func newRegistrationFixtureWith(t *testing.T, autoApprove bool, profileRepo repositories.ProfileRepository, roleRepo repositories.RoleRepository) *registrationFixture {
	t.Helper()
	if roleRepo == nil {
		roleRepo = repositories.NewRoleRepository()
	}
	intents := docstore.NewMemoryStore()
	return &registrationFixture{
		db:      testutil.NewTestDB(t),
		intents: intents,
		service: NewRegistrationService(
			repositories.NewUserRepository(),
			profileRepo,
			roleRepo,
			intents,
			validator.New(),
			autoApprove,
		),
	}
}

func registrationRequest(roles dto.RoleSelection) *dto.CompleteRegistrationRequest {
	return &dto.CompleteRegistrationRequest{
		Profile: &dto.ProfileInput{FirstName: "Ada", LastName: "Lovelace", City: "London"},
		Roles:   &roles,
	}
}

func claimsFor(uid string) *identity.Claims {
	return &identity.Claims{Subject: uid, Email: uid + "@Example.com", Name: "Ada L."}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, uid string) int64 {
	t.Helper()
	var n int64
	column := "user_id"
	if _, ok := model.(*models.Account); ok {
		column = "id"
	}
	require.NoError(t, db.Model(model).Where(column+" = ?", uid).Count(&n).Error)
	return n
}

func TestCompleteRegistration_PendingByDefault(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)
	ctx := context.Background()

	resp, err := f.service.CompleteRegistration(ctx, f.db, claimsFor("u1"), registrationRequest(dto.RoleSelection{JobSeeker: true}))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "u1@example.com", resp.User.Email)
	assert.Equal(t, "Ada L.", resp.User.DisplayName)
	assert.Equal(t, models.ApprovalStatusPending, resp.User.ApprovalStatus)
	assert.Equal(t, "London", resp.Profile.City)

	roles, err := repositories.NewRoleRepository().FindByUserID(f.db, "u1")
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleJobSeeker}, roles.Roles())

	intent, err := f.intents.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, docstore.IntentReconciled, intent.Status)
}

func TestCompleteRegistration_AutoApproveAccounts(t *testing.T) {
	f := newRegistrationFixture(t, true, nil)

	resp, err := f.service.CompleteRegistration(context.Background(), f.db, claimsFor("u1"),
		registrationRequest(dto.RoleSelection{Employer: true, Investor: true}))
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, resp.User.ApprovalStatus)
}

func TestCompleteRegistration_AlreadyRegistered(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)
	ctx := context.Background()
	req := registrationRequest(dto.RoleSelection{Professional: true})

	_, err := f.service.CompleteRegistration(ctx, f.db, claimsFor("u1"), req)
	require.NoError(t, err)

	_, err = f.service.CompleteRegistration(ctx, f.db, claimsFor("u1"), registrationRequest(dto.RoleSelection{Employer: true}))
	appErr := requireAppError(t, err, 400)
	assert.Equal(t, apperrors.CodeAlreadyRegistered, appErr.Code)

	roles, err := repositories.NewRoleRepository().FindByUserID(f.db, "u1")
	require.NoError(t, err)
	assert.False(t, roles.Employer, "second registration must not write")
}

func TestCompleteRegistration_EmailTakenByAnotherAccount(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)
	testutil.CreateAccount(t, f.db, "other", models.RoleProfessional)

	claims := &identity.Claims{Subject: "u2", Email: "other@example.com"}
	_, err := f.service.CompleteRegistration(context.Background(), f.db, claims, registrationRequest(dto.RoleSelection{JobSeeker: true}))
	requireAppError(t, err, 409)
	assert.Zero(t, countRows(t, f.db, &models.Account{}, "u2"))
}

func TestCompleteRegistration_Validation(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)
	ctx := context.Background()

	t.Run("admin role is not self assignable", func(t *testing.T) {
		_, err := f.service.CompleteRegistration(ctx, f.db, claimsFor("a"),
			registrationRequest(dto.RoleSelection{Admin: true, Employer: true}))
		assert.Contains(t, issuePaths(t, err), "roles.admin")
	})

	t.Run("at least one role", func(t *testing.T) {
		_, err := f.service.CompleteRegistration(ctx, f.db, claimsFor("b"), registrationRequest(dto.RoleSelection{}))
		assert.Contains(t, issuePaths(t, err), "roles")
	})

	t.Run("missing profile fields", func(t *testing.T) {
		req := registrationRequest(dto.RoleSelection{Investor: true})
		req.Profile.FirstName = ""
		_, err := f.service.CompleteRegistration(ctx, f.db, claimsFor("c"), req)
		assert.Contains(t, issuePaths(t, err), "profile.firstName")
	})

	t.Run("token without email", func(t *testing.T) {
		_, err := f.service.CompleteRegistration(ctx, f.db, &identity.Claims{Subject: "d"},
			registrationRequest(dto.RoleSelection{Investor: true}))
		assert.Contains(t, issuePaths(t, err), "email")
	})

	for _, uid := range []string{"a", "b", "c", "d"} {
		assert.Zero(t, countRows(t, f.db, &models.Account{}, uid))
	}
}

func TestCompleteRegistration_RollsBackOnRoleInsertFailure(t *testing.T) {
	f := newRegistrationFixture(t, false, &failingRoleRepo{RoleRepository: repositories.NewRoleRepository()})
	ctx := context.Background()

	_, err := f.service.CompleteRegistration(ctx, f.db, claimsFor("u1"), registrationRequest(dto.RoleSelection{Employer: true}))
	requireAppError(t, err, 500)

	assert.Zero(t, countRows(t, f.db, &models.Account{}, "u1"))
	assert.Zero(t, countRows(t, f.db, &models.Profile{}, "u1"))
	assert.Zero(t, countRows(t, f.db, &models.RoleSet{}, "u1"))

	intent, err := f.intents.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, docstore.IntentFailed, intent.Status)
	assert.Equal(t, 1, intent.Attempts)
	assert.Contains(t, intent.LastError, "user_roles insert failed")
}

func TestCompleteRegistration_RollsBackOnProfileInsertFailure(t *testing.T) {
	f := newRegistrationFixtureWith(t, false, &failingProfileRepo{ProfileRepository: repositories.NewProfileRepository()}, nil)
	ctx := context.Background()

	_, err := f.service.CompleteRegistration(ctx, f.db, claimsFor("u1"), registrationRequest(dto.RoleSelection{JobSeeker: true}))
	requireAppError(t, err, 500)

	_, err = repositories.NewUserRepository().FindByID(f.db, "u1")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	assert.Zero(t, countRows(t, f.db, &models.Profile{}, "u1"))
	assert.Zero(t, countRows(t, f.db, &models.RoleSet{}, "u1"))

	intent, err := f.intents.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, docstore.IntentFailed, intent.Status)
	assert.Contains(t, intent.LastError, "user_profiles insert failed")
}

func TestEnsureNotRegistered(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)
	require.NoError(t, f.service.EnsureNotRegistered(f.db, "u1"))

	testutil.CreateAccount(t, f.db, "u1", models.RoleProfessional)
	appErr := requireAppError(t, f.service.EnsureNotRegistered(f.db, "u1"), 400)
	assert.Equal(t, apperrors.CodeAlreadyRegistered, appErr.Code)
}

func saveIntent(t *testing.T, store docstore.IntentStore, uid, payload string) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), &docstore.RegistrationIntent{
		UID:     uid,
		Email:   uid + "@example.com",
		Payload: []byte(payload),
	}))
}

func TestMe_ReplaysPendingIntent(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)
	ctx := context.Background()
	saveIntent(t, f.intents, "u1", `{"profile":{"firstName":"Grace","lastName":"Hopper"},"roles":{"isJobSeeker":true}}`)

	me, err := f.service.Me(ctx, f.db, claimsFor("u1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", me.User.ID)
	assert.Equal(t, "Grace Hopper", me.User.DisplayName)
	assert.True(t, me.Roles.JobSeeker)
	assert.NotNil(t, me.User.LastLogin)

	intent, err := f.intents.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, docstore.IntentReconciled, intent.Status)
}

func TestMe_NotRegistered(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)

	_, err := f.service.Me(context.Background(), f.db, claimsFor("ghost"))
	requireAppError(t, err, 404)
}

func TestMe_ReturnsRoles(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)
	ctx := context.Background()
	_, err := f.service.CompleteRegistration(ctx, f.db, claimsFor("u1"),
		registrationRequest(dto.RoleSelection{Employer: true, BusinessOwner: true}))
	require.NoError(t, err)

	me, err := f.service.Me(ctx, f.db, claimsFor("u1"))
	require.NoError(t, err)
	assert.Equal(t, dto.RoleSelection{Employer: true, BusinessOwner: true}, me.Roles)
}

func TestReconcilePending_IsIdempotent(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)
	ctx := context.Background()
	saveIntent(t, f.intents, "u1", `{"profile":{"firstName":"A","lastName":"B"},"roles":{"professional":true}}`)
	saveIntent(t, f.intents, "u2", `{"profile":{"firstName":"C","lastName":"D"},"roles":{"admin":true}}`)

	cutoff := time.Now().Add(time.Minute)
	result, err := f.service.ReconcilePending(ctx, f.db, cutoff, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Reconciled)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, int64(1), countRows(t, f.db, &models.Account{}, "u1"))
	assert.Zero(t, countRows(t, f.db, &models.Account{}, "u2"))

	// u1 уже сверен, u2 снова падает
	result, err = f.service.ReconcilePending(ctx, f.db, cutoff, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.Reconciled)
	assert.Equal(t, int64(1), countRows(t, f.db, &models.Account{}, "u1"))
}

func TestReconcilePending_StopsAfterMaxAttempts(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)
	ctx := context.Background()
	saveIntent(t, f.intents, "u1", `{"profile":{"firstName":"A","lastName":"B"},"roles":{}}`)
	for i := 0; i < maxReplayAttempts; i++ {
		require.NoError(t, f.intents.MarkFailed(ctx, "u1", errors.New("boom")))
	}

	result, err := f.service.ReconcilePending(ctx, f.db, time.Now().Add(time.Minute), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Processed)
}

func TestReconcilePending_ExhaustedIntentsDoNotBlockBatch(t *testing.T) {
	f := newRegistrationFixture(t, false, nil)
	ctx := context.Background()
	const batch = 3

	for _, uid := range []string{"dead1", "dead2", "dead3", "dead4"} {
		saveIntent(t, f.intents, uid, `{"profile":{"firstName":"A","lastName":"B"},"roles":{}}`)
		for i := 0; i < maxReplayAttempts; i++ {
			require.NoError(t, f.intents.MarkFailed(ctx, uid, errors.New("boom")))
		}
	}
	time.Sleep(time.Millisecond)
	saveIntent(t, f.intents, "good", `{"profile":{"firstName":"Grace","lastName":"Hopper"},"roles":{"jobSeeker":true}}`)

	result, err := f.service.ReconcilePending(ctx, f.db, time.Now().Add(time.Minute), batch)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Reconciled)
	assert.Equal(t, int64(1), countRows(t, f.db, &models.Account{}, "good"))
}
