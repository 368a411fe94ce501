package repositories

import (
	"testing"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestProfileRepository_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfileRepository()
	testutil.CreateAccount(t, db, "u1", models.RoleProfessional)

	profile, err := repo.FindByUserID(db, "u1")
	require.NoError(t, err)

	profile.Headline = "Engineer"
	profile.Country = "Kazakhstan"
	require.NoError(t, repo.Update(db, profile))

	found, err := repo.FindByUserID(db, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Engineer", found.Headline)
	assert.Equal(t, "Kazakhstan", found.Country)

	assert.ErrorIs(t, repo.Update(db, &models.Profile{UserID: "missing"}), ErrProfileNotFound)

	require.NoError(t, repo.Delete(db, "u1"))
	_, err = repo.FindByUserID(db, "u1")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileRepository_RoleProfiles(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewProfileRepository()
	testutil.CreateAccount(t, db, "u1", models.RoleJobSeeker, models.RoleInvestor)

	empty, err := repo.FindRoleProfiles(db, "u1")
	require.NoError(t, err)
	assert.Nil(t, empty.JobSeeker)
	assert.Nil(t, empty.Investor)

	seeker := &models.JobSeekerProfile{
		UserID:            "u1",
		DesiredTitle:      "Backend developer",
		Skills:            datatypes.JSON(`["go","sql"]`),
		SalaryExpectation: decimal.NewNullDecimal(decimal.RequireFromString("2500.50")),
		Currency:          "USD",
	}
	require.NoError(t, repo.SaveRoleProfile(db, models.RoleJobSeeker, seeker))

	// Повторный Save - upsert, а не вторая строка
	seeker.DesiredTitle = "Go developer"
	require.NoError(t, repo.SaveRoleProfile(db, models.RoleJobSeeker, seeker))

	investor := &models.InvestorProfile{
		UserID:       "u1",
		InvestorType: "angel",
		TicketMin:    decimal.NewNullDecimal(decimal.NewFromInt(10000)),
	}
	require.NoError(t, repo.SaveRoleProfile(db, models.RoleInvestor, investor))

	found, err := repo.FindRoleProfiles(db, "u1")
	require.NoError(t, err)
	require.NotNil(t, found.JobSeeker)
	assert.Equal(t, "Go developer", found.JobSeeker.DesiredTitle)
	assert.True(t, found.JobSeeker.SalaryExpectation.Valid)
	assert.True(t, decimal.RequireFromString("2500.5").Equal(found.JobSeeker.SalaryExpectation.Decimal))
	require.NotNil(t, found.Investor)
	assert.Equal(t, "angel", found.Investor.InvestorType)
	assert.Nil(t, found.Employer)

	var count int64
	require.NoError(t, db.Model(&models.JobSeekerProfile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	byUsers, err := repo.FindRoleProfilesByUserIDs(db, models.RoleJobSeeker, []string{"u1", "nobody"})
	require.NoError(t, err)
	assert.Len(t, byUsers, 1)
	assert.IsType(t, &models.JobSeekerProfile{}, byUsers["u1"])

	require.NoError(t, repo.DeleteRoleProfile(db, models.RoleInvestor, "u1"))
	assert.ErrorIs(t, repo.DeleteRoleProfile(db, models.RoleInvestor, "u1"), ErrRoleProfileNotFound)

	assert.Error(t, repo.SaveRoleProfile(db, models.RoleAdmin, &models.EmployerProfile{UserID: "u1"}))
}
