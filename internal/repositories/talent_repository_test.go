package repositories

import (
	"testing"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTalentRepository_FindTalent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewTalentRepository()
	users := NewUserRepository()

	testutil.CreateAccount(t, db, "pro1", models.RoleProfessional)
	testutil.CreateAccount(t, db, "pro2", models.RoleProfessional, models.RoleInvestor)
	testutil.CreateAccount(t, db, "seeker", models.RoleJobSeeker)
	testutil.CreateAccount(t, db, "pendingpro", models.RoleProfessional)
	require.NoError(t, users.UpdateApprovalStatus(db, "pendingpro", models.ApprovalStatusPending))

	pros, total, err := repo.FindTalent(db, TalentFilter{Role: models.RoleProfessional})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, pros, 2)
	for _, a := range pros {
		assert.Equal(t, models.ApprovalStatusApproved, a.ApprovalStatus)
		require.NotNil(t, a.Roles)
		assert.True(t, a.Roles.Has(models.RoleProfessional))
		require.NotNil(t, a.Profile)
	}

	page, total, err := repo.FindTalent(db, TalentFilter{Role: models.RoleProfessional, Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, page, 1)

	seekers, _, err := repo.FindTalent(db, TalentFilter{Role: models.RoleJobSeeker})
	require.NoError(t, err)
	require.Len(t, seekers, 1)
	assert.Equal(t, "seeker", seekers[0].ID)

	searched, _, err := repo.FindTalent(db, TalentFilter{Role: models.RoleProfessional, Search: "pro2"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, "pro2", searched[0].ID)

	_, _, err = repo.FindTalent(db, TalentFilter{Role: "wizard"})
	assert.Error(t, err)
}
