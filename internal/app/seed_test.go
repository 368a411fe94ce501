package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proconnect_backend/internal/config"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/testutil"
)

func TestSeedFirstAdmin(t *testing.T) {
	roleRepo := repositories.NewRoleRepository()

	t.Run("skips without uid", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		require.NoError(t, seedFirstAdmin(db, config.Default()))
	})

	t.Run("creates account", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		cfg := config.Default()
		cfg.FirstAdmin.UID = "root"
		cfg.FirstAdmin.Email = "Root@Example.com"

		require.NoError(t, seedFirstAdmin(db, cfg))
		require.NoError(t, seedFirstAdmin(db, cfg))

		account, err := repositories.NewUserRepository().FindByID(db, "root")
		require.NoError(t, err)
		assert.Equal(t, "root@example.com", account.Email)
		assert.Equal(t, models.ApprovalStatusApproved, account.ApprovalStatus)
		assert.True(t, account.Roles.Has(models.RoleAdmin))
	})

	t.Run("promotes existing account", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		testutil.CreateAccount(t, db, "u1", models.RoleEmployer)
		cfg := config.Default()
		cfg.FirstAdmin.UID = "u1"

		require.NoError(t, seedFirstAdmin(db, cfg))

		roles, err := roleRepo.FindByUserID(db, "u1")
		require.NoError(t, err)
		assert.True(t, roles.Has(models.RoleAdmin))
		assert.True(t, roles.Has(models.RoleEmployer))
	})

	t.Run("new account needs email", func(t *testing.T) {
		db := testutil.NewTestDB(t)
		cfg := config.Default()
		cfg.FirstAdmin.UID = "root"
		assert.Error(t, seedFirstAdmin(db, cfg))
	})
}
