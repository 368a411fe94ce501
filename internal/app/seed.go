package app

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"proconnect_backend/internal/config"
	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
)

// seedFirstAdmin выдает роль admin аккаунту из конфигурации.
// Вход идет через провайдера, поэтому аккаунт привязывается к его uid, пароля здесь нет.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	uid := strings.TrimSpace(cfg.FirstAdmin.UID)
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdmin.Email))

	if uid == "" {
		logger.Warn("FIRST_ADMIN_UID is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository()
	roleRepo := repositories.NewRoleRepository()
	profileRepo := repositories.NewProfileRepository()

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	exists, err := userRepo.Exists(tx, uid)
	if err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	if exists {
		roles, err := roleRepo.FindByUserID(tx, uid)
		switch {
		case errors.Is(err, repositories.ErrRoleSetNotFound):
			roles = models.NewRoleSet(uid)
		case err != nil:
			return fmt.Errorf("failed to load admin roles: %w", err)
		}
		if roles.Has(models.RoleAdmin) {
			logger.Info("Admin user already exists. Skipping creation.", "user_id", uid)
			return nil
		}
		roles.Set(models.RoleAdmin, true)
		if err := roleRepo.Save(tx, roles); err != nil {
			return fmt.Errorf("failed to grant admin role: %w", err)
		}
		if err := userRepo.UpdateApprovalStatus(tx, uid, models.ApprovalStatusApproved); err != nil {
			return fmt.Errorf("failed to approve admin: %w", err)
		}
		logger.Info("Granted admin role to existing account", "user_id", uid)
		return tx.Commit().Error
	}

	if adminEmail == "" {
		return errors.New("FIRST_ADMIN_EMAIL is required to create the first admin account")
	}

	logger.Warn("No admin account found. Creating first admin...", "user_id", uid, "email", adminEmail)

	account := &models.Account{
		ID:             uid,
		Email:          adminEmail,
		DisplayName:    "Administrator",
		ApprovalStatus: models.ApprovalStatusApproved,
	}
	if err := userRepo.Create(tx, account); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	if err := profileRepo.Create(tx, &models.Profile{UserID: uid, FirstName: "Platform", LastName: "Administrator"}); err != nil {
		return fmt.Errorf("failed to create admin profile: %w", err)
	}
	if err := roleRepo.Create(tx, models.NewRoleSet(uid, models.RoleAdmin)); err != nil {
		return fmt.Errorf("failed to create admin roles: %w", err)
	}

	logger.Info("Successfully created first admin account", "user_id", uid)
	return tx.Commit().Error
}
