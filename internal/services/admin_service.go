package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/pkg/apperrors"
)

// AdminService - модерация аккаунтов. Журнала аудита нет.
type AdminService interface {
	ListUsers(db *gorm.DB, query *dto.AdminUserListQuery, page, pageSize int) (*dto.PaginatedResponse, error)
	GetUser(db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	SetApprovalStatus(ctx context.Context, db *gorm.DB, userID string, status models.ApprovalStatus) (*models.Account, error)
	SetRoles(ctx context.Context, db *gorm.DB, userID string, req *dto.SetRolesRequest) (*models.RoleSet, error)
	DeleteUser(ctx context.Context, db *gorm.DB, adminID, userID string) error
	GetStats(db *gorm.DB) (*dto.AdminStatsResponse, error)
}

type AdminServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	roleRepo    repositories.RoleRepository
	notifier    NotificationService
}

func NewAdminService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	roleRepo repositories.RoleRepository,
	notifier NotificationService,
) AdminService {
	return &AdminServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
		notifier:    notifier,
	}
}

func (s *AdminServiceImpl) ListUsers(db *gorm.DB, query *dto.AdminUserListQuery, page, pageSize int) (*dto.PaginatedResponse, error) {
	filter := repositories.UserFilter{
		ApprovalStatus: query.ApprovalStatus,
		Role:           query.Role,
		Search:         query.Search,
		Page:           page,
		PageSize:       pageSize,
	}
	users, total, err := s.userRepo.FindWithFilter(db, filter)
	if err != nil {
		return nil, handleAdminError(err)
	}
	return dto.NewPaginatedResponse(users, total, page, pageSize), nil
}

func (s *AdminServiceImpl) GetUser(db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	account, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleAdminError(err)
	}
	roleProfiles, err := s.profileRepo.FindRoleProfiles(db, userID)
	if err != nil {
		return nil, handleAdminError(err)
	}
	return &dto.ProfileResponse{
		Profile:      account.Profile,
		Roles:        dto.RoleSelectionFromSet(account.Roles),
		RoleProfiles: roleProfiles,
	}, nil
}

func (s *AdminServiceImpl) SetApprovalStatus(ctx context.Context, db *gorm.DB, userID string, status models.ApprovalStatus) (*models.Account, error) {
	if !status.IsValid() {
		return nil, apperrors.NewBadRequestError("Invalid approval status")
	}

	if err := s.userRepo.UpdateApprovalStatus(db, userID, status); err != nil {
		return nil, handleAdminError(err)
	}
	account, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleAdminError(err)
	}

	logger.CtxInfo(ctx, "Account approval status changed", "user_id", userID, "status", status)
	s.notifier.AccountDecision(ctx, account)
	return account, nil
}

// SetRoles - админ может выставить любой набор, включая admin
func (s *AdminServiceImpl) SetRoles(ctx context.Context, db *gorm.DB, userID string, req *dto.SetRolesRequest) (*models.RoleSet, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	current, err := s.roleRepo.FindByUserID(tx, userID)
	if err != nil {
		return nil, handleAdminError(err)
	}

	next := req.Roles.ToRoleSet(userID)
	if err := s.roleRepo.Save(tx, next); err != nil {
		return nil, handleAdminError(err)
	}
	if err := dropRoleProfiles(tx, s.profileRepo, current, next); err != nil {
		return nil, handleAdminError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Roles set by admin", "user_id", userID, "roles", next.Roles())
	return next, nil
}

func (s *AdminServiceImpl) DeleteUser(ctx context.Context, db *gorm.DB, adminID, userID string) error {
	if adminID == userID {
		return apperrors.ErrInvalidOperation("admin", "Admins cannot delete their own account")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if err := s.userRepo.DeleteWithDependents(tx, userID); err != nil {
		return handleAdminError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User deleted by admin", "user_id", userID, "admin_id", adminID)
	return nil
}

func (s *AdminServiceImpl) GetStats(db *gorm.DB) (*dto.AdminStatsResponse, error) {
	counts, err := s.userRepo.CountByApprovalStatus(db)
	if err != nil {
		return nil, handleAdminError(err)
	}
	return &dto.AdminStatsResponse{UsersByApproval: counts}, nil
}

func handleAdminError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrUserNotFound) ||
		errors.Is(err, repositories.ErrRoleSetNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
