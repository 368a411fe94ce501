package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/internal/validator"
	"proconnect_backend/pkg/apperrors"
)

// MembershipService - тарифы членства и заявки на них
type MembershipService interface {
	ListTiers(db *gorm.DB, activeOnly bool) ([]models.MembershipTier, error)
	CreateTier(ctx context.Context, db *gorm.DB, req *dto.MembershipTierRequest) (*models.MembershipTier, error)
	UpdateTier(ctx context.Context, db *gorm.DB, id string, req *dto.MembershipTierRequest) (*models.MembershipTier, error)
	DeleteTier(ctx context.Context, db *gorm.DB, id string) error

	Apply(ctx context.Context, db *gorm.DB, userID string, req *dto.MembershipApplyRequest) (*models.MembershipApplication, error)
	ListMyApplications(db *gorm.DB, userID string) ([]models.MembershipApplication, error)
	ListApplications(db *gorm.DB, status models.ApprovalStatus) ([]models.MembershipApplication, error)
	Decide(ctx context.Context, db *gorm.DB, applicationID string, status models.ApprovalStatus) (*models.MembershipApplication, error)
}

type MembershipServiceImpl struct {
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	notifier       NotificationService
}

func NewMembershipService(
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
) MembershipService {
	return &MembershipServiceImpl{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		notifier:       notifier,
	}
}

func (s *MembershipServiceImpl) ListTiers(db *gorm.DB, activeOnly bool) ([]models.MembershipTier, error) {
	tiers, err := s.membershipRepo.ListTiers(db, activeOnly)
	if err != nil {
		return nil, handleMembershipError(err)
	}
	return tiers, nil
}

func (s *MembershipServiceImpl) CreateTier(ctx context.Context, db *gorm.DB, req *dto.MembershipTierRequest) (*models.MembershipTier, error) {
	tier := &models.MembershipTier{}
	if err := applyTier(tier, req); err != nil {
		return nil, err
	}
	if err := s.membershipRepo.CreateTier(db, tier); err != nil {
		return nil, handleMembershipError(err)
	}
	logger.CtxInfo(ctx, "Membership tier created", "tier_id", tier.ID, "name", tier.Name)
	return tier, nil
}

func (s *MembershipServiceImpl) UpdateTier(ctx context.Context, db *gorm.DB, id string, req *dto.MembershipTierRequest) (*models.MembershipTier, error) {
	tier, err := s.membershipRepo.FindTierByID(db, id)
	if err != nil {
		return nil, handleMembershipError(err)
	}
	if err := applyTier(tier, req); err != nil {
		return nil, err
	}
	if err := s.membershipRepo.UpdateTier(db, tier); err != nil {
		return nil, handleMembershipError(err)
	}
	logger.CtxInfo(ctx, "Membership tier updated", "tier_id", id)
	return tier, nil
}

func (s *MembershipServiceImpl) DeleteTier(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.membershipRepo.DeleteTier(db, id); err != nil {
		return handleMembershipError(err)
	}
	logger.CtxInfo(ctx, "Membership tier deleted", "tier_id", id)
	return nil
}

func (s *MembershipServiceImpl) Apply(ctx context.Context, db *gorm.DB, userID string, req *dto.MembershipApplyRequest) (*models.MembershipApplication, error) {
	tier, err := s.membershipRepo.FindTierByID(db, req.TierID)
	if err != nil {
		return nil, handleMembershipError(err)
	}
	if !tier.Active {
		return nil, apperrors.ErrNotFound(repositories.ErrTierNotFound)
	}

	application := &models.MembershipApplication{
		UserID:  userID,
		TierID:  tier.ID,
		Message: strings.TrimSpace(req.Message),
		Status:  models.ApprovalStatusPending,
	}
	if err := s.membershipRepo.CreateApplication(db, application); err != nil {
		return nil, handleMembershipError(err)
	}
	application.Tier = tier

	logger.CtxInfo(ctx, "Membership application submitted", "application_id", application.ID, "tier_id", tier.ID)
	return application, nil
}

func (s *MembershipServiceImpl) ListMyApplications(db *gorm.DB, userID string) ([]models.MembershipApplication, error) {
	items, err := s.membershipRepo.ListApplicationsByUser(db, userID)
	if err != nil {
		return nil, handleMembershipError(err)
	}
	return items, nil
}

func (s *MembershipServiceImpl) ListApplications(db *gorm.DB, status models.ApprovalStatus) ([]models.MembershipApplication, error) {
	items, err := s.membershipRepo.ListApplications(db, status)
	if err != nil {
		return nil, handleMembershipError(err)
	}
	return items, nil
}

// Decide - решение по заявке, заявитель получает письмо
func (s *MembershipServiceImpl) Decide(ctx context.Context, db *gorm.DB, applicationID string, status models.ApprovalStatus) (*models.MembershipApplication, error) {
	if !status.IsValid() {
		return nil, apperrors.NewBadRequestError("Invalid approval status")
	}
	if err := s.membershipRepo.UpdateApplicationStatus(db, applicationID, status); err != nil {
		return nil, handleMembershipError(err)
	}
	application, err := s.membershipRepo.FindApplicationByID(db, applicationID)
	if err != nil {
		return nil, handleMembershipError(err)
	}

	logger.CtxInfo(ctx, "Membership application decided", "application_id", applicationID, "status", status)

	account, err := s.userRepo.FindByID(db, application.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "Failed to load applicant for notification", err, "application_id", applicationID)
		return application, nil
	}
	s.notifier.MembershipDecision(ctx, account, application.Tier, status)
	return application, nil
}

func applyTier(tier *models.MembershipTier, req *dto.MembershipTierRequest) error {
	if req.Price == nil || req.Price.IsNegative() {
		vErr := &validator.ValidationError{}
		vErr.Add("price", "Must not be negative")
		return apperrors.ValidationError(vErr.Issues())
	}
	tier.Name = strings.TrimSpace(req.Name)
	tier.Description = req.Description
	tier.Price = *req.Price
	tier.Currency = strings.ToUpper(req.Currency)
	tier.Active = req.Active
	tier.SortOrder = req.SortOrder
	tier.Benefits = nil
	if len(req.Benefits) > 0 {
		raw, err := json.Marshal(req.Benefits)
		if err != nil {
			return apperrors.InternalError(err)
		}
		tier.Benefits = datatypes.JSON(raw)
	}
	return nil
}

func handleMembershipError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrTierAlreadyExists):
		return apperrors.ErrAlreadyExists(err)
	case errors.Is(err, repositories.ErrMembershipApplicationPending):
		return apperrors.ErrInvalidOperation("membership", "You already have a pending membership application")
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, repositories.ErrTierNotFound),
		errors.Is(err, repositories.ErrMembershipApplicationNotFound):
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
