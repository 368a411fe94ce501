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

// ApplicationService - отклики соискателей на вакансии
type ApplicationService interface {
	Apply(ctx context.Context, db *gorm.DB, actorID, opportunityID string, req *dto.ApplyRequest) (*models.Application, error)
	ListMine(db *gorm.DB, actorID string) ([]models.Application, error)
	ListForOpportunity(db *gorm.DB, actorID, opportunityID string) ([]models.Application, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, actorID, applicationID string, status models.ApplicationStatus) (*models.Application, error)
}

type ApplicationServiceImpl struct {
	applicationRepo repositories.ApplicationRepository
	opportunityRepo repositories.OpportunityRepository
	roleRepo        repositories.RoleRepository
}

func NewApplicationService(
	applicationRepo repositories.ApplicationRepository,
	opportunityRepo repositories.OpportunityRepository,
	roleRepo repositories.RoleRepository,
) ApplicationService {
	return &ApplicationServiceImpl{
		applicationRepo: applicationRepo,
		opportunityRepo: opportunityRepo,
		roleRepo:        roleRepo,
	}
}

func (s *ApplicationServiceImpl) Apply(ctx context.Context, db *gorm.DB, actorID, opportunityID string, req *dto.ApplyRequest) (*models.Application, error) {
	if err := requireRole(db, s.roleRepo, actorID, models.RoleJobSeeker, apperrors.ErrJobSeekerRoleRequired); err != nil {
		return nil, err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	opportunity, err := s.opportunityRepo.FindByID(tx, opportunityID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	if opportunity.Type != models.OpportunityTypeJob || !opportunity.IsPublic() {
		return nil, apperrors.ErrOpportunityNotAcceptingApplications
	}
	if opportunity.UserID == actorID {
		return nil, apperrors.ErrInvalidOperation("applications", "Cannot apply to your own posting")
	}

	exists, err := s.applicationRepo.ExistsForUser(tx, actorID, opportunityID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	if exists {
		return nil, apperrors.ErrApplicationExists
	}

	application := &models.Application{
		UserID:        actorID,
		OpportunityID: opportunityID,
		Status:        models.ApplicationStatusApplied,
		CoverLetter:   req.CoverLetter,
		ResumeURL:     req.ResumeURL,
	}
	if err := s.applicationRepo.Create(tx, application); err != nil {
		return nil, handleApplicationError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Application submitted", "application_id", application.ID, "opportunity_id", opportunityID)
	return application, nil
}

func (s *ApplicationServiceImpl) ListMine(db *gorm.DB, actorID string) ([]models.Application, error) {
	items, err := s.applicationRepo.ListByUser(db, actorID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	return items, nil
}

func (s *ApplicationServiceImpl) ListForOpportunity(db *gorm.DB, actorID, opportunityID string) ([]models.Application, error) {
	opportunity, err := s.opportunityRepo.FindByID(db, opportunityID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	if opportunity.UserID != actorID {
		return nil, apperrors.ErrNotOpportunityOwner
	}
	items, err := s.applicationRepo.ListByOpportunity(db, opportunityID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	return items, nil
}

// UpdateStatus - владелец вакансии ставит любой статус, соискатель может только отозвать отклик
func (s *ApplicationServiceImpl) UpdateStatus(ctx context.Context, db *gorm.DB, actorID, applicationID string, status models.ApplicationStatus) (*models.Application, error) {
	if !status.IsValid() {
		return nil, apperrors.NewBadRequestError("Invalid application status")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	application, err := s.applicationRepo.FindByID(tx, applicationID)
	if err != nil {
		return nil, handleApplicationError(err)
	}
	opportunity, err := s.opportunityRepo.FindByID(tx, application.OpportunityID)
	if err != nil {
		return nil, handleApplicationError(err)
	}

	switch {
	case opportunity.UserID == actorID:
	case application.UserID == actorID:
		if status != models.ApplicationStatusWithdrawn {
			return nil, apperrors.NewForbiddenError("Applicants can only withdraw their application")
		}
	default:
		return nil, apperrors.ErrInsufficientPermissions
	}

	if err := s.applicationRepo.UpdateStatus(tx, applicationID, status); err != nil {
		return nil, handleApplicationError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	application.Status = status
	logger.CtxInfo(ctx, "Application status changed", "application_id", applicationID, "status", status)
	return application, nil
}

func handleApplicationError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, repositories.ErrApplicationAlreadyExists) {
		return apperrors.ErrApplicationExists
	}
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrApplicationNotFound) ||
		errors.Is(err, repositories.ErrOpportunityNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
