package services

import (
	"gorm.io/gorm"

	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/pkg/apperrors"
)

// TalentService - просмотр специалистов и соискателей работодателями
type TalentService interface {
	Browse(db *gorm.DB, actorID string, query *dto.TalentQuery, page, pageSize int) (*dto.PaginatedResponse, error)
}

type TalentServiceImpl struct {
	talentRepo  repositories.TalentRepository
	profileRepo repositories.ProfileRepository
	roleRepo    repositories.RoleRepository
}

func NewTalentService(
	talentRepo repositories.TalentRepository,
	profileRepo repositories.ProfileRepository,
	roleRepo repositories.RoleRepository,
) TalentService {
	return &TalentServiceImpl{
		talentRepo:  talentRepo,
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
	}
}

func (s *TalentServiceImpl) Browse(db *gorm.DB, actorID string, query *dto.TalentQuery, page, pageSize int) (*dto.PaginatedResponse, error) {
	if err := requireRole(db, s.roleRepo, actorID, models.RoleEmployer, apperrors.ErrTalentAccessDenied); err != nil {
		return nil, err
	}
	if query.Role != models.RoleProfessional && query.Role != models.RoleJobSeeker {
		return nil, apperrors.NewBadRequestError("Talent role must be professional or jobSeeker")
	}

	accounts, total, err := s.talentRepo.FindTalent(db, repositories.TalentFilter{
		Role:     query.Role,
		Country:  query.Country,
		City:     query.City,
		Search:   query.Search,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	roleProfiles, err := s.profileRepo.FindRoleProfilesByUserIDs(db, query.Role, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.TalentItem, 0, len(accounts))
	for i := range accounts {
		item := dto.TalentItem{User: &accounts[i]}
		if rp, ok := roleProfiles[accounts[i].ID]; ok {
			item.RoleProfile = rp
		}
		items = append(items, item)
	}
	return dto.NewPaginatedResponse(items, total, page, pageSize), nil
}
