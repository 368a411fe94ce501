package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/internal/validator"
	"proconnect_backend/pkg/apperrors"
)

// UserService - личный профиль, набор ролей и профили по ролям
type UserService interface {
	GetProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*models.Profile, error)
	GetRoles(db *gorm.DB, userID string) (*models.RoleSet, error)
	AssignRoles(ctx context.Context, db *gorm.DB, userID string, req *dto.AssignRolesRequest) (*models.RoleSet, error)
	SaveRoleProfile(ctx context.Context, db *gorm.DB, userID string, role models.Role, input interface{}) (interface{}, error)
	DeleteRoleProfile(db *gorm.DB, userID string, role models.Role) error
}

type UserServiceImpl struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	roleRepo    repositories.RoleRepository
}

func NewUserService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	roleRepo repositories.RoleRepository,
) UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
	}
}

func (s *UserServiceImpl) GetProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	account, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	roleProfiles, err := s.profileRepo.FindRoleProfiles(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	profile := account.Profile
	if profile == nil {
		profile = &models.Profile{UserID: userID}
	}
	return &dto.ProfileResponse{
		Profile:      profile,
		Roles:        dto.RoleSelectionFromSet(account.Roles),
		RoleProfiles: roleProfiles,
	}, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	profile, err := s.profileRepo.FindByUserID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	applyString(&profile.FirstName, req.FirstName)
	applyString(&profile.LastName, req.LastName)
	applyString(&profile.Headline, req.Headline)
	applyString(&profile.Bio, req.Bio)
	applyString(&profile.Country, req.Country)
	applyString(&profile.City, req.City)
	applyString(&profile.Phone, req.Phone)
	applyString(&profile.LinkedinURL, req.LinkedinURL)
	applyString(&profile.WebsiteURL, req.WebsiteURL)
	applyString(&profile.AvatarURL, req.AvatarURL)

	if err := s.profileRepo.Update(tx, profile); err != nil {
		return nil, handleUserError(err)
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			name = strings.TrimSpace(profile.FirstName + " " + profile.LastName)
		}
		if err := s.userRepo.UpdateDisplayName(tx, userID, name); err != nil {
			return nil, handleUserError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Profile updated", "user_id", userID)
	return profile, nil
}

func (s *UserServiceImpl) GetRoles(db *gorm.DB, userID string) (*models.RoleSet, error) {
	roles, err := s.roleRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	return roles, nil
}

// AssignRoles заменяет набор ролей пользователя. Флаг admin не меняется самим пользователем.
func (s *UserServiceImpl) AssignRoles(ctx context.Context, db *gorm.DB, userID string, req *dto.AssignRolesRequest) (*models.RoleSet, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	current, err := s.roleRepo.FindByUserID(tx, userID)
	if err != nil {
		return nil, handleUserError(err)
	}

	next := req.Roles.ToRoleSet(userID)
	if next.Admin && !current.Admin {
		return nil, apperrors.ErrAdminRoleNotAssignable
	}
	next.Admin = current.Admin

	if !next.HasNonAdminRole() {
		vErr := &validator.ValidationError{}
		vErr.Add("roles", "Select at least one role")
		return nil, apperrors.ValidationError(vErr.Issues())
	}

	if err := s.roleRepo.Save(tx, next); err != nil {
		return nil, handleUserError(err)
	}
	if err := dropRoleProfiles(tx, s.profileRepo, current, next); err != nil {
		return nil, handleUserError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Roles assigned", "user_id", userID, "roles", next.Roles())
	return next, nil
}

func (s *UserServiceImpl) SaveRoleProfile(ctx context.Context, db *gorm.DB, userID string, role models.Role, input interface{}) (interface{}, error) {
	if !role.IsValid() || role == models.RoleAdmin {
		return nil, apperrors.NewBadRequestError("Unknown role profile: " + string(role))
	}

	roles, err := s.roleRepo.FindByUserID(db, userID)
	if err != nil {
		return nil, handleUserError(err)
	}
	if !roles.Has(role) {
		return nil, apperrors.ErrRoleNotHeld
	}

	profile, err := roleProfileFromInput(userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.SaveRoleProfile(db, role, profile); err != nil {
		return nil, handleUserError(err)
	}

	logger.CtxInfo(ctx, "Role profile saved", "user_id", userID, "role", role)
	return profile, nil
}

func (s *UserServiceImpl) DeleteRoleProfile(db *gorm.DB, userID string, role models.Role) error {
	if !role.IsValid() || role == models.RoleAdmin {
		return apperrors.NewBadRequestError("Unknown role profile: " + string(role))
	}
	if err := s.profileRepo.DeleteRoleProfile(db, role, userID); err != nil {
		return handleUserError(err)
	}
	return nil
}

// dropRoleProfiles удаляет профили ролей, которые были сняты
func dropRoleProfiles(db *gorm.DB, profileRepo repositories.ProfileRepository, before, after *models.RoleSet) error {
	for _, role := range before.Roles() {
		if role == models.RoleAdmin || after.Has(role) {
			continue
		}
		err := profileRepo.DeleteRoleProfile(db, role, before.UserID)
		if err != nil && !errors.Is(err, repositories.ErrRoleProfileNotFound) {
			return err
		}
	}
	return nil
}

func roleProfileFromInput(userID string, input interface{}) (interface{}, error) {
	switch in := input.(type) {
	case *dto.ProfessionalProfileInput:
		return &models.ProfessionalProfile{
			UserID:          userID,
			Title:           in.Title,
			Industry:        in.Industry,
			YearsExperience: in.YearsExperience,
			Skills:          jsonList(in.Skills),
			PortfolioURL:    in.PortfolioURL,
			Availability:    in.Availability,
		}, nil
	case *dto.JobSeekerProfileInput:
		return &models.JobSeekerProfile{
			UserID:            userID,
			DesiredTitle:      in.DesiredTitle,
			ExperienceLevel:   in.ExperienceLevel,
			Skills:            jsonList(in.Skills),
			SalaryExpectation: nullDecimal(in.SalaryExpectation),
			Currency:          strings.ToUpper(in.Currency),
			ResumeURL:         in.ResumeURL,
			OpenToRemote:      in.OpenToRemote,
		}, nil
	case *dto.EmployerProfileInput:
		return &models.EmployerProfile{
			UserID:      userID,
			CompanyName: in.CompanyName,
			CompanySize: in.CompanySize,
			Industry:    in.Industry,
			Website:     in.Website,
			Description: in.Description,
		}, nil
	case *dto.BusinessOwnerProfileInput:
		return &models.BusinessOwnerProfile{
			UserID:       userID,
			BusinessName: in.BusinessName,
			Industry:     in.Industry,
			Stage:        in.Stage,
			Employees:    in.Employees,
			Website:      in.Website,
			LookingFor:   in.LookingFor,
		}, nil
	case *dto.InvestorProfileInput:
		if in.TicketMin != nil && in.TicketMax != nil && in.TicketMax.LessThan(*in.TicketMin) {
			vErr := &validator.ValidationError{}
			vErr.Add("ticketMax", "Must be greater than or equal to ticketMin")
			return nil, apperrors.ValidationError(vErr.Issues())
		}
		return &models.InvestorProfile{
			UserID:       userID,
			InvestorType: in.InvestorType,
			FocusAreas:   jsonList(in.FocusAreas),
			Stages:       jsonList(in.Stages),
			TicketMin:    nullDecimal(in.TicketMin),
			TicketMax:    nullDecimal(in.TicketMax),
			Currency:     strings.ToUpper(in.Currency),
			PortfolioURL: in.PortfolioURL,
		}, nil
	}
	return nil, apperrors.NewBadRequestError("Unsupported role profile payload")
}

func applyString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

func jsonList(values []string) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func handleUserError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrUserNotFound) ||
		errors.Is(err, repositories.ErrProfileNotFound) ||
		errors.Is(err, repositories.ErrRoleSetNotFound) ||
		errors.Is(err, repositories.ErrRoleProfileNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
