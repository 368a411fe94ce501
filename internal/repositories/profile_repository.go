package repositories

import (
	"errors"
	"fmt"

	"proconnect_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrRoleProfileNotFound = errors.New("role profile not found")
)

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	FindByUserID(db *gorm.DB, userID string) (*models.Profile, error)
	Update(db *gorm.DB, profile *models.Profile) error
	Delete(db *gorm.DB, userID string) error

	// Профили по ролям
	FindRoleProfiles(db *gorm.DB, userID string) (*models.RoleProfiles, error)
	FindRoleProfilesByUserIDs(db *gorm.DB, role models.Role, userIDs []string) (map[string]interface{}, error)
	SaveRoleProfile(db *gorm.DB, role models.Role, profile interface{}) error
	DeleteRoleProfile(db *gorm.DB, role models.Role, userID string) error
}

type ProfileRepositoryImpl struct{}

func NewProfileRepository() ProfileRepository {
	return &ProfileRepositoryImpl{}
}

func (r *ProfileRepositoryImpl) Create(db *gorm.DB, profile *models.Profile) error {
	return db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) Update(db *gorm.DB, profile *models.Profile) error {
	result := db.Model(&models.Profile{}).Where("user_id = ?", profile.UserID).Updates(map[string]interface{}{
		"first_name":   profile.FirstName,
		"last_name":    profile.LastName,
		"headline":     profile.Headline,
		"bio":          profile.Bio,
		"country":      profile.Country,
		"city":         profile.City,
		"phone":        profile.Phone,
		"linkedin_url": profile.LinkedinURL,
		"website_url":  profile.WebsiteURL,
		"avatar_url":   profile.AvatarURL,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) Delete(db *gorm.DB, userID string) error {
	result := db.Where("user_id = ?", userID).Delete(&models.Profile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// --- Профили по ролям ---

func (r *ProfileRepositoryImpl) FindRoleProfiles(db *gorm.DB, userID string) (*models.RoleProfiles, error) {
	out := &models.RoleProfiles{}

	var professional models.ProfessionalProfile
	if ok, err := findOptional(db, &professional, userID); err != nil {
		return nil, err
	} else if ok {
		out.Professional = &professional
	}

	var jobSeeker models.JobSeekerProfile
	if ok, err := findOptional(db, &jobSeeker, userID); err != nil {
		return nil, err
	} else if ok {
		out.JobSeeker = &jobSeeker
	}

	var employer models.EmployerProfile
	if ok, err := findOptional(db, &employer, userID); err != nil {
		return nil, err
	} else if ok {
		out.Employer = &employer
	}

	var businessOwner models.BusinessOwnerProfile
	if ok, err := findOptional(db, &businessOwner, userID); err != nil {
		return nil, err
	} else if ok {
		out.BusinessOwner = &businessOwner
	}

	var investor models.InvestorProfile
	if ok, err := findOptional(db, &investor, userID); err != nil {
		return nil, err
	} else if ok {
		out.Investor = &investor
	}

	return out, nil
}

// FindRoleProfilesByUserIDs - профили одной роли для списка пользователей (для выдачи талантов)
func (r *ProfileRepositoryImpl) FindRoleProfilesByUserIDs(db *gorm.DB, role models.Role, userIDs []string) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	switch role {
	case models.RoleProfessional:
		var rows []models.ProfessionalProfile
		if err := db.Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			result[rows[i].UserID] = &rows[i]
		}
	case models.RoleJobSeeker:
		var rows []models.JobSeekerProfile
		if err := db.Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			result[rows[i].UserID] = &rows[i]
		}
	case models.RoleEmployer:
		var rows []models.EmployerProfile
		if err := db.Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			result[rows[i].UserID] = &rows[i]
		}
	case models.RoleBusinessOwner:
		var rows []models.BusinessOwnerProfile
		if err := db.Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			result[rows[i].UserID] = &rows[i]
		}
	case models.RoleInvestor:
		var rows []models.InvestorProfile
		if err := db.Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
			return nil, err
		}
		for i := range rows {
			result[rows[i].UserID] = &rows[i]
		}
	default:
		return nil, fmt.Errorf("role %q has no profile table", role)
	}
	return result, nil
}

// SaveRoleProfile - upsert по user_id. profile должен быть указателем на модель профиля роли.
func (r *ProfileRepositoryImpl) SaveRoleProfile(db *gorm.DB, role models.Role, profile interface{}) error {
	if _, err := roleProfileModel(role); err != nil {
		return err
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(profile).Error
}

func (r *ProfileRepositoryImpl) DeleteRoleProfile(db *gorm.DB, role models.Role, userID string) error {
	model, err := roleProfileModel(role)
	if err != nil {
		return err
	}
	result := db.Where("user_id = ?", userID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoleProfileNotFound
	}
	return nil
}

func roleProfileModel(role models.Role) (interface{}, error) {
	switch role {
	case models.RoleProfessional:
		return &models.ProfessionalProfile{}, nil
	case models.RoleJobSeeker:
		return &models.JobSeekerProfile{}, nil
	case models.RoleEmployer:
		return &models.EmployerProfile{}, nil
	case models.RoleBusinessOwner:
		return &models.BusinessOwnerProfile{}, nil
	case models.RoleInvestor:
		return &models.InvestorProfile{}, nil
	}
	return nil, fmt.Errorf("role %q has no profile table", role)
}

// findOptional - First без ErrRecordNotFound в логах gorm
func findOptional(db *gorm.DB, dest interface{}, userID string) (bool, error) {
	result := db.Where("user_id = ?", userID).Limit(1).Find(dest)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
