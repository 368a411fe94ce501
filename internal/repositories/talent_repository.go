package repositories

import (
	"fmt"
	"strings"

	"proconnect_backend/internal/models"

	"gorm.io/gorm"
)

type TalentRepository interface {
	// FindTalent - одобренные аккаунты, у которых выставлен флаг роли
	FindTalent(db *gorm.DB, filter TalentFilter) ([]models.Account, int64, error)
}

type TalentFilter struct {
	Role     models.Role
	Country  string
	City     string
	Search   string
	Page     int
	PageSize int
}

type TalentRepositoryImpl struct{}

func NewTalentRepository() TalentRepository {
	return &TalentRepositoryImpl{}
}

func (r *TalentRepositoryImpl) FindTalent(db *gorm.DB, filter TalentFilter) ([]models.Account, int64, error) {
	col := filter.Role.Column()
	if col == "" {
		return nil, 0, fmt.Errorf("unknown role %q", filter.Role)
	}

	query := db.Model(&models.Account{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Where("users.approval_status = ?", models.ApprovalStatusApproved).
		Where("user_roles."+col+" = ?", true)

	if filter.Country != "" || filter.City != "" || filter.Search != "" {
		query = query.Joins("LEFT JOIN user_profiles ON user_profiles.user_id = users.id")
		if filter.Country != "" {
			query = query.Where("user_profiles.country = ?", filter.Country)
		}
		if filter.City != "" {
			query = query.Where("user_profiles.city = ?", filter.City)
		}
		if filter.Search != "" {
			search := "%" + strings.ToLower(filter.Search) + "%"
			query = query.Where(
				"LOWER(users.display_name) LIKE ? OR LOWER(user_profiles.headline) LIKE ? OR LOWER(user_profiles.bio) LIKE ?",
				search, search, search,
			)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var accounts []models.Account
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.Preload("Profile").Preload("Roles").
		Order("users.created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&accounts).Error
	return accounts, total, err
}
