package repositories

import (
	"errors"
	"strings"
	"time"

	"proconnect_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, account *models.Account) error
	FindByID(db *gorm.DB, id string) (*models.Account, error)
	FindByEmail(db *gorm.DB, email string) (*models.Account, error)
	Exists(db *gorm.DB, id string) (bool, error)
	Delete(db *gorm.DB, id string) error
	DeleteWithDependents(db *gorm.DB, id string) error

	UpdateApprovalStatus(db *gorm.DB, id string, status models.ApprovalStatus) error
	UpdateDisplayName(db *gorm.DB, id, displayName string) error
	TouchLastLogin(db *gorm.DB, id string, at time.Time) error

	// Admin operations
	FindWithFilter(db *gorm.DB, filter UserFilter) ([]models.Account, int64, error)
	CountByApprovalStatus(db *gorm.DB) (map[models.ApprovalStatus]int64, error)
}

type UserFilter struct {
	ApprovalStatus models.ApprovalStatus
	Role           models.Role
	Search         string
	Page           int
	PageSize       int
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, account *models.Account) error {
	var count int64
	if err := db.Model(&models.Account{}).
		Where("id = ? OR email = ?", account.ID, account.Email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}
	return db.Omit("Profile", "Roles", "ProfessionalProfile", "JobSeekerProfile", "EmployerProfile",
		"BusinessOwnerProfile", "InvestorProfile", "Applications").Create(account).Error
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Account, error) {
	var account models.Account
	err := db.Preload("Profile").Preload("Roles").First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.Account, error) {
	var account models.Account
	err := db.Preload("Profile").Preload("Roles").
		First(&account, "email = ?", strings.ToLower(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *UserRepositoryImpl) Exists(db *gorm.DB, id string) (bool, error) {
	var count int64
	err := db.Model(&models.Account{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Delete удаляет только строку users. Зависимые строки удаляет вызывающий.
func (r *UserRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Account{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteWithDependents - каскадное удаление аккаунта со всем, чем он владеет.
// Вызывать внутри транзакции.
func (r *UserRepositoryImpl) DeleteWithDependents(db *gorm.DB, id string) error {
	ownOpportunities := db.Model(&models.Opportunity{}).Select("id").Where("user_id = ?", id)

	steps := []func() error{
		func() error {
			return db.Where("opportunity_id IN (?)", ownOpportunities).Delete(&models.Application{}).Error
		},
		func() error { return db.Where("user_id = ?", id).Delete(&models.Application{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&models.Opportunity{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&models.MembershipApplication{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&models.ProfessionalProfile{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&models.JobSeekerProfile{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&models.EmployerProfile{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&models.BusinessOwnerProfile{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&models.InvestorProfile{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&models.RoleSet{}).Error },
		func() error { return db.Where("user_id = ?", id).Delete(&models.Profile{}).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return r.Delete(db, id)
}

func (r *UserRepositoryImpl) UpdateApprovalStatus(db *gorm.DB, id string, status models.ApprovalStatus) error {
	return r.updateColumns(db, id, map[string]interface{}{
		"approval_status": status,
		"updated_at":      time.Now(),
	})
}

func (r *UserRepositoryImpl) UpdateDisplayName(db *gorm.DB, id, displayName string) error {
	return r.updateColumns(db, id, map[string]interface{}{
		"display_name": displayName,
		"updated_at":   time.Now(),
	})
}

func (r *UserRepositoryImpl) TouchLastLogin(db *gorm.DB, id string, at time.Time) error {
	return r.updateColumns(db, id, map[string]interface{}{"last_login": at})
}

func (r *UserRepositoryImpl) updateColumns(db *gorm.DB, id string, values map[string]interface{}) error {
	result := db.Model(&models.Account{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) FindWithFilter(db *gorm.DB, filter UserFilter) ([]models.Account, int64, error) {
	var accounts []models.Account
	query := db.Model(&models.Account{})

	if filter.ApprovalStatus != "" {
		query = query.Where("users.approval_status = ?", filter.ApprovalStatus)
	}
	if col := filter.Role.Column(); col != "" {
		query = query.Joins("JOIN user_roles ON user_roles.user_id = users.id").
			Where("user_roles."+col+" = ?", true)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(users.email) LIKE ? OR LOWER(users.display_name) LIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.Preload("Profile").Preload("Roles").
		Order("users.created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&accounts).Error

	return accounts, total, err
}

func (r *UserRepositoryImpl) CountByApprovalStatus(db *gorm.DB) (map[models.ApprovalStatus]int64, error) {
	var rows []struct {
		ApprovalStatus models.ApprovalStatus
		Count          int64
	}
	err := db.Model(&models.Account{}).
		Select("approval_status, COUNT(*) as count").
		Group("approval_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.ApprovalStatus]int64{
		models.ApprovalStatusPending:  0,
		models.ApprovalStatusApproved: 0,
		models.ApprovalStatusRejected: 0,
	}
	for _, row := range rows {
		counts[row.ApprovalStatus] = row.Count
	}
	return counts, nil
}

// normalizePage - значения по умолчанию как в хендлерах: 1 / 20, максимум 100
func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
