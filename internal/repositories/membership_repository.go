package repositories

import (
	"errors"

	"proconnect_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTierNotFound                  = errors.New("membership tier not found")
	ErrTierAlreadyExists             = errors.New("membership tier already exists")
	ErrMembershipApplicationNotFound = errors.New("membership application not found")
	ErrMembershipApplicationPending  = errors.New("membership application already pending")
)

type MembershipRepository interface {
	CreateTier(db *gorm.DB, tier *models.MembershipTier) error
	FindTierByID(db *gorm.DB, id string) (*models.MembershipTier, error)
	ListTiers(db *gorm.DB, activeOnly bool) ([]models.MembershipTier, error)
	UpdateTier(db *gorm.DB, tier *models.MembershipTier) error
	DeleteTier(db *gorm.DB, id string) error

	CreateApplication(db *gorm.DB, application *models.MembershipApplication) error
	FindApplicationByID(db *gorm.DB, id string) (*models.MembershipApplication, error)
	ListApplications(db *gorm.DB, status models.ApprovalStatus) ([]models.MembershipApplication, error)
	ListApplicationsByUser(db *gorm.DB, userID string) ([]models.MembershipApplication, error)
	UpdateApplicationStatus(db *gorm.DB, id string, status models.ApprovalStatus) error
}

type MembershipRepositoryImpl struct{}

func NewMembershipRepository() MembershipRepository {
	return &MembershipRepositoryImpl{}
}

func (r *MembershipRepositoryImpl) CreateTier(db *gorm.DB, tier *models.MembershipTier) error {
	var count int64
	if err := db.Model(&models.MembershipTier{}).Where("name = ?", tier.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrTierAlreadyExists
	}
	return db.Create(tier).Error
}

func (r *MembershipRepositoryImpl) FindTierByID(db *gorm.DB, id string) (*models.MembershipTier, error) {
	var tier models.MembershipTier
	if err := findByID(db, &tier, id, ErrTierNotFound); err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *MembershipRepositoryImpl) ListTiers(db *gorm.DB, activeOnly bool) ([]models.MembershipTier, error) {
	var tiers []models.MembershipTier
	query := db
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("sort_order ASC").Order("price ASC").Find(&tiers).Error
	return tiers, err
}

func (r *MembershipRepositoryImpl) UpdateTier(db *gorm.DB, tier *models.MembershipTier) error {
	return saveExisting(db, tier, tier.ID, ErrTierNotFound)
}

func (r *MembershipRepositoryImpl) DeleteTier(db *gorm.DB, id string) error {
	if err := db.Where("tier_id = ?", id).Delete(&models.MembershipApplication{}).Error; err != nil {
		return err
	}
	return deleteByID(db, &models.MembershipTier{}, id, ErrTierNotFound)
}

// CreateApplication - не больше одной pending-заявки на пользователя
func (r *MembershipRepositoryImpl) CreateApplication(db *gorm.DB, application *models.MembershipApplication) error {
	var count int64
	err := db.Model(&models.MembershipApplication{}).
		Where("user_id = ? AND status = ?", application.UserID, models.ApprovalStatusPending).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrMembershipApplicationPending
	}
	return db.Omit("Tier", "Account").Create(application).Error
}

func (r *MembershipRepositoryImpl) FindApplicationByID(db *gorm.DB, id string) (*models.MembershipApplication, error) {
	var application models.MembershipApplication
	if err := db.Preload("Tier").First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *MembershipRepositoryImpl) ListApplications(db *gorm.DB, status models.ApprovalStatus) ([]models.MembershipApplication, error) {
	var applications []models.MembershipApplication
	query := db.Preload("Tier")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&applications).Error
	return applications, err
}

func (r *MembershipRepositoryImpl) ListApplicationsByUser(db *gorm.DB, userID string) ([]models.MembershipApplication, error) {
	var applications []models.MembershipApplication
	err := db.Preload("Tier").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *MembershipRepositoryImpl) UpdateApplicationStatus(db *gorm.DB, id string, status models.ApprovalStatus) error {
	return updateByID(db, &models.MembershipApplication{}, id, map[string]interface{}{"status": status}, ErrMembershipApplicationNotFound)
}
