package repositories

import (
	"errors"
	"time"

	"proconnect_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationAlreadyExists = errors.New("application already exists")
)

type ApplicationRepository interface {
	Create(db *gorm.DB, application *models.Application) error
	FindByID(db *gorm.DB, id string) (*models.Application, error)
	ExistsForUser(db *gorm.DB, userID, opportunityID string) (bool, error)
	ListByUser(db *gorm.DB, userID string) ([]models.Application, error)
	ListByOpportunity(db *gorm.DB, opportunityID string) ([]models.Application, error)
	UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error
}

type ApplicationRepositoryImpl struct{}

func NewApplicationRepository() ApplicationRepository {
	return &ApplicationRepositoryImpl{}
}

// Create проверяет уникальность (user_id, opportunity_id) до вставки.
// Уникальный индекс в БД остается последней линией защиты.
func (r *ApplicationRepositoryImpl) Create(db *gorm.DB, application *models.Application) error {
	exists, err := r.ExistsForUser(db, application.UserID, application.OpportunityID)
	if err != nil {
		return err
	}
	if exists {
		return ErrApplicationAlreadyExists
	}
	if err := db.Omit("Opportunity").Create(application).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrApplicationAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	var application models.Application
	if err := db.Preload("Opportunity").First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *ApplicationRepositoryImpl) ExistsForUser(db *gorm.DB, userID, opportunityID string) (bool, error) {
	var count int64
	err := db.Model(&models.Application{}).
		Where("user_id = ? AND opportunity_id = ?", userID, opportunityID).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) ListByUser(db *gorm.DB, userID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Preload("Opportunity").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) ListByOpportunity(db *gorm.DB, opportunityID string) ([]models.Application, error) {
	var applications []models.Application
	err := db.Where("opportunity_id = ?", opportunityID).
		Order("created_at DESC").
		Find(&applications).Error
	return applications, err
}

func (r *ApplicationRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error {
	result := db.Model(&models.Application{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
