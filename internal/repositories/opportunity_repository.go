package repositories

import (
	"errors"
	"time"

	"proconnect_backend/internal/models"

	"gorm.io/gorm"
)

var ErrOpportunityNotFound = errors.New("opportunity not found")

type OpportunityRepository interface {
	Create(db *gorm.DB, opportunity *models.Opportunity) error
	FindByID(db *gorm.DB, id string) (*models.Opportunity, error)
	Update(db *gorm.DB, id string, values map[string]interface{}) error
	// Delete удаляет возможность вместе с откликами на нее
	Delete(db *gorm.DB, id string) error

	ListPublic(db *gorm.DB, filter OpportunityFilter) ([]models.Opportunity, int64, error)
	ListByOwner(db *gorm.DB, userID string) ([]models.Opportunity, error)
	ListByApproval(db *gorm.DB, filter OpportunityFilter) ([]models.Opportunity, int64, error)
	UpdateApprovalStatus(db *gorm.DB, id string, status models.ApprovalStatus) error
}

type OpportunityFilter struct {
	Type           models.OpportunityType
	ApprovalStatus models.ApprovalStatus
	Country        string
	City           string
	Page           int
	PageSize       int
}

type OpportunityRepositoryImpl struct{}

func NewOpportunityRepository() OpportunityRepository {
	return &OpportunityRepositoryImpl{}
}

func (r *OpportunityRepositoryImpl) Create(db *gorm.DB, opportunity *models.Opportunity) error {
	return db.Omit("Owner", "Applications").Create(opportunity).Error
}

func (r *OpportunityRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	if err := db.First(&opportunity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, err
	}
	return &opportunity, nil
}

func (r *OpportunityRepositoryImpl) Update(db *gorm.DB, id string, values map[string]interface{}) error {
	if len(values) == 0 {
		return nil
	}
	values["updated_at"] = time.Now()

	result := db.Model(&models.Opportunity{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOpportunityNotFound
	}
	return nil
}

func (r *OpportunityRepositoryImpl) Delete(db *gorm.DB, id string) error {
	if err := db.Where("opportunity_id = ?", id).Delete(&models.Application{}).Error; err != nil {
		return err
	}
	result := db.Delete(&models.Opportunity{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOpportunityNotFound
	}
	return nil
}

// ListPublic - только approved И open. Фильтр ApprovalStatus здесь игнорируется.
func (r *OpportunityRepositoryImpl) ListPublic(db *gorm.DB, filter OpportunityFilter) ([]models.Opportunity, int64, error) {
	query := db.Model(&models.Opportunity{}).
		Where("approval_status = ? AND status = ?", models.ApprovalStatusApproved, models.OpportunityStatusOpen)
	query = applyOpportunityFilter(query, filter)
	return paginateOpportunities(query, filter)
}

func (r *OpportunityRepositoryImpl) ListByOwner(db *gorm.DB, userID string) ([]models.Opportunity, error) {
	var opportunities []models.Opportunity
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&opportunities).Error
	return opportunities, err
}

func (r *OpportunityRepositoryImpl) ListByApproval(db *gorm.DB, filter OpportunityFilter) ([]models.Opportunity, int64, error) {
	query := db.Model(&models.Opportunity{})
	if filter.ApprovalStatus != "" {
		query = query.Where("approval_status = ?", filter.ApprovalStatus)
	}
	query = applyOpportunityFilter(query, filter)
	return paginateOpportunities(query, filter)
}

func (r *OpportunityRepositoryImpl) UpdateApprovalStatus(db *gorm.DB, id string, status models.ApprovalStatus) error {
	return r.Update(db, id, map[string]interface{}{"approval_status": status})
}

func applyOpportunityFilter(query *gorm.DB, filter OpportunityFilter) *gorm.DB {
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	return query
}

func paginateOpportunities(query *gorm.DB, filter OpportunityFilter) ([]models.Opportunity, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var opportunities []models.Opportunity
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&opportunities).Error
	return opportunities, total, err
}
