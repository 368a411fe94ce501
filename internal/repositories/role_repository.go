package repositories

import (
	"errors"

	"proconnect_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRoleSetNotFound = errors.New("role set not found")

type RoleRepository interface {
	Create(db *gorm.DB, roles *models.RoleSet) error
	FindByUserID(db *gorm.DB, userID string) (*models.RoleSet, error)
	// Save перезаписывает все шесть флагов
	Save(db *gorm.DB, roles *models.RoleSet) error
	Delete(db *gorm.DB, userID string) error
}

type RoleRepositoryImpl struct{}

func NewRoleRepository() RoleRepository {
	return &RoleRepositoryImpl{}
}

func (r *RoleRepositoryImpl) Create(db *gorm.DB, roles *models.RoleSet) error {
	return db.Create(roles).Error
}

func (r *RoleRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.RoleSet, error) {
	var roles models.RoleSet
	if err := db.First(&roles, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleSetNotFound
		}
		return nil, err
	}
	return &roles, nil
}

func (r *RoleRepositoryImpl) Save(db *gorm.DB, roles *models.RoleSet) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(roles).Error
}

func (r *RoleRepositoryImpl) Delete(db *gorm.DB, userID string) error {
	result := db.Where("user_id = ?", userID).Delete(&models.RoleSet{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoleSetNotFound
	}
	return nil
}
