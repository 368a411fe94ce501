package repositories

import (
	"errors"
	"strings"

	"proconnect_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCountryNotFound      = errors.New("country not found")
	ErrCountryAlreadyExists = errors.New("country already exists")
	ErrCityNotFound         = errors.New("city not found")
)

type GeoRepository interface {
	CreateCountry(db *gorm.DB, country *models.Country) error
	FindCountryByID(db *gorm.DB, id string) (*models.Country, error)
	ListCountries(db *gorm.DB, enabledOnly bool) ([]models.Country, error)
	UpdateCountry(db *gorm.DB, id string, values map[string]interface{}) error
	// DeleteCountry удаляет страну вместе с городами
	DeleteCountry(db *gorm.DB, id string) error

	CreateCity(db *gorm.DB, city *models.City) error
	FindCityByID(db *gorm.DB, id string) (*models.City, error)
	ListCities(db *gorm.DB, countryID string, enabledOnly bool) ([]models.City, error)
	UpdateCity(db *gorm.DB, id string, values map[string]interface{}) error
	DeleteCity(db *gorm.DB, id string) error
}

type GeoRepositoryImpl struct{}

func NewGeoRepository() GeoRepository {
	return &GeoRepositoryImpl{}
}

func (r *GeoRepositoryImpl) CreateCountry(db *gorm.DB, country *models.Country) error {
	country.Code = strings.ToUpper(country.Code)

	var count int64
	if err := db.Model(&models.Country{}).Where("code = ?", country.Code).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrCountryAlreadyExists
	}
	return db.Omit("Cities").Create(country).Error
}

func (r *GeoRepositoryImpl) FindCountryByID(db *gorm.DB, id string) (*models.Country, error) {
	var country models.Country
	if err := findByID(db, &country, id, ErrCountryNotFound); err != nil {
		return nil, err
	}
	return &country, nil
}

func (r *GeoRepositoryImpl) ListCountries(db *gorm.DB, enabledOnly bool) ([]models.Country, error) {
	var countries []models.Country
	query := db
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}
	err := query.Order("name ASC").Find(&countries).Error
	return countries, err
}

func (r *GeoRepositoryImpl) UpdateCountry(db *gorm.DB, id string, values map[string]interface{}) error {
	return updateByID(db, &models.Country{}, id, values, ErrCountryNotFound)
}

func (r *GeoRepositoryImpl) DeleteCountry(db *gorm.DB, id string) error {
	if err := db.Where("country_id = ?", id).Delete(&models.City{}).Error; err != nil {
		return err
	}
	return deleteByID(db, &models.Country{}, id, ErrCountryNotFound)
}

func (r *GeoRepositoryImpl) CreateCity(db *gorm.DB, city *models.City) error {
	if _, err := r.FindCountryByID(db, city.CountryID); err != nil {
		return err
	}
	return db.Create(city).Error
}

func (r *GeoRepositoryImpl) FindCityByID(db *gorm.DB, id string) (*models.City, error) {
	var city models.City
	if err := findByID(db, &city, id, ErrCityNotFound); err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *GeoRepositoryImpl) ListCities(db *gorm.DB, countryID string, enabledOnly bool) ([]models.City, error) {
	var cities []models.City
	query := db.Where("country_id = ?", countryID)
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}
	err := query.Order("name ASC").Find(&cities).Error
	return cities, err
}

func (r *GeoRepositoryImpl) UpdateCity(db *gorm.DB, id string, values map[string]interface{}) error {
	return updateByID(db, &models.City{}, id, values, ErrCityNotFound)
}

func (r *GeoRepositoryImpl) DeleteCity(db *gorm.DB, id string) error {
	return deleteByID(db, &models.City{}, id, ErrCityNotFound)
}

func updateByID(db *gorm.DB, model interface{}, id string, values map[string]interface{}, notFound error) error {
	if len(values) == 0 {
		return findByID(db, model, id, notFound)
	}
	result := db.Model(model).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}
