package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"proconnect_backend/internal/logger"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
	"proconnect_backend/internal/services/dto"
	"proconnect_backend/pkg/apperrors"
)

// GeoService - справочник стран и городов
type GeoService interface {
	ListCountries(db *gorm.DB, enabledOnly bool) ([]models.Country, error)
	// ListPublicCities - города включенной страны, для выключенной 404
	ListPublicCities(db *gorm.DB, countryID string) ([]models.City, error)
	ListCities(db *gorm.DB, countryID string) ([]models.City, error)

	CreateCountry(ctx context.Context, db *gorm.DB, req *dto.CountryRequest) (*models.Country, error)
	UpdateCountry(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateGeoRequest) (*models.Country, error)
	DeleteCountry(ctx context.Context, db *gorm.DB, id string) error

	CreateCity(ctx context.Context, db *gorm.DB, countryID string, req *dto.CityRequest) (*models.City, error)
	UpdateCity(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateGeoRequest) (*models.City, error)
	DeleteCity(ctx context.Context, db *gorm.DB, id string) error
}

type GeoServiceImpl struct {
	geoRepo repositories.GeoRepository
}

func NewGeoService(geoRepo repositories.GeoRepository) GeoService {
	return &GeoServiceImpl{geoRepo: geoRepo}
}

func (s *GeoServiceImpl) ListCountries(db *gorm.DB, enabledOnly bool) ([]models.Country, error) {
	countries, err := s.geoRepo.ListCountries(db, enabledOnly)
	if err != nil {
		return nil, handleGeoError(err)
	}
	return countries, nil
}

func (s *GeoServiceImpl) ListPublicCities(db *gorm.DB, countryID string) ([]models.City, error) {
	country, err := s.geoRepo.FindCountryByID(db, countryID)
	if err != nil {
		return nil, handleGeoError(err)
	}
	if !country.Enabled {
		return nil, apperrors.ErrNotFound(repositories.ErrCountryNotFound)
	}
	cities, err := s.geoRepo.ListCities(db, countryID, true)
	if err != nil {
		return nil, handleGeoError(err)
	}
	return cities, nil
}

func (s *GeoServiceImpl) ListCities(db *gorm.DB, countryID string) ([]models.City, error) {
	if _, err := s.geoRepo.FindCountryByID(db, countryID); err != nil {
		return nil, handleGeoError(err)
	}
	cities, err := s.geoRepo.ListCities(db, countryID, false)
	if err != nil {
		return nil, handleGeoError(err)
	}
	return cities, nil
}

func (s *GeoServiceImpl) CreateCountry(ctx context.Context, db *gorm.DB, req *dto.CountryRequest) (*models.Country, error) {
	country := &models.Country{
		Code:        strings.ToUpper(req.Code),
		Name:        strings.TrimSpace(req.Name),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Enabled:     req.Enabled,
	}
	if err := s.geoRepo.CreateCountry(db, country); err != nil {
		return nil, handleGeoError(err)
	}
	logger.CtxInfo(ctx, "Country created", "country_id", country.ID, "code", country.Code)
	return country, nil
}

func (s *GeoServiceImpl) UpdateCountry(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateGeoRequest) (*models.Country, error) {
	if values := geoValues(req); len(values) > 0 {
		if err := s.geoRepo.UpdateCountry(db, id, values); err != nil {
			return nil, handleGeoError(err)
		}
		logger.CtxInfo(ctx, "Country updated", "country_id", id)
	}
	country, err := s.geoRepo.FindCountryByID(db, id)
	if err != nil {
		return nil, handleGeoError(err)
	}
	return country, nil
}

func (s *GeoServiceImpl) DeleteCountry(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.geoRepo.DeleteCountry(db, id); err != nil {
		return handleGeoError(err)
	}
	logger.CtxInfo(ctx, "Country deleted", "country_id", id)
	return nil
}

func (s *GeoServiceImpl) CreateCity(ctx context.Context, db *gorm.DB, countryID string, req *dto.CityRequest) (*models.City, error) {
	if _, err := s.geoRepo.FindCountryByID(db, countryID); err != nil {
		return nil, handleGeoError(err)
	}
	city := &models.City{
		CountryID:   countryID,
		Name:        strings.TrimSpace(req.Name),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Enabled:     req.Enabled,
	}
	if err := s.geoRepo.CreateCity(db, city); err != nil {
		return nil, handleGeoError(err)
	}
	logger.CtxInfo(ctx, "City created", "city_id", city.ID, "country_id", countryID)
	return city, nil
}

func (s *GeoServiceImpl) UpdateCity(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateGeoRequest) (*models.City, error) {
	if values := geoValues(req); len(values) > 0 {
		if err := s.geoRepo.UpdateCity(db, id, values); err != nil {
			return nil, handleGeoError(err)
		}
		logger.CtxInfo(ctx, "City updated", "city_id", id)
	}
	city, err := s.geoRepo.FindCityByID(db, id)
	if err != nil {
		return nil, handleGeoError(err)
	}
	return city, nil
}

func (s *GeoServiceImpl) DeleteCity(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.geoRepo.DeleteCity(db, id); err != nil {
		return handleGeoError(err)
	}
	logger.CtxInfo(ctx, "City deleted", "city_id", id)
	return nil
}

func geoValues(req *dto.UpdateGeoRequest) map[string]interface{} {
	values := make(map[string]interface{})
	if req.Name != nil {
		values["name"] = strings.TrimSpace(*req.Name)
	}
	if req.DisplayName != nil {
		values["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Enabled != nil {
		values["enabled"] = *req.Enabled
	}
	return values
}

func handleGeoError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	if errors.Is(err, repositories.ErrCountryAlreadyExists) {
		return apperrors.ErrAlreadyExists(err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrCountryNotFound) ||
		errors.Is(err, repositories.ErrCityNotFound) {
		return apperrors.ErrNotFound(err)
	}
	return apperrors.InternalError(err)
}
