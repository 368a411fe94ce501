package dto

import (
	"mime/multipart"

	"github.com/shopspring/decimal"
)

type VideoRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"omitempty,max=5000"`
	URL          string `json:"url" validate:"required,url,max=500"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url,max=500"`
	Published    bool   `json:"published"`
	SortOrder    int    `json:"sortOrder"`
}

type LeaderRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Title       string `json:"title" validate:"omitempty,max=200"`
	Bio         string `json:"bio" validate:"omitempty,max=5000"`
	PhotoURL    string `json:"photoUrl" validate:"omitempty,url,max=500"`
	LinkedinURL string `json:"linkedinUrl" validate:"omitempty,url,max=500"`
	Published   bool   `json:"published"`
	SortOrder   int    `json:"sortOrder"`
}

// GalleryUploadRequest - multipart форма загрузки изображения
type GalleryUploadRequest struct {
	File      *multipart.FileHeader `form:"file" json:"-" validate:"required"`
	Title     string                `form:"title" json:"title" validate:"omitempty,max=200"`
	Caption   string                `form:"caption" json:"caption" validate:"omitempty,max=2000"`
	Published bool                  `form:"published" json:"published"`
	SortOrder int                   `form:"sortOrder" json:"sortOrder"`
}

type UpdateGalleryImageRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Caption   *string `json:"caption" validate:"omitempty,max=2000"`
	Published *bool   `json:"published"`
	SortOrder *int    `json:"sortOrder"`
}

// --- Справочники ---

type CountryRequest struct {
	Code        string `json:"code" validate:"required,iso3166_1_alpha2"`
	Name        string `json:"name" validate:"required,max=100"`
	DisplayName string `json:"displayName" validate:"omitempty,max=100"`
	Enabled     bool   `json:"enabled"`
}

type CityRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	DisplayName string `json:"displayName" validate:"omitempty,max=100"`
	Enabled     bool   `json:"enabled"`
}

// UpdateGeoRequest - включение и переименование страны или города
type UpdateGeoRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	DisplayName *string `json:"displayName" validate:"omitempty,max=100"`
	Enabled     *bool   `json:"enabled"`
}

// --- Членство ---

type MembershipTierRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Currency    string           `json:"currency" validate:"required,iso4217"`
	Benefits    []string         `json:"benefits" validate:"omitempty,max=30,dive,min=1,max=200"`
	Active      bool             `json:"active"`
	SortOrder   int              `json:"sortOrder"`
}

type MembershipApplyRequest struct {
	TierID  string `json:"tierId" validate:"required,max=36"`
	Message string `json:"message" validate:"omitempty,max=2000"`
}

type MembershipApplicationsQuery struct {
	Status string `form:"status" json:"status" validate:"omitempty,approval-status"`
}
