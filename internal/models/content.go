package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Video struct {
	BaseModel
	Title        string `gorm:"type:varchar(200);not null" json:"title"`
	Description  string `gorm:"type:text" json:"description,omitempty"`
	URL          string `gorm:"type:varchar(500);not null" json:"url"`
	ThumbnailURL string `gorm:"type:varchar(500)" json:"thumbnailUrl,omitempty"`
	Published    bool   `gorm:"index" json:"published"`
	SortOrder    int    `json:"sortOrder"`
}

type Leader struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Title       string `gorm:"type:varchar(200)" json:"title,omitempty"`
	Bio         string `gorm:"type:text" json:"bio,omitempty"`
	PhotoURL    string `gorm:"type:varchar(500)" json:"photoUrl,omitempty"`
	LinkedinURL string `gorm:"type:varchar(500)" json:"linkedinUrl,omitempty"`
	Published   bool   `gorm:"index" json:"published"`
	SortOrder   int    `json:"sortOrder"`
}

// GalleryImage - оригинал и миниатюра лежат в Storage, в БД только ключи и URL
type GalleryImage struct {
	BaseModel
	Title        string `gorm:"type:varchar(200)" json:"title,omitempty"`
	Caption      string `gorm:"type:text" json:"caption,omitempty"`
	StorageKey   string `gorm:"type:varchar(500);not null" json:"-"`
	ThumbKey     string `gorm:"type:varchar(500)" json:"-"`
	ImageURL     string `gorm:"type:varchar(1000);not null" json:"imageUrl"`
	ThumbnailURL string `gorm:"type:varchar(1000)" json:"thumbnailUrl,omitempty"`
	MimeType     string `gorm:"type:varchar(100)" json:"mimeType"`
	Size         int64  `json:"size"`
	Published    bool   `gorm:"index" json:"published"`
	SortOrder    int    `json:"sortOrder"`
}

// Country / City - справочники. DisplayName переопределяет Name при выдаче.
type Country struct {
	BaseModel
	Code        string `gorm:"type:varchar(2);uniqueIndex;not null" json:"code"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	DisplayName string `gorm:"type:varchar(100)" json:"displayName,omitempty"`
	Enabled     bool   `gorm:"index" json:"enabled"`

	Cities []City `gorm:"foreignKey:CountryID;constraint:OnDelete:CASCADE" json:"cities,omitempty"`
}

type City struct {
	BaseModel
	CountryID   string `gorm:"type:varchar(36);not null;index" json:"countryId"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	DisplayName string `gorm:"type:varchar(100)" json:"displayName,omitempty"`
	Enabled     bool   `gorm:"index" json:"enabled"`
}

type MembershipTier struct {
	BaseModel
	Name        string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	Currency    string          `gorm:"type:varchar(3);not null" json:"currency"`
	Benefits    datatypes.JSON  `json:"benefits,omitempty"`
	Active      bool            `gorm:"index" json:"active"`
	SortOrder   int             `json:"sortOrder"`
}

type MembershipApplication struct {
	BaseModel
	UserID  string         `gorm:"type:varchar(128);not null;index" json:"userId"`
	TierID  string         `gorm:"type:varchar(36);not null;index" json:"tierId"`
	Message string         `gorm:"type:text" json:"message,omitempty"`
	Status  ApprovalStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	Tier    *MembershipTier `gorm:"foreignKey:TierID" json:"tier,omitempty"`
	Account *Account        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
