package models

import "time"

// Account - каноничная запись пользователя. ID совпадает с subject токена провайдера.
type Account struct {
	ID             string         `gorm:"type:varchar(128);primaryKey" json:"id"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName    string         `gorm:"type:varchar(255)" json:"displayName"`
	ApprovalStatus ApprovalStatus `gorm:"type:varchar(20);not null;index" json:"approvalStatus"`
	LastLogin      *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	// Relations
	Profile              *Profile              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Roles                *RoleSet              `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
	ProfessionalProfile  *ProfessionalProfile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	JobSeekerProfile     *JobSeekerProfile     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	EmployerProfile      *EmployerProfile      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	BusinessOwnerProfile *BusinessOwnerProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	InvestorProfile      *InvestorProfile      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Applications         []Application         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Account) TableName() string {
	return "users"
}

// Profile - личные данные аккаунта (1:1)
type Profile struct {
	UserID      string    `gorm:"type:varchar(128);primaryKey" json:"userId"`
	FirstName   string    `gorm:"type:varchar(100)" json:"firstName"`
	LastName    string    `gorm:"type:varchar(100)" json:"lastName"`
	Headline    string    `gorm:"type:varchar(200)" json:"headline,omitempty"`
	Bio         string    `gorm:"type:text" json:"bio,omitempty"`
	Country     string    `gorm:"type:varchar(100)" json:"country,omitempty"`
	City        string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	Phone       string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	LinkedinURL string    `gorm:"type:varchar(500)" json:"linkedinUrl,omitempty"`
	WebsiteURL  string    `gorm:"type:varchar(500)" json:"websiteUrl,omitempty"`
	AvatarURL   string    `gorm:"type:varchar(500)" json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Profile) TableName() string {
	return "user_profiles"
}
