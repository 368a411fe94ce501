package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Профили по ролям: 0 или 1 на аккаунт, только если флаг роли выставлен.

type ProfessionalProfile struct {
	UserID          string         `gorm:"type:varchar(128);primaryKey" json:"userId"`
	Title           string         `gorm:"type:varchar(200)" json:"title"`
	Industry        string         `gorm:"type:varchar(100)" json:"industry,omitempty"`
	YearsExperience int            `json:"yearsExperience"`
	Skills          datatypes.JSON `json:"skills,omitempty"`
	PortfolioURL    string         `gorm:"type:varchar(500)" json:"portfolioUrl,omitempty"`
	Availability    string         `gorm:"type:varchar(50)" json:"availability,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

type JobSeekerProfile struct {
	UserID            string              `gorm:"type:varchar(128);primaryKey" json:"userId"`
	DesiredTitle      string              `gorm:"type:varchar(200)" json:"desiredTitle"`
	ExperienceLevel   string              `gorm:"type:varchar(30)" json:"experienceLevel,omitempty"`
	Skills            datatypes.JSON      `json:"skills,omitempty"`
	SalaryExpectation decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"salaryExpectation"`
	Currency          string              `gorm:"type:varchar(3)" json:"currency,omitempty"`
	ResumeURL         string              `gorm:"type:varchar(500)" json:"resumeUrl,omitempty"`
	OpenToRemote      bool                `json:"openToRemote"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

type EmployerProfile struct {
	UserID      string    `gorm:"type:varchar(128);primaryKey" json:"userId"`
	CompanyName string    `gorm:"type:varchar(200);not null" json:"companyName"`
	CompanySize string    `gorm:"type:varchar(30)" json:"companySize,omitempty"`
	Industry    string    `gorm:"type:varchar(100)" json:"industry,omitempty"`
	Website     string    `gorm:"type:varchar(500)" json:"website,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type BusinessOwnerProfile struct {
	UserID       string    `gorm:"type:varchar(128);primaryKey" json:"userId"`
	BusinessName string    `gorm:"type:varchar(200);not null" json:"businessName"`
	Industry     string    `gorm:"type:varchar(100)" json:"industry,omitempty"`
	Stage        string    `gorm:"type:varchar(50)" json:"stage,omitempty"`
	Employees    int       `json:"employees"`
	Website      string    `gorm:"type:varchar(500)" json:"website,omitempty"`
	LookingFor   string    `gorm:"type:text" json:"lookingFor,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type InvestorProfile struct {
	UserID       string              `gorm:"type:varchar(128);primaryKey" json:"userId"`
	InvestorType string              `gorm:"type:varchar(50)" json:"investorType"`
	FocusAreas   datatypes.JSON      `json:"focusAreas,omitempty"`
	Stages       datatypes.JSON      `json:"stages,omitempty"`
	TicketMin    decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"ticketMin"`
	TicketMax    decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"ticketMax"`
	Currency     string              `gorm:"type:varchar(3)" json:"currency,omitempty"`
	PortfolioURL string              `gorm:"type:varchar(500)" json:"portfolioUrl,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// RoleProfiles - все профили по ролям одного аккаунта
type RoleProfiles struct {
	Professional  *ProfessionalProfile  `json:"professional,omitempty"`
	JobSeeker     *JobSeekerProfile     `json:"jobSeeker,omitempty"`
	Employer      *EmployerProfile      `json:"employer,omitempty"`
	BusinessOwner *BusinessOwnerProfile `json:"businessOwner,omitempty"`
	Investor      *InvestorProfile      `json:"investor,omitempty"`
}
