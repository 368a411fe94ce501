package dto

import (
	"github.com/shopspring/decimal"

	"proconnect_backend/internal/models"
)

// ProfileInput - личные данные при регистрации
type ProfileInput struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	DisplayName string `json:"displayName" validate:"omitempty,max=255"`
	Headline    string `json:"headline" validate:"omitempty,max=200"`
	Bio         string `json:"bio" validate:"omitempty,max=5000"`
	Country     string `json:"country" validate:"omitempty,max=100"`
	City        string `json:"city" validate:"omitempty,max=100"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	LinkedinURL string `json:"linkedinUrl" validate:"omitempty,url,max=500"`
	WebsiteURL  string `json:"websiteUrl" validate:"omitempty,url,max=500"`
	AvatarURL   string `json:"avatarUrl" validate:"omitempty,url,max=500"`
}

// UpdateProfileRequest - частичное обновление, nil поля не меняются
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	DisplayName *string `json:"displayName" validate:"omitempty,max=255"`
	Headline    *string `json:"headline" validate:"omitempty,max=200"`
	Bio         *string `json:"bio" validate:"omitempty,max=5000"`
	Country     *string `json:"country" validate:"omitempty,max=100"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	LinkedinURL *string `json:"linkedinUrl" validate:"omitempty,url,max=500"`
	WebsiteURL  *string `json:"websiteUrl" validate:"omitempty,url,max=500"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,url,max=500"`
}

type AssignRolesRequest struct {
	Roles *RoleSelection `json:"roles" validate:"required"`
}

type ProfileResponse struct {
	Profile      *models.Profile      `json:"profile"`
	Roles        RoleSelection        `json:"roles"`
	RoleProfiles *models.RoleProfiles `json:"roleProfiles"`
}

// --- Профили по ролям ---

type ProfessionalProfileInput struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Industry        string   `json:"industry" validate:"omitempty,max=100"`
	YearsExperience int      `json:"yearsExperience" validate:"min=0,max=70"`
	Skills          []string `json:"skills" validate:"omitempty,max=50,dive,min=1,max=50"`
	PortfolioURL    string   `json:"portfolioUrl" validate:"omitempty,url,max=500"`
	Availability    string   `json:"availability" validate:"omitempty,oneof=full-time part-time freelance unavailable"`
}

type JobSeekerProfileInput struct {
	DesiredTitle      string           `json:"desiredTitle" validate:"required,max=200"`
	ExperienceLevel   string           `json:"experienceLevel" validate:"omitempty,oneof=entry junior mid senior lead"`
	Skills            []string         `json:"skills" validate:"omitempty,max=50,dive,min=1,max=50"`
	SalaryExpectation *decimal.Decimal `json:"salaryExpectation"`
	Currency          string           `json:"currency" validate:"omitempty,iso4217"`
	ResumeURL         string           `json:"resumeUrl" validate:"omitempty,url,max=500"`
	OpenToRemote      bool             `json:"openToRemote"`
}

type EmployerProfileInput struct {
	CompanyName string `json:"companyName" validate:"required,max=200"`
	CompanySize string `json:"companySize" validate:"omitempty,oneof=1-10 11-50 51-200 201-1000 1000+"`
	Industry    string `json:"industry" validate:"omitempty,max=100"`
	Website     string `json:"website" validate:"omitempty,url,max=500"`
	Description string `json:"description" validate:"omitempty,max=5000"`
}

type BusinessOwnerProfileInput struct {
	BusinessName string `json:"businessName" validate:"required,max=200"`
	Industry     string `json:"industry" validate:"omitempty,max=100"`
	Stage        string `json:"stage" validate:"omitempty,oneof=idea early growth mature"`
	Employees    int    `json:"employees" validate:"min=0"`
	Website      string `json:"website" validate:"omitempty,url,max=500"`
	LookingFor   string `json:"lookingFor" validate:"omitempty,max=2000"`
}

type InvestorProfileInput struct {
	InvestorType string           `json:"investorType" validate:"required,oneof=angel vc family_office corporate other"`
	FocusAreas   []string         `json:"focusAreas" validate:"omitempty,max=20,dive,min=1,max=50"`
	Stages       []string         `json:"stages" validate:"omitempty,max=10,dive,oneof=idea pre-seed seed series-a series-b growth"`
	TicketMin    *decimal.Decimal `json:"ticketMin"`
	TicketMax    *decimal.Decimal `json:"ticketMax"`
	Currency     string           `json:"currency" validate:"omitempty,iso4217"`
	PortfolioURL string           `json:"portfolioUrl" validate:"omitempty,url,max=500"`
}

// NewRoleProfileInput возвращает пустую структуру ввода для роли, nil для роли без профиля
func NewRoleProfileInput(role models.Role) interface{} {
	switch role {
	case models.RoleProfessional:
		return &ProfessionalProfileInput{}
	case models.RoleJobSeeker:
		return &JobSeekerProfileInput{}
	case models.RoleEmployer:
		return &EmployerProfileInput{}
	case models.RoleBusinessOwner:
		return &BusinessOwnerProfileInput{}
	case models.RoleInvestor:
		return &InvestorProfileInput{}
	}
	return nil
}
