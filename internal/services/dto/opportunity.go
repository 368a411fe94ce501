package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"proconnect_backend/internal/models"
)

type CreateOpportunityRequest struct {
	Type        models.OpportunityType `json:"type" validate:"required,opportunity-type"`
	Title       string                 `json:"title" validate:"required,min=3,max=200"`
	Description string                 `json:"description" validate:"required,max=10000"`
	Location    string                 `json:"location" validate:"omitempty,max=200"`
	Country     string                 `json:"country" validate:"omitempty,max=100"`
	City        string                 `json:"city" validate:"omitempty,max=100"`
	Details     json.RawMessage        `json:"details"`
	Deadline    *time.Time             `json:"deadline"`
}

// UpdateOpportunityRequest - PATCH владельца.
// ApprovalStatus, UserID, ID и Type принимаются при разборе, но никогда не сохраняются.
type UpdateOpportunityRequest struct {
	Title       *string                   `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string                   `json:"description" validate:"omitempty,max=10000"`
	Location    *string                   `json:"location" validate:"omitempty,max=200"`
	Country     *string                   `json:"country" validate:"omitempty,max=100"`
	City        *string                   `json:"city" validate:"omitempty,max=100"`
	Details     json.RawMessage           `json:"details"`
	Status      *models.OpportunityStatus `json:"status" validate:"omitempty,opportunity-status"`
	Deadline    *time.Time                `json:"deadline"`

	ApprovalStatus *string `json:"approvalStatus"`
	UserID         *string `json:"userId"`
	ID             *string `json:"id"`
	Type           *string `json:"type"`
}

// StrippedFields - имена защищенных полей, которые пришли в запросе
func (r *UpdateOpportunityRequest) StrippedFields() []string {
	var fields []string
	if r.ApprovalStatus != nil {
		fields = append(fields, "approvalStatus")
	}
	if r.UserID != nil {
		fields = append(fields, "userId")
	}
	if r.ID != nil {
		fields = append(fields, "id")
	}
	if r.Type != nil {
		fields = append(fields, "type")
	}
	return fields
}

type ListOpportunitiesQuery struct {
	Type            models.OpportunityType `form:"type" json:"type" validate:"omitempty,opportunity-type"`
	Country         string                 `form:"country" json:"country" validate:"omitempty,max=100"`
	City            string                 `form:"city" json:"city" validate:"omitempty,max=100"`
	MyOpportunities bool                   `form:"myOpportunities" json:"myOpportunities"`
}

type ReviewOpportunitiesQuery struct {
	Type           models.OpportunityType `form:"type" json:"type" validate:"omitempty,opportunity-type"`
	ApprovalStatus models.ApprovalStatus  `form:"approvalStatus" json:"approvalStatus" validate:"omitempty,approval-status"`
}

// --- Детали по типам ---

type JobDetails struct {
	EmploymentType   string           `json:"employmentType" validate:"required,oneof=full-time part-time remote contract"`
	ApplicationEmail string           `json:"applicationEmail" validate:"required,email"`
	SalaryMin        *decimal.Decimal `json:"salaryMin,omitempty"`
	SalaryMax        *decimal.Decimal `json:"salaryMax,omitempty"`
	Currency         string           `json:"currency,omitempty" validate:"omitempty,iso4217"`
	ExperienceLevel  string           `json:"experienceLevel,omitempty" validate:"omitempty,oneof=entry junior mid senior lead"`
	Skills           []string         `json:"skills,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
}

type InvestmentDetails struct {
	Amount         *decimal.Decimal `json:"amount" validate:"required"`
	InvestmentType string           `json:"type" validate:"required,oneof=equity debt convertible grant other"`
	Currency       string           `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Stage          string           `json:"stage,omitempty" validate:"omitempty,oneof=idea pre-seed seed series-a series-b growth"`
	EquityOffered  *decimal.Decimal `json:"equityOffered,omitempty"`
	UseOfFunds     string           `json:"useOfFunds,omitempty" validate:"omitempty,max=2000"`
}

type PartnershipDetails struct {
	PartnershipType string `json:"partnershipType" validate:"required,max=100"`
	Duration        string `json:"duration,omitempty" validate:"omitempty,max=100"`
	Commitment      string `json:"commitment,omitempty" validate:"omitempty,max=200"`
	Benefits        string `json:"benefits,omitempty" validate:"omitempty,max=2000"`
}

type CollaborationDetails struct {
	Scope        string   `json:"scope,omitempty" validate:"omitempty,max=2000"`
	Duration     string   `json:"duration,omitempty" validate:"omitempty,max=100"`
	Compensation string   `json:"compensation,omitempty" validate:"omitempty,max=200"`
	Skills       []string `json:"skills,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
}

// NewDetails возвращает пустую схему деталей для типа
func NewDetails(t models.OpportunityType) interface{} {
	switch t {
	case models.OpportunityTypeJob:
		return &JobDetails{}
	case models.OpportunityTypeInvestment:
		return &InvestmentDetails{}
	case models.OpportunityTypePartnership:
		return &PartnershipDetails{}
	case models.OpportunityTypeCollaboration:
		return &CollaborationDetails{}
	}
	return nil
}
