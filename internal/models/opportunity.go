package models

import (
	"time"

	"gorm.io/datatypes"
)

// Opportunity - вакансия, запрос инвестиций, партнерства или коллаборации.
// Details хранит нормализованный JSON, схема которого зависит от Type.
type Opportunity struct {
	BaseModel
	UserID         string            `gorm:"type:varchar(128);not null;index" json:"userId"`
	Type           OpportunityType   `gorm:"type:varchar(20);not null;index" json:"type"`
	Title          string            `gorm:"type:varchar(200);not null" json:"title"`
	Description    string            `gorm:"type:text" json:"description"`
	Location       string            `gorm:"type:varchar(200)" json:"location,omitempty"`
	Country        string            `gorm:"type:varchar(100)" json:"country,omitempty"`
	City           string            `gorm:"type:varchar(100)" json:"city,omitempty"`
	Details        datatypes.JSON    `json:"details"`
	Status         OpportunityStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ApprovalStatus ApprovalStatus    `gorm:"type:varchar(20);not null;index" json:"approvalStatus"`
	Deadline       *time.Time        `json:"deadline,omitempty"`

	// Relations
	Owner        *Account      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Applications []Application `gorm:"foreignKey:OpportunityID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsPublic - видна ли возможность в публичном списке
func (o *Opportunity) IsPublic() bool {
	return o.ApprovalStatus == ApprovalStatusApproved && o.Status == OpportunityStatusOpen
}

// Application - отклик соискателя на вакансию, уникален по (user_id, opportunity_id)
type Application struct {
	BaseModel
	UserID        string            `gorm:"type:varchar(128);not null;uniqueIndex:idx_application_user_opportunity" json:"userId"`
	OpportunityID string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_application_user_opportunity;index" json:"opportunityId"`
	Status        ApplicationStatus `gorm:"type:varchar(20);not null" json:"status"`
	CoverLetter   string            `gorm:"type:text" json:"coverLetter,omitempty"`
	ResumeURL     string            `gorm:"type:varchar(500)" json:"resumeUrl,omitempty"`

	Opportunity *Opportunity `gorm:"foreignKey:OpportunityID" json:"opportunity,omitempty"`
}
