package models

type ApprovalStatus string
type OpportunityType string
type OpportunityStatus string
type ApplicationStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"

	OpportunityTypeJob           OpportunityType = "job"
	OpportunityTypeInvestment    OpportunityType = "investment"
	OpportunityTypePartnership   OpportunityType = "partnership"
	OpportunityTypeCollaboration OpportunityType = "collaboration"

	OpportunityStatusOpen   OpportunityStatus = "open"
	OpportunityStatusClosed OpportunityStatus = "closed"

	ApplicationStatusApplied     ApplicationStatus = "applied"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusInterview   ApplicationStatus = "interview"
	ApplicationStatusOffer       ApplicationStatus = "offer"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn   ApplicationStatus = "withdrawn"
)

func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

func (t OpportunityType) IsValid() bool {
	switch t {
	case OpportunityTypeJob, OpportunityTypeInvestment, OpportunityTypePartnership, OpportunityTypeCollaboration:
		return true
	}
	return false
}

func (s OpportunityStatus) IsValid() bool {
	return s == OpportunityStatusOpen || s == OpportunityStatusClosed
}

// IsValid - переходы между статусами не ограничены, проверяется только словарь.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusApplied, ApplicationStatusUnderReview, ApplicationStatusInterview,
		ApplicationStatusOffer, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}
