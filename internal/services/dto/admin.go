package dto

import "proconnect_backend/internal/models"

type SetApprovalStatusRequest struct {
	Status models.ApprovalStatus `json:"status" validate:"required,approval-status"`
}

type SetRolesRequest struct {
	Roles *RoleSelection `json:"roles" validate:"required"`
}

type AdminUserListQuery struct {
	ApprovalStatus models.ApprovalStatus `form:"approvalStatus" json:"approvalStatus" validate:"omitempty,approval-status"`
	Role           models.Role           `form:"role" json:"role" validate:"omitempty,role"`
	Search         string                `form:"search" json:"search" validate:"omitempty,max=100"`
}

type AdminStatsResponse struct {
	UsersByApproval map[models.ApprovalStatus]int64 `json:"usersByApproval"`
}

type TalentQuery struct {
	Role    models.Role `form:"role" json:"role" validate:"required,oneof=professional jobSeeker"`
	Country string      `form:"country" json:"country" validate:"omitempty,max=100"`
	City    string      `form:"city" json:"city" validate:"omitempty,max=100"`
	Search  string      `form:"search" json:"search" validate:"omitempty,max=100"`
}

// TalentItem - аккаунт с профилем по запрошенной роли
type TalentItem struct {
	User        *models.Account `json:"user"`
	RoleProfile interface{}     `json:"roleProfile,omitempty"`
}
