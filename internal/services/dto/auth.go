package dto

import "proconnect_backend/internal/models"

// CompleteRegistrationRequest - тело POST /api/auth/complete-registration
type CompleteRegistrationRequest struct {
	Profile *ProfileInput  `json:"profile" validate:"required"`
	Roles   *RoleSelection `json:"roles" validate:"required"`
}

type RegistrationResponse struct {
	Success bool            `json:"success"`
	User    *models.Account `json:"user"`
	Profile *models.Profile `json:"profile"`
}

type MeResponse struct {
	User  *models.Account `json:"user"`
	Roles RoleSelection   `json:"roles"`
}

// ReconcileResult - итог одного прохода по журналу намерений
type ReconcileResult struct {
	Processed  int `json:"processed"`
	Reconciled int `json:"reconciled"`
	Failed     int `json:"failed"`
}
