package dto

import "proconnect_backend/internal/models"

type ApplyRequest struct {
	CoverLetter string `json:"coverLetter" validate:"omitempty,max=5000"`
	ResumeURL   string `json:"resumeUrl" validate:"omitempty,url,max=500"`
}

type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,application-status"`
}
