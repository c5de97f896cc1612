package requests

import "hicm-service/internal/app/models"

type HICMAutoSave struct {
	Items  []models.DraftItem `json:"items"`
	UserID *int64             `json:"user_id,omitempty"`
}

type HICMSubmit struct {
	UserID *int64 `json:"user_id,omitempty"`
}

type HICMAuditScores struct {
	Scores []models.AuditorScore `json:"scores" validate:"required,min=1"`
}
