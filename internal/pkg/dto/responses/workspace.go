package responses

import "hicm-service/internal/app/models"

type Workspace struct {
	RespondentID string                          `json:"respondent_id"`
	Pillar       models.Pillar                   `json:"pillar"`
	Draft        models.Draft                    `json:"draft"`
	Evidence     map[int64][]models.EvidenceItem `json:"evidence"`
	Submission   models.PillarSubmission         `json:"submission"`
	Status       models.AssessmentStatus         `json:"status"`
	Degraded     []string                        `json:"degraded,omitempty"`
}

type AuditReview struct {
	Review     models.AuditReview    `json:"review"`
	Scores     map[int64]int64       `json:"scores"`
	IsComplete bool                  `json:"is_complete"`
	Aggregate  models.AggregateScore `json:"aggregate"`
}

type HealthCheck struct {
	Service string `json:"service"`
	Version string `json:"version"`
}
