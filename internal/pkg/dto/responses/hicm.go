package responses

import (
	"hicm-service/internal/app/models"

	"github.com/goccy/go-json"
)

// Backend wire shapes. Choices stay raw so legacy shapes can be normalized
// before anything reads them.
type HICMPillar struct {
	Key       string         `json:"key"`
	Name      string         `json:"name"`
	Weight    *float64       `json:"weight,omitempty"`
	Questions []HICMQuestion `json:"questions"`
}

type HICMQuestion struct {
	ID      int64             `json:"id"`
	Title   string            `json:"title"`
	Detail  *string           `json:"detail"`
	Choices []json.RawMessage `json:"choices"`
}

type HICMDraft struct {
	Items []models.DraftItem `json:"items"`
}

type HICMAutoSave struct {
	Saved int `json:"saved"`
}

type HICMSubmit struct {
	Updated int `json:"updated"`
}

type HICMSubmitStatus struct {
	Submitted bool `json:"submitted"`
}

type HICMEvidenceItem struct {
	ID       int64   `json:"id"`
	FilePath *string `json:"file_path"`
	URL      *string `json:"url"`
}

type HICMEvidenceList struct {
	Items []HICMEvidenceItem `json:"items"`
}

type HICMEvidenceDelete struct {
	Success bool `json:"success"`
}

type HICMSummaryStatus struct {
	Completed   bool    `json:"completed"`
	Submitted   bool    `json:"submitted"`
	SubmittedAt *string `json:"submitted_at"`
	Total       int     `json:"total"`
	Answered    int     `json:"answered"`
}

type HICMSummarySubmit struct {
	SubmittedAt *string `json:"submitted_at"`
}

type HICMPillarResult struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Weight   *float64 `json:"weight"`
	Score    float64  `json:"score"`
	MaxScore float64  `json:"max_score"`
}

type HICMSummaryResults struct {
	OverallScore float64            `json:"overall_score"`
	MaxScore     float64            `json:"max_score"`
	StarCount    int                `json:"star_count"`
	Pillars      []HICMPillarResult `json:"pillars"`
}

type HICMCriteriaOption struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Score    *float64 `json:"score"`
	Selected bool     `json:"selected"`
}

type HICMAuditQuestion struct {
	ID                     int64                `json:"id"`
	Question               string               `json:"question"`
	Description            *string              `json:"description"`
	PerformanceResults     *string              `json:"performance_results"`
	Answer                 *string              `json:"answer"`
	Score                  *float64             `json:"score"`
	CriteriaOptions        []HICMCriteriaOption `json:"criteria_options"`
	Evidence               []string             `json:"evidence"`
	AuditorScoreCriteriaID *int64               `json:"auditor_score_criteria_id"`
	AuditorScoreValue      *float64             `json:"auditor_score_value"`
}

type HICMAuditPillar struct {
	Title     string              `json:"title"`
	Questions []HICMAuditQuestion `json:"questions"`
}

type HICMAuditSubmission struct {
	CompanyID          int64             `json:"company_id"`
	CompanyName        string            `json:"company_name"`
	CompanyType        *string           `json:"company_type"`
	CompanyAddress     *string           `json:"company_address"`
	RoundAssessment    *string           `json:"company_round_assessment"`
	SubmittedAt        *string           `json:"submitted_at"`
	Status             string            `json:"status"`
	Score              float64           `json:"score"`
	AuditorSubmitted   bool              `json:"auditor_submitted"`
	AuditorSubmittedAt *string           `json:"auditor_submitted_at"`
	Pillars            []HICMAuditPillar `json:"pillars"`
}

type HICMAuditScores struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
}

// HICMError is the error body of the backend. Code is the structured
// conflict marker, Detail/Message the human text.
type HICMError struct {
	Code    string `json:"code"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
}
