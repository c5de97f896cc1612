package models

import "time"

// Criteria is an auditor-selectable scoring option. It is a separate scale
// from the company's Choice and the two are never mixed.
type Criteria struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type ReviewQuestion struct {
	ID                 int64      `json:"id"`
	Question           string     `json:"question"`
	Description        string     `json:"description,omitempty"`
	PerformanceResults string     `json:"performance_results,omitempty"`
	Answer             string     `json:"answer,omitempty"`
	CompanyScore       *float64   `json:"company_score,omitempty"`
	Evidence           []string   `json:"evidence"`
	CriteriaOptions    []Criteria `json:"criteria_options"`
	AuditorCriteriaID  *int64     `json:"auditor_criteria_id,omitempty"`
}

func (q *ReviewQuestion) FindCriteria(criteriaID int64) (*Criteria, bool) {
	for i := range q.CriteriaOptions {
		if q.CriteriaOptions[i].ID == criteriaID {
			return &q.CriteriaOptions[i], true
		}
	}
	return nil, false
}

type ReviewPillar struct {
	Key       string           `json:"key,omitempty"`
	Title     string           `json:"title"`
	Questions []ReviewQuestion `json:"questions"`
}

type AuditReview struct {
	CompanyID          int64          `json:"company_id"`
	CompanyName        string         `json:"company_name"`
	CompanyType        string         `json:"company_type,omitempty"`
	CompanyAddress     string         `json:"company_address,omitempty"`
	RoundAssessment    string         `json:"round_assessment,omitempty"`
	Status             string         `json:"status"`
	SubmittedAt        *time.Time     `json:"submitted_at,omitempty"`
	CompanyScore       float64        `json:"company_score"`
	AuditorSubmitted   bool           `json:"auditor_submitted"`
	AuditorSubmittedAt *time.Time     `json:"auditor_submitted_at,omitempty"`
	Pillars            []ReviewPillar `json:"pillars"`
}

type AuditorScore struct {
	AssessmentID         int64 `json:"assessment_id"`
	EvaluationCriteriaID int64 `json:"evaluation_criteria_id"`
}
