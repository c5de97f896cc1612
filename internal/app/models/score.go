package models

import "time"

// LevelBand covers [Min, Max). A nil Max leaves the band open above.
type LevelBand struct {
	Level string   `json:"level" yaml:"level" validate:"required"`
	Name  string   `json:"name" yaml:"name" validate:"required"`
	Min   float64  `json:"min" yaml:"min" validate:"gte=0"`
	Max   *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

func (b LevelBand) Contains(score float64) bool {
	if score < b.Min {
		return false
	}
	return b.Max == nil || score < *b.Max
}

type QuestionScore struct {
	QuestionID int64   `json:"question_id"`
	Score      float64 `json:"score"`
	Answered   bool    `json:"answered"`
}

type PillarScore struct {
	Key       string          `json:"key"`
	Name      string          `json:"name"`
	Score     float64         `json:"score"`
	Answered  int             `json:"answered"`
	Total     int             `json:"total"`
	Questions []QuestionScore `json:"questions"`
}

type AggregateScore struct {
	Pillars  []PillarScore `json:"pillars"`
	Overall  float64       `json:"overall"`
	Answered int           `json:"answered"`
	Total    int           `json:"total"`
	Level    LevelBand     `json:"level"`
}

type AssessmentStatus struct {
	Completed   bool       `json:"completed"`
	Answered    int        `json:"answered"`
	Total       int        `json:"total"`
	Submitted   bool       `json:"submitted"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

type WeightedPillarResult struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	RawScore    float64 `json:"raw_score"`
	MaxRawScore float64 `json:"max_raw_score"`
	Score       float64 `json:"score"`
	MaxScore    float64 `json:"max_score"`
}

type SummaryResults struct {
	OverallScore float64                `json:"overall_score"`
	MaxScore     float64                `json:"max_score"`
	StarCount    int                    `json:"star_count"`
	Level        LevelBand              `json:"level"`
	Pillars      []WeightedPillarResult `json:"pillars"`
}

type Certificate struct {
	CompanyID    int64                  `json:"company_id"`
	CompanyName  string                 `json:"company_name"`
	OverallScore float64                `json:"overall_score"`
	MaxScore     float64                `json:"max_score"`
	StarCount    int                    `json:"star_count"`
	Level        LevelBand              `json:"level"`
	Pillars      []WeightedPillarResult `json:"pillars"`
	AuditedAt    *time.Time             `json:"audited_at,omitempty"`
	IssuedAt     time.Time              `json:"issued_at"`
	ArchiveURL   string                 `json:"archive_url,omitempty"`
}
