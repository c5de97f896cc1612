package scoring

import (
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"math"
	"time"
)

type scoringAggregator struct {
	bands []models.LevelBand
}

// NewScoringAggregator uses DefaultLevelBands when bands is empty.
func NewScoringAggregator(bands []models.LevelBand) (contracts.ScoringAggregator, error) {
	if len(bands) == 0 {
		bands = DefaultLevelBands
	}
	if err := ValidateLevelBands(bands); err != nil {
		return nil, err
	}
	copied := make([]models.LevelBand, len(bands))
	copy(copied, bands)
	return &scoringAggregator{bands: copied}, nil
}

func (s *scoringAggregator) Bands() []models.LevelBand {
	bands := make([]models.LevelBand, len(s.bands))
	copy(bands, s.bands)
	return bands
}

func (s *scoringAggregator) LevelFor(score float64) models.LevelBand {
	return LevelFor(score, s.bands)
}

func (s *scoringAggregator) ScorePillar(pillar models.Pillar, answers map[int64]int64) models.PillarScore {
	result := models.PillarScore{
		Key:       pillar.Key,
		Name:      pillarName(pillar),
		Total:     len(pillar.Questions),
		Questions: make([]models.QuestionScore, 0, len(pillar.Questions)),
	}

	for i := range pillar.Questions {
		question := &pillar.Questions[i]
		questionScore := models.QuestionScore{QuestionID: question.ID}
		if choiceID, ok := answers[question.ID]; ok {
			if choice, found := question.FindChoice(choiceID); found {
				questionScore.Score = choice.Score
				questionScore.Answered = true
			}
		}
		if questionScore.Answered {
			result.Answered++
		}
		result.Score += questionScore.Score
		result.Questions = append(result.Questions, questionScore)
	}
	return result
}

func (s *scoringAggregator) Aggregate(pillars []models.Pillar, answers map[int64]int64) models.AggregateScore {
	scores := make([]models.PillarScore, 0, len(pillars))
	for _, pillar := range pillars {
		scores = append(scores, s.ScorePillar(pillar, answers))
	}
	return s.AggregatePillarScores(scores)
}

func (s *scoringAggregator) AggregatePillarScores(pillars []models.PillarScore) models.AggregateScore {
	aggregate := models.AggregateScore{Pillars: pillars}
	for _, pillar := range pillars {
		aggregate.Overall += pillar.Score
		aggregate.Answered += pillar.Answered
		aggregate.Total += pillar.Total
	}
	aggregate.Level = s.LevelFor(aggregate.Overall)
	return aggregate
}

func (s *scoringAggregator) Status(pillars []models.Pillar, answers map[int64]int64, submitted bool, submittedAt *time.Time) models.AssessmentStatus {
	aggregate := s.Aggregate(pillars, answers)
	return models.AssessmentStatus{
		Completed:   aggregate.Total > 0 && aggregate.Answered == aggregate.Total,
		Answered:    aggregate.Answered,
		Total:       aggregate.Total,
		Submitted:   submitted,
		SubmittedAt: submittedAt,
	}
}

func (s *scoringAggregator) WeightedResults(pillars []models.Pillar, answers map[int64]int64) models.SummaryResults {
	results := make([]models.WeightedPillarResult, 0, len(pillars))
	for _, pillar := range pillars {
		pillarScore := s.ScorePillar(pillar, answers)
		weight := pillarWeight(pillar)
		maxRaw := constvars.MaxRawScorePerQuestion * float64(len(pillar.Questions))

		result := models.WeightedPillarResult{
			Key:         pillar.Key,
			Name:        pillarScore.Name,
			Weight:      weight,
			RawScore:    pillarScore.Score,
			MaxRawScore: maxRaw,
			MaxScore:    weight,
		}
		if maxRaw > 0 {
			result.Score = pillarScore.Score / maxRaw * weight
		}
		results = append(results, result)
	}
	return s.Summarize(results)
}

func (s *scoringAggregator) Summarize(results []models.WeightedPillarResult) models.SummaryResults {
	summary := models.SummaryResults{Pillars: results}
	for _, result := range results {
		summary.OverallScore += result.Score
		summary.MaxScore += result.MaxScore
	}
	summary.StarCount = StarCount(summary.OverallScore, summary.MaxScore)
	summary.Level = s.LevelFor(summary.OverallScore)
	return summary
}

// StarCount maps a score onto 0..5 stars.
func StarCount(score, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	stars := int(math.Round(score / maxScore * constvars.MaxStarCount))
	if stars < 0 {
		return 0
	}
	if stars > constvars.MaxStarCount {
		return constvars.MaxStarCount
	}
	return stars
}

// PointToScore converts a point fraction to the raw 0-20 question scale.
func PointToScore(point float64) float64 {
	switch point {
	case 0:
		return 0
	case 0.25:
		return 5
	case 0.5:
		return 10
	case 0.75:
		return 15
	case 1:
		return 20
	}
	return 0
}

// IsPointFraction reports whether value is one of the point fractions that
// PointToScore understands.
func IsPointFraction(value float64) bool {
	switch value {
	case 0, 0.25, 0.5, 0.75, 1:
		return true
	}
	return false
}

func pillarName(pillar models.Pillar) string {
	if pillar.Name != "" {
		return pillar.Name
	}
	if info, ok := models.LookupPillarInfo(pillar.Key); ok {
		return info.Name
	}
	return pillar.Key
}

func pillarWeight(pillar models.Pillar) float64 {
	if pillar.Weight > 0 {
		return pillar.Weight
	}
	if info, ok := models.LookupPillarInfo(pillar.Key); ok {
		return info.Weight
	}
	return 0
}
