package contracts

import (
	"hicm-service/internal/app/models"
	"time"
)

type ScoringAggregator interface {
	Bands() []models.LevelBand
	LevelFor(score float64) models.LevelBand
	ScorePillar(pillar models.Pillar, answers map[int64]int64) models.PillarScore
	Aggregate(pillars []models.Pillar, answers map[int64]int64) models.AggregateScore
	AggregatePillarScores(pillars []models.PillarScore) models.AggregateScore
	Status(pillars []models.Pillar, answers map[int64]int64, submitted bool, submittedAt *time.Time) models.AssessmentStatus
	WeightedResults(pillars []models.Pillar, answers map[int64]int64) models.SummaryResults
	Summarize(results []models.WeightedPillarResult) models.SummaryResults
}
