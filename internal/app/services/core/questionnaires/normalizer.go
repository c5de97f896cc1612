package questionnaires

import (
	"bytes"
	"errors"
	"fmt"
	"hicm-service/internal/app/models"
	"hicm-service/internal/app/services/core/scoring"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// rawChoice accepts both the canonical choice object and the legacy
// {label, score} shape written by the older pillar builder.
type rawChoice struct {
	ID      *int64   `json:"id"`
	Label   string   `json:"label"`
	Score   *float64 `json:"score"`
	PointID *int64   `json:"point_id"`
}

// NormalizePillar turns the backend pillar into the canonical model. Legacy
// choice shapes get a positional id and an inferred score. The result is
// validated before it is returned.
func NormalizePillar(raw *responses.HICMPillar, pillarKey string) (*models.Pillar, error) {
	if raw == nil {
		return nil, exceptions.ErrInvalidQuestionnaire(errors.New("empty pillar"))
	}

	pillar := &models.Pillar{
		Key:       raw.Key,
		Name:      raw.Name,
		Questions: make([]models.Question, 0, len(raw.Questions)),
	}
	if pillar.Key == "" {
		pillar.Key = pillarKey
	}
	if raw.Weight != nil {
		pillar.Weight = *raw.Weight
	}
	if info, ok := models.LookupPillarInfo(pillar.Key); ok {
		if pillar.Name == "" {
			pillar.Name = info.Name
		}
		if pillar.Weight == 0 {
			pillar.Weight = info.Weight
		}
	}

	for _, rawQuestion := range raw.Questions {
		question := models.Question{
			ID:      rawQuestion.ID,
			Title:   strings.TrimSpace(rawQuestion.Title),
			Choices: make([]models.Choice, 0, len(rawQuestion.Choices)),
		}
		if rawQuestion.Detail != nil {
			question.Detail = *rawQuestion.Detail
		}

		for position, rawValue := range rawQuestion.Choices {
			choice, keep, err := normalizeChoice(rawValue, position)
			if err != nil {
				return nil, exceptions.ErrInvalidQuestionnaire(fmt.Errorf("question %d choice %d: %w", rawQuestion.ID, position, err))
			}
			if keep {
				question.Choices = append(question.Choices, choice)
			}
		}
		pillar.Questions = append(pillar.Questions, question)
	}

	if err := utils.ValidateStruct(pillar); err != nil {
		return nil, exceptions.ErrInvalidQuestionnaire(err)
	}
	if err := checkUniqueIDs(pillar); err != nil {
		return nil, exceptions.ErrInvalidQuestionnaire(err)
	}
	return pillar, nil
}

func normalizeChoice(raw json.RawMessage, position int) (models.Choice, bool, error) {
	positionalID := int64(position + 1)
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var label string
		if err := json.Unmarshal(trimmed, &label); err != nil {
			return models.Choice{}, false, err
		}
		label = strings.TrimSpace(label)
		if label == "" {
			return models.Choice{}, false, nil
		}
		return models.Choice{ID: positionalID, Label: label, Score: scoreFromLabel(label)}, true, nil
	}

	var parsed rawChoice
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return models.Choice{}, false, err
	}

	choice := models.Choice{
		ID:      positionalID,
		Label:   strings.TrimSpace(parsed.Label),
		PointID: parsed.PointID,
	}
	if parsed.ID != nil {
		choice.ID = *parsed.ID
	}

	switch {
	case parsed.Score == nil:
		choice.Score = scoreFromLabel(choice.Label)
	case parsed.PointID != nil && scoring.IsPointFraction(*parsed.Score):
		choice.Score = scoring.PointToScore(*parsed.Score)
	default:
		choice.Score = *parsed.Score
	}
	return choice, true, nil
}

// scoreFromLabel matches labels such as "0.75" or "75%" against the point
// list. Anything else scores 0.
func scoreFromLabel(label string) float64 {
	value := strings.TrimSpace(label)
	percent := strings.HasSuffix(value, "%")
	value = strings.TrimSuffix(value, "%")

	number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	if percent {
		number = number / 100
	}
	return scoring.PointToScore(number)
}

func checkUniqueIDs(pillar *models.Pillar) error {
	questionIDs := make(map[int64]struct{}, len(pillar.Questions))
	for _, question := range pillar.Questions {
		if _, exists := questionIDs[question.ID]; exists {
			return fmt.Errorf("duplicate question id %d", question.ID)
		}
		questionIDs[question.ID] = struct{}{}

		choiceIDs := make(map[int64]struct{}, len(question.Choices))
		for _, choice := range question.Choices {
			if _, exists := choiceIDs[choice.ID]; exists {
				return fmt.Errorf("duplicate choice id %d in question %d", choice.ID, question.ID)
			}
			choiceIDs[choice.ID] = struct{}{}
		}
	}
	return nil
}
