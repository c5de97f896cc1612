package questionnaires

import (
	"context"
	"errors"
	"hicm-service/internal/app/contracts/mocks"
	"hicm-service/internal/app/models"
	"hicm-service/internal/app/services/shared/kvstore"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/responses"
	"hicm-service/internal/pkg/exceptions"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func rawChoices(values ...string) []json.RawMessage {
	choices := make([]json.RawMessage, 0, len(values))
	for _, value := range values {
		choices = append(choices, json.RawMessage(value))
	}
	return choices
}

func TestNormalizePillar(t *testing.T) {
	detail := "detail"
	raw := &responses.HICMPillar{
		Key: constvars.PillarKeyHealthPromotion,
		Questions: []responses.HICMQuestion{
			{
				ID:     1,
				Title:  "Canonical",
				Detail: &detail,
				Choices: rawChoices(
					`{"id":11,"label":"None","score":0,"point_id":1}`,
					`{"id":12,"label":"Half","score":0.5,"point_id":3}`,
					`{"id":13,"label":"Full","score":1.0,"point_id":5}`,
				),
			},
			{
				ID:      2,
				Title:   "Legacy strings",
				Choices: rawChoices(`"Yes"`, `"  "`, `"75%"`),
			},
			{
				ID:      3,
				Title:   "Legacy objects",
				Choices: rawChoices(`{"label":"Partly","score":12}`, `{"label":"0.25"}`),
			},
		},
	}

	pillar, err := NormalizePillar(raw, constvars.PillarKeyHealthPromotion)
	require.NoError(t, err)

	assert.Equal(t, "Health Promotion (H1)", pillar.Name)
	assert.Equal(t, 300.0, pillar.Weight)
	require.Len(t, pillar.Questions, 3)

	canonical := pillar.Questions[0]
	assert.Equal(t, "detail", canonical.Detail)
	assert.Equal(t, []float64{0, 10, 20}, choiceScores(canonical))
	assert.Equal(t, int64(12), canonical.Choices[1].ID)

	legacyStrings := pillar.Questions[1]
	require.Len(t, legacyStrings.Choices, 2)
	assert.Equal(t, models.Choice{ID: 1, Label: "Yes", Score: 0}, legacyStrings.Choices[0])
	assert.Equal(t, int64(3), legacyStrings.Choices[1].ID)
	assert.Equal(t, 15.0, legacyStrings.Choices[1].Score)

	legacyObjects := pillar.Questions[2]
	assert.Equal(t, []float64{12, 5}, choiceScores(legacyObjects))
	assert.Equal(t, int64(2), legacyObjects.Choices[1].ID)
}

func TestNormalizePillar_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  *responses.HICMPillar
	}{
		{name: "nil", raw: nil},
		{name: "missing title", raw: &responses.HICMPillar{Key: constvars.PillarKeyHealthPromotion, Questions: []responses.HICMQuestion{{ID: 1}}}},
		{name: "unknown key", raw: &responses.HICMPillar{Key: "pillar-9"}},
		{name: "negative score", raw: &responses.HICMPillar{Key: constvars.PillarKeyHealthPromotion, Questions: []responses.HICMQuestion{
			{ID: 1, Title: "Q", Choices: rawChoices(`{"id":1,"label":"x","score":-1}`)},
		}}},
		{name: "duplicate choice", raw: &responses.HICMPillar{Key: constvars.PillarKeyHealthPromotion, Questions: []responses.HICMQuestion{
			{ID: 1, Title: "Q", Choices: rawChoices(`{"id":1,"label":"a"}`, `{"id":1,"label":"b"}`)},
		}}},
		{name: "malformed choice", raw: &responses.HICMPillar{Key: constvars.PillarKeyHealthPromotion, Questions: []responses.HICMQuestion{
			{ID: 1, Title: "Q", Choices: rawChoices(`[1,2]`)},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizePillar(tt.raw, "")
			require.Error(t, err)
			assert.Equal(t, constvars.StatusBadGateway, exceptions.StatusCodeOf(err))
		})
	}
}

func TestQuestionnaireUsecase_LoadPillar(t *testing.T) {
	ctx := context.Background()
	pillarResponse := &responses.HICMPillar{
		Key:       constvars.PillarKeyIndustrialSafety,
		Questions: []responses.HICMQuestion{{ID: 5, Title: "Q", Choices: rawChoices(`"A"`)}},
	}

	t.Run("caches normalized pillar", func(t *testing.T) {
		client := new(mocks.MockAssessmentClient)
		cache := kvstore.NewMemoryKeyValueStore()
		client.On("FindPillar", mock.Anything, constvars.PillarKeyIndustrialSafety, "tok").Return(pillarResponse, nil)

		usecase := NewQuestionnaireUsecase(client, cache, 0, zap.NewNop())
		pillar, err := usecase.LoadPillar(ctx, constvars.PillarKeyIndustrialSafety, "tok")
		require.NoError(t, err)
		assert.Len(t, pillar.Questions, 1)

		cached, err := cache.Get(ctx, "hicm:pillar:pillar-2")
		require.NoError(t, err)
		assert.NotEmpty(t, cached)
		client.AssertExpectations(t)
	})

	t.Run("falls back to cache", func(t *testing.T) {
		cache := kvstore.NewMemoryKeyValueStore()
		first := new(mocks.MockAssessmentClient)
		first.On("FindPillar", mock.Anything, constvars.PillarKeyIndustrialSafety, "tok").Return(pillarResponse, nil)
		_, err := NewQuestionnaireUsecase(first, cache, 0, zap.NewNop()).LoadPillar(ctx, constvars.PillarKeyIndustrialSafety, "tok")
		require.NoError(t, err)

		down := new(mocks.MockAssessmentClient)
		down.On("FindPillar", mock.Anything, constvars.PillarKeyIndustrialSafety, "tok").Return(nil, errors.New("connection refused"))
		pillar, err := NewQuestionnaireUsecase(down, cache, 0, zap.NewNop()).LoadPillar(ctx, constvars.PillarKeyIndustrialSafety, "tok")
		require.NoError(t, err)
		assert.Equal(t, int64(5), pillar.Questions[0].ID)
	})

	t.Run("surfaces error without cache", func(t *testing.T) {
		client := new(mocks.MockAssessmentClient)
		client.On("FindPillar", mock.Anything, constvars.PillarKeyIndustrialSafety, "tok").Return(nil, errors.New("connection refused"))

		_, err := NewQuestionnaireUsecase(client, kvstore.NewMemoryKeyValueStore(), 0, zap.NewNop()).LoadPillar(ctx, constvars.PillarKeyIndustrialSafety, "tok")
		assert.Error(t, err)
	})

	t.Run("rejects unknown pillar before calling backend", func(t *testing.T) {
		client := new(mocks.MockAssessmentClient)
		_, err := NewQuestionnaireUsecase(client, nil, 0, zap.NewNop()).LoadPillar(ctx, "pillar-7", "tok")
		require.Error(t, err)
		assert.Equal(t, constvars.StatusNotFound, exceptions.StatusCodeOf(err))
		client.AssertNotCalled(t, "FindPillar", mock.Anything, mock.Anything, mock.Anything)
	})
}

func choiceScores(question models.Question) []float64 {
	scores := make([]float64, 0, len(question.Choices))
	for _, choice := range question.Choices {
		scores = append(scores, choice.Score)
	}
	return scores
}
