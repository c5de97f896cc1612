package questionnaires

import (
	"context"
	"fmt"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type questionnaireUsecase struct {
	AssessmentClient contracts.AssessmentClient
	Cache            contracts.KeyValueStore
	CacheTTL         time.Duration
	Log              *zap.Logger
}

func NewQuestionnaireUsecase(
	assessmentClient contracts.AssessmentClient,
	cache contracts.KeyValueStore,
	cacheTTL time.Duration,
	logger *zap.Logger,
) contracts.QuestionnaireUsecase {
	return &questionnaireUsecase{
		AssessmentClient: assessmentClient,
		Cache:            cache,
		CacheTTL:         cacheTTL,
		Log:              logger,
	}
}

// LoadPillar fetches and normalizes a pillar definition. The normalized form
// is cached and served from the cache when the backend is unreachable.
func (uc *questionnaireUsecase) LoadPillar(ctx context.Context, pillarKey, token string) (*models.Pillar, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("questionnaireUsecase.LoadPillar called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPillarKey, pillarKey),
	)

	if !utils.IsKnownPillarKey(pillarKey) {
		return nil, exceptions.ErrUnknownPillar(nil, pillarKey)
	}

	cacheKey := fmt.Sprintf(constvars.PillarCacheKeyFormat, pillarKey)

	raw, err := uc.AssessmentClient.FindPillar(ctx, pillarKey, token)
	if err != nil {
		uc.Log.Warn("questionnaireUsecase.LoadPillar backend unavailable, trying cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingCacheKey, cacheKey),
			zap.Error(err),
		)
		cached, ok := uc.cachedPillar(ctx, cacheKey)
		if !ok {
			return nil, err
		}
		return cached, nil
	}

	pillar, err := NormalizePillar(raw, pillarKey)
	if err != nil {
		uc.Log.Error("questionnaireUsecase.LoadPillar error normalizing pillar",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	if uc.Cache != nil {
		if err := uc.Cache.Set(ctx, cacheKey, pillar, uc.CacheTTL); err != nil {
			uc.Log.Warn("questionnaireUsecase.LoadPillar error caching pillar",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
		}
	}

	uc.Log.Info("questionnaireUsecase.LoadPillar succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingItemCountKey, len(pillar.Questions)),
	)
	return pillar, nil
}

func (uc *questionnaireUsecase) cachedPillar(ctx context.Context, cacheKey string) (*models.Pillar, bool) {
	if uc.Cache == nil {
		return nil, false
	}

	cachedData, err := uc.Cache.Get(ctx, cacheKey)
	if err != nil || cachedData == "" {
		return nil, false
	}

	var pillar models.Pillar
	if err := json.Unmarshal([]byte(cachedData), &pillar); err != nil {
		uc.Log.Warn("questionnaireUsecase.cachedPillar malformed cache entry",
			zap.String(constvars.LoggingCacheKey, cacheKey),
			zap.Error(err),
		)
		return nil, false
	}
	return &pillar, true
}
