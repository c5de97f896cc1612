package hicmapi

import (
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/dto/responses"
	"strings"

	"github.com/goccy/go-json"
)

const (
	alreadySubmittedCode   = "already_submitted"
	alreadySubmittedPhrase = "already submitted"
)

// ClassifyOutcome decides what a lock transition response means. A
// structured conflict code or 409 is preferred. The phrase match covers
// backends that answer 400 "Assessment already submitted".
func ClassifyOutcome(statusCode int, body []byte, err error) models.Outcome {
	if err != nil {
		return models.OutcomeFailure
	}
	if isSuccessStatus(statusCode) {
		return models.OutcomeSuccess
	}
	if statusCode == constvars.StatusConflict {
		return models.OutcomeAlreadyDone
	}

	var backendErr responses.HICMError
	if len(body) > 0 && json.Unmarshal(body, &backendErr) == nil {
		if backendErr.Code == alreadySubmittedCode {
			return models.OutcomeAlreadyDone
		}
		if statusCode >= 400 && statusCode < 500 {
			if containsFold(backendErr.Detail, alreadySubmittedPhrase) || containsFold(backendErr.Message, alreadySubmittedPhrase) {
				return models.OutcomeAlreadyDone
			}
		}
	}
	return models.OutcomeFailure
}

func containsFold(text, phrase string) bool {
	return strings.Contains(strings.ToLower(text), phrase)
}
