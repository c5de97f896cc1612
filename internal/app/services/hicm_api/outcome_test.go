package hicmapi

import (
	"errors"
	"hicm-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyOutcome(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		err        error
		want       models.Outcome
	}{
		{name: "ok", statusCode: 200, body: `{"updated":3}`, want: models.OutcomeSuccess},
		{name: "created", statusCode: 201, want: models.OutcomeSuccess},
		{name: "conflict", statusCode: 409, body: `{"detail":"conflict"}`, want: models.OutcomeAlreadyDone},
		{name: "structured code", statusCode: 422, body: `{"code":"already_submitted"}`, want: models.OutcomeAlreadyDone},
		{name: "assessment phrase", statusCode: 400, body: `{"detail":"Assessment already submitted"}`, want: models.OutcomeAlreadyDone},
		{name: "scores phrase in message", statusCode: 400, body: `{"message":"Scores ALREADY Submitted"}`, want: models.OutcomeAlreadyDone},
		{name: "other client error", statusCode: 400, body: `{"detail":"Assessment not completed"}`, want: models.OutcomeFailure},
		{name: "phrase on server error", statusCode: 500, body: `{"detail":"already submitted"}`, want: models.OutcomeFailure},
		{name: "not json", statusCode: 400, body: `already submitted`, want: models.OutcomeFailure},
		{name: "transport error", statusCode: 0, err: errors.New("connection refused"), want: models.OutcomeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyOutcome(tt.statusCode, []byte(tt.body), tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}
