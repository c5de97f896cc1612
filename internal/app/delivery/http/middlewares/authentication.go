package middlewares

import (
	"context"
	"hicm-service/internal/pkg/constvars"
	"hicm-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

const queryParamUserID = "user_id"

// Respondent forwards the caller's bearer token and resolves who is
// answering: the user_id query parameter first, then the token subject.
// The token is not verified here; the backend authorizes every call.
func (m *Middlewares) Respondent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := utils.ExtractBearerToken(r)
		respondentID := utils.ResolveRespondentID(r.URL.Query().Get(queryParamUserID), token)

		requestID, _ := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
		m.Log.Debug("Middlewares.Respondent resolved",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingRespondentIDKey, respondentID),
			zap.Bool("has_token", token != ""),
		)

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_BEARER_TOKEN_KEY, token)
		ctx = context.WithValue(ctx, constvars.CONTEXT_RESPONDENT_ID_KEY, respondentID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
