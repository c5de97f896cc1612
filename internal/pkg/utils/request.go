package utils

import (
	"context"
	"hicm-service/internal/pkg/constvars"
	"net/http"
	"strconv"
	"strings"
)

func ExtractBearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(constvars.HeaderAuthorization))
	if len(header) < len(constvars.AuthorizationBearerPrefix) {
		return ""
	}
	if !strings.EqualFold(header[:len(constvars.AuthorizationBearerPrefix)], constvars.AuthorizationBearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(constvars.AuthorizationBearerPrefix):])
}

func BearerTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(constvars.CONTEXT_BEARER_TOKEN_KEY).(string)
	return token
}

func RespondentIDFromContext(ctx context.Context) string {
	respondentID, _ := ctx.Value(constvars.CONTEXT_RESPONDENT_ID_KEY).(string)
	return respondentID
}

// ResolveRespondentID prefers an explicit user id and falls back to the
// subject of the bearer token.
func ResolveRespondentID(explicit, token string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	subject, err := SubjectFromToken(token)
	if err != nil {
		return ""
	}
	return subject
}

func ParseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
