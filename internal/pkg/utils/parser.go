package utils

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// SubjectFromToken reads the "sub" claim without verifying the signature.
// The backend verifies tokens; this is only used to derive a respondent id.
func SubjectFromToken(tokenString string) (string, error) {
	if strings.TrimSpace(tokenString) == "" {
		return "", errors.New("empty token")
	}

	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return "", err
	}

	switch sub := claims["sub"].(type) {
	case string:
		if sub != "" {
			return sub, nil
		}
	case float64:
		return FormatID(int64(sub)), nil
	}

	return "", errors.New("token has no subject")
}
