package utils

import (
	"hicm-service/internal/pkg/constvars"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.New().String()
}

func GenerateEventID() string {
	return uuid.New().String()
}
