package utils

import (
	"hicm-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("pillar_key", validatePillarKey)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func IsKnownPillarKey(key string) bool {
	switch key {
	case constvars.PillarKeyHealthPromotion,
		constvars.PillarKeyIndustrialSafety,
		constvars.PillarKeyCommunityEngagement,
		constvars.PillarKeyManagementSustainability:
		return true
	}
	return false
}

func validatePillarKey(fl validator.FieldLevel) bool {
	return IsKnownPillarKey(fl.Field().String())
}
