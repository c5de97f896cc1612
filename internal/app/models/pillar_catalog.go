package models

import "hicm-service/internal/pkg/constvars"

type PillarInfo struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// PillarCatalog lists the four pillars in display order.
var PillarCatalog = []PillarInfo{
	{Key: constvars.PillarKeyHealthPromotion, Name: "Health Promotion (H1)", Weight: 300},
	{Key: constvars.PillarKeyIndustrialSafety, Name: "Industrial Safety & Environment (I2)", Weight: 300},
	{Key: constvars.PillarKeyCommunityEngagement, Name: "Community Engagement (C3)", Weight: 200},
	{Key: constvars.PillarKeyManagementSustainability, Name: "Management & Sustainability (M4)", Weight: 200},
}

func LookupPillarInfo(key string) (PillarInfo, bool) {
	for _, info := range PillarCatalog {
		if info.Key == key {
			return info, true
		}
	}
	return PillarInfo{}, false
}
