package scoring

import (
	"errors"
	"fmt"
	"hicm-service/internal/app/models"
	"hicm-service/internal/pkg/exceptions"
	"hicm-service/internal/pkg/utils"
	"os"

	"gopkg.in/yaml.v3"
)

func floatPtr(v float64) *float64 {
	return &v
}

// DefaultLevelBands is the certification ladder on the 0-1000 weighted scale.
var DefaultLevelBands = []models.LevelBand{
	{Level: "L1", Name: "Emerging", Min: 0, Max: floatPtr(600)},
	{Level: "L2", Name: "Developing", Min: 600, Max: floatPtr(700)},
	{Level: "L3", Name: "Performing", Min: 700, Max: floatPtr(800)},
	{Level: "L4", Name: "Excellence", Min: 800, Max: floatPtr(900)},
	{Level: "L5", Name: "World-Class", Min: 900},
}

type levelBandsFile struct {
	Bands []models.LevelBand `yaml:"bands" validate:"required,min=1,dive"`
}

// LoadLevelBands reads an override ladder from a YAML file of the form
//
//	bands:
//	  - level: L1
//	    name: Emerging
//	    min: 0
//	    max: 600
func LoadLevelBands(path string) ([]models.LevelBand, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, exceptions.ErrReadLevelBandsFile(err)
	}

	var file levelBandsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, exceptions.ErrReadLevelBandsFile(err)
	}
	if err := utils.ValidateStruct(file); err != nil {
		return nil, exceptions.ErrInvalidLevelBands(err)
	}
	if err := ValidateLevelBands(file.Bands); err != nil {
		return nil, err
	}
	return file.Bands, nil
}

// ValidateLevelBands requires ascending, contiguous bands where only the last
// one is open above.
func ValidateLevelBands(bands []models.LevelBand) error {
	if len(bands) == 0 {
		return exceptions.ErrInvalidLevelBands(errors.New("no level bands"))
	}

	for i, band := range bands {
		last := i == len(bands)-1
		if last {
			if band.Max != nil {
				return exceptions.ErrInvalidLevelBands(fmt.Errorf("last band %s must be open above", band.Level))
			}
			continue
		}
		if band.Max == nil {
			return exceptions.ErrInvalidLevelBands(fmt.Errorf("band %s is open above but is not last", band.Level))
		}
		if *band.Max <= band.Min {
			return exceptions.ErrInvalidLevelBands(fmt.Errorf("band %s has max %.2f not above min %.2f", band.Level, *band.Max, band.Min))
		}
		if next := bands[i+1]; next.Min != *band.Max {
			return exceptions.ErrInvalidLevelBands(fmt.Errorf("band %s ends at %.2f but %s starts at %.2f", band.Level, *band.Max, next.Level, next.Min))
		}
	}
	return nil
}

// LevelFor returns the first band containing score. Scores below every band
// fall into the first band.
func LevelFor(score float64, bands []models.LevelBand) models.LevelBand {
	if len(bands) == 0 {
		return models.LevelBand{}
	}
	for _, band := range bands {
		if band.Contains(score) {
			return band
		}
	}
	if score < bands[0].Min {
		return bands[0]
	}
	return bands[len(bands)-1]
}
