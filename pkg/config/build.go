package config

import (
	"fmt"

	"github.com/skyshield-sim/skyshield/pkg/attenuation"
	"github.com/skyshield-sim/skyshield/pkg/engagement"
	"github.com/skyshield-sim/skyshield/pkg/geometry"
	"github.com/skyshield-sim/skyshield/pkg/precip"
)

// Build assembles a runnable engagement from the scenario definition:
// validates it, loads the embedded attenuation dataset, generates the
// precipitation field when enabled, and converts placements to world
// coordinates.
func (s *ScenarioConfig) Build() (*engagement.Scenario, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	table, err := attenuation.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("config: loading attenuation dataset: %w", err)
	}

	cfg := engagement.Config{
		TimeStepS: s.TimeStepS,
		Seed:      s.Seed,
		Table:     table,
	}

	if s.Precipitation.Enabled {
		field, err := precip.Generate(precip.GeneratorConfig{
			WidthKm:    s.GridKm,
			HeightKm:   s.GridKm,
			OriginX:    -s.GridKm / 2,
			OriginY:    -s.GridKm / 2,
			CellsPerKm: s.Precipitation.CellsPerKm,
			MaxRate:    s.Precipitation.MaxRateMmHr,
			NumCells:   s.Precipitation.NumCells,
			Seed:       s.Precipitation.Seed,
		})
		if err != nil {
			return nil, fmt.Errorf("config: generating precipitation field: %w", err)
		}
		cfg.Field = field
	}

	for _, site := range s.Sites {
		cfg.Sites = append(cfg.Sites, engagement.SitePlacement{
			Spec:     site.RadarSiteSpec,
			Position: geometry.Point{X: site.X, Y: site.Y},
		})
	}
	for _, f := range s.Fighters {
		cfg.Fighters = append(cfg.Fighters, engagement.FighterPlacement{
			Spec:       f.FighterSpec,
			Position:   geometry.Point{X: f.X, Y: f.Y},
			HeadingRad: geometry.AzimuthToHeading(f.HeadingDeg),
			Evasive:    f.Evasive,
		})
	}

	return engagement.NewScenario(cfg)
}
