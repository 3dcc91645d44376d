package platform

import (
	"fmt"
	"math"

	"github.com/skyshield-sim/skyshield/pkg/attenuation"
	"github.com/skyshield-sim/skyshield/pkg/geometry"
	"github.com/skyshield-sim/skyshield/pkg/precip"
	"github.com/skyshield-sim/skyshield/pkg/radar"
)

// speedOfLightMS is used to derive wavelength from operating frequency.
const speedOfLightMS = 299792458.0

// DefaultNumAzimuths is the azimuth-bucket count used when a spec leaves
// it unset. Matches a 1.67 degree beam quantization.
const DefaultNumAzimuths = 216

// RadarSiteSpec is the immutable configuration of one ground radar site.
type RadarSiteSpec struct {
	Name string `json:"name"`

	// Emitter characteristics.
	FrequencyGHz   float64 `json:"frequency_ghz"`
	AntennaGainDB  float64 `json:"antenna_gain_db"`
	TransmitPowerW float64 `json:"transmit_power_w"`
	NoiseFloorDB   float64 `json:"noise_floor_db"`

	// Detection operating point.
	DetectionProbability  float64           `json:"detection_probability"`
	FalseAlarmProbability float64           `json:"false_alarm_probability"`
	Fluctuation           radar.Fluctuation `json:"fluctuation_model"`
	NumPulses             int               `json:"num_pulses"`

	// BaseRangeKm is the calibrated detection range against a 1 m^2
	// reference target, single pulse, clear air.
	BaseRangeKm float64 `json:"base_range_km"`

	// Engagement parameters.
	MaxEffectiveRangeKm   float64 `json:"max_effective_range_km"`
	AcquisitionTimeS      float64 `json:"acquisition_time_s"`
	LaunchIntervalS       float64 `json:"launch_interval_s"`
	Interceptors          int     `json:"interceptors"`
	InterceptorSpeedKmS   float64 `json:"interceptor_speed_km_s"`
	InterceptorMaxRangeKm float64 `json:"interceptor_max_range_km"`
	KillRadiusKm          float64 `json:"kill_radius_km"`

	// NumAzimuths sets the detection-range cache resolution.
	// Zero means DefaultNumAzimuths.
	NumAzimuths int `json:"num_azimuths,omitempty"`
}

// Validate rejects specs the detection model cannot run with.
func (s RadarSiteSpec) Validate() error {
	if s.FrequencyGHz <= 0 {
		return fmt.Errorf("platform: site %q frequency %v GHz must be > 0", s.Name, s.FrequencyGHz)
	}
	if s.BaseRangeKm <= 0 {
		return fmt.Errorf("platform: site %q base range %v km must be > 0", s.Name, s.BaseRangeKm)
	}
	if s.DetectionProbability <= 0 || s.DetectionProbability >= 1 {
		return fmt.Errorf("platform: site %q detection probability %v outside (0, 1)", s.Name, s.DetectionProbability)
	}
	if s.FalseAlarmProbability <= 0 || s.FalseAlarmProbability >= 1 {
		return fmt.Errorf("platform: site %q false-alarm probability %v outside (0, 1)", s.Name, s.FalseAlarmProbability)
	}
	if s.MaxEffectiveRangeKm <= 0 {
		return fmt.Errorf("platform: site %q max effective range %v km must be > 0", s.Name, s.MaxEffectiveRangeKm)
	}
	if s.Interceptors < 0 {
		return fmt.Errorf("platform: site %q interceptor count %d must be >= 0", s.Name, s.Interceptors)
	}
	if s.NumAzimuths < 0 {
		return fmt.Errorf("platform: site %q azimuth bucket count %d must be >= 0", s.Name, s.NumAzimuths)
	}
	return nil
}

// WavelengthM returns the operating wavelength in meters.
func (s RadarSiteSpec) WavelengthM() float64 {
	return speedOfLightMS / (s.FrequencyGHz * 1e9)
}

// MinRequiredSNRDB returns the derived detectability threshold for the
// spec's operating point.
func (s RadarSiteSpec) MinRequiredSNRDB() (float64, error) {
	return radar.MinRequiredSNR(s.DetectionProbability, s.FalseAlarmProbability, s.Fluctuation, s.NumPulses)
}

func (s RadarSiteSpec) numAzimuths() int {
	if s.NumAzimuths > 0 {
		return s.NumAzimuths
	}
	return DefaultNumAzimuths
}

// RadarSite pairs a site spec and position with its detection model and a
// per-azimuth cache of reference detection ranges. The cache holds the
// attenuated range against the 1 m^2 reference target for each equally
// spaced azimuth bucket; queries scale the bucket value by the target's
// RCS through the usual fourth root.
type RadarSite struct {
	Spec     RadarSiteSpec
	Position geometry.Point

	model *radar.Model

	// refRanges[i] is the attenuated detection range in km against the
	// reference target along bucket i's azimuth.
	refRanges []float64

	// degraded reports whether any bucket was attenuated below its
	// free-space value on the last cache build.
	degraded bool
}

// NewRadarSite builds the site's detection model and populates the
// azimuth cache for clear air. Call LoadField to resample under
// precipitation.
func NewRadarSite(spec RadarSiteSpec, pos geometry.Point, table *attenuation.Table) (*RadarSite, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	s := &RadarSite{
		Spec:     spec,
		Position: pos,
		model: &radar.Model{
			FrequencyGHz: spec.FrequencyGHz,
			BaseRangeKm:  spec.BaseRangeKm,
			Mode:         radar.NonCoherent,
			Table:        table,
		},
	}
	s.LoadField(nil)
	return s, nil
}

// LoadField resamples the per-azimuth cache against the given
// precipitation field. A nil field restores clear-air ranges.
func (s *RadarSite) LoadField(field *precip.Field) {
	n := s.Spec.numAzimuths()
	s.refRanges = make([]float64, n)
	s.degraded = false

	for i := 0; i < n; i++ {
		az := float64(i) * 360 / float64(n)
		r, degraded := s.model.DetectionRangeWithAttenuation(1.0, s.Position, az, field, s.Spec.NumPulses)
		s.refRanges[i] = r
		if degraded {
			s.degraded = true
		}
	}
}

// RangeAtAzimuth returns the detection range in km against a target of
// the given RCS along a compass azimuth. The azimuth is rounded to the
// nearest cache bucket; radar beams do not resolve finer than that.
func (s *RadarSite) RangeAtAzimuth(azimuthDeg, rcsM2 float64) float64 {
	if rcsM2 <= 0 {
		return 0
	}
	n := len(s.refRanges)
	if n == 0 {
		return 0
	}
	bucket := int(math.Round(azimuthDeg/360*float64(n))) % n
	if bucket < 0 {
		bucket += n
	}
	return s.refRanges[bucket] * math.Pow(rcsM2, 0.25)
}

// FreeSpaceRange returns the clear-air detection range against the given
// RCS, ignoring the azimuth cache.
func (s *RadarSite) FreeSpaceRange(rcsM2 float64) float64 {
	return s.model.FreeSpaceDetectionRange(rcsM2, s.Spec.NumPulses)
}

// Degraded reports whether the last cache build saw precipitation
// attenuation on any azimuth.
func (s *RadarSite) Degraded() bool {
	return s.degraded
}
