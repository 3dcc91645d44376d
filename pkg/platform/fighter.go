package platform

import (
	"fmt"
)

// machKmS converts Mach number to km/s at sea level.
const machKmS = 0.343

// FighterSpec is the immutable configuration of one strike aircraft.
type FighterSpec struct {
	Name string `json:"name"`

	RCS RCSProfile `json:"rcs"`

	// SpeedMach is the cruise speed in Mach.
	SpeedMach float64 `json:"speed_mach"`

	// Air-to-ground weapon loadout.
	WeaponRangeKm      float64 `json:"weapon_range_km"`
	Weapons            int     `json:"weapons"`
	WeaponSpeedKmS     float64 `json:"weapon_speed_km_s"`
	WeaponKillRadiusKm float64 `json:"weapon_kill_radius_km"`
}

// Validate rejects specs the engagement cannot run with.
func (f FighterSpec) Validate() error {
	if err := f.RCS.Validate(); err != nil {
		return fmt.Errorf("platform: fighter %q: %w", f.Name, err)
	}
	if f.SpeedMach <= 0 {
		return fmt.Errorf("platform: fighter %q speed %v Mach must be > 0", f.Name, f.SpeedMach)
	}
	if f.Weapons < 0 {
		return fmt.Errorf("platform: fighter %q weapon count %d must be >= 0", f.Name, f.Weapons)
	}
	if f.Weapons > 0 && f.WeaponRangeKm <= 0 {
		return fmt.Errorf("platform: fighter %q weapon range %v km must be > 0", f.Name, f.WeaponRangeKm)
	}
	return nil
}

// SpeedKmS returns the cruise speed in km/s.
func (f FighterSpec) SpeedKmS() float64 {
	return f.SpeedMach * machKmS
}

// ShouldLaunchAirToGround reports whether the fighter commits a weapon
// against a site. Launch requires the site to be actively tracking, the
// fighter to be inside the site's effective engagement range, and the
// fighter's own weapon range to be shorter than the current separation.
// The last condition holds fire until the fighter is committed deep into
// the site's envelope rather than shooting at first opportunity.
func (f FighterSpec) ShouldLaunchAirToGround(distanceToSiteKm, siteMaxEffectiveRangeKm float64, siteIsTracking bool) bool {
	return siteIsTracking &&
		distanceToSiteKm <= siteMaxEffectiveRangeKm &&
		f.WeaponRangeKm < distanceToSiteKm
}
