// Package config loads and saves the application configuration: server
// and database settings for the hosted service, and the scenario
// definition consumed by the engagement engine.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skyshield-sim/skyshield/pkg/platform"
	"github.com/skyshield-sim/skyshield/pkg/radar"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Auth     AuthConfig     `json:"auth"`
	Scenario ScenarioConfig `json:"scenario"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port string `json:"port"`

	// Host is the server bind address (default: "0.0.0.0")
	Host string `json:"host"`

	// TLSEnabled determines if HTTPS should be used
	TLSEnabled bool `json:"tls_enabled"`

	// TLSCertFile is the path to the TLS certificate
	TLSCertFile string `json:"tls_cert_file"`

	// TLSKeyFile is the path to the TLS private key
	TLSKeyFile string `json:"tls_key_file"`

	// StreamStepsPerSecond paces live snapshot streams to clients
	StreamStepsPerSecond float64 `json:"stream_steps_per_second"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	// Driver is the database driver (postgres)
	Driver string `json:"driver"`

	// Host is the database server hostname
	Host string `json:"host"`

	// Port is the database server port
	Port int `json:"port"`

	// Database is the database name
	Database string `json:"database"`

	// Username for database authentication
	Username string `json:"username"`

	// Password for database authentication (should be loaded from environment)
	Password string `json:"password"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns"`
}

// AuthConfig contains JWT authentication settings.
type AuthConfig struct {
	// JWTSecret signs session tokens (should be loaded from environment)
	JWTSecret string `json:"jwt_secret"`

	// TokenLifetimeHours is how long issued tokens stay valid
	TokenLifetimeHours int `json:"token_lifetime_hours"`
}

// SiteConfig places one radar site in a scenario.
type SiteConfig struct {
	platform.RadarSiteSpec

	// X, Y position the site on the world grid, km.
	X float64 `json:"x_km"`
	Y float64 `json:"y_km"`
}

// FighterConfig places one fighter in a scenario.
type FighterConfig struct {
	platform.FighterSpec

	// X, Y position the fighter on the world grid, km.
	X float64 `json:"x_km"`
	Y float64 `json:"y_km"`

	// HeadingDeg is the initial course as a compass azimuth.
	HeadingDeg float64 `json:"heading_deg"`

	// Evasive enables the evasive maneuver model from the start.
	Evasive bool `json:"evasive"`
}

// PrecipConfig controls synthetic precipitation generation.
type PrecipConfig struct {
	// Enabled turns the rain field on
	Enabled bool `json:"enabled"`

	// MaxRateMmHr caps the generated rain rate
	MaxRateMmHr float64 `json:"max_rate_mm_hr"`

	// CellsPerKm is the field grid resolution
	CellsPerKm float64 `json:"cells_per_km"`

	// NumCells is how many storm cells to synthesize
	NumCells int `json:"num_cells"`

	// Seed makes the generated field reproducible
	Seed int64 `json:"seed"`
}

// ScenarioConfig is the full scenario definition.
type ScenarioConfig struct {
	// Name identifies the scenario in storage and logs
	Name string `json:"name"`

	// TimeStepS is the simulation step in seconds
	TimeStepS float64 `json:"time_step_s"`

	// Seed drives the engagement's bounded random perturbations
	Seed int64 `json:"seed"`

	// GridKm is the world extent; the grid spans [-GridKm/2, +GridKm/2]
	// on both axes with the origin at the center.
	GridKm float64 `json:"grid_km"`

	Sites    []SiteConfig    `json:"sites"`
	Fighters []FighterConfig `json:"fighters"`

	Precipitation PrecipConfig `json:"precipitation"`
}

// Load reads configuration from a JSON file.
// If the file doesn't exist, returns a default configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	return &cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults: one
// X-band SAM site defending the origin against one evasive strike
// fighter inbound from the north.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                 "8080",
			Host:                 "0.0.0.0",
			TLSEnabled:           false,
			StreamStepsPerSecond: 10,
		},
		Database: DatabaseConfig{
			Driver:       "postgres",
			Host:         "localhost",
			Port:         5432,
			Database:     "skyshield",
			Username:     "skyshield",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Auth: AuthConfig{
			TokenLifetimeHours: 24,
		},
		Scenario: ScenarioConfig{
			Name:      "default",
			TimeStepS: 0.5,
			Seed:      1,
			GridKm:    300,
			Sites: []SiteConfig{
				{
					RadarSiteSpec: platform.RadarSiteSpec{
						Name:                  "sam-alpha",
						FrequencyGHz:          10,
						AntennaGainDB:         35,
						TransmitPowerW:        250e3,
						NoiseFloorDB:          -110,
						DetectionProbability:  0.9,
						FalseAlarmProbability: 1e-6,
						Fluctuation:           radar.SwerlingI,
						NumPulses:             10,
						BaseRangeKm:           60,
						MaxEffectiveRangeKm:   80,
						AcquisitionTimeS:      3,
						LaunchIntervalS:       8,
						Interceptors:          6,
						InterceptorSpeedKmS:   1.2,
						InterceptorMaxRangeKm: 70,
						KillRadiusKm:          0.5,
					},
				},
			},
			Fighters: []FighterConfig{
				{
					FighterSpec: platform.FighterSpec{
						Name:               "strike-1",
						RCS:                platform.RCSProfile{NoseM2: 1.5, TailM2: 4, SideM2: 25, TopM2: 30, BottomM2: 30},
						SpeedMach:          0.9,
						WeaponRangeKm:      40,
						Weapons:            2,
						WeaponSpeedKmS:     0.8,
						WeaponKillRadiusKm: 0.3,
					},
					X:          0,
					Y:          120,
					HeadingDeg: 180, // inbound, due south
					Evasive:    true,
				},
			},
			Precipitation: PrecipConfig{
				Enabled:     false,
				MaxRateMmHr: 100,
				CellsPerKm:  1,
				NumCells:    12,
				Seed:        1,
			},
		},
	}
}

// Validate checks the scenario for fatal configuration errors.
func (s *ScenarioConfig) Validate() error {
	if s.TimeStepS <= 0 {
		return fmt.Errorf("config: time step %v s must be > 0", s.TimeStepS)
	}
	if len(s.Sites) == 0 {
		return fmt.Errorf("config: scenario %q has no radar sites", s.Name)
	}
	if len(s.Fighters) == 0 {
		return fmt.Errorf("config: scenario %q has no fighters", s.Name)
	}
	for _, site := range s.Sites {
		if err := site.RadarSiteSpec.Validate(); err != nil {
			return err
		}
	}
	for _, f := range s.Fighters {
		if err := f.FighterSpec.Validate(); err != nil {
			return err
		}
	}
	if s.Precipitation.Enabled {
		if s.Precipitation.MaxRateMmHr <= 0 {
			return fmt.Errorf("config: precipitation cap %v mm/h must be > 0", s.Precipitation.MaxRateMmHr)
		}
		if s.Precipitation.CellsPerKm <= 0 {
			return fmt.Errorf("config: precipitation resolution %v cells/km must be > 0", s.Precipitation.CellsPerKm)
		}
	}
	return nil
}

// applyEnvironmentOverrides applies environment variable overrides to the
// config. This keeps sensitive data like passwords out of config files.
func (c *Config) applyEnvironmentOverrides() {
	if port := os.Getenv("SKYSHIELD_PORT"); port != "" {
		c.Server.Port = port
	}
	if dbPassword := os.Getenv("SKYSHIELD_DB_PASSWORD"); dbPassword != "" {
		c.Database.Password = dbPassword
	}
	if secret := os.Getenv("SKYSHIELD_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
}
