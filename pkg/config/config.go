// Package config holds the run configuration. Everything tunable lives here
// and is passed explicitly into each component; no package-level run state.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ConfigError reports an invalid or unsatisfiable configuration. It is
// surfaced at validation time, before any graph work begins.
type ConfigError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error (%s): %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("config error: %s", e.Msg)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config is the full pipeline configuration
type Config struct {
	Input        InputConfig        `yaml:"input"`
	Community    CommunityConfig    `yaml:"community"`
	ResponseTime ResponseTimeConfig `yaml:"response_time"`
	Typology     TypologyThresholds `yaml:"typology"`
	Simulation   SimulationConfig   `yaml:"simulation"`
	Report       ReportConfig       `yaml:"report"`
	Store        StoreConfig        `yaml:"store"`
	Export       ExportConfig       `yaml:"export"`

	// Workers bounds the per-community fan-out; 0 means NumCPU
	Workers int `yaml:"workers" validate:"gte=0"`
}

// InputConfig locates the cleaned interaction table
type InputConfig struct {
	Path string `yaml:"path"`
}

// CommunityConfig tunes partition reporting
type CommunityConfig struct {
	// MinSize drops units smaller than this from the report tables; the
	// partition itself always covers every node
	MinSize int `yaml:"min_size" validate:"gte=1"`
}

// ResponseTimeConfig bounds the reply-pairing window. Samples outside
// (MinHours, MaxHours) are treated as noise and discarded.
type ResponseTimeConfig struct {
	MinHours float64 `yaml:"min_hours" validate:"gte=0"`
	MaxHours float64 `yaml:"max_hours" validate:"gt=0"`
}

// TypologyThresholds drive the ordered classification rule table
type TypologyThresholds struct {
	// SlowHours is the response-time bound above which a unit counts as slow
	SlowHours float64 `yaml:"slow_hours" validate:"gt=0"`
	// EIClosedMax: units with EI below this are closed (Black Hole rule)
	EIClosedMax float64 `yaml:"ei_closed_max" validate:"gt=-1,lte=1"`
	// EIOpenMin: units with EI above this are open (Overloaded Hub rule)
	EIOpenMin float64 `yaml:"ei_open_min" validate:"gte=-1,lt=1"`
	// EIBureaucraticMax: extreme closure bound for the Bureaucratic rule
	EIBureaucraticMax float64 `yaml:"ei_bureaucratic_max" validate:"gte=-1,lte=1"`
	// SmallUnitSize: units strictly smaller than this qualify as small
	SmallUnitSize int `yaml:"small_unit_size" validate:"gte=1"`
}

// SimulationConfig tunes the targeted-removal stress tests
type SimulationConfig struct {
	// TopK individuals removed per archetype trial
	TopK int `yaml:"top_k" validate:"gte=1"`
	// Targets is how many top fragmentation-impact units to stress-test
	Targets int `yaml:"targets" validate:"gte=1"`
	// SpeedWeight and UpwardWeight blend the connector score components
	SpeedWeight  float64 `yaml:"speed_weight" validate:"gte=0"`
	UpwardWeight float64 `yaml:"upward_weight" validate:"gte=0"`
	// LeadershipDegreeFactor: nodes whose weighted degree exceeds this
	// multiple of the graph mean count as leadership targets
	LeadershipDegreeFactor float64 `yaml:"leadership_degree_factor" validate:"gt=0"`
}

// ReportConfig tunes CLI output
type ReportConfig struct {
	TopN int `yaml:"top_n" validate:"gte=1"`
}

// StoreConfig enables the optional Postgres result sink
type StoreConfig struct {
	Enabled     bool   `yaml:"enabled"`
	DatabaseURL string `yaml:"database_url"`
}

// ExportConfig enables the optional compressed snapshot export
type ExportConfig struct {
	Enabled bool     `yaml:"enabled"`
	Dir     string   `yaml:"dir"`
	S3      S3Config `yaml:"s3"`
}

// S3Config uploads snapshots to an S3 bucket when enabled
type S3Config struct {
	Enabled bool   `yaml:"enabled"`
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
	Region  string `yaml:"region"`
}

// Default returns the configuration with all documented defaults
func Default() *Config {
	return &Config{
		Community: CommunityConfig{MinSize: 10},
		ResponseTime: ResponseTimeConfig{
			MinHours: 0.1,
			MaxHours: 168,
		},
		Typology: TypologyThresholds{
			SlowHours:         50,
			EIClosedMax:       -0.5,
			EIOpenMin:         -0.2,
			EIBureaucraticMax: -0.9,
			SmallUnitSize:     10,
		},
		Simulation: SimulationConfig{
			TopK:                   10,
			Targets:                3,
			SpeedWeight:            0.5,
			UpwardWeight:           0.5,
			LeadershipDegreeFactor: 2.0,
		},
		Report: ReportConfig{TopN: 10},
		Export: ExportConfig{Dir: "./out"},
	}
}

var validate = validator.New()

// Load reads a YAML configuration file over the defaults and validates it
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Msg: "invalid YAML", Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and cross-field consistency. It returns a
// *ConfigError describing the first violation found.
func (c *Config) Validate() error {
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}

	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			v := verrs[0]
			return &ConfigError{
				Field: v.Namespace(),
				Msg:   fmt.Sprintf("failed %q validation", v.Tag()),
				Err:   err,
			}
		}
		return &ConfigError{Msg: "validation failed", Err: err}
	}

	if c.ResponseTime.MaxHours <= c.ResponseTime.MinHours {
		return &ConfigError{
			Field: "response_time",
			Msg:   "max_hours must exceed min_hours",
		}
	}

	if err := c.Typology.Validate(); err != nil {
		return err
	}

	if c.Simulation.SpeedWeight+c.Simulation.UpwardWeight <= 0 {
		return &ConfigError{
			Field: "simulation",
			Msg:   "connector score weights must not both be zero",
		}
	}

	return nil
}

// Validate rejects threshold combinations that leave a typology unreachable
func (t TypologyThresholds) Validate() error {
	if t.SlowHours <= 0 {
		return &ConfigError{
			Field: "typology.slow_hours",
			Msg:   "must be positive",
		}
	}
	if t.SmallUnitSize < 1 {
		return &ConfigError{
			Field: "typology.small_unit_size",
			Msg:   "must be at least 1, otherwise no unit can classify as Bureaucratic",
		}
	}
	if t.EIClosedMax <= -1 {
		return &ConfigError{
			Field: "typology.ei_closed_max",
			Msg:   "EI never drops below -1, bound leaves Black Hole unreachable",
		}
	}
	if t.EIOpenMin >= 1 {
		return &ConfigError{
			Field: "typology.ei_open_min",
			Msg:   "EI never exceeds 1, bound leaves Overloaded Hub unreachable",
		}
	}
	if t.EIBureaucraticMax < -1 {
		return &ConfigError{
			Field: "typology.ei_bureaucratic_max",
			Msg:   "EI never drops below -1, bound leaves Bureaucratic unreachable",
		}
	}
	return nil
}
