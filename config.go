package rendezvous

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PolicyKind selects how rendezvous points are chosen
type PolicyKind string

// The policies available
const (
	SinglePoint   PolicyKind = "single"
	DualPoint     PolicyKind = "dual"
	FrontierAware PolicyKind = "frontier"
)

// Config holds the per-run strategy options. It is a value object and is never
// mutated once a Strategy has been built from it.
type Config struct {
	Policy                   PolicyKind `yaml:"policy"`
	HillClimb                bool       `yaml:"hill_climb"`
	SampleDensity            int        `yaml:"sample_density"` // free cells per sampled candidate
	OpportunisticExploration bool       `yaml:"opportunistic_exploration"`

	CommRange float64 `yaml:"comm_range"`
	Speed     float64 `yaml:"speed"` // cells per tick

	// Timing, in ticks
	MinDwell          int `yaml:"min_dwell"`
	WaitTime          int `yaml:"wait_time"`
	RecomputeInterval int `yaml:"recompute_interval"`
	StaleAfter        int `yaml:"stale_after"`
	MinSlack          int `yaml:"min_slack"`

	// HandoffThreshold is the time-to-base difference, in ticks, below which relay
	// responsibility stays where it is
	HandoffThreshold float64 `yaml:"handoff_threshold"`

	MinObstacleDistance float64 `yaml:"min_obstacle_distance"`
	MinCandidateSpacing float64 `yaml:"min_candidate_spacing"`
	LOSCandidates       int     `yaml:"los_candidates"`
	NLOSCandidates      int     `yaml:"nlos_candidates"`
	HillClimbRadius     int     `yaml:"hill_climb_radius"`

	MinTicksBetweenRoleSwitch int `yaml:"min_ticks_between_role_switch"`
}

// DefaultConfig returns the tuned defaults
func DefaultConfig() Config {
	return Config{
		Policy:                    DualPoint,
		HillClimb:                 true,
		SampleDensity:             400,
		OpportunisticExploration:  false,
		CommRange:                 50,
		Speed:                     10,
		MinDwell:                  75,
		WaitTime:                  15,
		RecomputeInterval:         10,
		StaleAfter:                200,
		MinSlack:                  10,
		HandoffThreshold:          5,
		MinObstacleDistance:       2,
		MinCandidateSpacing:       10,
		LOSCandidates:             5,
		NLOSCandidates:            20,
		HillClimbRadius:           3,
		MinTicksBetweenRoleSwitch: 20,
	}
}

// ParseConfig parses YAML on top of the defaults
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// Validate checks that every option is usable
func (c Config) Validate() error {
	var errs []error
	switch c.Policy {
	case SinglePoint, DualPoint, FrontierAware:
	default:
		errs = append(errs, fmt.Errorf("unknown policy %q", c.Policy))
	}
	if c.SampleDensity <= 0 {
		errs = append(errs, fmt.Errorf("sample_density must be positive, got %d", c.SampleDensity))
	}
	if c.CommRange <= 0 {
		errs = append(errs, fmt.Errorf("comm_range must be positive, got %v", c.CommRange))
	}
	if c.Speed <= 0 {
		errs = append(errs, fmt.Errorf("speed must be positive, got %v", c.Speed))
	}
	if c.MinDwell < 0 || c.WaitTime < 0 || c.RecomputeInterval < 0 || c.StaleAfter < 0 || c.MinSlack < 0 {
		errs = append(errs, errors.New("tick durations must not be negative"))
	}
	if c.HandoffThreshold < 0 {
		errs = append(errs, fmt.Errorf("handoff_threshold must not be negative, got %v", c.HandoffThreshold))
	}
	if c.LOSCandidates < 0 || c.NLOSCandidates < 0 || c.LOSCandidates+c.NLOSCandidates == 0 {
		errs = append(errs, errors.New("los_candidates and nlos_candidates must allow at least one candidate"))
	}
	if c.HillClimbRadius < 0 {
		errs = append(errs, fmt.Errorf("hill_climb_radius must not be negative, got %d", c.HillClimbRadius))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
