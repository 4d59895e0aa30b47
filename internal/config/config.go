package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDictionary = "6x6_250"
	DefaultDataDir    = ".markservo"
	DefaultLogLevel   = "info"
	DefaultMinDt      = time.Microsecond
	DefaultSettle     = 5.0
	DefaultKp         = 0.8
	DefaultKi         = 0.05
	DefaultKd         = 0.1

	// FollowLargest as target_id tracks the largest marker in view.
	FollowLargest = -1
)

type Config struct {
	Dictionary string        `yaml:"dictionary"`
	TargetID   int           `yaml:"target_id"`
	Source     string        `yaml:"source"`
	DataDir    string        `yaml:"data_dir"`
	LogLevel   string        `yaml:"log_level"`
	MinDt      time.Duration `yaml:"min_dt"`
	Settle     float64       `yaml:"settle_threshold"`
	Axes       []AxisConfig  `yaml:"axes"`
}

type AxisConfig struct {
	Name          string  `yaml:"name"`
	Feature       string  `yaml:"feature"`
	SetPoint      float64 `yaml:"set_point"`
	Kp            float64 `yaml:"kp"`
	Ki            float64 `yaml:"ki"`
	Kd            float64 `yaml:"kd"`
	IntegralLimit float64 `yaml:"integral_limit"`
	Invert        bool    `yaml:"invert"`
}

func DefaultConfig() *Config {
	return &Config{
		Dictionary: DefaultDictionary,
		TargetID:   FollowLargest,
		DataDir:    DefaultDataDir,
		LogLevel:   DefaultLogLevel,
		MinDt:      DefaultMinDt,
		Settle:     DefaultSettle,
		Axes: []AxisConfig{
			{
				Name:     "yaw",
				Feature:  "centroid_x",
				SetPoint: 320,
				Kp:       DefaultKp,
				Ki:       DefaultKi,
				Kd:       DefaultKd,
			},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var validFeatures = map[string]bool{
	"centroid_x": true,
	"centroid_y": true,
	"area":       true,
}

// Validate checks the fields the servo loop cannot run without.
func (c *Config) Validate() error {
	if len(c.Axes) == 0 {
		return errors.New("config: at least one axis is required")
	}
	if c.TargetID < FollowLargest {
		return fmt.Errorf("config: invalid target_id %d", c.TargetID)
	}
	if c.MinDt < 0 {
		return fmt.Errorf("config: min_dt must not be negative, got %s", c.MinDt)
	}
	seen := make(map[string]bool, len(c.Axes))
	for i, a := range c.Axes {
		if a.Name == "" {
			return fmt.Errorf("config: axis %d has no name", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("config: duplicate axis %q", a.Name)
		}
		seen[a.Name] = true
		if !validFeatures[a.Feature] {
			return fmt.Errorf("config: axis %q: unknown feature %q", a.Name, a.Feature)
		}
		if a.IntegralLimit < 0 {
			return fmt.Errorf("config: axis %q: integral_limit must not be negative", a.Name)
		}
	}
	return nil
}

// FollowsLargest reports whether the loop should track the largest marker.
func (c *Config) FollowsLargest() bool {
	return c.TargetID == FollowLargest
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Axes = append([]AxisConfig(nil), c.Axes...)
	return &out
}
