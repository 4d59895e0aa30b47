package config

import "sort"

// Presets assume a 640x480 frame.
var Presets = map[string]*Config{
	"yaw": {
		Dictionary: DefaultDictionary, TargetID: FollowLargest, DataDir: DefaultDataDir,
		LogLevel: DefaultLogLevel, MinDt: DefaultMinDt, Settle: DefaultSettle,
		Axes: []AxisConfig{
			{Name: "yaw", Feature: "centroid_x", SetPoint: 320, Kp: 0.8, Ki: 0.05, Kd: 0.1},
		},
	},
	"pan_tilt": {
		Dictionary: DefaultDictionary, TargetID: FollowLargest, DataDir: DefaultDataDir,
		LogLevel: DefaultLogLevel, MinDt: DefaultMinDt, Settle: DefaultSettle,
		Axes: []AxisConfig{
			{Name: "pan", Feature: "centroid_x", SetPoint: 320, Kp: 0.6, Ki: 0.02, Kd: 0.05},
			{Name: "tilt", Feature: "centroid_y", SetPoint: 240, Kp: 0.6, Ki: 0.02, Kd: 0.05, Invert: true},
		},
	},
	"approach": {
		Dictionary: DefaultDictionary, TargetID: 0, DataDir: DefaultDataDir,
		LogLevel: DefaultLogLevel, MinDt: DefaultMinDt, Settle: 500,
		Axes: []AxisConfig{
			{Name: "yaw", Feature: "centroid_x", SetPoint: 320, Kp: 0.8, Ki: 0.05, Kd: 0.1},
			{Name: "forward", Feature: "area", SetPoint: 12000, Kp: 0.0005, Ki: 0.0001, Kd: 0, IntegralLimit: 20000},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
