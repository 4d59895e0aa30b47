package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestDefaultConfig(t *testing.T) {
	g := NewWithT(t)

	cfg := DefaultConfig()
	g.Expect(cfg.Dictionary).To(Equal("6x6_250"))
	g.Expect(cfg.FollowsLargest()).To(BeTrue())
	g.Expect(cfg.MinDt).To(Equal(time.Microsecond))
	g.Expect(cfg.Axes).To(HaveLen(1))
	g.Expect(cfg.Validate()).To(Succeed())
}

func TestLoad_Overrides(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "servo.yaml")
	data := `
dictionary: 4x4_50
target_id: 7
min_dt: 2ms
axes:
  - name: pan
    feature: centroid_x
    set_point: 320
    kp: 1.5
    integral_limit: 40
  - name: zoom
    feature: area
    set_point: 9000
    ki: 0.001
    invert: true
`
	g.Expect(os.WriteFile(path, []byte(data), 0644)).To(Succeed())

	cfg, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(cfg.Dictionary).To(Equal("4x4_50"))
	g.Expect(cfg.TargetID).To(Equal(7))
	g.Expect(cfg.FollowsLargest()).To(BeFalse())
	g.Expect(cfg.MinDt).To(Equal(2 * time.Millisecond))
	g.Expect(cfg.DataDir).To(Equal(DefaultDataDir))
	g.Expect(cfg.Axes).To(HaveLen(2))
	g.Expect(cfg.Axes[0].Kp).To(Equal(1.5))
	g.Expect(cfg.Axes[0].IntegralLimit).To(Equal(40.0))
	g.Expect(cfg.Axes[1].Feature).To(Equal("area"))
	g.Expect(cfg.Axes[1].Invert).To(BeTrue())
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		data string
	}{
		{"no axes", "axes: []\n"},
		{"bad feature", "axes:\n  - name: a\n    feature: roll\n"},
		{"duplicate axis", "axes:\n  - name: a\n    feature: area\n  - name: a\n    feature: area\n"},
		{"bad target", "target_id: -4\n"},
		{"bad yaml", "axes: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			path := filepath.Join(dir, tt.name+".yaml")
			g.Expect(os.WriteFile(path, []byte(tt.data), 0644)).To(Succeed())
			_, err := Load(path)
			g.Expect(err).To(HaveOccurred())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/servo.yaml")
	NewWithT(t).Expect(err).To(HaveOccurred())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("pan_tilt")
	g.Expect(cfg).NotTo(BeNil())

	g.Expect(Save(path, cfg)).To(Succeed())
	loaded, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(loaded).To(Equal(cfg))
}

func TestGetPreset(t *testing.T) {
	g := NewWithT(t)

	cfg := GetPreset("approach")
	g.Expect(cfg).NotTo(BeNil())
	g.Expect(cfg.TargetID).To(Equal(0))
	g.Expect(cfg.Validate()).To(Succeed())

	cfg.Axes[0].Kp = 99
	g.Expect(Presets["approach"].Axes[0].Kp).NotTo(Equal(99.0))
}

func TestGetPreset_NotFound(t *testing.T) {
	NewWithT(t).Expect(GetPreset("nonexistent")).To(BeNil())
}

func TestListPresets(t *testing.T) {
	g := NewWithT(t)

	presets := ListPresets()
	g.Expect(presets).To(Equal([]string{"approach", "pan_tilt", "yaw"}))
	for _, name := range presets {
		g.Expect(GetPreset(name).Validate()).To(Succeed(), name)
	}
}
