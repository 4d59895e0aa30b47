package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/san-kum/markservo/internal/config"
	"github.com/san-kum/markservo/internal/control"
	"github.com/san-kum/markservo/internal/frames"
	"github.com/san-kum/markservo/internal/logging"
	"github.com/san-kum/markservo/internal/marker"
	"github.com/san-kum/markservo/internal/marker/aruco"
	"github.com/san-kum/markservo/internal/metrics"
	"github.com/san-kum/markservo/internal/servo"
	"github.com/san-kum/markservo/internal/storage"
	"github.com/san-kum/markservo/internal/ui"
)

func runServo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
		log = logging.New(logging.Options{Level: cfg.LogLevel, Pretty: pretty})
	}
	if cfg.Source == "" {
		return errors.New("no frame source: pass one as argument or set source in the config")
	}

	axes, err := buildAxes(cfg)
	if err != nil {
		return err
	}
	if err := applyParams(axes, params); err != nil {
		return err
	}

	dict, err := aruco.ParseDictionary(cfg.Dictionary)
	if err != nil {
		return err
	}
	det, err := aruco.NewDetector(dict)
	if err != nil {
		return err
	}
	defer det.Close()

	src, err := frames.Open(cfg.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	names := make([]string, len(axes))
	for i, a := range axes {
		names[i] = a.Name
	}

	loc := marker.NewLocator[gocv.Mat](det, marker.WithLogger(log))
	loop, err := servo.New(loc, axes, servo.NewLogActuator(log, names),
		servo.WithTarget(cfg.TargetID),
		servo.WithLogger(log),
	)
	if err != nil {
		return err
	}
	for _, m := range metrics.Defaults(cfg.Settle) {
		loop.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().
		Str("source", cfg.Source).
		Str("dictionary", det.Dictionary().String()).
		Int("target", cfg.TargetID).
		Strs("axes", names).
		Msg("servo loop starting")

	start := time.Now()
	trace, runErr := loop.Run(ctx, src)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(runMetadata(cfg, det.Dictionary(), axes), trace)
	if err != nil {
		return err
	}

	printSummary(runID, trace, time.Since(start))
	return nil
}

// resolveConfig layers defaults, preset, config file, positional source and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Source = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("dict") {
		cfg.Dictionary = dictName
	}
	if flags.Changed("id") {
		cfg.TargetID = targetID
	}
	if flags.Changed("min-dt") {
		cfg.MinDt = time.Duration(minDt * float64(time.Second))
	}
	if flags.Changed("setpoint") {
		if len(cfg.Axes) != 1 {
			return nil, fmt.Errorf("--setpoint needs exactly one axis, config has %d", len(cfg.Axes))
		}
		cfg.Axes[0].SetPoint = setPoint
	}
	for i := range cfg.Axes {
		a := &cfg.Axes[i]
		if flags.Changed("kp") {
			a.Kp = kp
		}
		if flags.Changed("ki") {
			a.Ki = ki
		}
		if flags.Changed("kd") {
			a.Kd = kd
		}
		if flags.Changed("integral-limit") {
			a.IntegralLimit = integLimit
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildAxes(cfg *config.Config) ([]servo.Axis, error) {
	axes := make([]servo.Axis, 0, len(cfg.Axes))
	for _, ac := range cfg.Axes {
		f, err := servo.ParseFeature(ac.Feature)
		if err != nil {
			return nil, err
		}
		axes = append(axes, servo.Axis{
			Name:     ac.Name,
			Feature:  f,
			SetPoint: ac.SetPoint,
			Invert:   ac.Invert,
			PID: control.NewPID(ac.Kp, ac.Ki, ac.Kd,
				control.WithMinDt(cfg.MinDt),
				control.WithIntegralLimit(ac.IntegralLimit),
			),
		})
	}
	return axes, nil
}

// applyParams applies "axis.Param=value" overrides through PID.SetParam.
// Parameter names match GetParams case-insensitively.
func applyParams(axes []servo.Axis, overrides []string) error {
	for _, o := range overrides {
		key, raw, ok := strings.Cut(o, "=")
		axisName, param, dotted := strings.Cut(key, ".")
		if !ok || !dotted {
			return fmt.Errorf("invalid --param %q: want axis.Param=value", o)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("invalid --param %q: %w", o, err)
		}

		idx := slices.IndexFunc(axes, func(a servo.Axis) bool { return a.Name == axisName })
		if idx < 0 {
			return fmt.Errorf("invalid --param %q: no axis %q", o, axisName)
		}
		pid := axes[idx].PID
		for name := range pid.GetParams() {
			if strings.EqualFold(name, param) {
				param = name
				break
			}
		}
		if err := pid.SetParam(param, v); err != nil {
			return fmt.Errorf("invalid --param %q: %w", o, err)
		}
	}
	return nil
}

// runMetadata records what is needed to reproduce the run, reading gains
// back from the regulators so --param overrides are included.
func runMetadata(cfg *config.Config, dict aruco.Dictionary, axes []servo.Axis) storage.RunMetadata {
	meta := storage.RunMetadata{
		Preset:          preset,
		Source:          cfg.Source,
		Dictionary:      dict.String(),
		TargetID:        cfg.TargetID,
		MinDt:           cfg.MinDt,
		SettleThreshold: cfg.Settle,
	}
	for _, a := range axes {
		p := a.PID.GetParams()
		meta.Axes = append(meta.Axes, storage.AxisMetadata{
			Name:          a.Name,
			Feature:       a.Feature.String(),
			SetPoint:      a.SetPoint,
			Kp:            p["Kp"],
			Ki:            p["Ki"],
			Kd:            p["Kd"],
			IntegralLimit: p["IntegralLimit"],
			Invert:        a.Invert,
		})
	}
	return meta
}

func printSummary(runID string, trace *servo.Trace, elapsed time.Duration) {
	var found, held, missing int
	for _, s := range trace.Samples {
		switch {
		case s.Found:
			found++
		case s.Held:
			held++
		default:
			missing++
		}
	}

	lines := []string{
		ui.Title.Render("run " + runID),
		ui.KV("frames", len(trace.Samples)),
		ui.KV("elapsed", elapsed.Round(time.Millisecond)),
		fmt.Sprintf("%s %d  %s %d  %s %d",
			ui.Status(true, false), found,
			ui.Status(false, true), held,
			ui.Status(false, false), missing),
	}

	names := make([]string, 0, len(trace.Metrics))
	for name := range trace.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		lines = append(lines, ui.KV(name, fmt.Sprintf("%.4f", trace.Metrics[name])))
	}
	if rate, ok := trace.Metrics["detection_rate"]; ok {
		lines = append(lines, ui.Ratio(rate, 40))
	}

	fmt.Println(ui.Panel.Render(strings.Join(lines, "\n")))
}
