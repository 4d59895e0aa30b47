package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/markservo/internal/config"
	"github.com/san-kum/markservo/internal/logging"
	"github.com/san-kum/markservo/internal/ui"
)

var (
	dataDir  string
	logLevel string
	pretty   bool

	dictName string
	targetID int

	configFile string
	preset     string
	kp         float64
	ki         float64
	kd         float64
	setPoint   float64
	minDt      float64
	integLimit float64
	params     []string

	log = zerolog.Nop()
)

// main runs the markservo command tree and exits 1 if a command fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Missing.Render("error:"), err)
		os.Exit(1)
	}
}

// newRootCmd registers every command and binds its flags to the package
// variables, resetting them to their defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "markservo",
		Short:         "fiducial marker visual servoing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyEnv(cmd.Flags()); err != nil {
				return err
			}
			log = logging.New(logging.Options{Level: logLevel, Pretty: pretty})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "human readable logs")
	rootCmd.PersistentFlags().StringVar(&dictName, "dict", config.DefaultDictionary, "aruco dictionary")

	detectCmd := &cobra.Command{
		Use:   "detect [image]",
		Short: "list every marker in an image",
		Args:  cobra.ExactArgs(1),
		RunE:  detectMarkers,
	}

	largestCmd := &cobra.Command{
		Use:   "largest [image]",
		Short: "show the largest marker in an image",
		Args:  cobra.ExactArgs(1),
		RunE:  largestMarker,
	}

	locateCmd := &cobra.Command{
		Use:   "locate [image]",
		Short: "area and centroid of one marker",
		Args:  cobra.ExactArgs(1),
		RunE:  locateMarker,
	}
	locateCmd.Flags().IntVar(&targetID, "id", 0, "marker id")
	_ = locateCmd.MarkFlagRequired("id")

	scanCmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "detect markers in every image of a directory",
		Args:  cobra.ExactArgs(1),
		RunE:  scanDir,
	}
	scanCmd.Flags().IntVar(&workers, "workers", 0, "parallel detectors (0 uses every cpu)")

	runCmd := &cobra.Command{
		Use:   "run [source]",
		Short: "servo on a marker over a frame source (directory, video, device:<n>)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServo,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&targetID, "id", config.FollowLargest, "marker id to follow (-1 follows the largest)")
	runCmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp (all axes)")
	runCmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki (all axes)")
	runCmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd (all axes)")
	runCmd.Flags().Float64Var(&setPoint, "setpoint", 0, "set point (single axis configs only)")
	runCmd.Flags().Float64Var(&minDt, "min-dt", config.DefaultMinDt.Seconds(), "smallest accepted pid time step in seconds")
	runCmd.Flags().Float64Var(&integLimit, "integral-limit", 0, "bound on the accumulated error, 0 disables")
	runCmd.Flags().StringArrayVar(&params, "param", nil, "per-axis regulator override axis.Param=value, repeatable (e.g. pan.Kd=0.2)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot measured values and corrections of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and trace as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list config presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(ui.Title.Render("presets"))
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				axes := make([]string, len(cfg.Axes))
				for i, a := range cfg.Axes {
					axes[i] = a.Name + "=" + a.Feature
				}
				fmt.Printf("  %-10s %s\n", name, ui.Subtle.Render(fmt.Sprint(axes)))
			}
			return nil
		},
	}

	rootCmd.AddCommand(detectCmd, largestCmd, locateCmd, scanCmd, runCmd, listCmd, plotCmd, exportCmd, presetsCmd)

	return rootCmd
}
