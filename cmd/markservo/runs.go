package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/markservo/internal/storage"
	"github.com/san-kum/markservo/internal/ui"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tDICT\tTARGET\tSOURCE\tDETECTED")

	for _, run := range runs {
		preset := run.Preset
		if preset == "" {
			preset = "-"
		}
		target := "largest"
		if run.TargetID >= 0 {
			target = fmt.Sprint(run.TargetID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\t%.0f%%\n",
			run.ID,
			preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dictionary,
			target,
			run.Source,
			run.Metrics["detection_rate"]*100,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	cols, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if len(cols.Column("time")) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(ui.Header.Render("run " + meta.ID))
	fmt.Println(ui.KV("source", meta.Source))
	fmt.Println(ui.KV("frames", meta.Frames))
	fmt.Println("detected " + ui.Spark(cols.Column("found"), 60))
	fmt.Println()

	for _, axis := range meta.Axes {
		for _, series := range []struct{ suffix, caption string }{
			{"_measured", fmt.Sprintf("%s %s (set point %.1f)", axis.Name, axis.Feature, axis.SetPoint)},
			{"_output", axis.Name + " correction"},
		} {
			data := dropGaps(cols.Column(axis.Name + series.suffix))
			if len(data) == 0 {
				continue
			}
			graph := asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(series.caption),
			)
			fmt.Println(graph)
			fmt.Println()
		}
		fmt.Println(ui.Separator(80))
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(os.Stdout, args[0])
}

// dropGaps removes the NaN cells left by frames without the marker.
func dropGaps(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
