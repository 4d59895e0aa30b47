package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/san-kum/markservo/internal/marker"
	"github.com/san-kum/markservo/internal/marker/aruco"
	"github.com/san-kum/markservo/internal/ui"
)

// withImage loads path, builds a locator for the selected dictionary and
// hands both to fn.
func withImage(path string, fn func(*marker.Locator[gocv.Mat], gocv.Mat) error) error {
	dict, err := aruco.ParseDictionary(dictName)
	if err != nil {
		return err
	}
	det, err := aruco.NewDetector(dict)
	if err != nil {
		return err
	}
	defer det.Close()

	img := gocv.IMRead(path, gocv.IMReadColor)
	defer img.Close()
	if img.Empty() {
		return fmt.Errorf("cannot read image: %s", path)
	}

	loc := marker.NewLocator[gocv.Mat](det, marker.WithLogger(log))
	return fn(loc, img)
}

func detectMarkers(cmd *cobra.Command, args []string) error {
	return withImage(args[0], func(loc *marker.Locator[gocv.Mat], img gocv.Mat) error {
		set, err := loc.DetectAll(img)
		if err != nil {
			return err
		}
		if set.Len() == 0 {
			fmt.Println(ui.Subtle.Render("no markers found"))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tAREA\tCENTROID\tCORNERS")
		for _, obs := range set.Markers {
			printObservation(w, obs)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Println(ui.KV("rejected", len(set.Rejected)))
		return nil
	})
}

func largestMarker(cmd *cobra.Command, args []string) error {
	return withImage(args[0], func(loc *marker.Locator[gocv.Mat], img gocv.Mat) error {
		obs, err := loc.SelectLargest(img)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tAREA\tCENTROID\tCORNERS")
		printObservation(w, obs)
		return w.Flush()
	})
}

func locateMarker(cmd *cobra.Command, args []string) error {
	return withImage(args[0], func(loc *marker.Locator[gocv.Mat], img gocv.Mat) error {
		area, err := loc.Area(img, targetID)
		if err != nil {
			return err
		}
		c, err := loc.Centroid(img, targetID)
		if err != nil {
			return err
		}
		fmt.Println(ui.Title.Render(fmt.Sprintf("marker %d", targetID)))
		fmt.Println(ui.KV("area", fmt.Sprintf("%.1f", area)))
		fmt.Println(ui.KV("centroid", fmt.Sprintf("(%.1f, %.1f)", c.X, c.Y)))
		return nil
	})
}

func printObservation(w *tabwriter.Writer, obs marker.Observation) {
	area, _ := obs.Area()
	c, _ := obs.Centroid()
	fmt.Fprintf(w, "%d\t%.1f\t(%.1f, %.1f)\t%v\n", obs.ID, area, c.X, c.Y, formatCorners(obs.Corners))
}

func formatCorners(p marker.Polygon) string {
	s := ""
	for i, pt := range p {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("(%.0f,%.0f)", pt.X, pt.Y)
	}
	return s
}
