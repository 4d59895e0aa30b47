package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	"github.com/san-kum/markservo/internal/frames"
	"github.com/san-kum/markservo/internal/marker"
	"github.com/san-kum/markservo/internal/marker/aruco"
	"github.com/san-kum/markservo/internal/ui"
)

var workers int

func scanDir(cmd *cobra.Command, args []string) error {
	dict, err := aruco.ParseDictionary(dictName)
	if err != nil {
		return err
	}
	paths, err := frames.ListImages(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w in %s", frames.ErrEmptySource, args[0])
	}

	s := marker.Scanner[gocv.Mat]{
		NewDetector: func() (marker.Detector[gocv.Mat], error) {
			det, err := aruco.NewDetector(dict)
			if err != nil {
				return nil, err
			}
			return det, nil
		},
		Load: func(i int) (gocv.Mat, error) {
			img := gocv.IMRead(paths[i], gocv.IMReadColor)
			if img.Empty() {
				img.Close()
				return gocv.Mat{}, fmt.Errorf("cannot decode %s", paths[i])
			}
			return img, nil
		},
		Release: func(img gocv.Mat) { img.Close() },
		Workers: workers,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := s.Scan(ctx, len(paths))
	if err != nil && results == nil {
		return err
	}

	found := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tMARKERS\tIDS\tLARGEST")
	for _, r := range results {
		name := filepath.Base(paths[r.Index])
		if r.Err != nil {
			fmt.Fprintf(w, "%s\t-\t%s\t-\n", name, ui.Missing.Render(r.Err.Error()))
			log.Warn().Err(r.Err).Str("file", name).Msg("scan failed")
			continue
		}
		largest := "-"
		if obs, err := marker.Largest(r.Set); err == nil {
			largest = fmt.Sprint(obs.ID)
			found++
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%s\n", name, r.Set.Len(), r.Set.IDs(), largest)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println(ui.KV("images with markers", fmt.Sprintf("%d/%d", found, len(paths))))
	return err
}
