package marker

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"
)

// ScanResult is the detection outcome for one input of a Scan.
type ScanResult struct {
	Index int
	Set   Set
	Err   error
}

// Scanner detects markers in many inputs concurrently. Detectors are not
// assumed to be safe for concurrent use, so every worker builds its own.
type Scanner[I any] struct {
	NewDetector func() (Detector[I], error)
	// Load returns input i. Release, when set, is called once the input
	// has been detected.
	Load    func(i int) (I, error)
	Release func(I)
	Workers int
}

// Scan runs n inputs through the workers and returns one result per input,
// in input order. Per-input failures are reported in ScanResult.Err; the
// returned error is set only when a detector cannot be built or ctx ends.
// Inputs never handed to a worker because ctx ended carry ctx.Err().
func (s Scanner[I]) Scan(ctx context.Context, n int) ([]ScanResult, error) {
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = max(1, min(workers, n))

	results := make([]ScanResult, n)
	errs := make([]error, workers)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			det, err := s.NewDetector()
			if err != nil {
				errs[w] = err
				for range jobs {
				}
				return
			}
			if c, ok := det.(io.Closer); ok {
				defer c.Close()
			}
			for i := range jobs {
				results[i] = s.scanOne(det, i)
			}
		}(w)
	}

	fed := 0
feed:
	for ; fed < n; fed++ {
		select {
		case jobs <- fed:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for i := fed; i < n; i++ {
		results[i] = ScanResult{Index: i, Err: ctx.Err()}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (s Scanner[I]) scanOne(det Detector[I], i int) ScanResult {
	img, err := s.Load(i)
	if err != nil {
		return ScanResult{Index: i, Err: err}
	}
	if s.Release != nil {
		defer s.Release(img)
	}
	set, err := det.Detect(img)
	return ScanResult{Index: i, Set: set, Err: err}
}
