package frames

import (
	"context"
	"fmt"
	"io"

	"gocv.io/x/gocv"
)

// VideoSource reads frames from a video file or capture device into a
// single reused Mat.
type VideoSource struct {
	cap *gocv.VideoCapture
	buf gocv.Mat
}

func OpenVideo(path string) (*VideoSource, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("frames: open %s: %w", path, err)
	}
	return &VideoSource{cap: vc, buf: gocv.NewMat()}, nil
}

func OpenDevice(id int) (*VideoSource, error) {
	vc, err := gocv.VideoCaptureDevice(id)
	if err != nil {
		return nil, fmt.Errorf("frames: open device %d: %w", id, err)
	}
	return &VideoSource{cap: vc, buf: gocv.NewMat()}, nil
}

// Next returns io.EOF once the capture stops yielding frames.
func (s *VideoSource) Next(ctx context.Context) (gocv.Mat, error) {
	if err := ctx.Err(); err != nil {
		return gocv.Mat{}, err
	}
	if ok := s.cap.Read(&s.buf); !ok || s.buf.Empty() {
		return gocv.Mat{}, io.EOF
	}
	return s.buf, nil
}

func (s *VideoSource) Close() error {
	err := s.cap.Close()
	if cerr := s.buf.Close(); err == nil {
		err = cerr
	}
	return err
}
