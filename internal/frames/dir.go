package frames

import (
	"context"
	"fmt"
	"io"

	"gocv.io/x/gocv"
)

// DirSource reads still images from a directory, one per Next.
type DirSource struct {
	paths []string
	pos   int
	cur   gocv.Mat
	open  bool
}

func NewDirSource(dir string) (*DirSource, error) {
	paths, err := ListImages(dir)
	if err != nil {
		return nil, fmt.Errorf("frames: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptySource, dir)
	}
	return &DirSource{paths: paths}, nil
}

func (s *DirSource) Len() int { return len(s.paths) }

func (s *DirSource) Next(ctx context.Context) (gocv.Mat, error) {
	if err := ctx.Err(); err != nil {
		return gocv.Mat{}, err
	}
	s.release()
	if s.pos >= len(s.paths) {
		return gocv.Mat{}, io.EOF
	}
	path := s.paths[s.pos]
	s.pos++

	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, fmt.Errorf("frames: cannot decode %s", path)
	}
	s.cur = img
	s.open = true
	return img, nil
}

func (s *DirSource) Close() error {
	s.release()
	s.pos = len(s.paths)
	return nil
}

func (s *DirSource) release() {
	if s.open {
		s.cur.Close()
		s.open = false
	}
}
