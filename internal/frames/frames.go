// Package frames supplies camera, video and image-directory frames to the
// servo loop. Frames are owned by the source and stay valid until the next
// call to Next or Close.
package frames

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gocv.io/x/gocv"
)

var ErrEmptySource = errors.New("frames: no images found")

// Source is a closable frame source.
type Source interface {
	Next(ctx context.Context) (gocv.Mat, error)
	Close() error
}

type Kind int

const (
	KindDir Kind = iota + 1
	KindVideo
	KindDevice
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindVideo:
		return "video"
	case KindDevice:
		return "device"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const devicePrefix = "device:"

// Target is a parsed source string.
type Target struct {
	Kind   Kind
	Path   string
	Device int
}

// Parse interprets source as "device:<n>", an existing directory, or a
// video file path.
func Parse(source string) (Target, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return Target{}, errors.New("frames: empty source")
	}
	if rest, ok := strings.CutPrefix(source, devicePrefix); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			return Target{}, fmt.Errorf("frames: invalid device %q", rest)
		}
		return Target{Kind: KindDevice, Device: n}, nil
	}
	info, err := os.Stat(source)
	if err != nil {
		return Target{}, fmt.Errorf("frames: %w", err)
	}
	if info.IsDir() {
		return Target{Kind: KindDir, Path: source}, nil
	}
	return Target{Kind: KindVideo, Path: source}, nil
}

// Open parses source and opens the matching frame source.
func Open(source string) (Source, error) {
	t, err := Parse(source)
	if err != nil {
		return nil, err
	}
	var src Source
	switch t.Kind {
	case KindDir:
		src, err = NewDirSource(t.Path)
	case KindDevice:
		src, err = OpenDevice(t.Device)
	default:
		src, err = OpenVideo(t.Path)
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// ListImages returns the image files in dir in lexical order.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
