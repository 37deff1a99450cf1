package raster

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// FileSink buffers pixels in memory and encodes them to a file on Flush.
type FileSink struct {
	path   string
	format Format
	file   *os.File
	canvas canvas
	size   int64
	gone   bool
}

// Create truncates or creates the target file and returns a sink for it.
func Create(path string, width, height int, format Format) (*FileSink, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("raster %s: invalid size %dx%d", path, width, height)
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}

	// Create output directory if needed
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	return &FileSink{
		path:   path,
		format: format,
		file:   file,
		canvas: newCanvas(width, height),
	}, nil
}

// FileFactory returns a Factory writing dir/<name>.<ext> files.
func FileFactory(dir string, format Format) Factory {
	return func(name string, width, height int) (Sink, error) {
		return Create(filepath.Join(dir, name+"."+format.Ext()), width, height, format)
	}
}

// Path returns the target file path.
func (s *FileSink) Path() string {
	return s.path
}

// Size returns the encoded file size after a successful Flush.
func (s *FileSink) Size() int64 {
	return s.size
}

// WritePixel appends the next pixel in raster order.
func (s *FileSink) WritePixel(px color.RGBA) error {
	return s.canvas.put(px)
}

// Flush encodes the image and closes the file.
// An incomplete raster is removed rather than left truncated on disk.
func (s *FileSink) Flush() error {
	if err := s.canvas.finish(); err != nil {
		wrapped := fmt.Errorf("%s: %w", s.path, err)
		if !errors.Is(err, ErrClosed) {
			wrapped = multierr.Append(wrapped, s.discard())
		}
		return wrapped
	}

	w := bufio.NewWriter(s.file)
	var err error
	switch s.format {
	case FormatBMP:
		err = bmp.Encode(w, s.canvas.img)
	case FormatTIFF:
		err = tiff.Encode(w, s.canvas.img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(w, s.canvas.img)
	}
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		var info os.FileInfo
		if info, err = s.file.Stat(); err == nil {
			s.size = info.Size()
		}
	}
	if err != nil {
		return multierr.Append(fmt.Errorf("encoding %s: %w", s.path, err), s.discard())
	}
	err = s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("closing %s: %w", s.path, err)
	}
	return nil
}

// Abort closes and removes the file, even one that was already flushed.
func (s *FileSink) Abort() error {
	s.canvas.done = true
	return s.discard()
}

func (s *FileSink) discard() error {
	if s.gone {
		return nil
	}
	s.gone = true
	var err error
	if s.file != nil {
		err = s.file.Close()
		s.file = nil
	}
	return multierr.Append(err, os.Remove(s.path))
}
