// Package raster provides append-only pixel sinks that persist RGBA images.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"go.uber.org/multierr"
)

// Sink errors.
var (
	ErrOverflow      = errors.New("raster: more pixels than width*height")
	ErrIncomplete    = errors.New("raster: flushed before every pixel was written")
	ErrClosed        = errors.New("raster: sink already closed")
	ErrUnknownFormat = errors.New("raster: unknown format")
)

// Sink accepts pixels left-to-right, top-to-bottom and persists them on Flush.
// Exactly width*height pixels must be written before Flush. Abort discards
// whatever was written, including any file created for the sink.
type Sink interface {
	WritePixel(px color.RGBA) error
	Flush() error
	Abort() error
}

// Factory creates the sink for one named raster.
type Factory func(name string, width, height int) (Sink, error)

// CreateAll creates one sink per name. If any creation fails, the sinks
// created so far are aborted and their abort errors are joined to the failure.
func CreateAll(f Factory, width, height int, names ...string) ([]Sink, error) {
	sinks := make([]Sink, 0, len(names))
	for _, name := range names {
		s, err := f(name, width, height)
		if err != nil {
			err = fmt.Errorf("creating %s: %w", name, err)
			for _, prev := range sinks {
				err = multierr.Append(err, prev.Abort())
			}
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}

// Format is a raster encoding.
type Format string

// Supported formats.
const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatPNG, FormatBMP, FormatTIFF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == FormatTIFF {
		return "tif"
	}
	return string(f)
}

// canvas tracks the write cursor over an RGBA image.
type canvas struct {
	img  *image.RGBA
	n    int
	done bool
}

func newCanvas(width, height int) canvas {
	return canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (c *canvas) put(px color.RGBA) error {
	if c.done {
		return ErrClosed
	}
	w, h := c.img.Rect.Dx(), c.img.Rect.Dy()
	if c.n >= w*h {
		return ErrOverflow
	}
	x, y := c.n%w, c.n/w
	off := y*c.img.Stride + x*4
	c.img.Pix[off+0] = px.R
	c.img.Pix[off+1] = px.G
	c.img.Pix[off+2] = px.B
	c.img.Pix[off+3] = px.A
	c.n++
	return nil
}

func (c *canvas) finish() error {
	if c.done {
		return ErrClosed
	}
	c.done = true
	if want := c.img.Rect.Dx() * c.img.Rect.Dy(); c.n != want {
		return fmt.Errorf("%w: %d of %d pixels", ErrIncomplete, c.n, want)
	}
	return nil
}
