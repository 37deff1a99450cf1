package raster

import (
	"image"
	"image/color"
)

// Buffer is an in-memory Sink.
type Buffer struct {
	canvas  canvas
	flushed bool
}

// NewBuffer creates a width x height in-memory sink.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{canvas: newCanvas(width, height)}
}

// WritePixel implements Sink.
func (b *Buffer) WritePixel(px color.RGBA) error {
	return b.canvas.put(px)
}

// Flush implements Sink.
func (b *Buffer) Flush() error {
	if err := b.canvas.finish(); err != nil {
		return err
	}
	b.flushed = true
	return nil
}

// Abort implements Sink.
// A flushed buffer no longer counts as flushed once aborted.
func (b *Buffer) Abort() error {
	b.canvas.done = true
	b.flushed = false
	return nil
}

// Flushed reports whether the buffer was completed successfully.
func (b *Buffer) Flushed() bool {
	return b.flushed
}

// Image returns the pixels written so far.
func (b *Buffer) Image() *image.RGBA {
	return b.canvas.img
}

// At returns the pixel at x, y.
func (b *Buffer) At(x, y int) color.RGBA {
	return b.canvas.img.RGBAAt(x, y)
}
