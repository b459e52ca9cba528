package fscanvas

import (
	"errors"
	"image"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/draw"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/atlas"
)

// ErrCanvasClosed is returned when operations are attempted on a closed canvas.
var ErrCanvasClosed = errors.New("fscanvas: canvas is closed")

// Canvas draws glyph runs with a fontstash.SoftwareRenderer and presents
// the frame through a gpucontext.TextureDrawer.
//
// Canvas is NOT safe for concurrent use.
type Canvas struct {
	opts     []fontstash.Option
	renderer *fontstash.SoftwareRenderer
	frame    *image.RGBA
	bg       image.Image
	present  Presenter
	dirty    bool
	closed   bool
}

// New creates a width x height canvas. opts configure the renderer; the
// frame is cleared to the WithBackground color before every Draw.
func New(width, height int, opts ...fontstash.Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, &fontstash.SizeError{What: "canvas", Width: width, Height: height, Reason: "must be positive"}
	}
	c := &Canvas{opts: opts}
	c.reset(width, height)
	return c, nil
}

func (c *Canvas) reset(width, height int) {
	c.renderer = fontstash.NewSoftwareRenderer(width, height, c.opts...)
	c.bg = image.NewUniform(c.renderer.Background().Color())
	c.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(c.frame, c.frame.Rect, c.bg, image.Point{}, draw.Src)
	c.dirty = true
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.frame.Rect.Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.frame.Rect.Dy() }

// Image returns the current frame. Callers that modify it must call
// MarkDirty.
func (c *Canvas) Image() *image.RGBA { return c.frame }

// Renderer returns the software renderer.
func (c *Canvas) Renderer() *fontstash.SoftwareRenderer { return c.renderer }

// MarkDirty forces the next RenderTo to upload the frame.
func (c *Canvas) MarkDirty() { c.dirty = true }

// IsDirty reports whether the frame changed since the last upload.
func (c *Canvas) IsDirty() bool { return c.dirty }

// Draw clears the frame and draws runs on it.
func (c *Canvas) Draw(a *atlas.Atlas, tt *fontstash.TransformTexture, runs []*fontstash.Run, u fontstash.SDFUniforms) error {
	if c.closed {
		return ErrCanvasClosed
	}
	draw.Draw(c.frame, c.frame.Rect, c.bg, image.Point{}, draw.Src)
	c.renderer.Draw(c.frame, a, tt, runs, u)
	c.dirty = true
	return nil
}

// Resize changes the canvas size. The frame is cleared and the texture is
// recreated on the next RenderTo.
func (c *Canvas) Resize(width, height int) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if width <= 0 || height <= 0 {
		return &fontstash.SizeError{What: "canvas", Width: width, Height: height, Reason: "must be positive"}
	}
	if width == c.Width() && height == c.Height() {
		return nil
	}
	c.reset(width, height)
	return nil
}

// RenderTo draws the frame at (0, 0).
func (c *Canvas) RenderTo(dc gpucontext.TextureDrawer) error {
	return c.RenderToPosition(dc, 0, 0)
}

// RenderToPosition draws the frame with its top-left corner at (x, y). The
// frame is uploaded only if it changed since the last call.
func (c *Canvas) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if err := c.present.present(dc, c.frame, x, y, c.dirty); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Texture returns the GPU texture, or nil before the first RenderTo.
func (c *Canvas) Texture() gpucontext.Texture {
	return c.present.Texture()
}

// Close releases the texture. Safe to call multiple times.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.present.Release()
	return nil
}
