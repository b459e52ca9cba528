package fscanvas

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/fontstash"
)

var (
	// ErrInvalidDrawContext is returned for a nil drawer.
	ErrInvalidDrawContext = errors.New("fscanvas: nil texture drawer")

	// ErrInvalidRenderer is returned when the drawer has no TextureCreator.
	ErrInvalidRenderer = errors.New("fscanvas: drawer has no texture creator")

	// ErrNilImage is returned when Present is given no frame.
	ErrNilImage = errors.New("fscanvas: nil image")
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// Presenter uploads *image.RGBA frames to a drawer and draws them. The
// texture is kept between calls and updated in place while the frame size
// stays the same.
//
// The zero value is ready to use. Presenter is safe for concurrent use.
type Presenter struct {
	mu      sync.Mutex
	texture gpucontext.Texture
}

// Present uploads img and draws it with its top-left corner at (x, y).
func (p *Presenter) Present(dc gpucontext.TextureDrawer, img *image.RGBA, x, y float32) error {
	return p.present(dc, img, x, y, true)
}

// present draws img, uploading it only when upload is set or the texture
// has to be (re)created.
func (p *Presenter) present(dc gpucontext.TextureDrawer, img *image.RGBA, x, y float32, upload bool) error {
	if dc == nil {
		return ErrInvalidDrawContext
	}
	if img == nil {
		return ErrNilImage
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w <= 0 || h <= 0 {
		return &fontstash.SizeError{What: "frame", Width: w, Height: h, Reason: "must be positive"}
	}

	reuse := p.texture != nil && p.texture.Width() == w && p.texture.Height() == h
	if reuse && upload {
		updater, ok := p.texture.(gpucontext.TextureUpdater)
		if !ok {
			reuse = false
		} else if err := updater.UpdateData(pixels(img)); err != nil {
			return fmt.Errorf("fscanvas: update texture: %w", err)
		}
	}
	if !reuse {
		if err := p.create(dc, w, h, pixels(img)); err != nil {
			return err
		}
	}
	return dc.DrawTexture(p.texture, x, y)
}

func (p *Presenter) create(dc gpucontext.TextureDrawer, w, h int, data []byte) error {
	creator := dc.TextureCreator()
	if creator == nil {
		return ErrInvalidRenderer
	}
	tex, err := creator.NewTextureFromRGBA(w, h, data)
	if err != nil {
		return fmt.Errorf("fscanvas: create texture: %w", err)
	}
	// image.RGBA holds premultiplied colors.
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}
	// NewTextureFromRGBA waits for the GPU, so the old texture is idle.
	p.release()
	p.texture = tex
	fontstash.Logger().Debug("fscanvas: texture created", "width", w, "height", h)
	return nil
}

// Texture returns the current texture, or nil before the first Present.
func (p *Presenter) Texture() gpucontext.Texture {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.texture
}

// Release destroys the texture. The next Present creates a new one.
func (p *Presenter) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release()
}

func (p *Presenter) release() {
	if p.texture == nil {
		return
	}
	if d, ok := p.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	p.texture = nil
}

// pixels returns the tightly packed rows of img.
func pixels(img *image.RGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	row := w * 4
	if img.Stride == row && img.Rect.Min == (image.Point{}) {
		return img.Pix[:row*h]
	}
	data := make([]byte, row*h)
	for y := 0; y < h; y++ {
		off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(data[y*row:], img.Pix[off:off+row])
	}
	return data
}
