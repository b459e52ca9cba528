//go:build !nogpu

// Package gpu renders glyph runs with the WGSL glyph shaders on a
// wgpu/hal device.
//
// A Renderer either draws offscreen and reads the frame back into an
// *image.RGBA (Render), or records its draws into a render pass the caller
// owns (Prepare followed by RecordDraws).
//
// Usage:
//
//	r, err := gpu.NewRenderer(device, queue, gpu.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	img, err := r.Render(a, transforms, runs, fontstash.DefaultSDFUniforms())
//
// Inside a gogpu application the device is shared through
// NewRendererFromProvider.
package gpu

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/atlas"
	gpuimpl "github.com/gogpu/fontstash/internal/gpu"
)

// ErrNoHALDevice is returned when a device provider does not expose
// hal.Device and hal.Queue.
var ErrNoHALDevice = errors.New("gpu: provider does not expose a HAL device")

// Renderer draws runs through the glyph pipeline.
//
// Renderer is safe for concurrent use.
type Renderer struct {
	session *gpuimpl.Session
	config  Config
	proj    fontstash.Mat4
}

// NewRenderer creates a renderer on device and queue. The caller keeps
// ownership of both.
func NewRenderer(device hal.Device, queue hal.Queue, config Config) (*Renderer, error) {
	if device == nil || queue == nil {
		return nil, ErrNoHALDevice
	}
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	session, err := gpuimpl.NewSession(device, queue, gpuimpl.SessionConfig{
		Format:       config.Format,
		InitialQuads: config.InitialQuads,
		MaxQuads:     config.MaxQuads,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create session: %w", err)
	}

	proj := fontstash.ScreenOrtho(float64(config.Width), float64(config.Height))
	if config.Projection != nil {
		proj = *config.Projection
	}
	fontstash.Logger().Info("gpu: renderer created",
		"width", config.Width, "height", config.Height, "mode", config.Mode, "format", config.Format)
	return &Renderer{session: session, config: config, proj: proj}, nil
}

// NewRendererFromProvider creates a renderer on the device of a gogpu
// application. The provider must also implement HalDevice() any and
// HalQueue() any, or return hal types from Device() and Queue(). When
// config.Format is unset the provider's surface format is used.
func NewRendererFromProvider(provider gpucontext.DeviceProvider, config Config) (*Renderer, error) {
	if provider == nil {
		return nil, ErrNoHALDevice
	}
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	if config.Format == gputypes.TextureFormatUndefined {
		config.Format = provider.SurfaceFormat()
	}
	return NewRenderer(device, queue, config)
}

func halFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	var dev, q any
	if hp, ok := provider.(halProvider); ok {
		dev, q = hp.HalDevice(), hp.HalQueue()
	} else {
		dev, q = provider.Device(), provider.Queue()
	}
	device, ok := dev.(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: device is %T", ErrNoHALDevice, dev)
	}
	queue, ok := q.(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: queue is %T", ErrNoHALDevice, q)
	}
	return device, queue, nil
}

// Config returns the renderer configuration with defaults applied.
func (r *Renderer) Config() Config {
	return r.config
}

// Projection returns u_proj.
func (r *Renderer) Projection() fontstash.Mat4 {
	return r.proj
}

// Resolution returns the target size as the u_resolution uniform.
func (r *Renderer) Resolution() fontstash.Vec2 {
	return fontstash.V2(float64(r.config.Width), float64(r.config.Height))
}

// Render draws runs offscreen and returns the frame.
func (r *Renderer) Render(a *atlas.Atlas, tt *fontstash.TransformTexture, runs []*fontstash.Run, u fontstash.SDFUniforms) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	if err := r.RenderTo(dst, a, tt, runs, u); err != nil {
		return nil, err
	}
	return dst, nil
}

// RenderTo draws runs offscreen into dst, cleared to the configured
// background.
func (r *Renderer) RenderTo(dst *image.RGBA, a *atlas.Atlas, tt *fontstash.TransformTexture, runs []*fontstash.Run, u fontstash.SDFUniforms) error {
	return r.session.RenderOffscreen(dst, a, tt, runs, r.uniforms(tt, u), r.config.Mode, r.config.Background)
}

// Prepare uploads everything the next RecordDraws needs.
func (r *Renderer) Prepare(a *atlas.Atlas, tt *fontstash.TransformTexture, runs []*fontstash.Run, u fontstash.SDFUniforms) error {
	return r.session.Prepare(a, tt, runs, r.uniforms(tt, u))
}

// RecordDraws records the prepared frame into a render pass whose color
// attachment has the configured format.
func (r *Renderer) RecordDraws(rp hal.RenderPassEncoder) {
	r.session.RecordDraws(rp, r.config.Mode)
}

// Close releases the renderer's GPU resources. The device and queue are not
// destroyed. Safe to call multiple times.
func (r *Renderer) Close() {
	r.session.Destroy()
}

func (r *Renderer) uniforms(tt *fontstash.TransformTexture, u fontstash.SDFUniforms) gpuimpl.GlyphUniforms {
	return gpuimpl.GlyphUniforms{
		Proj:        r.proj,
		TResolution: tt.Size(),
		Resolution:  r.Resolution(),
		SDF:         u,
	}
}
