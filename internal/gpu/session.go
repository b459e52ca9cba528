//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/atlas"
)

// ErrNilTarget is returned when RenderOffscreen is given no destination.
var ErrNilTarget = errors.New("gpu: target image is nil")

// copyPitchAlignment is the BytesPerRow alignment WebGPU (and DX12) require
// for texture to buffer copies.
const copyPitchAlignment = 256

// SessionConfig configures a Session.
type SessionConfig struct {
	// Format is the color format of the render target.
	// Default: RGBA8Unorm
	Format gputypes.TextureFormat

	// InitialQuads is the initial vertex buffer capacity in quads.
	// Default: 256
	InitialQuads int

	// MaxQuads is the maximum number of quads per frame.
	// Default: 65536
	MaxQuads int
}

// DefaultSessionConfig returns the default configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Format:       gputypes.TextureFormatRGBA8Unorm,
		InitialQuads: 256,
		MaxQuads:     65536,
	}
}

// Session owns a GlyphPipeline, the GPU textures and the per-frame buffers.
// It renders either into a caller-provided render pass (Prepare followed by
// RecordDraws) or into an offscreen texture that is read back into an
// *image.RGBA (RenderOffscreen).
//
// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	config SessionConfig

	pipeline *GlyphPipeline
	textures glyphTextures
	frame    glyphFrame
	target   offscreenTarget

	destroyed bool
}

// offscreenTarget is the color attachment used by RenderOffscreen.
type offscreenTarget struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
}

// NewSession creates a session and initializes its pipeline.
func NewSession(device hal.Device, queue hal.Queue, config SessionConfig) (*Session, error) {
	def := DefaultSessionConfig()
	if config.Format == gputypes.TextureFormatUndefined {
		config.Format = def.Format
	}
	if config.InitialQuads <= 0 {
		config.InitialQuads = def.InitialQuads
	}
	if config.MaxQuads <= 0 {
		config.MaxQuads = def.MaxQuads
	}

	p := NewGlyphPipeline(device, queue, config.Format)
	if err := p.Init(); err != nil {
		return nil, err
	}
	return &Session{
		device:   device,
		queue:    queue,
		config:   config,
		pipeline: p,
	}, nil
}

// Config returns the session configuration with defaults applied.
func (s *Session) Config() SessionConfig {
	return s.config
}

// Pipeline returns the session's glyph pipeline.
func (s *Session) Pipeline() *GlyphPipeline {
	return s.pipeline
}

// Prepare uploads the atlas, the dirty transform rows and the frame's
// geometry and uniforms.
func (s *Session) Prepare(a *atlas.Atlas, tt *fontstash.TransformTexture, runs []*fontstash.Run, u GlyphUniforms) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prepareLocked(a, tt, runs, u)
}

func (s *Session) prepareLocked(a *atlas.Atlas, tt *fontstash.TransformTexture, runs []*fontstash.Run, u GlyphUniforms) error {
	if s.destroyed {
		return ErrPipelineDestroyed
	}
	if quads := countQuads(runs); quads > s.config.MaxQuads {
		return fmt.Errorf("%w: %d quads exceeds max %d", ErrQuadOverflow, quads, s.config.MaxQuads)
	}
	if err := s.textures.syncAtlas(s.device, s.queue, a); err != nil {
		return err
	}
	if err := s.textures.syncTransforms(s.device, s.queue, tt); err != nil {
		return err
	}
	return s.frame.update(s.pipeline, &s.textures, runs, u, s.config.InitialQuads)
}

// RecordDraws records the prepared frame into rp.
func (s *Session) RecordDraws(rp hal.RenderPassEncoder, mode fontstash.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	s.pipeline.RecordDraws(rp, &s.frame, mode)
}

// RenderOffscreen prepares the frame, draws it into an offscreen texture the
// size of dst cleared to clear, and reads the pixels back into dst.
func (s *Session) RenderOffscreen(
	dst *image.RGBA,
	a *atlas.Atlas,
	tt *fontstash.TransformTexture,
	runs []*fontstash.Run,
	u GlyphUniforms,
	mode fontstash.Mode,
	clear fontstash.RGBA,
) error {
	if dst == nil {
		return ErrNilTarget
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.prepareLocked(a, tt, runs, u); err != nil {
		return err
	}
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	if err := s.ensureTarget(w, h); err != nil {
		return err
	}
	return s.encodeSubmitReadback(dst, mode, clear)
}

func (s *Session) ensureTarget(w, h int) error {
	if s.target.tex != nil && s.target.width == w && s.target.height == h {
		return nil
	}
	s.destroyTarget()
	tex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label: "glyph_target",
		Size: hal.Extent3D{
			Width:              uint32(w), //nolint:gosec // image bounds
			Height:             uint32(h), //nolint:gosec // image bounds
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        s.config.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	view, err := s.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "glyph_target_view",
		Format:        s.config.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		s.device.DestroyTexture(tex)
		return fmt.Errorf("create target view: %w", err)
	}
	s.target = offscreenTarget{tex: tex, view: view, width: w, height: h}
	slogger().Debug("gpu: offscreen target created", "width", w, "height", h)
	return nil
}

// encodeSubmitReadback encodes the render pass, copies the target texture to
// a staging buffer, submits, waits, and reads back pixels.
func (s *Session) encodeSubmitReadback(dst *image.RGBA, mode fontstash.Mode, clear fontstash.RGBA) error {
	w, h := uint32(s.target.width), uint32(s.target.height) //nolint:gosec // image bounds

	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "glyph_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("glyph_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "glyph_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       s.target.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: clear.R, G: clear.G, B: clear.B, A: clear.A},
		}},
	})
	s.pipeline.RecordDraws(rp, &s.frame, mode)
	rp.End()

	// The target is in attachment layout after the pass. The copy needs it
	// as a transfer source. No-op on Metal, GLES, software and noop.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.target.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "glyph_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer s.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(s.target.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: s.target.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.target.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	if _, err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := s.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}

	mapping, err := s.device.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), stagingSize)
	copyRows(dst, readback, int(alignedBytesPerRow), s.config.Format == gputypes.TextureFormatBGRA8Unorm)
	if err := s.device.UnmapBuffer(staging); err != nil {
		slogger().Warn("gpu: unmap staging buffer", "err", err)
	}
	return nil
}

// copyRows strips the per-row padding of an aligned readback into dst,
// swapping red and blue for BGRA targets.
func copyRows(dst *image.RGBA, src []byte, srcStride int, bgra bool) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		row := src[y*srcStride : y*srcStride+w*4]
		off := dst.PixOffset(b.Min.X, b.Min.Y+y)
		out := dst.Pix[off : off+w*4]
		copy(out, row)
		if bgra {
			for i := 0; i < len(out); i += 4 {
				out[i], out[i+2] = out[i+2], out[i]
			}
		}
	}
}

func (s *Session) destroyTarget() {
	if s.target.view != nil {
		s.device.DestroyTextureView(s.target.view)
	}
	if s.target.tex != nil {
		s.device.DestroyTexture(s.target.tex)
	}
	s.target = offscreenTarget{}
}

// Destroy releases every GPU resource owned by the session. The device and
// queue are not destroyed. Safe to call multiple times.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	s.destroyTarget()
	s.frame.destroy(s.device)
	s.textures.destroy(s.device)
	s.pipeline.Destroy()
	s.destroyed = true
}
