//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/shaders"
)

// Pipeline errors.
var (
	// ErrNilPipeline is returned when operating on a nil pipeline.
	ErrNilPipeline = errors.New("gpu: glyph pipeline is nil")

	// ErrPipelineNotInitialized is returned when drawing before Init.
	ErrPipelineNotInitialized = errors.New("gpu: glyph pipeline not initialized")

	// ErrPipelineDestroyed is returned when using a destroyed pipeline.
	ErrPipelineDestroyed = errors.New("gpu: glyph pipeline destroyed")

	// ErrQuadOverflow is returned when a frame holds more quads than the
	// configured maximum.
	ErrQuadOverflow = errors.New("gpu: quad buffer overflow")
)

// GlyphPipeline manages the GPU objects shared by every frame: the shader
// module, bind group layout, pipeline layout, one render pipeline per
// fragment program and the two samplers.
//
// GlyphPipeline is safe for concurrent use.
type GlyphPipeline struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader          hal.ShaderModule
	bindLayout      hal.BindGroupLayout
	pipeLayout      hal.PipelineLayout
	sdfPipeline     hal.RenderPipeline
	defaultPipeline hal.RenderPipeline

	transformSampler hal.Sampler
	atlasSampler     hal.Sampler

	initialized bool
	destroyed   bool
}

// NewGlyphPipeline creates a pipeline that renders into targets of the given
// color format. GPU objects are not created until Init is called.
func NewGlyphPipeline(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) *GlyphPipeline {
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	return &GlyphPipeline{
		device: device,
		queue:  queue,
		format: format,
	}
}

// Format returns the color target format.
func (p *GlyphPipeline) Format() gputypes.TextureFormat {
	return p.format
}

// Init compiles the shader and creates both render pipelines. Calling Init
// on an initialized pipeline is a no-op.
func (p *GlyphPipeline) Init() error {
	if p == nil {
		return ErrNilPipeline
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.destroyed {
		return ErrPipelineDestroyed
	}
	if p.initialized {
		return nil
	}
	if err := p.createPipeline(); err != nil {
		p.destroyPipeline()
		return fmt.Errorf("init glyph pipeline: %w", err)
	}
	p.initialized = true
	slogger().Info("gpu: glyph pipeline created", "format", p.format)
	return nil
}

// IsInitialized reports whether Init succeeded.
func (p *GlyphPipeline) IsInitialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Destroy releases all GPU objects held by the pipeline. Safe to call
// multiple times.
func (p *GlyphPipeline) Destroy() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destroyPipeline()
	p.initialized = false
	p.destroyed = true
}

func (p *GlyphPipeline) createPipeline() error {
	src := shaders.GlyphWGSL()
	if src == "" {
		return shaders.ErrEmptySource
	}

	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "glyph_shader",
		Source: hal.ShaderSource{WGSL: src},
	})
	if err != nil {
		return fmt.Errorf("compile glyph shader: %w", err)
	}
	p.shader = shader

	bindLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "glyph_bind_layout",
		Entries: glyphBindLayoutEntries(),
	})
	if err != nil {
		return fmt.Errorf("create glyph bind group layout: %w", err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "glyph_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create glyph pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	tdesc := transformSamplerDescriptor()
	if err := fontstash.ValidateTransformFilter(tdesc.MinFilter, tdesc.MagFilter); err != nil {
		return err
	}
	transformSampler, err := p.device.CreateSampler(tdesc)
	if err != nil {
		return fmt.Errorf("create transform sampler: %w", err)
	}
	p.transformSampler = transformSampler

	atlasSampler, err := p.device.CreateSampler(atlasSamplerDescriptor())
	if err != nil {
		return fmt.Errorf("create atlas sampler: %w", err)
	}
	p.atlasSampler = atlasSampler

	p.sdfPipeline, err = p.createRenderPipeline("glyph_sdf_pipeline", shaders.EntrySDFFragment)
	if err != nil {
		return err
	}
	p.defaultPipeline, err = p.createRenderPipeline("glyph_default_pipeline", shaders.EntryDefaultFragment)
	if err != nil {
		return err
	}
	return nil
}

func (p *GlyphPipeline) createRenderPipeline(label, fragmentEntry string) (hal.RenderPipeline, error) {
	blend := gputypes.BlendStateAlpha()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: shaders.EntryVertex,
			Buffers:    glyphVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: fragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return pipeline, nil
}

// RecordDraws records the draw commands of one frame into an existing render
// pass. A nil or empty frame records nothing.
func (p *GlyphPipeline) RecordDraws(rp hal.RenderPassEncoder, frame *glyphFrame, mode fontstash.Mode) {
	if frame == nil || frame.indexCount == 0 {
		return
	}
	pipeline := p.sdfPipeline
	if mode == fontstash.ModeDefault {
		pipeline = p.defaultPipeline
	}
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, frame.bindGroup, nil)
	rp.SetVertexBuffer(0, frame.vertBuf, 0)
	rp.SetIndexBuffer(frame.idxBuf, gputypes.IndexFormatUint32, 0)
	rp.DrawIndexed(frame.indexCount, 1, 0, 0, 0)
}

// createBindGroup binds a uniform buffer and both textures with the
// pipeline's samplers.
func (p *GlyphPipeline) createBindGroup(uniformBuf hal.Buffer, textures *glyphTextures) (hal.BindGroup, error) {
	bg, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "glyph_bind_group",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: glyphUniformSize}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: textures.transformView.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: p.transformSampler.NativeHandle()}},
			{Binding: 3, Resource: gputypes.TextureViewBinding{TextureView: textures.atlasView.NativeHandle()}},
			{Binding: 4, Resource: gputypes.SamplerBinding{Sampler: p.atlasSampler.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create glyph bind group: %w", err)
	}
	return bg, nil
}

// destroyPipeline releases all pipeline resources in reverse creation order.
func (p *GlyphPipeline) destroyPipeline() {
	if p.device == nil {
		return
	}
	if p.defaultPipeline != nil {
		p.device.DestroyRenderPipeline(p.defaultPipeline)
		p.defaultPipeline = nil
	}
	if p.sdfPipeline != nil {
		p.device.DestroyRenderPipeline(p.sdfPipeline)
		p.sdfPipeline = nil
	}
	if p.atlasSampler != nil {
		p.device.DestroySampler(p.atlasSampler)
		p.atlasSampler = nil
	}
	if p.transformSampler != nil {
		p.device.DestroySampler(p.transformSampler)
		p.transformSampler = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// glyphBindLayoutEntries matches the @group(0) declarations in glyph.wgsl.
// The transform texture is read with textureSampleLevel in the vertex stage
// through a non-filtering sampler.
func glyphBindLayoutEntries() []gputypes.BindGroupLayoutEntry {
	return []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
		{
			Binding:    1,
			Visibility: gputypes.ShaderStageVertex,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeUnfilterableFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    2,
			Visibility: gputypes.ShaderStageVertex,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeNonFiltering},
		},
		{
			Binding:    3,
			Visibility: gputypes.ShaderStageFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		},
		{
			Binding:    4,
			Visibility: gputypes.ShaderStageFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		},
	}
}

// transformSamplerDescriptor point-samples the transform texture. Linear
// filtering would blend the coarse and correction texels of neighboring ids.
func transformSamplerDescriptor() *hal.SamplerDescriptor {
	return &hal.SamplerDescriptor{
		Label:        "glyph_transform_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	}
}

func atlasSamplerDescriptor() *hal.SamplerDescriptor {
	return &hal.SamplerDescriptor{
		Label:        "glyph_atlas_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	}
}

// glyphVertexLayout returns the vertex buffer layout for the glyph pipeline.
// Matches VertexInput in glyph.wgsl:
//
//	location 0: fsid      (f32)
//	location 1: position  (vec2<f32>)
//	location 2: tex_coord (vec2<f32>)
func glyphVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: glyphVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 4, ShaderLocation: 1},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 2},
			},
		},
	}
}
