//go:build !nogpu

// Package gpu draws glyph runs with a wgpu/hal render pipeline.
//
// This is an internal package used by github.com/gogpu/fontstash/gpu. It runs
// the WGSL port of the glyph shaders on any backend the hal layer supports
// (Vulkan, Metal, DX12, GLES, software and noop).
//
// # Architecture
//
//	GlyphPipeline  owns shader, bind group layout, pipeline layout,
//	               the fs_sdf and fs_default pipelines and both samplers
//	glyphTextures  mirrors the transform texture and the SDF atlas on the GPU
//	glyphFrame     per-frame vertex, index and uniform buffers plus bind group
//	Session        offscreen target, render pass, readback
//
// The transform texture is bound with a nearest, non-filtering sampler. The
// atlas is bound with a linear sampler so the distance field interpolates
// between texels.
//
// # Bindings
//
//	@binding(0) GlyphUniforms    uniform, vertex + fragment
//	@binding(1) transforms       texture_2d<f32>, vertex
//	@binding(2) transforms_sampler  nearest
//	@binding(3) atlas            texture_2d<f32>, fragment
//	@binding(4) atlas_sampler    linear
//
// Build with the nogpu tag to exclude the package.
package gpu
