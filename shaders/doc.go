// Package shaders embeds the glyph shader programs.
//
// Three GLSL programs are shipped in the GLSL ES 1.00 dialect that
// WebGL 1 and OpenGL ES 2 accept:
//
//   - glyph.vert decodes a per-glyph transform from a texture and projects
//     the glyph quad.
//   - sdf.frag blends an outline color and a fill color from a signed
//     distance field sample.
//   - default.frag tints a plain alpha mask.
//
// The same programs are also provided as one WGSL module (entry points
// vs_main, fs_sdf and fs_default) for WebGPU pipelines. The WGSL module can
// be validated, compiled to SPIR-V, or translated to modern GLSL with naga:
//
//	words, err := shaders.CompileSPIRV()
//	src, err := shaders.TranslateGLSL("vs_main", glsl.Version330)
//
// The Program tables list every attribute, uniform and varying a host must
// bind, keyed by the names the GLSL sources use.
package shaders
