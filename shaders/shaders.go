package shaders

import (
	_ "embed"
)

// Embedded shader sources.

//go:embed glsl/glyph.vert
var vertexGLSL string

//go:embed glsl/sdf.frag
var sdfFragmentGLSL string

//go:embed glsl/default.frag
var defaultFragmentGLSL string

//go:embed wgsl/glyph.wgsl
var glyphWGSL string

// WGSL entry point names.
const (
	EntryVertex          = "vs_main"
	EntrySDFFragment     = "fs_sdf"
	EntryDefaultFragment = "fs_default"
)

// VertexGLSL returns the GLSL source of the glyph vertex shader.
func VertexGLSL() string {
	return vertexGLSL
}

// SDFFragmentGLSL returns the GLSL source of the signed distance field
// fragment shader.
func SDFFragmentGLSL() string {
	return sdfFragmentGLSL
}

// DefaultFragmentGLSL returns the GLSL source of the alpha mask fragment
// shader.
func DefaultFragmentGLSL() string {
	return defaultFragmentGLSL
}

// GlyphWGSL returns the WGSL module holding all three programs.
func GlyphWGSL() string {
	return glyphWGSL
}

// Stage identifies a shader stage.
type Stage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex Stage = iota
	// StageFragment is the fragment stage.
	StageFragment
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Storage is the GLSL storage qualifier of a program input or output.
type Storage uint8

const (
	// Attribute is a per-vertex input.
	Attribute Storage = iota
	// Uniform is a per-draw-call input.
	Uniform
	// Varying is interpolated from the vertex to the fragment stage.
	Varying
)

// String returns the GLSL keyword.
func (s Storage) String() string {
	switch s {
	case Attribute:
		return "attribute"
	case Uniform:
		return "uniform"
	case Varying:
		return "varying"
	default:
		return "unknown"
	}
}

// Variable describes one named interface variable of a program.
type Variable struct {
	Name    string
	Storage Storage
	// Type is the GLSL type, e.g. "vec2" or "sampler2D".
	Type string
}

// Program describes one shader program and its interface.
type Program struct {
	Name      string
	Stage     Stage
	Variables []Variable

	source func() string
	// entry is the matching WGSL entry point.
	entry string
}

// Source returns the program's GLSL source.
func (p Program) Source() string {
	return p.source()
}

// EntryPoint returns the WGSL entry point implementing the same program.
func (p Program) EntryPoint() string {
	return p.entry
}

// Lookup returns the variable with the given name.
func (p Program) Lookup(name string) (Variable, bool) {
	for _, v := range p.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Filter returns the variables with the given storage qualifier, in
// declaration order.
func (p Program) Filter(s Storage) []Variable {
	var out []Variable
	for _, v := range p.Variables {
		if v.Storage == s {
			out = append(out, v)
		}
	}
	return out
}

// Vertex is the glyph vertex program.
var Vertex = Program{
	Name:  "glyph.vert",
	Stage: StageVertex,
	Variables: []Variable{
		{Name: "a_fsid", Storage: Attribute, Type: "float"},
		{Name: "a_position", Storage: Attribute, Type: "vec2"},
		{Name: "a_texCoord", Storage: Attribute, Type: "vec2"},
		{Name: "u_transforms", Storage: Uniform, Type: "sampler2D"},
		{Name: "u_tresolution", Storage: Uniform, Type: "vec2"},
		{Name: "u_resolution", Storage: Uniform, Type: "vec2"},
		{Name: "u_proj", Storage: Uniform, Type: "mat4"},
		{Name: "v_uv", Storage: Varying, Type: "vec2"},
		{Name: "v_alpha", Storage: Varying, Type: "float"},
	},
	source: VertexGLSL,
	entry:  EntryVertex,
}

// SDFFragment is the signed distance field fragment program.
var SDFFragment = Program{
	Name:  "sdf.frag",
	Stage: StageFragment,
	Variables: []Variable{
		{Name: "u_tex", Storage: Uniform, Type: "sampler2D"},
		{Name: "u_color", Storage: Uniform, Type: "vec4"},
		{Name: "u_outlineColor", Storage: Uniform, Type: "vec4"},
		{Name: "u_sdfParams", Storage: Uniform, Type: "vec4"},
		{Name: "u_mixFactor", Storage: Uniform, Type: "float"},
		{Name: "v_uv", Storage: Varying, Type: "vec2"},
	},
	source: SDFFragmentGLSL,
	entry:  EntrySDFFragment,
}

// DefaultFragment is the alpha mask fragment program.
var DefaultFragment = Program{
	Name:  "default.frag",
	Stage: StageFragment,
	Variables: []Variable{
		{Name: "u_tex", Storage: Uniform, Type: "sampler2D"},
		{Name: "u_color", Storage: Uniform, Type: "vec3"},
		{Name: "v_uv", Storage: Varying, Type: "vec2"},
		{Name: "v_alpha", Storage: Varying, Type: "float"},
	},
	source: DefaultFragmentGLSL,
	entry:  EntryDefaultFragment,
}

// Programs returns all shipped programs.
func Programs() []Program {
	return []Program{Vertex, SDFFragment, DefaultFragment}
}
