package fontstash

// Sampler returns the texel value at a normalized coordinate, channels
// scaled to [0, 1] as a shader texture read returns them.
type Sampler interface {
	Sample(uv Vec2) Vec4
}

// VertexInput holds the per-vertex attributes of the glyph vertex program:
// a_fsid, a_position and a_texCoord.
type VertexInput struct {
	// FSID is the transform id. The attribute is a float; the program
	// truncates it to an int.
	FSID float64

	// Position is the corner in the run's local frame.
	Position Vec2

	// TexCoord is the atlas coordinate, passed through unchanged.
	TexCoord Vec2
}

// VertexUniforms holds the per-draw inputs of the glyph vertex program.
type VertexUniforms struct {
	Transforms  Sampler // u_transforms
	TResolution Vec2    // u_tresolution, transform texture size in texels
	Resolution  Vec2    // u_resolution, render target size in pixels
	Proj        Mat4    // u_proj
}

// VertexOutput is what the vertex program emits: gl_Position, v_uv and
// v_alpha.
type VertexOutput struct {
	Position Vec4
	UV       Vec2
	Alpha    float64
}

// EvalVertex runs the glyph vertex program for one vertex.
func EvalVertex(in VertexInput, u VertexUniforms) VertexOutput {
	uv1, uv2 := transformUVs(int(in.FSID), u.TResolution.X, u.TResolution.Y)

	var coarse, correction Vec4
	if u.Transforms != nil {
		coarse = u.Transforms.Sample(uv1)
		correction = u.Transforms.Sample(uv2)
	}

	t := DecodeTransform(coarse, correction, u.Resolution)
	p := t.Apply(in.Position)

	return VertexOutput{
		Position: u.Proj.Transform(Point(p)),
		UV:       in.TexCoord,
		Alpha:    t.Alpha,
	}
}
