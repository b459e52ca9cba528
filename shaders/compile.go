package shaders

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/ir"
)

// ErrEmptySource is returned when an embedded shader source is empty.
var ErrEmptySource = errors.New("shaders: shader source is empty")

// lower parses and lowers the WGSL module to naga IR.
func lower() (*ir.Module, error) {
	if glyphWGSL == "" {
		return nil, ErrEmptySource
	}
	ast, err := naga.Parse(glyphWGSL)
	if err != nil {
		return nil, fmt.Errorf("parse glyph.wgsl: %w", err)
	}
	module, err := naga.LowerWithSource(ast, glyphWGSL)
	if err != nil {
		return nil, fmt.Errorf("lower glyph.wgsl: %w", err)
	}
	return module, nil
}

// Validate parses, lowers and validates the WGSL module.
func Validate() error {
	module, err := lower()
	if err != nil {
		return err
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("validate glyph.wgsl: %w", err)
	}
	if len(verrs) > 0 {
		return fmt.Errorf("validate glyph.wgsl: %w", &verrs[0])
	}
	return nil
}

// CompileSPIRV compiles the WGSL module to SPIR-V words.
func CompileSPIRV() ([]uint32, error) {
	if glyphWGSL == "" {
		return nil, ErrEmptySource
	}
	spirvBytes, err := naga.Compile(glyphWGSL)
	if err != nil {
		return nil, fmt.Errorf("compile glyph.wgsl: %w", err)
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// TranslateGLSL generates GLSL for one WGSL entry point. Texture and sampler
// pairs are merged into combined sampler2D uniforms by the backend.
func TranslateGLSL(entryPoint string, version glsl.Version) (string, error) {
	module, err := lower()
	if err != nil {
		return "", err
	}
	opts := glsl.DefaultOptions()
	opts.LangVersion = version
	opts.EntryPoint = entryPoint
	src, _, err := glsl.Compile(module, opts)
	if err != nil {
		return "", fmt.Errorf("translate %s to GLSL %s: %w", entryPoint, version, err)
	}
	return src, nil
}
