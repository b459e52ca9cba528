// Package atlas packs signed distance fields of glyphs into one
// single-channel texture.
//
// Each glyph is rasterized from a [font.Face] into a coverage mask with a
// margin of Spread pixels on every side. For every texel of that padded mask
// the distance to the nearest texel of the opposite coverage is found and
// mapped so that the glyph edge lands on EdgeValue (0.5), the inside is
// above it and the outside below, saturating Spread pixels away from the
// edge. The fields are placed with a shelf packer.
//
// The resulting [image.Alpha] is what the SDF fragment program reads through
// the alpha channel of its texture.
package atlas
