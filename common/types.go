// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Vec2 is a 2-component float32 vector. Used for texture tiling factors,
// dither thresholds, and other plain 2D values.
type Vec2 struct {
	X float32 `toml:"x"`
	Y float32 `toml:"y"`
}

// Vec4 is a 4-component float32 vector. The in-memory layout is four
// contiguous float32 values, so a Vec4 can be passed to StructToBytes for
// GPU upload without conversion.
type Vec4 struct {
	X float32 `toml:"x"`
	Y float32 `toml:"y"`
	Z float32 `toml:"z"`
	W float32 `toml:"w"`
}

// Color is an RGBA color with float32 channels. Channel values are not
// clamped to [0, 1]; HDR values are valid. The in-memory layout is four
// contiguous float32 values, so a Color can be passed to StructToBytes for
// GPU upload without conversion.
type Color struct {
	R float32 `toml:"r"`
	G float32 `toml:"g"`
	B float32 `toml:"b"`
	A float32 `toml:"a"`
}

// NewColor constructs a Color from individual channel values.
//
// Parameters:
//   - r, g, b, a: channel values (unclamped)
//
// Returns:
//   - Color: the assembled color
func NewColor(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Vec4 returns the color reinterpreted as a plain 4-component vector.
//
// Returns:
//   - Vec4: {R, G, B, A} as {X, Y, Z, W}
func (c Color) Vec4() Vec4 {
	return Vec4{X: c.R, Y: c.G, Z: c.B, W: c.A}
}

// TextureStagingData holds RGBA pixel data for a texture pending GPU upload.
// Pixels is tightly packed, 4 bytes per pixel, row-major order. When the
// staging data carries a mip chain, Pixels contains every level back to back
// from largest to smallest and Levels reports the level count; Width and
// Height describe level 0.
type TextureStagingData struct {
	// Pixels is the raw RGBA pixel data, 4 bytes per pixel.
	Pixels []byte
	// Width is the width of mip level 0 in pixels.
	Width uint32
	// Height is the height of mip level 0 in pixels.
	Height uint32
	// Levels is the number of mip levels contained in Pixels. Zero and one
	// both mean a single level.
	Levels uint32
}
