package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUStandardParamsSource is the canonical WGSL definition of the
// StandardParams uniform block. Matches GPUStandardParams layout exactly
// (80 bytes, std430 aligned). Shaders rendered with a StandardMaterial
// should declare the block with this source so the field order stays in
// sync with the upload layout.
//
//go:embed assets/standard_params.wgsl
var GPUStandardParamsSource string

// GPUStandardParams is the GPU-aligned parameter block of the standard
// shading model. Matches the WGSL StandardParams struct layout exactly (see
// GPUStandardParamsSource). Size: 80 bytes (five vec4<f32>, std430 aligned).
type GPUStandardParams struct {
	BaseColor       [4]float32 // offset 0: RGBA albedo color (16 bytes)
	SubsurfaceColor [4]float32 // offset 16: RGB subsurface color + opacity (16 bytes)
	EmissiveColor   [4]float32 // offset 32: RGB emissive color + HDR scale (16 bytes)
	SurfaceData     [4]float32 // offset 48: roughness, metalness, bumpiness, alpha test (16 bytes)
	Tiling          [4]float32 // offset 64: tiling.xy, dither threshold.xy (16 bytes)
}

// NewGPUStandardParams packs a StandardParams value into its GPU block
// layout.
//
// Parameters:
//   - p: the parameter set to pack
//
// Returns:
//   - GPUStandardParams: the packed block
func NewGPUStandardParams(p StandardParams) GPUStandardParams {
	return GPUStandardParams{
		BaseColor:       [4]float32{p.BaseColor.R, p.BaseColor.G, p.BaseColor.B, p.BaseColor.A},
		SubsurfaceColor: [4]float32{p.SubsurfaceColor.R, p.SubsurfaceColor.G, p.SubsurfaceColor.B, p.SubsurfaceColor.A},
		EmissiveColor:   [4]float32{p.EmissiveColor.R, p.EmissiveColor.G, p.EmissiveColor.B, p.EmissiveColor.A},
		SurfaceData:     [4]float32{p.Roughness, p.Metalness, p.Bumpiness, p.AlphaTestValue},
		Tiling:          [4]float32{p.Tiling.X, p.Tiling.Y, p.DitherThreshold.X, p.DitherThreshold.Y},
	}
}

// Size returns the size of the GPUStandardParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUStandardParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUStandardParams struct into a byte buffer
// suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUStandardParams) Marshal() []byte {
	buf := make([]byte, 80)
	fields := [][4]float32{g.BaseColor, g.SubsurfaceColor, g.EmissiveColor, g.SurfaceData, g.Tiling}
	for i, f := range fields {
		base := i * 16
		binary.LittleEndian.PutUint32(buf[base:base+4], math.Float32bits(f[0]))
		binary.LittleEndian.PutUint32(buf[base+4:base+8], math.Float32bits(f[1]))
		binary.LittleEndian.PutUint32(buf[base+8:base+12], math.Float32bits(f[2]))
		binary.LittleEndian.PutUint32(buf[base+12:base+16], math.Float32bits(f[3]))
	}
	return buf
}
