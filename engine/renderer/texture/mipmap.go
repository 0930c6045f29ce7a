package texture

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// buildMipChain downsamples the base image level by level to 1x1 and returns
// the concatenated per-level RGBA data together with the level count. Level
// dimensions halve each step with a floor of 1, matching the device's mip
// layout for the same base size.
//
// Parameters:
//   - base: the full-resolution, tightly-packed RGBA image
//
// Returns:
//   - []byte: all level pixel data, level 0 first
//   - uint32: the number of levels in the chain
func buildMipChain(base *image.RGBA) ([]byte, uint32) {
	width := base.Rect.Dx()
	height := base.Rect.Dy()

	total := 0
	for w, h := width, height; ; w, h = max(w/2, 1), max(h/2, 1) {
		total += w * h * 4
		if w == 1 && h == 1 {
			break
		}
	}

	data := make([]byte, 0, total)
	data = append(data, base.Pix...)

	levels := uint32(1)
	src := base
	for w, h := width, height; w > 1 || h > 1; {
		w, h = max(w/2, 1), max(h/2, 1)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
		data = append(data, dst.Pix...)
		src = dst
		levels++
	}
	return data, levels
}
