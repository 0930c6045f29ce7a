package gfx

// State is the packed 64-bit render-state word consumed by Device.SetState.
// It encodes the fixed-function pipeline settings for one draw: color/depth
// write masks, depth comparison, face culling, blending and multisampling.
// Identical words always describe identical pipeline state; the word is a
// pure value with no device-side bookkeeping attached.
type State uint64

const (
	// StateNone selects no write masks, no depth test, no culling, no blend.
	StateNone State = 0

	// StateWriteRGB enables writes to the color channels of the target.
	StateWriteRGB State = 1 << 0

	// StateWriteA enables writes to the alpha channel of the target.
	StateWriteA State = 1 << 1

	// StateWriteZ enables depth writes.
	StateWriteZ State = 1 << 2

	// StateDepthTestLess enables depth testing with a less-than comparison.
	StateDepthTestLess State = 1 << 3

	// StateDepthTestLEqual enables depth testing with a less-or-equal
	// comparison. Takes precedence over StateDepthTestLess when both are set.
	StateDepthTestLEqual State = 1 << 4

	// StateCullCW culls triangles wound clockwise.
	StateCullCW State = 1 << 5

	// StateCullCCW culls triangles wound counter-clockwise.
	StateCullCCW State = 1 << 6

	// StateMSAA requests multisampled rasterization when the bound target
	// supports it. Targets with a fixed sample count ignore the bit.
	StateMSAA State = 1 << 7

	// StateBlendAlpha enables standard source-alpha blending
	// (src.rgb*src.a + dst.rgb*(1-src.a)).
	StateBlendAlpha State = 1 << 8

	// StateBlendAdd enables additive blending (src + dst). Takes precedence
	// over StateBlendAlpha when both are set.
	StateBlendAdd State = 1 << 9
)

// StateDefault is the state word for opaque geometry: full color and depth
// writes, less-than depth testing, counter-clockwise culling, MSAA.
const StateDefault = StateWriteRGB | StateWriteA | StateWriteZ | StateDepthTestLess | StateCullCCW | StateMSAA

// stateCullMask covers both culling bits.
const stateCullMask = StateCullCW | StateCullCCW

// DepthCompare is the depth comparison a state word resolves to.
type DepthCompare uint8

const (
	// DepthCompareAlways disables depth rejection.
	DepthCompareAlways DepthCompare = iota
	// DepthCompareLess passes fragments strictly closer than the stored depth.
	DepthCompareLess
	// DepthCompareLEqual passes fragments closer than or equal to the stored depth.
	DepthCompareLEqual
)

// BlendMode is the blend configuration a state word resolves to.
type BlendMode uint8

const (
	// BlendOff disables blending; source fragments replace the target.
	BlendOff BlendMode = iota
	// BlendAlpha is standard source-alpha blending.
	BlendAlpha
	// BlendAdd is additive blending.
	BlendAdd
)

// CullFace is the face-culling configuration a state word resolves to.
type CullFace uint8

const (
	// CullFaceNone disables face culling.
	CullFaceNone CullFace = iota
	// CullFaceCW culls clockwise-wound triangles.
	CullFaceCW
	// CullFaceCCW culls counter-clockwise-wound triangles.
	CullFaceCCW
)

// DepthWriteEnabled reports whether the word enables depth writes.
func (s State) DepthWriteEnabled() bool { return s&StateWriteZ != 0 }

// DepthCompare resolves the word's depth-test bits to a comparison function.
// No depth-test bit set means DepthCompareAlways.
func (s State) DepthCompare() DepthCompare {
	switch {
	case s&StateDepthTestLEqual != 0:
		return DepthCompareLEqual
	case s&StateDepthTestLess != 0:
		return DepthCompareLess
	default:
		return DepthCompareAlways
	}
}

// CullFace resolves the word's culling bits. StateCullCW takes precedence
// when both bits are set.
func (s State) CullFace() CullFace {
	switch {
	case s&StateCullCW != 0:
		return CullFaceCW
	case s&StateCullCCW != 0:
		return CullFaceCCW
	default:
		return CullFaceNone
	}
}

// BlendMode resolves the word's blend bits.
func (s State) BlendMode() BlendMode {
	switch {
	case s&StateBlendAdd != 0:
		return BlendAdd
	case s&StateBlendAlpha != 0:
		return BlendAlpha
	default:
		return BlendOff
	}
}

// WriteRGB reports whether color-channel writes are enabled.
func (s State) WriteRGB() bool { return s&StateWriteRGB != 0 }

// WriteAlpha reports whether alpha-channel writes are enabled.
func (s State) WriteAlpha() bool { return s&StateWriteA != 0 }

// MSAAEnabled reports whether the word requests multisampling.
func (s State) MSAAEnabled() bool { return s&StateMSAA != 0 }
