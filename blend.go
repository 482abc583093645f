package thicket

import "github.com/hajimehoshi/ebiten/v2"

// BlendMode selects how EbitenRenderer composites batches onto its target.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over
	BlendAdd                       // additive
	BlendMultiply                  // only darkens
	BlendScreen                    // only brightens
	BlendErase                     // destination-out
	BlendMask                      // clip destination to source alpha
	BlendBelow                     // destination-over
	BlendNone                      // opaque copy
)

func (b BlendMode) String() string {
	switch b {
	case BlendNormal:
		return "normal"
	case BlendAdd:
		return "add"
	case BlendMultiply:
		return "multiply"
	case BlendScreen:
		return "screen"
	case BlendErase:
		return "erase"
	case BlendMask:
		return "mask"
	case BlendBelow:
		return "below"
	case BlendNone:
		return "none"
	default:
		return "unknown"
	}
}

// EbitenBlend returns the ebiten.Blend for b. Factors assume premultiplied
// source colors.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return customBlend(ebiten.BlendFactorDestinationColor, ebiten.BlendFactorDestinationAlpha,
			ebiten.BlendFactorOneMinusSourceAlpha, ebiten.BlendFactorOneMinusSourceAlpha)
	case BlendScreen:
		return customBlend(ebiten.BlendFactorOne, ebiten.BlendFactorOne,
			ebiten.BlendFactorOneMinusSourceColor, ebiten.BlendFactorOneMinusSourceAlpha)
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendMask:
		return customBlend(ebiten.BlendFactorZero, ebiten.BlendFactorZero,
			ebiten.BlendFactorSourceAlpha, ebiten.BlendFactorSourceAlpha)
	case BlendBelow:
		return ebiten.BlendDestinationOver
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

func customBlend(srcRGB, srcA, dstRGB, dstA ebiten.BlendFactor) ebiten.Blend {
	return ebiten.Blend{
		BlendFactorSourceRGB:        srcRGB,
		BlendFactorSourceAlpha:      srcA,
		BlendFactorDestinationRGB:   dstRGB,
		BlendFactorDestinationAlpha: dstA,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}
