package ebitensurface

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/spritefield"
)

// ebitenBlend returns the ebiten.Blend for a tile blend mode. Overlay and
// Difference have no fixed-function equivalent and draw as source-over.
func ebitenBlend(b spritefield.BlendMode) ebiten.Blend {
	switch b {
	case spritefield.BlendAdd:
		return ebiten.BlendLighter
	case spritefield.BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case spritefield.BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case spritefield.BlendDarken:
		return minMaxBlend(ebiten.BlendOperationMin)
	case spritefield.BlendLighten:
		return minMaxBlend(ebiten.BlendOperationMax)
	default:
		return ebiten.BlendSourceOver
	}
}

// minMaxBlend compares color channels per pixel and composites alpha
// source-over.
func minMaxBlend(op ebiten.BlendOperation) ebiten.Blend {
	return ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorOne,
		BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
		BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
		BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
		BlendOperationRGB:           op,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}
