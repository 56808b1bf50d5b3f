package spritefield

// TileSprite is what a tile draws. The implementations are ShapeSprite and
// VectorSprite; callers switch on the concrete type.
type TileSprite interface {
	// SpriteID returns the sprite id the tile was resolved from.
	SpriteID() string
	isTileSprite()
}

// ShapeSprite draws a built-in procedural shape.
type ShapeSprite struct {
	Kind ShapeKind
}

// SpriteID implements TileSprite.
func (s ShapeSprite) SpriteID() string { return ShapeID(s.Kind) }

func (ShapeSprite) isTileSprite() {}

// VectorSprite draws a cached vector asset. Tiles whose asset is not cached
// yet are skipped by the renderer until the load finishes.
type VectorSprite struct {
	Path string
}

// SpriteID implements TileSprite.
func (s VectorSprite) SpriteID() string { return s.Path }

func (VectorSprite) isTileSprite() {}

// spriteFromID resolves a sprite id to its variant.
func spriteFromID(id string) TileSprite {
	kind, path, isShape := ParseSpriteID(id)
	if isShape {
		return ShapeSprite{Kind: kind}
	}
	return VectorSprite{Path: path}
}
