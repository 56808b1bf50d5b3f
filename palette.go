package spritefield

import "sort"

// DefaultPaletteID is used when a state names a palette that does not exist.
const DefaultPaletteID = "aurora"

var builtinPalettes = map[string][]string{
	"aurora":     {"#2de1c2", "#5a7df2", "#a45cf0", "#f25fa2", "#ffd166"},
	"ember":      {"#ff4e00", "#ec9f05", "#f5e663", "#d7263d", "#5c0029"},
	"lagoon":     {"#03045e", "#0077b6", "#00b4d8", "#90e0ef", "#caf0f8"},
	"orchard":    {"#386641", "#6a994e", "#a7c957", "#f2e8cf", "#bc4749"},
	"neon":       {"#ff00a0", "#00f0ff", "#fffb00", "#7cff00", "#b400ff"},
	"dusk":       {"#355070", "#6d597a", "#b56576", "#e56b6f", "#eaac8b"},
	"monochrome": {"#f8f9fa", "#ced4da", "#868e96", "#495057", "#212529"},
	"candy":      {"#ffadad", "#ffd6a5", "#fdffb6", "#caffbf", "#9bf6ff", "#bdb2ff"},
}

var paletteCache = func() map[string][]Color {
	m := make(map[string][]Color, len(builtinPalettes))
	for id, hexes := range builtinPalettes {
		colors := make([]Color, 0, len(hexes))
		for _, h := range hexes {
			c, err := ParseHexColor(h)
			if err != nil {
				panic("spritefield: bad builtin palette " + id + ": " + err.Error())
			}
			colors = append(colors, c)
		}
		m[id] = colors
	}
	return m
}()

// Palette returns a copy of the built-in palette with the given id.
func Palette(id string) ([]Color, bool) {
	p, ok := paletteCache[id]
	if !ok {
		return nil, false
	}
	return append([]Color(nil), p...), true
}

// ResolvePalette returns the palette for id, falling back to the default
// palette for unknown ids.
func ResolvePalette(id string) []Color {
	if p, ok := Palette(id); ok {
		return p
	}
	p, _ := Palette(DefaultPaletteID)
	return p
}

// PaletteIDs returns the built-in palette ids in sorted order.
func PaletteIDs() []string {
	ids := make([]string, 0, len(builtinPalettes))
	for id := range builtinPalettes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
