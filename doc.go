// Package spritefield composes and animates deterministic fields of tiled
// sprites from a small set of generator parameters.
//
// A [GeneratorState] describes a scene: seed, palette, density, scale,
// motion, blending, background and outline settings. [Compose] turns a state
// into a [PreparedScene] of layers and tiles. The same state always yields
// the same scene, down to every tile's position, tint and rotation.
//
// # Quick start
//
// The simplest way to see a field is ebitensurface.Run, which opens a
// window and drives a [Controller] from the game loop:
//
//	st := spritefield.DefaultState()
//	st.Seed = "aurora-42"
//	ctrl := spritefield.NewController(spritefield.Config{State: &st})
//	ebitensurface.Run(ctrl, ebitensurface.RunConfig{
//		Title: "spritefield", Width: 1280, Height: 720, Keys: true,
//	})
//
// For headless output, draw onto a ggsurface.Surface and save it:
//
//	surf := ggsurface.New(1920, 1080)
//	_ = ctrl.Draw(surf)
//	_ = surf.SavePNG("frame.png")
//
// # Controller
//
// The [Controller] owns the live state, the composed scene and any active
// transition. Setters clamp their input and recompose only when the field
// affects composition; motion, blending and opacity apply on the next
// frame. [Controller.ApplyState] moves to a whole new state with an
// instant cut, a fade through the background, or a smooth interpolation.
//
//	ctrl.SetDensity(80)
//	ctrl.ApplyState(next, spritefield.TransitionSmooth)
//	ctrl.Update(dt)
//	_ = ctrl.Draw(surface)
//
// # Sprites
//
// Tiles draw either a built-in shape ("shape:star", "shape:hexagon", ...)
// or a vector asset loaded through an [AssetCache]. Assets are normalized on
// load: metadata, hidden elements and frame rectangles are stripped and the
// view box is fitted to the visible content.
//
// # Surfaces
//
// Rendering goes through the [Surface] interface. The ebitensurface
// package draws with [Ebitengine]; ggsurface rasterizes on the CPU with
// [gg]. State files and sequences are YAML; preferences persist through the
// settings package.
//
// [Ebitengine]: https://ebitengine.org
// [gg]: https://github.com/gogpu/gg
package spritefield
