package spritefield

import (
	"time"
)

// Config configures a Controller.
type Config struct {
	// State is the initial state. The zero value uses DefaultState.
	State *GeneratorState
	// Assets loads vector sprites. Nil disables vector tiles.
	Assets *AssetCache
	// Settings supplies persistent preferences. Optional.
	Settings Settings

	// Width and Height are the initial surface size, used for the first
	// composition when the aspect ratio is free.
	Width, Height int

	// FadeDuration and SmoothDuration override the transition defaults.
	FadeDuration   time.Duration
	SmoothDuration time.Duration

	// RandomizeTransition is used by RandomizeAll and friends.
	RandomizeTransition TransitionKind

	// Debug logs per-frame stats at debug level.
	Debug bool
}

// Controller owns the live state, the composed scene and the active
// transition, and renders frames. It is not safe for concurrent use: call
// it from the frame loop only.
type Controller struct {
	cfg      Config
	assets   *AssetCache
	settings Settings

	state GeneratorState // committed target state
	view  GeneratorState // state rendered this frame

	scene      *PreparedScene
	fadeFrom   *PreparedScene // outgoing scene during the first half of a fade
	transition Transition

	now          time.Duration
	motionTime   float64 // seconds, scaled by motion speed
	rotationTime float64
	clocks       animationClocks
	paused       bool

	width, height int
	composeAspect float64

	requested    map[string]bool
	requestedGen uint64 // asset cache generation requested belongs to
	randomRng    *Stream

	observers    map[int]func(GeneratorState)
	nextObserver int

	destroyed bool
	done      chan struct{}

	// per-frame buffers, reused
	commands    []DrawCommand
	cycled      []Color
	tints       []Color
	tintPalette []Color
	tintHue     float64
	tintScene   *PreparedScene

	debug bool
}

// NewController builds a controller and composes its first scene.
func NewController(cfg Config) *Controller {
	st := DefaultState()
	if cfg.State != nil {
		st = cfg.State.Clone()
	}
	st = applySettings(cfg.Settings, st).Normalized()

	c := &Controller{
		cfg:       cfg,
		assets:    cfg.Assets,
		settings:  cfg.Settings,
		state:     st,
		view:      st,
		clocks:    newAnimationClocks(),
		requested: make(map[string]bool),
		randomRng: DeriveStream(st.Seed, StreamRandomize),
		observers: make(map[int]func(GeneratorState)),
		done:      make(chan struct{}),
		debug:     cfg.Debug,
	}
	c.width, c.height = cfg.Width, cfg.Height
	c.composeAspect = surfaceAspect(cfg.Width, cfg.Height)
	c.recompose()
	return c
}

func surfaceAspect(w, h int) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return float64(w) / float64(h)
}

// State returns the rendered state: the interpolated snapshot during a
// transition, otherwise the committed state.
func (c *Controller) State() GeneratorState {
	return c.view.Clone()
}

// TargetState returns the committed state, ignoring any transition.
func (c *Controller) TargetState() GeneratorState {
	return c.state.Clone()
}

// Scene returns the current composition. Callers must not modify it.
func (c *Controller) Scene() *PreparedScene {
	return c.scene
}

// Transitioning reports whether a transition is in progress.
func (c *Controller) Transitioning() bool {
	return c.transition.Active
}

// Done is closed by Destroy.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// recompose replaces the scene with a fresh composition of the view state
// and starts loads for any vector assets it references.
func (c *Controller) recompose() {
	c.scene = Compose(c.view, ComposeOptions{CanvasAspect: c.composeAspect})
	for _, p := range c.scene.VectorPaths() {
		c.requestAsset(p)
	}
	Logger().Debug("recomposed", "seed", c.scene.Seed, "layers", len(c.scene.Layers),
		"tiles", c.scene.TileCount())
}

// requestAsset starts a load for path once. The frame loop never waits on it.
// Requests are remembered per cache generation, so a Clear starts fresh
// loads on the next frame.
func (c *Controller) requestAsset(path string) {
	if c.assets == nil {
		return
	}
	if gen := c.assets.Generation(); gen != c.requestedGen {
		clear(c.requested)
		c.requestedGen = gen
	}
	if c.requested[path] {
		return
	}
	c.requested[path] = true
	c.assets.GetOrLoad(path)
}

// vectorAsset returns the cached asset for path, starting its load if
// needed.
func (c *Controller) vectorAsset(path string) (*VectorAsset, bool) {
	if c.assets == nil {
		return nil, false
	}
	if a, ok := c.assets.Get(path); ok {
		return a, true
	}
	c.requestAsset(path)
	return nil, false
}

// ApplyState moves to s using the given transition. Instant swaps and
// recomposes immediately; Fade composes the target once and crossfades;
// Smooth recomposes from the interpolated state every frame.
func (c *Controller) ApplyState(s GeneratorState, kind TransitionKind) {
	if c.destroyed {
		return
	}
	s = s.Normalized()
	from := c.view
	c.endTransition(false)
	c.state = s

	switch kind {
	case TransitionFade, TransitionSmooth:
		c.transition = Transition{
			Active:   true,
			From:     from,
			To:       s,
			Start:    c.now,
			Duration: c.transitionDuration(kind),
			Kind:     kind,
		}
		if kind == TransitionFade {
			c.fadeFrom = c.scene
			c.view = c.transition.State(0)
			c.scene = Compose(s, ComposeOptions{CanvasAspect: c.composeAspect})
			for _, p := range c.scene.VectorPaths() {
				c.requestAsset(p)
			}
		}
		Logger().Info("transition started", "kind", kind, "duration", c.transition.Duration)
	default:
		c.view = s
		c.recompose()
	}
	c.notify()
}

func (c *Controller) transitionDuration(kind TransitionKind) time.Duration {
	switch kind {
	case TransitionFade:
		if c.cfg.FadeDuration > 0 {
			return c.cfg.FadeDuration
		}
	case TransitionSmooth:
		if c.cfg.SmoothDuration > 0 {
			return c.cfg.SmoothDuration
		}
	}
	return kind.DefaultDuration()
}

// endTransition pins the view to the target. With finalize set the scene is
// brought up to date with the target state.
func (c *Controller) endTransition(finalize bool) {
	if !c.transition.Active {
		return
	}
	kind := c.transition.Kind
	prev := c.view
	c.transition = Transition{}
	c.fadeFrom = nil
	c.view = c.state
	if finalize && kind == TransitionSmooth && NeedsRecompose(prev, c.state) {
		c.recompose()
	}
}

// Update advances the transition and animation clocks by dt. It does
// nothing while paused.
func (c *Controller) Update(dt time.Duration) {
	if c.destroyed || c.paused || dt <= 0 {
		return
	}
	c.now += dt

	if c.transition.Active {
		p := c.transition.Progress(c.now)
		if p >= 1 {
			c.endTransition(true)
			Logger().Debug("transition finished")
		} else {
			prev := c.view
			c.view = c.transition.State(p)
			switch c.transition.Kind {
			case TransitionSmooth:
				if NeedsRecompose(prev, c.view) {
					c.recompose()
				}
			case TransitionFade:
				if p >= 0.5 {
					c.fadeFrom = nil
				}
			}
		}
		c.notify()
	}

	secs := dt.Seconds()
	c.clocks.advance(dt, &c.view)
	c.motionTime += secs * c.view.MotionSpeed / 100
	c.rotationTime += secs
}

// frameAlpha is the whole-frame alpha: the fade curve during a fade, else 1.
func (c *Controller) frameAlpha() float64 {
	if c.transition.Active && c.transition.Kind == TransitionFade {
		return FadeAlpha(c.transition.Progress(c.now))
	}
	return 1
}

// Draw renders one frame to surface and presents it.
func (c *Controller) Draw(surface Surface) error {
	if c.destroyed {
		return nil
	}
	w, h := surface.Size()
	if w != c.width || h != c.height {
		c.Resize(w, h)
	}
	var stats frameStats
	start := time.Now()

	s := &c.view
	area := canvasRect(s, w, h)

	bg := ResolveBackground(*s, c.activeScene().Palette)
	if s.BackgroundHueRotation {
		deg := c.clocks.canvasHue.degrees()
		bg.Color = ShiftHue(bg.Color, deg)
		bg.To = ShiftHue(bg.To, deg)
	}
	if settingBool(c.settings, SettingBlackBackground) {
		bg = Background{Color: ColorBlack}
	}

	c.commands = c.commands[:0]
	c.emitScene(c.activeScene(), s, area, c.frameAlpha(), &stats)
	stats.blurred = applyDepthOfField(c.commands, s, min(area.Width, area.Height))
	stats.commandCount = len(c.commands)
	stats.emitTime = time.Since(start)

	submitStart := time.Now()
	surface.Clear()
	surface.Save()
	surface.FillRect(Rect{Width: float64(w), Height: float64(h)}, SolidPaint(ColorBlack))
	surface.FillRect(area, BackgroundPaint(bg, area))
	surface.Restore()
	submitCommands(surface, c.commands)
	err := surface.Present()
	stats.submitTime = time.Since(submitStart)

	c.debugLog(stats)
	return err
}

// activeScene is the scene drawn this frame.
func (c *Controller) activeScene() *PreparedScene {
	if c.fadeFrom != nil {
		return c.fadeFrom
	}
	return c.scene
}

// Resize records the surface size. Only layout changes; tiles keep their
// composed positions until the next recomposition.
func (c *Controller) Resize(w, h int) {
	c.width, c.height = w, h
	if c.state.AspectRatio == AspectFree {
		c.composeAspect = surfaceAspect(w, h)
	}
}

// Pause freezes all animation clocks and transitions.
func (c *Controller) Pause() { c.paused = true }

// Resume restarts animation after Pause.
func (c *Controller) Resume() { c.paused = false }

// Paused reports whether animation is paused.
func (c *Controller) Paused() bool { return c.paused }

// Subscribe registers fn to receive the state after every mutation and
// every transition frame. The returned function unsubscribes.
func (c *Controller) Subscribe(fn func(GeneratorState)) (unsubscribe func()) {
	if c.destroyed || fn == nil {
		return func() {}
	}
	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = fn
	return func() { delete(c.observers, id) }
}

func (c *Controller) notify() {
	if len(c.observers) == 0 {
		return
	}
	snap := c.view.Clone()
	for i := 0; i < c.nextObserver; i++ {
		if fn, ok := c.observers[i]; ok {
			fn(snap)
		}
	}
}

// Destroy stops the controller, drops observers and closes Done. It is safe
// to call more than once.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.transition = Transition{}
	c.fadeFrom = nil
	c.observers = nil
	c.commands = nil
	c.tints = nil
	close(c.done)
	Logger().Debug("controller destroyed")
}
