package game

import (
	"fmt"
	"image/color"
	"math/rand"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// borderWidth is the pixel gap between the window edge and the playfield.
const borderWidth = 24

// hudScale is the integer upscale factor applied to HUD and banner text.
const hudScale = 2

// Game hosts one Session inside an ebiten window: input goes down into the
// session as operations, events come back up and turn into feed lines and
// short-lived visual effects. All combat state lives in the session; the
// Game only keeps presentation state.
type Game struct {
	session *Session
	feed    *EventFeed

	width  int
	height int
	offX   int // pixel offset from window left to playfield left
	offY   int // pixel offset from window top to playfield top

	showHUD       bool
	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool // for edge-triggered click detection

	// Simulation speed control. The session's own pause states are separate;
	// this only decides how many session ticks run per frame.
	simSpeed  float64
	tickAccum float64

	// Offscreen buffer for the playfield, blitted at the border offset.
	worldBuf *ebiten.Image
	// Offscreen buffer for HUD text, rendered at 1x then blitted at hudScale.
	hudBuf *ebiten.Image

	aim Vec2 // world-space cursor position, clamped to the field

	// Short-lived presentation effects fed from session events.
	flashes      []flashFX
	arcs         []arcFX
	popups       []popupFX
	breachPulse  float64 // safety line flares after a breach
	specialFlash float64 // full-field wash after the special fires

	copyNote  string // clipboard confirmation line
	copyTimer float64

	// Deterministic background stars, generated once.
	stars []starSpeck
}

// flashFX is an expanding ring that fades out.
type flashFX struct {
	pos  Vec2
	r0   float64
	r1   float64
	ttl  float64
	life float64
	col  color.RGBA
}

// arcFX is a chain-lightning line that fades out.
type arcFX struct {
	from Vec2
	to   Vec2
	ttl  float64
}

// popupFX is a short text that rises and fades.
type popupFX struct {
	pos  Vec2
	text string
	ttl  float64
	col  color.RGBA
}

type starSpeck struct {
	x, y  float32
	size  float32
	shade uint8
}

func New() *Game {
	f := DefaultField()
	g := &Game{
		session:  NewSession(WithSeed(time.Now().UnixNano())),
		feed:     NewEventFeed(),
		width:    borderWidth + int(f.W) + borderWidth + feedPanelWidth,
		height:   borderWidth + int(f.H) + borderWidth,
		offX:     borderWidth,
		offY:     borderWidth,
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
		simSpeed: 1.0,
		aim:      Vec2{X: f.W / 2, Y: f.H * 0.3},
	}
	g.worldBuf = ebiten.NewImage(int(f.W), int(f.H))
	// HUD buffer: 1/hudScale of screen so text renders crisply when scaled up.
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.initStars()
	return g
}

// initStars scatters deterministic background specks over the field.
func (g *Game) initStars() {
	rng := rand.New(rand.NewSource(77031)) // #nosec G404 -- cosmetic only
	f := g.session.Field()
	count := 110
	g.stars = make([]starSpeck, 0, count)
	for i := 0; i < count; i++ {
		g.stars = append(g.stars, starSpeck{
			x:     float32(rng.Float64() * f.W),
			y:     float32(rng.Float64() * f.H),
			size:  1 + float32(rng.Intn(2)),
			shade: uint8(50 + rng.Intn(90)),
		})
	}
}

// Session exposes the underlying combat core, mostly for tests.
func (g *Game) Session() *Session { return g.session }

// WindowSize returns a window size that fits the logical layout on common
// monitors; ebiten scales the logical resolution to it.
func (g *Game) WindowSize() (int, int) {
	return g.width * 2 / 3, g.height * 2 / 3
}

func (g *Game) Update() error {
	g.handleInput()

	// Effects keep fading even while the session is paused.
	g.updateEffects(TickSeconds)

	// For speeds > 1 run multiple session ticks per frame.
	// For speeds < 1 accumulate fractions. The session handles its own
	// paused states internally, so Tick always runs.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.session.Tick()
	}

	g.consumeEvents()
	return nil
}

// handleInput maps keys and mouse onto session operations. Toggles are
// edge-triggered, steering is level-triggered.
func (g *Game) handleInput() {
	s := g.session
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// N: start a fresh run from any state.
	if pressed(ebiten.KeyN) {
		s.StartRun()
	}

	// P: manual pause.
	if pressed(ebiten.KeyP) {
		s.TogglePause()
	}

	// Space: special burst. The session refuses it until the meter is full.
	if pressed(ebiten.KeySpace) {
		s.FireSpecial()
	}

	// 1-3 pick a draft card, Esc declines. Safe no-ops when no draft is open.
	if pressed(ebiten.Key1) {
		s.Draft().Choose(0)
	}
	if pressed(ebiten.Key2) {
		s.Draft().Choose(1)
	}
	if pressed(ebiten.Key3) {
		s.Draft().Choose(2)
	}
	if pressed(ebiten.KeyEscape) {
		s.Draft().Skip()
	}

	// R: copy the formatted run report to the system clipboard.
	if pressed(ebiten.KeyR) {
		if err := clipboard.WriteAll(s.DebugReport(0)); err != nil {
			g.copyNote = "clipboard unavailable"
		} else {
			g.copyNote = "report copied to clipboard"
		}
		g.copyTimer = 2.5
	}

	// H: toggle the HUD panel.
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// Sim speed: ,=slower, .=faster.
	speeds := []float64{0.5, 1, 2, 4}
	if pressed(ebiten.KeyComma) {
		for i, sp := range speeds {
			if sp >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for i, sp := range speeds {
			if sp >= g.simSpeed && i < len(speeds)-1 {
				g.simSpeed = speeds[i+1]
				break
			}
		}
	}

	// Aftertouch: held keys, both or neither releases.
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	switch {
	case left && !right:
		s.SetAftertouch(-1)
	case right && !left:
		s.SetAftertouch(1)
	default:
		s.SetAftertouch(0)
	}

	// Mouse: track the aim point; left click launches or picks a card.
	mx, my := ebiten.CursorPosition()
	f := s.Field()
	wx := clamp(float64(mx-g.offX), 0, f.W)
	wy := clamp(float64(my-g.offY), 0, f.H)
	g.aim = Vec2{X: wx, Y: wy}

	mouseLeft := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if mouseLeft && !g.prevMouseLeft {
		if d := s.Draft(); d != nil {
			for i, r := range g.draftCardRects(len(d.Choices)) {
				if mx >= r.x && mx < r.x+r.w && my >= r.y && my < r.y+r.h {
					d.Choose(i)
					break
				}
			}
		} else {
			s.Launch(Vec2{X: wx, Y: wy})
		}
	}
	g.prevMouseLeft = mouseLeft

	g.prevKeys = currentKeys
}

// consumeEvents drains the session's event queue into the feed panel and
// the short-lived effect lists.
func (g *Game) consumeEvents() {
	s := g.session
	cp := s.Field().CannonPos()
	for _, ev := range s.DrainEvents() {
		g.feed.Observe(s.TickCount(), s.WaveNumber(), ev)
		switch e := ev.(type) {
		case LaunchEvent:
			g.addFlash(e.Pos, 6, 22, 0.22, color.RGBA{R: 255, G: 198, B: 84, A: 255})
		case KillEvent:
			col := color.RGBA{R: 120, G: 235, B: 215, A: 255} // standard kill, teal
			r1 := 26.0
			if e.Elite {
				col = color.RGBA{R: 255, G: 208, B: 96, A: 255}
				r1 = 34
			}
			if e.Boss {
				col = color.RGBA{R: 240, G: 110, B: 255, A: 255}
				r1 = 46
			}
			g.addFlash(e.Pos, 4, r1, 0.3, col)
			g.addPopup(e.Pos, fmt.Sprintf("+%d", e.Score), col)
		case BreachEvent:
			g.breachPulse = 1.2
		case ShieldHitEvent:
			g.addFlash(e.Pos, 10, 16, 0.14, color.RGBA{R: 90, G: 200, B: 255, A: 255})
		case ShieldBreakEvent:
			g.addFlash(e.Pos, 12, 30, 0.3, color.RGBA{R: 140, G: 225, B: 255, A: 255})
		case ChainArcEvent:
			g.arcs = append(g.arcs, arcFX{from: e.From, to: e.To, ttl: 0.22})
		case ExplosionEvent:
			g.addFlash(e.Pos, 8, e.Radius, 0.35, color.RGBA{R: 255, G: 140, B: 60, A: 255})
		case SporeCloudEvent:
			g.addFlash(e.Pos, 12, e.Radius, 0.4, color.RGBA{R: 150, G: 220, B: 110, A: 255})
		case AuraPulseEvent:
			g.addFlash(e.Pos, 10, e.Radius, 0.3, color.RGBA{R: 235, G: 215, B: 140, A: 255})
		case SpecialFiredEvent:
			g.specialFlash = 0.5
		case SpecialReadyEvent:
			g.addPopup(cp.Add(Vec2{Y: -30}), "SPECIAL READY", color.RGBA{R: 255, G: 216, B: 96, A: 255})
		case OrbLostEvent:
			g.addFlash(e.Pos, 4, 10, 0.18, color.RGBA{R: 130, G: 130, B: 140, A: 255})
		case ToastEvent:
			g.addPopup(e.Pos.Add(Vec2{Y: -40}), e.Text, color.RGBA{R: 255, G: 228, B: 150, A: 255})
		}
	}
}

func (g *Game) addFlash(pos Vec2, r0, r1, ttl float64, col color.RGBA) {
	g.flashes = append(g.flashes, flashFX{pos: pos, r0: r0, r1: r1, ttl: ttl, life: ttl, col: col})
}

func (g *Game) addPopup(pos Vec2, s string, col color.RGBA) {
	g.popups = append(g.popups, popupFX{pos: pos, text: s, ttl: 1.2, col: col})
}

func (g *Game) updateEffects(dt float64) {
	flashes := g.flashes[:0]
	for _, fx := range g.flashes {
		fx.ttl -= dt
		if fx.ttl > 0 {
			flashes = append(flashes, fx)
		}
	}
	g.flashes = flashes

	arcs := g.arcs[:0]
	for _, a := range g.arcs {
		a.ttl -= dt
		if a.ttl > 0 {
			arcs = append(arcs, a)
		}
	}
	g.arcs = arcs

	popups := g.popups[:0]
	for _, p := range g.popups {
		p.ttl -= dt
		p.pos.Y -= 24 * dt
		if p.ttl > 0 {
			popups = append(popups, p)
		}
	}
	g.popups = popups

	if g.breachPulse > 0 {
		g.breachPulse -= dt
	}
	if g.specialFlash > 0 {
		g.specialFlash -= dt
	}
	if g.copyTimer > 0 {
		g.copyTimer -= dt
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Window background outside the playfield.
	screen.Fill(color.RGBA{R: 9, G: 10, B: 15, A: 255})

	g.worldBuf.Clear()
	g.drawWorld(g.worldBuf)

	var blit ebiten.DrawImageOptions
	blit.GeoM.Translate(float64(g.offX), float64(g.offY))
	screen.DrawImage(g.worldBuf, &blit)

	// Playfield border frame.
	f := g.session.Field()
	ox := float32(g.offX)
	oy := float32(g.offY)
	fw := float32(f.W)
	fh := float32(f.H)
	vector.StrokeRect(screen, ox-1, oy-1, fw+2, fh+2, 2.0, color.RGBA{R: 70, G: 78, B: 110, A: 255}, false)
	vector.StrokeRect(screen, ox-3, oy-3, fw+6, fh+6, 1.0, color.RGBA{R: 45, G: 50, B: 75, A: 100}, false)

	// Combat feed panel on the right.
	g.feed.Draw(screen, g.offX+int(f.W)+g.offX, g.height)

	if g.showHUD {
		g.drawHUD(screen)
	}

	// Speed indicator, only when off the default.
	if g.simSpeed != 1.0 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("speed: %.1fx", g.simSpeed), g.offX+6, g.offY+6)
	}
	if g.copyTimer > 0 {
		ebitenutil.DebugPrintAt(screen, g.copyNote, g.offX+6, g.offY+22)
	}

	g.drawDraftOverlay(screen)
}

func (g *Game) drawWorld(dst *ebiten.Image) {
	s := g.session
	f := s.Field()
	fw := float32(f.W)
	fh := float32(f.H)

	// Field background, deep blue-black.
	vector.FillRect(dst, 0, 0, fw, fh, color.RGBA{R: 13, G: 15, B: 24, A: 255}, false)

	for _, sp := range g.stars {
		c := color.RGBA{R: sp.shade, G: sp.shade, B: sp.shade + 30, A: 255}
		vector.FillRect(dst, sp.x, sp.y, sp.size, sp.size, c, false)
	}

	// Lane guides: faint verticals at lane boundaries, ticks at lane centers.
	laneW := f.W / float64(laneCount)
	for i := 1; i < laneCount; i++ {
		x := float32(float64(i) * laneW)
		vector.StrokeLine(dst, x, 0, x, fh, 1.0, color.RGBA{R: 30, G: 34, B: 52, A: 255}, false)
	}
	for lane := 1; lane <= laneCount; lane++ {
		x := float32(f.LaneX(lane))
		vector.StrokeLine(dst, x, 0, x, 14, 2.0, color.RGBA{R: 55, G: 62, B: 95, A: 255}, false)
	}

	// Safety line and the zone below it.
	sy := float32(f.SafetyY())
	vector.FillRect(dst, 0, sy, fw, fh-sy, color.RGBA{R: 60, G: 18, B: 24, A: 70}, false)
	lineCol := color.RGBA{R: 225, G: 60, B: 70, A: 255}
	lineW := float32(2.0)
	if g.breachPulse > 0 {
		// Flare after a breach, decaying back to the resting line.
		p := float32(clamp01(g.breachPulse / 1.2))
		lineW = 2 + 5*p
		lineCol = color.RGBA{R: 255, G: uint8(60 + 120*p), B: uint8(70 + 100*p), A: 255}
	}
	vector.StrokeLine(dst, 0, sy, fw, sy, lineW, lineCol, false)

	// Chain arcs under the actors.
	for _, a := range g.arcs {
		alpha := uint8(255 * clamp01(a.ttl/0.22))
		c := color.RGBA{R: 170, G: 220, B: 255, A: alpha}
		vector.StrokeLine(dst, float32(a.from.X), float32(a.from.Y), float32(a.to.X), float32(a.to.Y), 2.0, c, false)
	}

	g.drawEnemies(dst)
	g.drawOrbs(dst)

	// Expanding flash rings.
	for _, fx := range g.flashes {
		t := 1 - clamp01(fx.ttl/fx.life)
		r := float32(fx.r0 + (fx.r1-fx.r0)*t)
		c := fx.col
		c.A = uint8(220 * clamp01(fx.ttl/fx.life))
		vector.StrokeCircle(dst, float32(fx.pos.X), float32(fx.pos.Y), r, 2.0, c, false)
	}

	// Rising text popups.
	for _, p := range g.popups {
		c := p.col
		if p.ttl < 0.4 {
			c.A = uint8(255 * clamp01(p.ttl/0.4))
		}
		w := text.BoundString(basicfont.Face7x13, p.text).Dx()
		text.Draw(dst, p.text, basicfont.Face7x13, int(p.pos.X)-w/2, int(p.pos.Y), c)
	}

	g.drawCannon(dst)

	// Special burst wash over everything.
	if g.specialFlash > 0 {
		a := uint8(90 * clamp01(g.specialFlash/0.5))
		vector.FillRect(dst, 0, 0, fw, fh, color.RGBA{R: 255, G: 250, B: 230, A: a}, false)
	}
}

func (g *Game) drawEnemies(dst *ebiten.Image) {
	for _, e := range g.session.Enemies() {
		if !e.Alive {
			continue
		}
		prof := e.Kind.Profile()
		col := prof.Color
		x := float32(e.Pos.X)
		y := float32(e.Pos.Y)
		r := float32(e.Radius)

		// Icy halo while chilled.
		if dur, _ := e.SlowRemaining(); dur > 0 {
			vector.FillCircle(dst, x, y, r+3, color.RGBA{R: 90, G: 140, B: 230, A: 70}, false)
		}

		vector.FillCircle(dst, x, y, r, col, false)
		core := color.RGBA{R: col.R / 2, G: col.G / 2, B: col.B / 2, A: 255}
		vector.FillCircle(dst, x, y, r*0.45, core, false)

		if e.Shield > 0 {
			frac := 1.0
			if prof.BaseShield > 0 {
				frac = clamp01(e.Shield / prof.BaseShield)
			}
			sc := color.RGBA{R: 80, G: 200, B: 255, A: uint8(90 + 130*frac)}
			vector.StrokeCircle(dst, x, y, r+3, 2.0, sc, false)
		}
		if e.Elite {
			vector.StrokeCircle(dst, x, y, r+6, 1.5, color.RGBA{R: 255, G: 208, B: 96, A: 220}, false)
		}
		if e.Boss {
			vector.StrokeCircle(dst, x, y, r+8, 2.5, color.RGBA{R: 240, G: 110, B: 255, A: 220}, false)
			vector.StrokeCircle(dst, x, y, r+13, 1.0, color.RGBA{R: 240, G: 110, B: 255, A: 90}, false)
		}

		// Hp bar once damaged.
		if e.Hp < e.MaxHp {
			w := r * 2
			frac := float32(clamp01(e.Hp / e.MaxHp))
			vector.FillRect(dst, x-r, y-r-8, w, 3, color.RGBA{R: 28, G: 30, B: 42, A: 220}, false)
			vector.FillRect(dst, x-r, y-r-8, w*frac, 3, color.RGBA{R: 120, G: 230, B: 120, A: 230}, false)
		}
	}
}

func (g *Game) drawOrbs(dst *ebiten.Image) {
	for _, o := range g.session.Orbs() {
		if !o.Alive {
			continue
		}
		col := color.RGBA{R: 255, G: 198, B: 84, A: 255} // launch amber
		if o.Tint == TintSplit {
			col = color.RGBA{R: 255, G: 150, B: 190, A: 255} // split child pink
		}
		x := float32(o.Pos.X)
		y := float32(o.Pos.Y)
		r := float32(o.Radius)

		// Short velocity trail.
		tx := float32(o.Pos.X - o.Vel.X*0.035)
		ty := float32(o.Pos.Y - o.Vel.Y*0.035)
		trail := color.RGBA{R: col.R, G: col.G, B: col.B, A: 70}
		vector.StrokeLine(dst, tx, ty, x, y, r*0.9, trail, false)

		vector.FillCircle(dst, x, y, r, col, false)
		vector.FillCircle(dst, x-r*0.25, y-r*0.25, r*0.35, color.RGBA{R: 255, G: 240, B: 210, A: 200}, false)
	}
}

// drawCannon renders the launcher, its aim barrel, and the meter cluster in
// the strip below the safety line.
func (g *Game) drawCannon(dst *ebiten.Image) {
	s := g.session
	f := s.Field()
	h := s.HUDSnapshot()
	cp := f.CannonPos()
	cx := float32(cp.X)
	cy := float32(cp.Y)

	dir := g.aim.Sub(cp)
	if dir.LenSq() < 1 {
		dir = Vec2{Y: -1}
	}
	dir = dir.Normalized()
	bx := cx + float32(dir.X*26)
	by := cy + float32(dir.Y*26)
	vector.StrokeLine(dst, cx, cy, bx, by, 6.0, color.RGBA{R: 205, G: 210, B: 225, A: 255}, false)
	vector.FillCircle(dst, cx, cy, 15, color.RGBA{R: 82, G: 90, B: 120, A: 255}, false)
	vector.FillCircle(dst, cx, cy, 10, color.RGBA{R: 135, G: 145, B: 175, A: 255}, false)

	// Charge pips left of the cannon; the next pip fills as its charge banks.
	for i := 0; i < launchChargesMax; i++ {
		px := cx - 58 + float32(i)*16
		py := cy + 2
		if i < h.Charges {
			vector.FillCircle(dst, px, py, 5, color.RGBA{R: 255, G: 198, B: 84, A: 255}, false)
		} else {
			vector.StrokeCircle(dst, px, py, 5, 1.0, color.RGBA{R: 120, G: 110, B: 80, A: 200}, false)
			if i == h.Charges && h.ChargeFill > 0 {
				vector.FillCircle(dst, px, py, 5*float32(h.ChargeFill), color.RGBA{R: 160, G: 130, B: 70, A: 220}, false)
			}
		}
	}

	// Focus and special meters right of the cannon.
	barX := cx + 26
	barW := float32(96)
	focusFrac := float32(clamp01(h.Focus / h.FocusMax))
	vector.FillRect(dst, barX, cy+4, barW, 5, color.RGBA{R: 25, G: 32, B: 48, A: 230}, false)
	vector.FillRect(dst, barX, cy+4, barW*focusFrac, 5, color.RGBA{R: 95, G: 205, B: 235, A: 255}, false)

	spFrac := float32(clamp01(h.Special / h.SpecialMax))
	vector.FillRect(dst, barX, cy-6, barW, 7, color.RGBA{R: 40, G: 34, B: 18, A: 230}, false)
	vector.FillRect(dst, barX, cy-6, barW*spFrac, 7, color.RGBA{R: 255, G: 205, B: 70, A: 255}, false)
	if h.Special >= h.SpecialMax && s.TickCount()%40 < 20 {
		vector.StrokeRect(dst, barX-1, cy-7, barW+2, 9, 1.0, color.RGBA{R: 255, G: 240, B: 170, A: 255}, false)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	h := g.session.HUDSnapshot()

	speedStr := "1x"
	switch g.simSpeed {
	case 0.5:
		speedStr = "0.5x"
	case 2:
		speedStr = "2x"
	case 4:
		speedStr = "4x"
	}

	pips := strings.Repeat("*", h.Charges) + strings.Repeat(".", launchChargesMax-h.Charges)
	lines := []string{
		fmt.Sprintf("SIM: %s [%s]  P=pause  ,/. speed", speedStr, h.State),
		fmt.Sprintf("score %d  heat x%d (tier %d)  best x%d", h.Score, h.ComboHeat, h.ComboTier, h.BestCombo),
		fmt.Sprintf("wave %02d stage %d  lives %d/%d  foes %d+%d", h.Wave, h.Stage, h.Lives, h.MaxLives, h.Enemies, h.Incoming),
		fmt.Sprintf("charges %s  focus %3.0f  special %3.0f%%", pips, h.Focus, h.Special),
	}
	if h.WaveID != "" {
		lines = append(lines, fmt.Sprintf("pattern %s / %s", h.WaveID, h.Mutation))
	}
	if h.LastPick != "" {
		lines = append(lines, fmt.Sprintf("last pick: %s", h.LastPick))
	}
	lines = append(lines,
		"[click] launch  [A/D] steer  [space] special",
		"[1-3] pick  [esc] skip  [N] new run",
		"[R] copy report  [H] hide hud",
	)

	// Render into hudBuf at 1x, then scale up.
	const lineH = 12 // debug font line height at 1x
	const charW = 6  // debug font char width at 1x
	const padX = 5
	const padY = 4

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)

	bufH := float32(g.height / hudScale)
	bx := float32(4)
	by := bufH - boxH - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 8, G: 9, B: 16, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 70, G: 78, B: 110, A: 180}, false)
	vector.StrokeLine(g.hudBuf, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 100, G: 110, B: 150, A: 80}, false)

	for i, line := range lines {
		tx := int(bx) + padX
		ty := int(by) + padY + i*lineH
		ebitenutil.DebugPrintAt(g.hudBuf, line, tx, ty)
	}

	g.drawBanner(g.hudBuf)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

// drawBanner puts state text over the field center. Rendered into hudBuf so
// it comes out at hudScale.
func (g *Game) drawBanner(dst *ebiten.Image) {
	h := g.session.HUDSnapshot()
	var lines []string
	switch h.State {
	case RunIdle:
		lines = []string{
			"O R B F A L L",
			"",
			"press N to launch a run",
		}
	case RunPausedManual:
		lines = []string{"PAUSED"}
	case RunOver:
		lines = []string{
			"RUN OVER",
			fmt.Sprintf("wave %d  score %d  best combo x%d", h.Wave, h.Score, h.BestCombo),
			"press N to try again",
		}
	default:
		return
	}

	f := g.session.Field()
	centerX := (g.offX + int(f.W)/2) / hudScale
	topY := (g.offY + int(f.H)/3) / hudScale
	lineH := 18

	boxW := 0
	for _, l := range lines {
		if w := text.BoundString(basicfont.Face7x13, l).Dx(); w > boxW {
			boxW = w
		}
	}
	boxW += 36
	boxH := len(lines)*lineH + 24
	bx := float32(centerX - boxW/2)
	by := float32(topY - 20)
	vector.FillRect(dst, bx, by, float32(boxW), float32(boxH), color.RGBA{R: 8, G: 9, B: 16, A: 225}, false)
	vector.StrokeRect(dst, bx, by, float32(boxW), float32(boxH), 1.0, color.RGBA{R: 70, G: 78, B: 110, A: 220}, false)

	for i, l := range lines {
		if l == "" {
			continue
		}
		w := text.BoundString(basicfont.Face7x13, l).Dx()
		text.Draw(dst, l, basicfont.Face7x13, centerX-w/2, topY+i*lineH, color.RGBA{R: 225, G: 230, B: 245, A: 255})
	}
}

// cardRect is a screen-space hit box for one draft card.
type cardRect struct {
	x, y, w, h int
}

const (
	draftCardW   = 200
	draftCardH   = 132
	draftCardGap = 20
)

// draftCardRects lays the offered cards out across the field center; the
// same geometry serves drawing and click hit-testing.
func (g *Game) draftCardRects(n int) []cardRect {
	f := g.session.Field()
	totalW := n*draftCardW + (n-1)*draftCardGap
	x0 := g.offX + (int(f.W)-totalW)/2
	y0 := g.offY + int(f.H)/2 - 160
	rects := make([]cardRect, n)
	for i := range rects {
		rects[i] = cardRect{x: x0 + i*(draftCardW+draftCardGap), y: y0, w: draftCardW, h: draftCardH}
	}
	return rects
}

func rarityColor(r Rarity) color.RGBA {
	switch r {
	case RarityRare:
		return color.RGBA{R: 255, G: 200, B: 80, A: 255}
	case RarityUncommon:
		return color.RGBA{R: 90, G: 180, B: 255, A: 255}
	default:
		return color.RGBA{R: 150, G: 155, B: 170, A: 255}
	}
}

func (g *Game) drawDraftOverlay(screen *ebiten.Image) {
	d := g.session.Draft()
	if d == nil {
		return
	}
	f := g.session.Field()
	ox := float32(g.offX)
	oy := float32(g.offY)

	// Dim the field behind the offer.
	vector.FillRect(screen, ox, oy, float32(f.W), float32(f.H), color.RGBA{A: 150}, false)

	title := "CHOOSE AN UPGRADE"
	if d.Kind == DraftMajors {
		title = "CHOOSE A POWER"
	}
	rects := g.draftCardRects(len(d.Choices))
	centerX := g.offX + int(f.W)/2
	titleW := text.BoundString(basicfont.Face7x13, title).Dx()
	text.Draw(screen, title, basicfont.Face7x13, centerX-titleW/2, rects[0].y-36, color.RGBA{R: 235, G: 238, B: 250, A: 255})
	serial := fmt.Sprintf("draft %d", d.Serial)
	serialW := text.BoundString(basicfont.Face7x13, serial).Dx()
	text.Draw(screen, serial, basicfont.Face7x13, centerX-serialW/2, rects[0].y-18, color.RGBA{R: 130, G: 136, B: 160, A: 255})

	for i, c := range d.Choices {
		r := rects[i]
		rx := float32(r.x)
		ry := float32(r.y)
		vector.FillRect(screen, rx, ry, float32(r.w), float32(r.h), color.RGBA{R: 22, G: 24, B: 36, A: 245}, false)
		vector.StrokeRect(screen, rx, ry, float32(r.w), float32(r.h), 2.0, rarityColor(c.Rarity), false)

		hotkey := fmt.Sprintf("[%d]", i+1)
		text.Draw(screen, hotkey, basicfont.Face7x13, r.x+8, r.y+20, color.RGBA{R: 130, G: 136, B: 160, A: 255})
		tag := c.Rarity.String()
		tagW := text.BoundString(basicfont.Face7x13, tag).Dx()
		text.Draw(screen, tag, basicfont.Face7x13, r.x+r.w-8-tagW, r.y+20, rarityColor(c.Rarity))

		nameW := text.BoundString(basicfont.Face7x13, c.Name).Dx()
		text.Draw(screen, c.Name, basicfont.Face7x13, r.x+(r.w-nameW)/2, r.y+48, color.RGBA{R: 235, G: 238, B: 250, A: 255})

		for j, dl := range wrapText(c.Desc, 26) {
			dlW := text.BoundString(basicfont.Face7x13, dl).Dx()
			text.Draw(screen, dl, basicfont.Face7x13, r.x+(r.w-dlW)/2, r.y+74+j*15, color.RGBA{R: 170, G: 175, B: 195, A: 255})
		}
	}

	footer := "click or 1-3 to pick, esc to skip"
	footerW := text.BoundString(basicfont.Face7x13, footer).Dx()
	text.Draw(screen, footer, basicfont.Face7x13, centerX-footerW/2, rects[0].y+draftCardH+28, color.RGBA{R: 130, G: 136, B: 160, A: 255})
}

// wrapText breaks s into lines of at most width characters on word
// boundaries. Single words longer than width get a line of their own.
func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	var lines []string
	cur := ""
	for _, w := range words {
		switch {
		case cur == "":
			cur = w
		case len(cur)+1+len(w) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
