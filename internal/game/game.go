package game

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/al1103/war2/internal/narrative"
)

const (
	// globeRadiusRatio sizes the sphere inside its square viewport.
	globeRadiusRatio = 0.83

	// Side column panel heights; the terminal takes whatever remains.
	statusPanelH   = 150
	radarPanelH    = 180
	activityPanelH = 140

	// statusPollInterval is the tick period of the SITREP line (~5s).
	statusPollInterval = 300

	// impactScatterDeg spreads impact bursts around the target centroid.
	impactScatterDeg = 1.2
)

// worldResult carries the outcome of an async geometry fetch.
type worldResult struct {
	world *WorldMap
	err   error
}

type Game struct {
	width  int
	height int

	// World geometry. world stays nil until loaded; a failed remote fetch
	// sets worldErr and the globe is never initialised (no retry).
	world    *WorldMap
	worldErr error
	worldCh  chan worldResult

	rot       *Rotation
	sel       Selection
	markers   *MarkerPool
	particles *ParticleSystem
	conflict  *Conflict
	activity  *ActivityChart

	// paths is rebuilt from the selection every frame, paused or not, so the
	// drawn routes always match the current designations.
	paths []ConflictPath

	// lastSummary survives conflict teardown so a dispatch can still be
	// filed about the engagement that just ended.
	lastSummary *ConflictSummary

	mode     Role // designation applied by the next globe click
	terminal *Terminal

	gen        *narrative.Generator
	reportCh   chan narrative.Report
	reportBusy bool
	lastReport *narrative.Report

	// Emblem images are derived from territory names and cached.
	emblems map[string]*ebiten.Image

	showHUD       bool
	prevKeys      map[ebiten.Key]bool
	prevMouseLeft bool

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64 // fractional tick accumulator for sub-1x speeds

	tick       int
	lastUpdate time.Time
	rng        *rand.Rand
}

// New builds the interactive game. Geometry selection follows the config: an
// empty URL loads the embedded dataset synchronously, anything else is
// fetched once in the background.
func New(cfg Config) *Game {
	g := &Game{
		width:     cfg.Window.Width,
		height:    cfg.Window.Height,
		rot:       NewRotation(cfg.spinParams()),
		particles: NewParticleSystem(),
		mode:      RoleAggressor,
		terminal:  NewTerminal(),
		reportCh:  make(chan narrative.Report, 1),
		emblems:   make(map[string]*ebiten.Image),
		showHUD:   true,
		prevKeys:  make(map[ebiten.Key]bool),
		simSpeed:  1.0,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- game only
	}
	g.markers = NewMarkerPool(g.rng)
	g.activity = NewActivityChart(time.Now().UnixNano())
	g.lastUpdate = time.Now()

	apiKey := ""
	if cfg.Narrative.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.Narrative.APIKeyEnv)
	}
	g.gen = narrative.NewGenerator(narrative.NewClient(cfg.Narrative.Endpoint, cfg.Narrative.Model, apiKey))

	if cfg.Geometry.URL == "" {
		g.setWorld(LoadEmbeddedWorld())
	} else {
		g.terminal.Add(0, "SYS", LogInfo, "acquiring geometry: "+cfg.Geometry.URL)
		g.worldCh = make(chan worldResult, 1)
		go func(url string) {
			wm, err := FetchWorld(url)
			g.worldCh <- worldResult{world: wm, err: err}
		}(cfg.Geometry.URL)
	}
	return g
}

// setWorld installs a load result. On failure the globe stays uninitialised
// for the rest of the run.
func (g *Game) setWorld(wm *WorldMap, err error) {
	if err != nil {
		g.worldErr = err
		g.terminal.AddWrapped(g.tick, "SYS", LogAlert, "geometry unavailable: "+err.Error())
		return
	}
	g.world = wm
	g.terminal.Add(g.tick, "SYS", LogInfo,
		fmt.Sprintf("geometry online: %d territories (%d skipped)", len(wm.Territories), wm.Skipped))
}

// projection builds the frame's screen mapping from the rotation state. The
// globe occupies the square left portion of the window.
func (g *Game) projection() Projection {
	half := float64(g.height) / 2
	return Projection{
		CX:   half,
		CY:   half,
		R:    half * globeRadiusRatio,
		Spin: g.rot.Spin,
		Tilt: g.rot.Tilt,
	}
}

func (g *Game) Update() error {
	now := time.Now()
	dt := now.Sub(g.lastUpdate).Seconds()
	g.lastUpdate = now
	if dt > maxFrameDt {
		dt = maxFrameDt
	}

	g.drainAsync()

	// Handle input every frame regardless of sim speed.
	g.handleInput()

	// The view stays live in hand even while the battle sim is paused.
	g.rot.Step(dt)

	// Paths follow the designations immediately, not on the next sim tick.
	g.paths = derivePaths(&g.sel)

	if g.simSpeed <= 0 || g.world == nil {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick(dt)
	}
	return nil
}

// drainAsync applies results arriving from background goroutines: the
// one-shot geometry fetch and any dispatch being filed.
func (g *Game) drainAsync() {
	if g.worldCh != nil {
		select {
		case res := <-g.worldCh:
			g.setWorld(res.world, res.err)
			g.worldCh = nil
		default:
		}
	}
	select {
	case rep := <-g.reportCh:
		g.reportBusy = false
		g.lastReport = &rep
		g.terminal.Add(g.tick, "REP", LogInfo, "dispatch filed ("+rep.Source+")")
		for _, para := range splitParagraphs(rep.Text) {
			g.terminal.AddWrapped(g.tick, "REP", LogInfo, para)
		}
	default:
	}
}

// simTick runs one simulation tick of dt seconds.
func (g *Game) simTick(dt float64) {
	g.tick++

	// 1. MARKERS: advance and detect wrap-around launches.
	var before [markerPoolSize]float64
	for i := range g.markers.Markers {
		before[i] = g.markers.Markers[i].Progress
	}
	g.markers.Advance(dt, len(g.paths))
	for i := range g.markers.Markers {
		m := &g.markers.Markers[i]
		if m.PathIdx < 0 || m.PathIdx >= len(g.paths) {
			continue
		}
		if m.Progress < before[i] {
			g.activity.RecordLaunch()
		}
	}

	// 2. IMPACTS: arriving markers throw particles and score strikes.
	for i := range g.markers.Markers {
		m := &g.markers.Markers[i]
		if m.PathIdx < 0 || m.PathIdx >= len(g.paths) || !m.Arriving() {
			continue
		}
		if g.rng.Float64() >= particleSpawnChance {
			continue
		}
		path := g.paths[m.PathIdx]
		at := LatLon{
			Lat: path.End.Lat + (g.rng.Float64()*2-1)*impactScatterDeg,
			Lon: normaliseLon(path.End.Lon + (g.rng.Float64()*2-1)*impactScatterDeg),
		}
		if g.particles.Spawn(at, g.rng) {
			g.activity.RecordImpact()
			if g.conflict != nil {
				g.conflict.RecordStrike(path.Kind)
			}
			g.terminal.Add(g.tick, "WAR", LogWarn, "impact registered: "+path.To.Name)
		}
	}

	// 3. PARTICLES: drift, decay, reap.
	g.particles.Update(dt)

	// 4. CHARTS: fold events into the activity trace.
	g.activity.Tick(g.tick)

	// 5. SITREP: periodic strike tally while an engagement runs.
	if g.conflict != nil && g.tick%statusPollInterval == 0 {
		g.terminal.Add(g.tick, "OPS", LogInfo,
			fmt.Sprintf("sitrep: strikes %d-%d", g.conflict.AggressorStrikes, g.conflict.DefenderStrikes))
	}
}

// handleInput processes keypresses (edge-triggered) and pointer gestures.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// Designation mode: 1=aggressor, 2=defender, 3=ally.
	if pressed(ebiten.Key1) && g.mode != RoleAggressor {
		g.mode = RoleAggressor
		g.terminal.Add(g.tick, "SYS", LogInfo, "designation mode: aggressor")
	}
	if pressed(ebiten.Key2) && g.mode != RoleDefender {
		g.mode = RoleDefender
		g.terminal.Add(g.tick, "SYS", LogInfo, "designation mode: defender")
	}
	if pressed(ebiten.Key3) && g.mode != RoleAlly {
		g.mode = RoleAlly
		g.terminal.Add(g.tick, "SYS", LogInfo, "designation mode: ally")
	}

	// Space: file a dispatch about the current or last engagement.
	if pressed(ebiten.KeySpace) {
		g.requestReport()
	}

	// R: stand all designations down.
	if pressed(ebiten.KeyR) {
		g.resetDesignations()
	}

	// C: copy the latest report to the system clipboard.
	if pressed(ebiten.KeyC) {
		g.copyReport()
	}

	// H: toggle HUD key legend.
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if pressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if pressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 {
				if speeds[i+1] > g.simSpeed {
					g.simSpeed = speeds[i+1]
					break
				}
			}
		}
	}

	// Pointer: press starts a drag, release classifies click vs drag.
	mx, my := ebiten.CursorPosition()
	fx, fy := float64(mx), float64(my)
	mouseLeft := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case mouseLeft && !g.prevMouseLeft:
		g.rot.PointerDown(fx, fy)
	case mouseLeft:
		g.rot.PointerMove(fx, fy)
	case g.prevMouseLeft:
		if g.rot.PointerUp(fx, fy) {
			g.handleGlobeClick(fx, fy)
		}
	}
	g.prevMouseLeft = mouseLeft

	g.prevKeys = currentKeys
}

// handleGlobeClick resolves a click against the front hemisphere and applies
// the current designation mode.
func (g *Game) handleGlobeClick(x, y float64) {
	if g.world == nil {
		return
	}
	ll, ok := g.projection().Unproject(x, y)
	if !ok {
		return
	}
	t := g.world.HitTest(ll)
	if t == nil {
		return
	}
	g.toggleTerritory(t)
}

// toggleTerritory applies the designation toggle and narrates the result.
func (g *Game) toggleTerritory(t *Territory) {
	err := g.sel.Toggle(g.mode, t)
	switch {
	case err == nil:
		if g.sel.RoleOf(t) == RoleNeutral {
			g.terminal.Add(g.tick, "OPS", LogInfo, t.Name+" stood down")
		} else {
			g.terminal.Add(g.tick, "OPS", LogInfo,
				fmt.Sprintf("%s designated %s", t.Name, g.mode))
		}
		g.syncConflict()
	case errors.Is(err, ErrTerritoryEngaged):
		g.terminal.Add(g.tick, "OPS", LogWarn,
			fmt.Sprintf("%s already committed as %s", t.Name, g.sel.RoleOf(t)))
	}
}

// syncConflict opens an engagement when both principals are designated and
// closes it when either stands down. Ally changes never close it.
func (g *Game) syncConflict() {
	switch {
	case g.sel.ConflictReady() && g.conflict == nil:
		g.conflict = newConflict(g.tick, g.sel.Aggressor, g.sel.Defender)
		g.terminal.Add(g.tick, "WAR", LogAlert,
			fmt.Sprintf("engagement opened: %s -> %s", g.sel.Aggressor.Name, g.sel.Defender.Name))
	case !g.sel.ConflictReady() && g.conflict != nil:
		g.closeConflict()
	}
}

// closeConflict captures the final summary before tearing the engagement down.
func (g *Game) closeConflict() {
	sum := g.conflict.Summarise(&g.sel, g.tick)
	g.lastSummary = &sum
	g.terminal.Add(g.tick, "WAR", LogAlert, "engagement closed: "+sum.Description)
	g.conflict = nil
}

// resetDesignations stands every territory down and ends any engagement.
func (g *Game) resetDesignations() {
	if g.conflict != nil {
		g.closeConflict()
	}
	g.sel.Clear()
	g.terminal.Add(g.tick, "OPS", LogInfo, "all designations reset")
}

// currentSummary is what a dispatch would be filed about right now: the live
// engagement if one runs, otherwise the last one closed.
func (g *Game) currentSummary() *ConflictSummary {
	if g.conflict != nil {
		sum := g.conflict.Summarise(&g.sel, g.tick)
		return &sum
	}
	return g.lastSummary
}

// requestReport files a dispatch asynchronously. Only one may be in flight.
func (g *Game) requestReport() {
	if g.reportBusy {
		g.terminal.Add(g.tick, "REP", LogWarn, "dispatch already being filed")
		return
	}
	sum := g.currentSummary()
	if sum == nil {
		g.terminal.Add(g.tick, "REP", LogWarn, "no engagement to report on")
		return
	}
	req := narrative.Request{
		ID:               sum.ID,
		Aggressor:        sum.Aggressor,
		Defender:         sum.Defender,
		Allies:           sum.Allies,
		AggressorStrikes: sum.AggressorStrikes,
		DefenderStrikes:  sum.DefenderStrikes,
		DurationTicks:    sum.Ticks,
		Outcome:          sum.Outcome.String(),
	}
	g.reportBusy = true
	g.terminal.Add(g.tick, "REP", LogInfo, "filing dispatch...")
	go func() {
		g.reportCh <- g.gen.Generate(req)
	}()
}

// copyReport puts the full text report on the system clipboard.
func (g *Game) copyReport() {
	sum := g.currentSummary()
	if sum == nil {
		g.terminal.Add(g.tick, "REP", LogWarn, "nothing to copy")
		return
	}
	report := BuildConflictReport(*sum, g.lastReport)
	if err := writeClipboard(report); err != nil {
		g.terminal.Add(g.tick, "SYS", LogWarn, "clipboard write failed: "+err.Error())
		return
	}
	g.terminal.Add(g.tick, "SYS", LogInfo, "report copied to clipboard")
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// splitParagraphs breaks report prose on blank lines.
func splitParagraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
