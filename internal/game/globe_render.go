package game

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/al1103/war2/internal/narrative"
)

// Render palette. Dark ops-room look: near-black space, muted ocean, role
// colours saturated enough to read at a glance.
var (
	colWindowBg    = color.RGBA{R: 7, G: 9, B: 13, A: 255}
	colOcean       = color.RGBA{R: 16, G: 26, B: 38, A: 255}
	colSphereEdge  = color.RGBA{R: 90, G: 130, B: 160, A: 255}
	colAtmosphere  = color.RGBA{R: 60, G: 110, B: 160, A: 255}
	colGraticule   = color.RGBA{R: 40, G: 58, B: 74, A: 120}
	colOutlineBack = color.RGBA{R: 50, G: 62, B: 74, A: 70}
	colLandEdge    = color.RGBA{R: 150, G: 165, B: 170, A: 220}
)

// roleColour maps a designation to its render colour. Neutral is the plain
// landmass fill.
func roleColour(r Role) color.RGBA {
	switch r {
	case RoleAggressor:
		return color.RGBA{R: 205, G: 70, B: 55, A: 255}
	case RoleDefender:
		return color.RGBA{R: 70, G: 125, B: 205, A: 255}
	case RoleAlly:
		return color.RGBA{R: 85, G: 175, B: 115, A: 255}
	default:
		return color.RGBA{R: 72, G: 88, B: 78, A: 255}
	}
}

// fade scales a colour's opacity. The vector helpers take straight alpha.
func fade(c color.RGBA, a float64) color.RGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.A = uint8(float64(c.A) * a)
	return c
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colWindowBg)

	pr := g.projection()
	if g.world == nil {
		g.drawGeometrySplash(screen, pr)
	} else {
		g.drawGlobe(screen, pr)
	}

	// Side column panels.
	px := g.height
	pw := g.width - g.height
	g.drawStatusPanel(screen, px, 0, pw, statusPanelH)
	drawRadarChart(screen, float32(px), statusPanelH, float32(pw), radarPanelH,
		g.sel.Aggressor, g.sel.Defender)
	g.activity.Draw(screen, float32(px), statusPanelH+radarPanelH, float32(pw), activityPanelH)
	termY := statusPanelH + radarPanelH + activityPanelH
	g.terminal.Draw(screen, px, termY, pw, g.height-termY)

	if g.showHUD {
		g.drawHUD(screen)
	}
}

// drawGlobe renders every sphere layer back to front.
func (g *Game) drawGlobe(screen *ebiten.Image, pr Projection) {
	cx := float32(pr.CX)
	cy := float32(pr.CY)
	r := float32(pr.R)

	// Atmosphere glow: layered translucent discs outside the sphere.
	vector.FillCircle(screen, cx, cy, r+18, fade(colAtmosphere, 0.06), true)
	vector.FillCircle(screen, cx, cy, r+10, fade(colAtmosphere, 0.10), true)
	vector.FillCircle(screen, cx, cy, r+4, fade(colAtmosphere, 0.16), true)

	vector.FillCircle(screen, cx, cy, r, colOcean, true)

	g.drawBackOutlines(screen, pr)
	drawGraticule(screen, pr)
	g.drawTerritories(screen, pr)
	g.drawPaths(screen, pr)
	g.drawMarkers(screen, pr)
	g.drawParticles(screen, pr)

	vector.StrokeCircle(screen, cx, cy, r, 1.5, colSphereEdge, true)
}

// drawBackOutlines sketches the far hemisphere's coastlines as faint hints
// so the sphere reads as a volume.
func (g *Game) drawBackOutlines(screen *ebiten.Image, pr Projection) {
	for _, t := range g.world.Territories {
		for _, ring := range t.Polygons {
			drawRingEdges(screen, pr, ring, colOutlineBack, 1.0, false)
		}
	}
}

// drawRingEdges strokes the ring's edges whose endpoints sit on the wanted
// hemisphere. Edges straddling the horizon are dropped.
func drawRingEdges(screen *ebiten.Image, pr Projection, ring []LatLon, col color.RGBA, width float32, wantFront bool) {
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		ax, ay, af := pr.Project(a)
		bx, by, bf := pr.Project(b)
		if af != wantFront || bf != wantFront {
			continue
		}
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), width, col, true)
	}
}

// drawGraticule draws the 30-degree lat/lon grid on the front hemisphere.
func drawGraticule(screen *ebiten.Image, pr Projection) {
	const step = 2.0
	for lat := -60.0; lat <= 60.0; lat += 30.0 {
		var px, py float64
		have := false
		for lon := -180.0; lon <= 180.0; lon += step {
			sx, sy, front := pr.Project(LatLon{Lat: lat, Lon: lon})
			if front && have {
				vector.StrokeLine(screen, float32(px), float32(py), float32(sx), float32(sy), 1.0, colGraticule, false)
			}
			px, py, have = sx, sy, front
		}
	}
	for lon := -180.0; lon < 180.0; lon += 30.0 {
		var px, py float64
		have := false
		for lat := -90.0; lat <= 90.0; lat += step {
			sx, sy, front := pr.Project(LatLon{Lat: lat, Lon: lon})
			if front && have {
				vector.StrokeLine(screen, float32(px), float32(py), float32(sx), float32(sy), 1.0, colGraticule, false)
			}
			px, py, have = sx, sy, front
		}
	}
}

// drawTerritories fills and outlines the front-hemisphere landmasses in
// their role colours.
func (g *Game) drawTerritories(screen *ebiten.Image, pr Projection) {
	for _, t := range g.world.Territories {
		role := g.sel.RoleOf(t)
		fill := roleColour(role)
		fillAlpha := 0.55
		if role != RoleNeutral {
			fillAlpha = 0.8
		}
		for _, ring := range t.Polygons {
			fillFrontRing(screen, pr, ring, fade(fill, fillAlpha))
			edge := colLandEdge
			width := float32(1.0)
			if role != RoleNeutral {
				edge = fill
				width = 2.0
			}
			drawRingEdges(screen, pr, ring, edge, width, true)
		}
	}
}

// fillFrontRing fills the visible part of a ring. Back-hemisphere vertices
// are dropped, which clips the shape roughly along the horizon; rings mostly
// behind the sphere are skipped entirely.
func fillFrontRing(screen *ebiten.Image, pr Projection, ring []LatLon, col color.RGBA) {
	var path vector.Path
	frontCount := 0
	started := false
	for _, p := range ring {
		sx, sy, front := pr.Project(p)
		if !front {
			continue
		}
		frontCount++
		if !started {
			path.MoveTo(float32(sx), float32(sy))
			started = true
		} else {
			path.LineTo(float32(sx), float32(sy))
		}
	}
	if frontCount < 3 || frontCount*2 < len(ring) {
		return
	}
	path.Close()
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(col)
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)
}

const (
	pathSamples   = 64
	pathDashLen   = float32(9)
	pathGapLen    = float32(7)
	pathDashSpeed = 0.6 // pattern pixels advanced per tick, toward the target
)

// drawPaths marches each great-circle route and draws an animated dashed
// line along its front-hemisphere stretches.
func (g *Game) drawPaths(screen *ebiten.Image, pr Projection) {
	period := pathDashLen + pathGapLen
	phase := float32(math.Mod(float64(g.tick)*float64(pathDashSpeed), float64(period)))

	for _, p := range g.paths {
		col := roleColour(RoleAggressor)
		if p.Kind == PathCounterAttack {
			col = roleColour(RoleAlly)
		}

		var px, py float32
		have := false
		walked := float32(0)
		for i := 0; i <= pathSamples; i++ {
			t := float64(i) / pathSamples
			pt := greatCirclePoint(p.Start, p.End, t)
			sx64, sy64, front := pr.Project(pt)
			sx, sy := float32(sx64), float32(sy64)
			if front && have {
				seg := float32(math.Hypot(float64(sx-px), float64(sy-py)))
				// Dash pattern position moves with the phase so the dashes
				// appear to flow from source to target.
				pos := walked - phase
				for pos < 0 {
					pos += period
				}
				if float32(math.Mod(float64(pos), float64(period))) < pathDashLen {
					vector.StrokeLine(screen, px, py, sx, sy, 2.0, fade(col, 0.85), true)
				}
				walked += seg
			}
			px, py, have = sx, sy, front
		}
	}
}

// drawMarkers renders the visible missiles as oriented triangles with a
// short afterburner trail.
func (g *Game) drawMarkers(screen *ebiten.Image, pr Projection) {
	for i := range g.markers.Markers {
		m := &g.markers.Markers[i]
		if !m.Visible() || m.PathIdx >= len(g.paths) {
			continue
		}
		p := g.paths[m.PathIdx]
		pos := greatCirclePoint(p.Start, p.End, m.Progress)
		sx64, sy64, front := pr.Project(pos)
		if !front {
			continue
		}
		sx, sy := float32(sx64), float32(sy64)

		col := roleColour(RoleAggressor)
		if p.Kind == PathCounterAttack {
			col = roleColour(RoleAlly)
		}

		ang := greatCircleTangentAngle(pr, p.Start, p.End, m.Progress)
		const size = 7.0
		nose := [2]float32{sx + size*float32(math.Cos(ang)), sy + size*float32(math.Sin(ang))}
		tailL := [2]float32{sx + size*0.65*float32(math.Cos(ang+2.5)), sy + size*0.65*float32(math.Sin(ang+2.5))}
		tailR := [2]float32{sx + size*0.65*float32(math.Cos(ang-2.5)), sy + size*0.65*float32(math.Sin(ang-2.5))}

		var tri vector.Path
		tri.MoveTo(nose[0], nose[1])
		tri.LineTo(tailL[0], tailL[1])
		tri.LineTo(tailR[0], tailR[1])
		tri.Close()
		op := &vector.DrawPathOptions{AntiAlias: true}
		op.ColorScale.ScaleWithColor(col)
		vector.FillPath(screen, &tri, &vector.FillOptions{}, op)

		// Afterburner trail: fading dots behind the nose.
		for k := 1; k <= 3; k++ {
			tt := m.Progress - 0.018*float64(k)
			if tt <= 0 {
				continue
			}
			tx64, ty64, tf := pr.Project(greatCirclePoint(p.Start, p.End, tt))
			if !tf {
				continue
			}
			vector.FillCircle(screen, float32(tx64), float32(ty64), float32(4-k),
				fade(col, 0.5-0.13*float64(k)), true)
		}
	}
}

// drawParticles renders impact bursts: an expanding ring with a bright core
// flash while the particle is young.
func (g *Game) drawParticles(screen *ebiten.Image, pr Projection) {
	hot := color.RGBA{R: 250, G: 200, B: 90, A: 255}
	ring := color.RGBA{R: 235, G: 120, B: 60, A: 255}
	for i := range g.particles.P {
		p := &g.particles.P[i]
		sx64, sy64, front := pr.Project(p.Pos)
		if !front {
			continue
		}
		sx, sy := float32(sx64), float32(sy64)
		alpha := p.Alpha()
		vector.StrokeCircle(screen, sx, sy, float32(p.RingRadius()), 2.0, fade(ring, alpha), true)
		if p.Life > 0.7 {
			vector.FillCircle(screen, sx, sy, 3.5, fade(hot, alpha), true)
		}
	}
}

// drawGeometrySplash covers the globe area while geometry is pending or
// after a failed fetch.
func (g *Game) drawGeometrySplash(screen *ebiten.Image, pr Projection) {
	cx := float32(pr.CX)
	cy := float32(pr.CY)
	r := float32(pr.R)
	vector.StrokeCircle(screen, cx, cy, r, 1.0, fade(colSphereEdge, 0.4), true)

	if g.worldErr != nil {
		text.Draw(screen, "GEOMETRY UNAVAILABLE", basicfont.Face7x13, int(cx)-70, int(cy)-8,
			color.RGBA{R: 220, G: 80, B: 60, A: 255})
		msg := g.worldErr.Error()
		if len(msg) > 60 {
			msg = msg[:60] + "..."
		}
		ebitenutil.DebugPrintAt(screen, msg, int(cx)-len(msg)*3, int(cy)+8)
		ebitenutil.DebugPrintAt(screen, "restart to retry", int(cx)-48, int(cy)+24)
		return
	}
	text.Draw(screen, "ACQUIRING GEOMETRY...", basicfont.Face7x13, int(cx)-74, int(cy), colSphereEdge)
}

// emblemFor returns the cached banner image for a territory name.
func (g *Game) emblemFor(name string) *ebiten.Image {
	if img, ok := g.emblems[name]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(narrative.Emblem(name))
	g.emblems[name] = img
	return img
}

// drawStatusPanel renders the top-right command summary.
func (g *Game) drawStatusPanel(screen *ebiten.Image, x, y, w, h int) {
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), color.RGBA{R: 10, G: 14, B: 10, A: 235}, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1.0, color.RGBA{R: 55, G: 80, B: 55, A: 255}, false)
	vector.StrokeLine(screen, float32(x+1), float32(y+1), float32(x+w-1), float32(y+1), 1.0, color.RGBA{R: 70, G: 110, B: 70, A: 60}, false)

	text.Draw(screen, "COMMAND STATUS", basicfont.Face7x13, x+8, y+14, color.RGBA{R: 120, G: 220, B: 150, A: 255})

	ly := y + 24
	line := func(s string) {
		ebitenutil.DebugPrintAt(screen, s, x+8, ly)
		ly += 14
	}

	// Mode indicator with a colour chip.
	vector.FillRect(screen, float32(x+8), float32(ly+4), 8, 8, roleColour(g.mode), false)
	ebitenutil.DebugPrintAt(screen, "  mode: "+g.mode.String(), x+12, ly)
	ly += 14

	principal := func(label string, t *Territory) {
		if t == nil {
			line(label + ": --")
			return
		}
		em := g.emblemFor(t.Name)
		var op ebiten.DrawImageOptions
		op.GeoM.Translate(float64(x+8), float64(ly))
		screen.DrawImage(em, &op)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("   %s: %s", label, t.Name), x+24, ly)
		ly += 18
	}
	principal("aggressor", g.sel.Aggressor)
	principal("defender", g.sel.Defender)

	if len(g.sel.Allies) == 0 {
		line("allies: none")
	} else {
		names := make([]string, len(g.sel.Allies))
		for i, a := range g.sel.Allies {
			names[i] = a.ID
		}
		line(fmt.Sprintf("allies (%d): %s", len(names), strings.Join(names, " ")))
	}

	if g.conflict != nil {
		outcome, _ := DetermineConflictOutcome(g.conflict.AggressorStrikes, g.conflict.DefenderStrikes)
		line(fmt.Sprintf("engagement: strikes %d-%d (%s)",
			g.conflict.AggressorStrikes, g.conflict.DefenderStrikes, outcome))
	} else {
		line("engagement: none")
	}
	line(fmt.Sprintf("view: %s  tilt %+.0f", g.rot.State(), g.rot.Tilt))
}

// drawHUD renders keyboard shortcut hints in the bottom-left corner.
func (g *Game) drawHUD(screen *ebiten.Image) {
	speedStr := "1x"
	switch g.simSpeed {
	case 0:
		speedStr = "PAUSED"
	case 2:
		speedStr = "2x"
	case 4:
		speedStr = "4x"
	default:
		if g.simSpeed != 1 {
			speedStr = fmt.Sprintf("%.1fx", g.simSpeed)
		}
	}

	lines := []string{
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speedStr),
		fmt.Sprintf("MODE: %s  [1]agg [2]def [3]ally", g.mode),
		"click=designate  drag=rotate",
		"SPACE=dispatch  C=copy  R=reset  [H] hide",
	}

	const lineH = 12 // debug font line height
	const charW = 6  // debug font char width
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
	bx := float32(4)
	by := float32(g.height) - boxH - 4

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	vector.StrokeLine(screen, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 80, G: 140, B: 80, A: 80}, false)

	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, int(bx)+padX, int(by)+padY+i*lineH)
	}
}
