package game

import (
	"fmt"
	"hash/fnv"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Doctrine axes shown on the radar chart, clockwise from the top.
var radarAxes = [5]string{"FPW", "LOG", "MRL", "TEC", "TER"}

// axisValue derives one doctrine axis for a territory from a hash of its ID,
// mapped into [0.2, 1.0]. No real-world data: the same ID always profiles
// the same, which is all the comparison view needs.
func axisValue(id, axis string) float64 {
	h := fnv.New32a()
	h.Write([]byte(id))
	h.Write([]byte{':'})
	h.Write([]byte(axis))
	return 0.2 + 0.8*float64(h.Sum32()%1000)/999.0
}

// territoryStats returns all five axis values for a territory.
func territoryStats(id string) [5]float64 {
	var out [5]float64
	for i, axis := range radarAxes {
		out[i] = axisValue(id, axis)
	}
	return out
}

// radarPoint places a value along spoke i. Spoke 0 points straight up.
func radarPoint(cx, cy, radius float32, i int, v float64) (float32, float32) {
	ang := -math.Pi/2 + float64(i)*2*math.Pi/float64(len(radarAxes))
	return cx + radius*float32(v*math.Cos(ang)), cy + radius*float32(v*math.Sin(ang))
}

// drawRadarWeb fills one territory's doctrine pentagon.
func drawRadarWeb(screen *ebiten.Image, cx, cy, radius float32, stats [5]float64, col color.RGBA) {
	var path vector.Path
	for i, v := range stats {
		px, py := radarPoint(cx, cy, radius, i, v)
		if i == 0 {
			path.MoveTo(px, py)
		} else {
			path.LineTo(px, py)
		}
	}
	path.Close()

	fill := &vector.DrawPathOptions{AntiAlias: true}
	fill.ColorScale.ScaleWithColor(color.RGBA{R: col.R, G: col.G, B: col.B, A: 70})
	vector.FillPath(screen, &path, &vector.FillOptions{}, fill)

	for i := range stats {
		x0, y0 := radarPoint(cx, cy, radius, i, stats[i])
		j := (i + 1) % len(stats)
		x1, y1 := radarPoint(cx, cy, radius, j, stats[j])
		vector.StrokeLine(screen, x0, y0, x1, y1, 1.5, col, true)
	}
}

// drawRadarChart renders the doctrine comparison panel. With no principals
// selected it shows the empty grid.
func drawRadarChart(screen *ebiten.Image, x, y, w, h float32, agg, def *Territory) {
	vector.FillRect(screen, x, y, w, h, color.RGBA{R: 10, G: 14, B: 10, A: 235}, false)
	vector.StrokeRect(screen, x, y, w, h, 1.0, color.RGBA{R: 55, G: 80, B: 55, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "DOCTRINE PROFILE", int(x)+8, int(y)+5)

	cx := x + w/2
	cy := y + h/2 + 8
	radius := h/2 - 28

	gridCol := color.RGBA{R: 45, G: 70, B: 45, A: 255}
	for ring := 1; ring <= 4; ring++ {
		f := float64(ring) / 4
		for i := range radarAxes {
			x0, y0 := radarPoint(cx, cy, radius, i, f)
			x1, y1 := radarPoint(cx, cy, radius, (i+1)%len(radarAxes), f)
			vector.StrokeLine(screen, x0, y0, x1, y1, 1.0, gridCol, false)
		}
	}
	for i, label := range radarAxes {
		sx, sy := radarPoint(cx, cy, radius, i, 1.0)
		vector.StrokeLine(screen, cx, cy, sx, sy, 1.0, gridCol, false)
		lx, ly := radarPoint(cx, cy, radius+14, i, 1.0)
		ebitenutil.DebugPrintAt(screen, label, int(lx)-10, int(ly)-6)
	}

	if def != nil {
		drawRadarWeb(screen, cx, cy, radius, territoryStats(def.ID), roleColour(RoleDefender))
	}
	if agg != nil {
		drawRadarWeb(screen, cx, cy, radius, territoryStats(agg.ID), roleColour(RoleAggressor))
	}
	if agg == nil && def == nil {
		ebitenutil.DebugPrintAt(screen, "no principals designated", int(cx)-78, int(cy)-6)
	}
}

const (
	activityColumns     = 64
	activitySampleTicks = 15
	activityLaunchBoost = 0.30
	activityImpactBoost = 0.55
)

// ActivityChart is a scrolling bar chart of strike traffic. A simplex noise
// floor keeps it moving between conflicts; launches and impacts spike the
// current column.
type ActivityChart struct {
	noise   opensimplex.Noise
	samples [activityColumns]float64
	head    int
	count   int
	accum   float64
}

func NewActivityChart(seed int64) *ActivityChart {
	return &ActivityChart{noise: opensimplex.NewNormalized(seed)}
}

// RecordLaunch bumps the in-progress column.
func (a *ActivityChart) RecordLaunch() { a.accum += activityLaunchBoost }

// RecordImpact bumps the in-progress column harder than a launch.
func (a *ActivityChart) RecordImpact() { a.accum += activityImpactBoost }

// Tick folds accumulated events into a new column once per sample window.
func (a *ActivityChart) Tick(tick int) {
	if tick%activitySampleTicks != 0 {
		return
	}
	floor := 0.08 + 0.10*a.noise.Eval2(float64(tick)*0.004, 0)
	v := floor + a.accum
	if v > 1 {
		v = 1
	}
	a.samples[a.head] = v
	a.head = (a.head + 1) % activityColumns
	if a.count < activityColumns {
		a.count++
	}
	a.accum = 0
}

// Columns returns the recorded samples oldest first.
func (a *ActivityChart) Columns() []float64 {
	out := make([]float64, 0, a.count)
	start := (a.head - a.count + activityColumns) % activityColumns
	for i := 0; i < a.count; i++ {
		out = append(out, a.samples[(start+i)%activityColumns])
	}
	return out
}

func activityBarColour(v float64) color.RGBA {
	switch {
	case v > 0.66:
		return color.RGBA{R: 210, G: 85, B: 60, A: 255}
	case v > 0.33:
		return color.RGBA{R: 200, G: 170, B: 60, A: 255}
	default:
		return color.RGBA{R: 90, G: 160, B: 90, A: 255}
	}
}

// Draw renders the chart panel with its latest reading in the title.
func (a *ActivityChart) Draw(screen *ebiten.Image, x, y, w, h float32) {
	vector.FillRect(screen, x, y, w, h, color.RGBA{R: 10, G: 14, B: 10, A: 235}, false)
	vector.StrokeRect(screen, x, y, w, h, 1.0, color.RGBA{R: 55, G: 80, B: 55, A: 255}, false)

	cols := a.Columns()
	latest := 0.0
	if len(cols) > 0 {
		latest = cols[len(cols)-1]
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("STRIKE ACTIVITY  %3.0f%%", latest*100), int(x)+8, int(y)+5)

	const pad = 8
	plotX := x + pad
	plotY := y + 22
	plotW := w - 2*pad
	plotH := h - 22 - pad
	barW := plotW / activityColumns

	vector.StrokeLine(screen, plotX, plotY+plotH, plotX+plotW, plotY+plotH, 1.0,
		color.RGBA{R: 45, G: 70, B: 45, A: 255}, false)

	for i, v := range cols {
		bh := float32(v) * plotH
		bx := plotX + float32(i)*barW
		vector.FillRect(screen, bx, plotY+plotH-bh, barW-1, bh, activityBarColour(v), false)
	}
}
