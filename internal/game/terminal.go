package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	terminalMaxEntries = 72
	terminalLineHeight = 11
	terminalWrapWidth  = 46 // characters per wrapped narrative line
)

// LogLevel tints a terminal entry's indicator dot.
type LogLevel int

const (
	LogInfo LogLevel = iota
	LogWarn
	LogAlert
)

// TerminalEntry is a single line in the on-screen terminal.
type TerminalEntry struct {
	Tick    int
	Source  string // e.g. "SYS", "WAR", "AI"
	Level   LogLevel
	Message string
}

// Terminal is a ring buffer of log lines rendered as the bottom-right panel.
type Terminal struct {
	entries []TerminalEntry
	head    int
	count   int
}

// NewTerminal creates a terminal with a fixed capacity.
func NewTerminal() *Terminal {
	return &Terminal{
		entries: make([]TerminalEntry, terminalMaxEntries),
	}
}

// Add appends an entry to the terminal.
func (tm *Terminal) Add(tick int, source string, level LogLevel, msg string) {
	tm.entries[tm.head] = TerminalEntry{
		Tick:    tick,
		Source:  source,
		Level:   level,
		Message: msg,
	}
	tm.head = (tm.head + 1) % terminalMaxEntries
	if tm.count < terminalMaxEntries {
		tm.count++
	}
}

// AddWrapped splits a long message on word boundaries and appends each line.
// Continuation lines carry a blank source so the block reads as one report.
func (tm *Terminal) AddWrapped(tick int, source string, level LogLevel, msg string) {
	words := strings.Fields(msg)
	if len(words) == 0 {
		return
	}
	line := words[0]
	first := true
	flush := func() {
		src := source
		if !first {
			src = ""
		}
		tm.Add(tick, src, level, line)
		first = false
	}
	for _, w := range words[1:] {
		if len(line)+1+len(w) > terminalWrapWidth {
			flush()
			line = w
			continue
		}
		line += " " + w
	}
	flush()
}

// Recent returns entries in chronological order (oldest first).
func (tm *Terminal) Recent() []TerminalEntry {
	result := make([]TerminalEntry, tm.count)
	for i := 0; i < tm.count; i++ {
		idx := (tm.head - tm.count + i + terminalMaxEntries) % terminalMaxEntries
		result[i] = tm.entries[idx]
	}
	return result
}

// levelDotColour maps a log level to its indicator colour.
func levelDotColour(l LogLevel) color.RGBA {
	switch l {
	case LogWarn:
		return color.RGBA{R: 220, G: 170, B: 40, A: 255}
	case LogAlert:
		return color.RGBA{R: 220, G: 60, B: 50, A: 255}
	default:
		return color.RGBA{R: 70, G: 190, B: 110, A: 255}
	}
}

// Draw renders the terminal into the given panel rectangle.
func (tm *Terminal) Draw(screen *ebiten.Image, panelX, panelY, panelW, panelH int) {
	vector.FillRect(screen, float32(panelX), float32(panelY), float32(panelW), float32(panelH), color.RGBA{R: 8, G: 12, B: 10, A: 248}, false)
	vector.StrokeRect(screen, float32(panelX), float32(panelY), float32(panelW), float32(panelH), 1.0, color.RGBA{R: 45, G: 75, B: 55, A: 255}, false)

	// Title bar.
	vector.FillRect(screen, float32(panelX), float32(panelY), float32(panelW), 16, color.RGBA{R: 16, G: 28, B: 20, A: 255}, false)
	text.Draw(screen, "OPERATIONS TERMINAL", basicfont.Face7x13, panelX+8, panelY+12, color.RGBA{R: 120, G: 220, B: 150, A: 255})
	vector.StrokeLine(screen, float32(panelX), float32(panelY+16), float32(panelX+panelW), float32(panelY+16), 1.0, color.RGBA{R: 45, G: 75, B: 55, A: 200}, false)

	entries := tm.Recent()

	// Draw from the bottom up so the newest entry sits at the bottom.
	maxVisible := (panelH - 24) / terminalLineHeight
	startIdx := 0
	if len(entries) > maxVisible {
		startIdx = len(entries) - maxVisible
	}

	visible := entries[startIdx:]
	recent := 3 // latest entries get a highlight row

	y := panelY + 20
	for i, e := range visible {
		isRecent := i >= len(visible)-recent

		if isRecent {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(panelW-4), float32(terminalLineHeight), color.RGBA{R: 24, G: 40, B: 30, A: 160}, false)
		}

		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, levelDotColour(e.Level), false)

		var line string
		if e.Source == "" {
			line = fmt.Sprintf("          %s", e.Message)
		} else {
			line = fmt.Sprintf("%4d [%-3s] %s", e.Tick, e.Source, e.Message)
		}
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += terminalLineHeight
	}
}
