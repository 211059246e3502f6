package narrative

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Report provenance markers.
const (
	SourceLive    = "live"
	SourceArchive = "archive"
)

// Request describes one finished engagement.
type Request struct {
	ID               uuid.UUID
	Aggressor        string
	Defender         string
	Allies           []string
	AggressorStrikes int
	DefenderStrikes  int
	DurationTicks    int
	Outcome          string // outcome token, e.g. "defender_holds"
}

// Report is generated prose plus provenance.
type Report struct {
	Text        string
	Source      string
	GeneratedAt time.Time
}

// Generator produces reports, preferring the remote model and falling back
// to the archive when the model is unavailable or errors.
type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

const reportSystem = `You are a military correspondent filing terse after-action dispatches.
Write exactly three short paragraphs of past-tense prose. No headlines, no
markdown, no casualty figures beyond those given. Detached tone.`

// Generate writes the after-action report for one engagement. Never fails:
// a broken or absent remote model degrades to the archive.
func (g *Generator) Generate(req Request) Report {
	if g.client.Enabled() {
		text, err := g.client.Complete(reportSystem, reportPrompt(req), 300)
		if err == nil {
			return Report{
				Text:        strings.TrimSpace(text),
				Source:      SourceLive,
				GeneratedAt: time.Now(),
			}
		}
		slog.Warn("remote narrative failed, using archive", "error", err)
	}
	return Report{
		Text:        archiveReport(req),
		Source:      SourceArchive,
		GeneratedAt: time.Now(),
	}
}

func reportPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Engagement %s.\n", req.ID)
	fmt.Fprintf(&b, "Aggressor: %s, %d strikes landed.\n", req.Aggressor, req.AggressorStrikes)
	fmt.Fprintf(&b, "Defender: %s, %d counter-strikes landed.\n", req.Defender, req.DefenderStrikes)
	if len(req.Allies) > 0 {
		fmt.Fprintf(&b, "Allied to the defender: %s.\n", strings.Join(req.Allies, ", "))
	}
	fmt.Fprintf(&b, "Duration: %d ticks. Assessed outcome: %s.\n", req.DurationTicks, req.Outcome)
	b.WriteString("File the dispatch.")
	return b.String()
}

var archiveOpenings = []string{
	"Hostilities opened when %s committed its strategic reserve against %s without declared warning.",
	"%s initiated sustained strike operations against %s following a week of deteriorating signals traffic.",
	"The engagement began with %s launching coordinated salvos toward %s across contested airspace.",
	"Forward observers first reported %s formations crossing into %s early-warning coverage at first light.",
}

var archiveExchanges = []string{
	"Exchange rates ran %d strikes landed against %d received over the course of the engagement.",
	"Battle damage assessment credits the aggressor with %d confirmed impacts against %d absorbed in return.",
	"Across the engagement window the attacking side placed %d warheads on target while taking %d in reply.",
}

var archiveClosings = map[string]string{
	"aggressor_advantage": "Assessment: the aggressor holds the initiative. Defending commands are re-posturing to deny follow-on objectives.",
	"defender_holds":      "Assessment: the defensive line held. Counter-battery fire degraded the aggressor's capacity to sustain the offensive.",
	"stalemate":           "Assessment: neither side achieved a decisive margin. Analysts expect a protracted attritional phase.",
	"inconclusive":        "Assessment: contact was too brief for a defensible judgement. Both sides retain their pre-engagement posture.",
}

// archiveReport builds a deterministic dispatch from the template archive.
// The same belligerent pairing always files the same report.
func archiveReport(req Request) string {
	h := fnv.New32a()
	h.Write([]byte(req.Aggressor))
	h.Write([]byte{'/'})
	h.Write([]byte(req.Defender))
	seed := h.Sum32()

	var b strings.Builder
	fmt.Fprintf(&b, archiveOpenings[seed%uint32(len(archiveOpenings))], req.Aggressor, req.Defender)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, archiveExchanges[(seed/7)%uint32(len(archiveExchanges))],
		req.AggressorStrikes, req.DefenderStrikes)
	if len(req.Allies) > 0 {
		fmt.Fprintf(&b, " Counter-attack sorties were flown from %s in defence of %s.",
			strings.Join(req.Allies, ", "), req.Defender)
	}
	b.WriteString("\n\n")
	closing, ok := archiveClosings[req.Outcome]
	if !ok {
		closing = archiveClosings["inconclusive"]
	}
	b.WriteString(closing)
	return b.String()
}
