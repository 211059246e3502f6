package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/al1103/war2/internal/narrative"
)

// writeClipboard is swapped out in tests; production writes the system
// clipboard.
var writeClipboard = clipboard.WriteAll

// BuildConflictReport assembles the copyable text report: the engagement
// summary block plus the latest dispatch when one has been filed.
func BuildConflictReport(sum ConflictSummary, rep *narrative.Report) string {
	var b strings.Builder
	b.WriteString("WAR GLOBE ENGAGEMENT REPORT\n")
	b.WriteString(strings.Repeat("=", 40))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "id:        %s\n", sum.ID)
	fmt.Fprintf(&b, "aggressor: %s\n", orUnset(sum.Aggressor))
	fmt.Fprintf(&b, "defender:  %s\n", orUnset(sum.Defender))
	if len(sum.Allies) > 0 {
		fmt.Fprintf(&b, "allies:    %s\n", strings.Join(sum.Allies, ", "))
	}
	fmt.Fprintf(&b, "strikes:   %d delivered / %d returned\n", sum.AggressorStrikes, sum.DefenderStrikes)
	fmt.Fprintf(&b, "duration:  %d ticks\n", sum.Ticks)
	fmt.Fprintf(&b, "outcome:   %s\n", sum.Description)

	if rep != nil {
		b.WriteString(strings.Repeat("-", 40))
		b.WriteByte('\n')
		fmt.Fprintf(&b, "dispatch (%s, %s):\n\n", rep.Source, rep.GeneratedAt.Format(time.RFC3339))
		b.WriteString(rep.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
