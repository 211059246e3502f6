package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a headless globe simulation.
type SimLogEntry struct {
	Tick      int
	Territory string  // territory ID e.g. "USA", or "--" for global events
	Role      string  // "aggressor", "defender", "ally", or "--"
	Category  string  // input, spin, select, path, marker, particle, conflict, geometry
	Key       string  // specific event name within the category
	Value     string  // human-readable detail
	NumVal    float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] USA  select    assigned         aggressor
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Territory, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during a headless simulation. Unlike the
// Terminal (UI ring-buffer), SimLog is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick spin/progress
// entries are also recorded (useful for detailed debugging).
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, territory, role, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:      tick,
		Territory: territory,
		Role:      role,
		Category:  category,
		Key:       key,
		Value:     value,
		NumVal:    numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, territory, role, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, territory, role, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterTerritory returns entries for a specific territory ID.
func (sl *SimLog) FilterTerritory(id string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Territory == id {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the simulation state.
func (sl *SimLog) Summary(tick int, sel *Selection, conflict *Conflict) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", tick)

	name := func(t *Territory) string {
		if t == nil {
			return "unset"
		}
		return t.ID
	}
	fmt.Fprintf(&sb, "Aggressor: %s  Defender: %s\n", name(sel.Aggressor), name(sel.Defender))
	if len(sel.Allies) > 0 {
		ids := make([]string, len(sel.Allies))
		for i, a := range sel.Allies {
			ids[i] = a.ID
		}
		fmt.Fprintf(&sb, "Allies: %s\n", strings.Join(ids, ", "))
	} else {
		sb.WriteString("Allies: none\n")
	}

	if conflict != nil {
		outcome, _ := DetermineConflictOutcome(conflict.AggressorStrikes, conflict.DefenderStrikes)
		fmt.Fprintf(&sb, "Strikes: aggressor=%d defender=%d  outcome: %s\n",
			conflict.AggressorStrikes, conflict.DefenderStrikes, outcome)
	} else {
		sb.WriteString("Conflict: inactive\n")
	}

	fmt.Fprintf(&sb, "Launches: %d  Impacts: %d\n",
		sl.CountCategory("marker", "launch"), sl.CountCategory("particle", "spawn"))
	return sb.String()
}
