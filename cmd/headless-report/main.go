package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/al1103/war2/internal/game"
	"github.com/al1103/war2/internal/narrative"
)

// scenarioDef is a named designation script run against the embedded world.
type scenarioDef struct {
	name    string
	brief   string
	options []game.SimOption
}

var scenarios = []scenarioDef{
	{
		name:  "global-strike",
		brief: "RUS vs GBR, no third parties",
		options: []game.SimOption{
			game.WithDesignation(game.RoleAggressor, "RUS"),
			game.WithDesignation(game.RoleDefender, "GBR"),
		},
	},
	{
		name:  "coalition",
		brief: "RUS vs GBR with FRA, DEU and POL allied to the defender",
		options: []game.SimOption{
			game.WithDesignation(game.RoleAggressor, "RUS"),
			game.WithDesignation(game.RoleDefender, "GBR"),
			game.WithDesignation(game.RoleAlly, "FRA"),
			game.WithDesignation(game.RoleAlly, "DEU"),
			game.WithDesignation(game.RoleAlly, "POL"),
		},
	},
	{
		name:  "pacific",
		brief: "CHN vs USA with JPN, KOR and AUS allied to the defender",
		options: []game.SimOption{
			game.WithDesignation(game.RoleAggressor, "CHN"),
			game.WithDesignation(game.RoleDefender, "USA"),
			game.WithDesignation(game.RoleAlly, "JPN"),
			game.WithDesignation(game.RoleAlly, "KOR"),
			game.WithDesignation(game.RoleAlly, "AUS"),
		},
	},
}

func findScenario(name string) (scenarioDef, bool) {
	for _, sc := range scenarios {
		if sc.name == name {
			return sc, true
		}
	}
	return scenarioDef{}, false
}

func scenarioNames() string {
	names := make([]string, 0, len(scenarios))
	for _, sc := range scenarios {
		names = append(names, sc.name)
	}
	return strings.Join(names, ", ")
}

type runStats struct {
	runIndex int
	seed     int64

	openedTick      int
	firstLaunchTick int
	firstImpactTick int

	launches         int
	aggressorStrikes int
	defenderStrikes  int

	impactsByTerritory map[string]int

	summary game.ConflictSummary
	parties []*game.Territory
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenarioName string
	var emblemDir string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenarioName, "scenario", "global-strike", "scenario name")
	flag.StringVar(&emblemDir, "emblems", "", "directory to write belligerent emblem PNGs (optional)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	sc, ok := findScenario(scenarioName)
	if !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenarioName, scenarioNames())
		return
	}

	fmt.Printf("=== Headless Engagement Report ===\n")
	fmt.Printf("scenario=%s (%s) runs=%d ticks=%d seed_base=%d seed_step=%d\n\n",
		sc.name, sc.brief, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenario(i+1, seed, ticks, sc)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)

	last := all[len(all)-1]
	if emblemDir != "" {
		if err := writeEmblems(emblemDir, last.parties); err != nil {
			fmt.Printf("error: write emblems: %v\n", err)
			return
		}
		fmt.Printf("\nwrote %d emblems to %s\n", len(last.parties), emblemDir)
	}

	printDispatch(last.summary)
}

func runScenario(runIndex int, seed int64, ticks int, sc scenarioDef) runStats {
	opts := append([]game.SimOption{
		game.WithScreenSize(1280, 720),
		game.WithSeed(seed),
	}, sc.options...)
	gs := game.NewGlobeSim(opts...)
	gs.RunTicks(ticks)

	entries := gs.SimLog.Entries()
	impacts := map[string]int{}
	for _, e := range gs.SimLog.Filter("particle", "spawn") {
		impacts[e.Territory]++
	}

	rs := runStats{
		runIndex:           runIndex,
		seed:               seed,
		openedTick:         firstTick(entries, "conflict", "opened", ""),
		firstLaunchTick:    firstTick(entries, "marker", "launch", ""),
		firstImpactTick:    firstTick(entries, "particle", "spawn", ""),
		launches:           gs.SimLog.CountCategory("marker", "launch"),
		impactsByTerritory: impacts,
	}
	if gs.Conflict != nil {
		rs.summary = gs.Conflict.Summarise(&gs.Sel, gs.CurrentTick())
		rs.aggressorStrikes = rs.summary.AggressorStrikes
		rs.defenderStrikes = rs.summary.DefenderStrikes
	}
	rs.parties = append(rs.parties, gs.Sel.Aggressor, gs.Sel.Defender)
	rs.parties = append(rs.parties, gs.Sel.Allies...)
	return rs
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: opened=%d first_launch=%d first_impact=%d\n",
		rs.openedTick, rs.firstLaunchTick, rs.firstImpactTick)
	fmt.Printf("exchange_totals: launches=%d strikes_delivered=%d strikes_returned=%d\n",
		rs.launches, rs.aggressorStrikes, rs.defenderStrikes)
	fmt.Printf("impact_map: %s\n", formatImpactMap(rs.impactsByTerritory))
	fmt.Printf("outcome: %s (%s)\n", rs.summary.Outcome, rs.summary.Description)
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalLaunches := 0
	totalDelivered := 0
	totalReturned := 0
	outcomes := map[string]int{}
	impactsGlobal := map[string]int{}

	openedTicks := make([]int, 0, len(all))
	launchTicks := make([]int, 0, len(all))
	impactTicks := make([]int, 0, len(all))

	for _, rs := range all {
		totalLaunches += rs.launches
		totalDelivered += rs.aggressorStrikes
		totalReturned += rs.defenderStrikes
		outcomes[rs.summary.Outcome.String()]++
		for id, n := range rs.impactsByTerritory {
			impactsGlobal[id] += n
		}
		if rs.openedTick >= 0 {
			openedTicks = append(openedTicks, rs.openedTick)
		}
		if rs.firstLaunchTick >= 0 {
			launchTicks = append(launchTicks, rs.firstLaunchTick)
		}
		if rs.firstImpactTick >= 0 {
			impactTicks = append(impactTicks, rs.firstImpactTick)
		}
	}

	fmt.Println("=== Aggregate Engagement Inputs ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_per_run: launches=%.1f strikes_delivered=%.1f strikes_returned=%.1f\n",
		avg(totalLaunches, len(all)), avg(totalDelivered, len(all)), avg(totalReturned, len(all)))
	fmt.Printf("phase_marker_avg_ticks: opened=%s first_launch=%s first_impact=%s\n",
		avgTickString(openedTicks), avgTickString(launchTicks), avgTickString(impactTicks))
	fmt.Printf("impact_map_total: %s\n", formatImpactMap(impactsGlobal))
	fmt.Printf("outcome_tally: %s\n", formatOutcomeTally(outcomes))
}

// printDispatch files one after-action dispatch for the final run. With no
// API key in the environment it falls back to the archive templates, so the
// tool runs fully offline.
func printDispatch(sum game.ConflictSummary) {
	cfg := game.DefaultConfig()
	client := narrative.NewClient(cfg.Narrative.Endpoint, cfg.Narrative.Model,
		os.Getenv(cfg.Narrative.APIKeyEnv))
	rep := narrative.NewGenerator(client).Generate(narrative.Request{
		ID:               sum.ID,
		Aggressor:        sum.Aggressor,
		Defender:         sum.Defender,
		Allies:           sum.Allies,
		AggressorStrikes: sum.AggressorStrikes,
		DefenderStrikes:  sum.DefenderStrikes,
		DurationTicks:    sum.Ticks,
		Outcome:          sum.Outcome.String(),
	})

	fmt.Printf("\n=== Dispatch (%s) ===\n", rep.Source)
	fmt.Println(rep.Text)
}

func writeEmblems(dir string, parties []*game.Territory) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, t := range parties {
		if t == nil {
			continue
		}
		f, err := os.Create(filepath.Join(dir, t.ID+".png"))
		if err != nil {
			return err
		}
		if err := narrative.WriteEmblemPNG(f, t.Name); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatImpactMap(impacts map[string]int) string {
	if len(impacts) == 0 {
		return "none"
	}
	ids := make([]string, 0, len(impacts))
	for id := range impacts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s=%d", id, impacts[id]))
	}
	return strings.Join(parts, " ")
}

func formatOutcomeTally(outcomes map[string]int) string {
	if len(outcomes) == 0 {
		return "none"
	}
	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, outcomes[name]))
	}
	return strings.Join(parts, " ")
}
