package game

import "testing"

func TestTerritoryStats_DeterministicAndBounded(t *testing.T) {
	a := territoryStats("USA")
	b := territoryStats("USA")
	if a != b {
		t.Errorf("stats for same ID differ: %v vs %v", a, b)
	}
	for i, v := range a {
		if v < 0.2 || v > 1.0 {
			t.Errorf("axis %s = %.3f outside [0.2, 1.0]", radarAxes[i], v)
		}
	}

	c := territoryStats("RUS")
	if a == c {
		t.Error("distinct IDs produced identical profiles")
	}
}

func TestActivityChart_NoiseFloorOnly(t *testing.T) {
	a := NewActivityChart(42)
	for tick := 0; tick < activitySampleTicks*10; tick++ {
		a.Tick(tick)
	}
	cols := a.Columns()
	if len(cols) != 10 {
		t.Fatalf("expected 10 columns, got %d", len(cols))
	}
	for i, v := range cols {
		if v < 0.08 || v > 0.18 {
			t.Errorf("column %d = %.3f outside idle floor band", i, v)
		}
	}
}

func TestActivityChart_EventsSpikeThenReset(t *testing.T) {
	a := NewActivityChart(42)
	a.Tick(0)

	a.RecordLaunch()
	a.RecordImpact()
	a.RecordImpact()
	for tick := 1; tick <= activitySampleTicks; tick++ {
		a.Tick(tick)
	}

	cols := a.Columns()
	spike := cols[len(cols)-1]
	if spike < 0.5 {
		t.Errorf("column after three events = %.3f, want >= 0.5", spike)
	}

	for tick := activitySampleTicks + 1; tick <= 2*activitySampleTicks; tick++ {
		a.Tick(tick)
	}
	cols = a.Columns()
	after := cols[len(cols)-1]
	if after > 0.18 {
		t.Errorf("column after quiet window = %.3f, accumulator did not reset", after)
	}
}

func TestActivityChart_ColumnsCapAndClamp(t *testing.T) {
	a := NewActivityChart(7)
	for tick := 0; tick < activitySampleTicks*(activityColumns+20); tick++ {
		if tick%3 == 0 {
			a.RecordImpact()
		}
		a.Tick(tick)
	}
	cols := a.Columns()
	if len(cols) != activityColumns {
		t.Errorf("ring should cap at %d columns, got %d", activityColumns, len(cols))
	}
	for i, v := range cols {
		if v < 0 || v > 1 {
			t.Errorf("column %d = %.3f outside [0, 1]", i, v)
		}
	}
}
