package game

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

//go:embed data/*.json
var worldFiles embed.FS

// embeddedWorldPath is the dataset shipped with the binary.
const embeddedWorldPath = "data/world.json"

var (
	// ErrNoTerritories means the dataset contained no usable features.
	ErrNoTerritories = errors.New("world geometry has no usable territories")
)

// rawFeature is one territory as it appears on the wire: polygons are rings
// of [lon, lat] pairs.
type rawFeature struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Polygons [][][2]float64 `json:"polygons"`
}

// rawWorld is the wire format of the world-geometry dataset.
type rawWorld struct {
	Features []rawFeature `json:"features"`
}

// WorldMap is the processed, immutable territory set.
type WorldMap struct {
	Territories []*Territory
	Skipped     int // features dropped during validation
	byID        map[string]*Territory
}

// LoadEmbeddedWorld parses the dataset compiled into the binary.
func LoadEmbeddedWorld() (*WorldMap, error) {
	data, err := worldFiles.ReadFile(embeddedWorldPath)
	if err != nil {
		return nil, fmt.Errorf("read embedded world: %w", err)
	}
	return ParseWorld(data)
}

// FetchWorld performs the one-shot remote geometry fetch. There is no retry:
// a failure leaves the caller uninitialised and is the caller's to report.
func FetchWorld(url string) (*WorldMap, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch world geometry: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch world geometry: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch world geometry: %w", err)
	}
	return ParseWorld(data)
}

// ParseWorld decodes and validates a raw dataset. Features with no usable
// ring (fewer than 3 vertices) or a missing identifier are skipped and
// counted, not fatal. An entirely empty result is an error.
func ParseWorld(data []byte) (*WorldMap, error) {
	var raw rawWorld
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode world geometry: %w", err)
	}

	wm := &WorldMap{byID: make(map[string]*Territory, len(raw.Features))}
	for _, f := range raw.Features {
		t, ok := processFeature(f)
		if !ok {
			wm.Skipped++
			continue
		}
		if _, dup := wm.byID[t.ID]; dup {
			wm.Skipped++
			continue
		}
		wm.Territories = append(wm.Territories, t)
		wm.byID[t.ID] = t
	}
	if len(wm.Territories) == 0 {
		return nil, ErrNoTerritories
	}
	return wm, nil
}

// processFeature converts one raw feature, dropping malformed rings.
func processFeature(f rawFeature) (*Territory, bool) {
	if f.ID == "" || f.Name == "" {
		return nil, false
	}
	t := &Territory{ID: f.ID, Name: f.Name}
	for _, rawRing := range f.Polygons {
		if len(rawRing) < 3 {
			continue
		}
		ring := make([]LatLon, len(rawRing))
		for i, pt := range rawRing {
			ring[i] = LatLon{Lon: pt[0], Lat: pt[1]}
		}
		t.Polygons = append(t.Polygons, ring)
	}
	if len(t.Polygons) == 0 {
		return nil, false
	}
	// Centroid of the largest ring anchors labels and conflict paths.
	largest := t.Polygons[0]
	for _, ring := range t.Polygons[1:] {
		if len(ring) > len(largest) {
			largest = ring
		}
	}
	t.Centroid = polygonCentroid(largest)
	return t, true
}

// ByID looks a territory up by identifier.
func (wm *WorldMap) ByID(id string) (*Territory, bool) {
	t, ok := wm.byID[id]
	return t, ok
}

// HitTest returns the first territory containing the point in dataset order,
// or nil. Dataset order is the deliberate tie-break for overlapping edges.
func (wm *WorldMap) HitTest(p LatLon) *Territory {
	for _, t := range wm.Territories {
		if t.Contains(p) {
			return t
		}
	}
	return nil
}
