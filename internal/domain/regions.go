package domain

import "strings"

// RegionPreset is a named bounding box for regional reports.
type RegionPreset struct {
	Name   string      `json:"name"`
	Label  string      `json:"label"`
	Bounds BoundingBox `json:"bounds"`
}

// regionPresets are ordered for display. Alaska and Fiji-Tonga cross the
// antimeridian and carry LonMin > LonMax.
var regionPresets = []RegionPreset{
	{Name: "california", Label: "California", Bounds: BoundingBox{LatMin: 32.5, LatMax: 42.0, LonMin: -124.5, LonMax: -114.0}},
	{Name: "alaska", Label: "Alaska and the Aleutians", Bounds: BoundingBox{LatMin: 50.0, LatMax: 72.0, LonMin: 172.0, LonMax: -129.0}},
	{Name: "hawaii", Label: "Hawaii", Bounds: BoundingBox{LatMin: 18.0, LatMax: 23.0, LonMin: -161.0, LonMax: -154.0}},
	{Name: "japan", Label: "Japan", Bounds: BoundingBox{LatMin: 24.0, LatMax: 46.0, LonMin: 122.0, LonMax: 146.0}},
	{Name: "indonesia", Label: "Indonesia", Bounds: BoundingBox{LatMin: -11.0, LatMax: 6.0, LonMin: 95.0, LonMax: 141.0}},
	{Name: "chile", Label: "Chile", Bounds: BoundingBox{LatMin: -56.0, LatMax: -17.0, LonMin: -76.0, LonMax: -66.0}},
	{Name: "turkey", Label: "Turkey", Bounds: BoundingBox{LatMin: 36.0, LatMax: 42.0, LonMin: 26.0, LonMax: 45.0}},
	{Name: "new-zealand", Label: "New Zealand", Bounds: BoundingBox{LatMin: -48.0, LatMax: -34.0, LonMin: 166.0, LonMax: 179.0}},
	{Name: "fiji-tonga", Label: "Fiji and Tonga", Bounds: BoundingBox{LatMin: -25.0, LatMax: -12.0, LonMin: 175.0, LonMax: -172.0}},
}

// RegionPresets returns a copy of the preset catalog.
func RegionPresets() []RegionPreset {
	out := make([]RegionPreset, len(regionPresets))
	copy(out, regionPresets)
	return out
}

// LookupRegion finds a preset by name, case-insensitively.
func LookupRegion(name string) (RegionPreset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range regionPresets {
		if p.Name == name {
			return p, true
		}
	}
	return RegionPreset{}, false
}
