// Package domain models USGS earthquake data and the pure computations the
// service derives from it.
//
// # Data Source
//
// Records originate from the USGS Earthquake Hazards Program. Two upstream
// forms are consumed, both returning GeoJSON:
//
//   - Summary feeds at https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/,
//     named "<tier>_<window>.geojson", e.g. "2.5_week.geojson". Tiers are
//     significant, 4.5, 2.5, 1.0 and all; windows are hour, day, week and month.
//   - The FDSN event service at https://earthquake.usgs.gov/fdsnws/event/1/query,
//     which accepts a center point, radius, magnitude bounds, a date range,
//     an ordering and a limit, or a single event id.
//
// # GeoJSON Conventions
//
// Envelope:
//
//	{"metadata": {"count": 12, ...}, "features": [ ... ]}
//
// Each feature carries "id", "properties" and "geometry". Geometry coordinates
// are ordered [longitude, latitude, depth]: longitude comes first. Depth is in
// kilometres and may be negative for events above sea level.
//
// Properties used:
//
//	mag      magnitude, may be null
//	magType  magnitude scale (ml, md, mb, mww, ...)
//	place    free-text location, e.g. "10 km SW of Tres Pinos, CA"
//	time     origin time, epoch milliseconds
//	updated  last update, epoch milliseconds
//	sig      significance 0-1000, may be null
//	felt     number of "Did You Feel It?" reports, may be null
//	alert    PAGER level: green, yellow, orange, red, or null
//	tsunami  1 when the event is in a tsunami-prone oceanic region
//	url      event page
//
// # Risk Score
//
// The location risk score is a fixed linear heuristic over nearby activity
// counts. The formula and level thresholds are the product's visible output
// and are frozen. See [Assess].
package domain
