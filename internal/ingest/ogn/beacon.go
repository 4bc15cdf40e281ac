// Package ogn ingests aircraft position beacons from the Open Glider
// Network's APRS-IS feed and republishes them as traffic observations.
package ogn

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"gdl90"
	"gdl90/internal/patterns"
	"gdl90/internal/traffic"
)

// beaconCompiler describes the APRS position-beacon line grammar OGN
// uses, e.g.:
//
//	FLRDDA5BA>APRS,qAS,LFMX:/170834h4415.41N/00600.17E'090/081/A=004780 id0ADDA5BA -454fpm
//
// Compiler.Parse upper-cases the line before matching, so the letters
// in this grammar (and in the comment patterns below) are upper case.
var beaconCompiler = patterns.NewCompiler([]patterns.Format{
	{
		Name: "ogn_position",
		Pattern: `^(?P<sender>{OGNSENDER})>APRS,(?P<path>[^:]+):/(?P<time>{OGNTIME})H` +
			`(?P<lat>{OGNLAT})(?P<latdir>[NS]).(?P<lon>{OGNLON})(?P<londir>[EW]).` +
			`(?P<course>\d{3})/(?P<speed>\d{3})/A=(?P<alt>\d{6})(?P<comment>.*)$`,
		Fields: []string{"sender", "path", "time", "lat", "latdir", "lon", "londir", "course", "speed", "alt", "comment"},
	},
}, map[string]string{
	"OGNSENDER": `[A-Z0-9]{3,9}`,
	"OGNTIME":   `\d{6}`,
	"OGNLAT":    `\d{4}\.\d{2}`,
	"OGNLON":    `\d{5}\.\d{2}`,
})

var (
	ognIDPattern = regexp.MustCompile(`\bID([0-9A-F]{8})\b`)
	climbRatePat = regexp.MustCompile(`([+-]\d+)FPM`)
)

func init() {
	if err := beaconCompiler.Compile(); err != nil {
		panic("ogn: bad beacon pattern: " + err.Error())
	}
}

// ParseBeacon parses a single raw APRS-IS line into a traffic
// observation. It returns (nil, nil) for lines that are not aircraft
// position beacons (comments, server status lines, and the like) so
// the ingest loop can simply skip them.
func ParseBeacon(line string, now time.Time) (*traffic.Observation, error) {
	if line == "" || line[0] == '#' {
		return nil, nil
	}

	m := beaconCompiler.Parse(line)
	if m == nil {
		return nil, nil
	}

	altFt, err := strconv.Atoi(m.Captures["alt"])
	if err != nil {
		return nil, fmt.Errorf("parse altitude: %w", err)
	}
	speed, err := strconv.Atoi(m.Captures["speed"])
	if err != nil {
		return nil, fmt.Errorf("parse speed: %w", err)
	}
	course, err := strconv.Atoi(m.Captures["course"])
	if err != nil {
		return nil, fmt.Errorf("parse course: %w", err)
	}

	lat := patterns.ParseLatitude(m.Captures["lat"], m.Captures["latdir"])
	lon := patterns.ParseLongitude(m.Captures["lon"], m.Captures["londir"])

	obs := &traffic.Observation{
		ICAOAddress:        icaoFromComment(m.Captures["comment"], m.Captures["sender"]),
		Callsign:           m.Captures["sender"],
		Latitude:           lat,
		Longitude:          lon,
		PressureAltitudeFt: intPtr(altFt),
		TrackDeg:           float64(course),
		GroundSpeedKt:      float64(speed),
		EmitterCategory:    gdl90.EmitterCategoryGliderSailplane,
		Source:             "OGN",
		ObservedAt:         now,
	}

	if rate, ok := parseClimbRateFPM(m.Captures["comment"]); ok {
		obs.VerticalRateFPM = intPtr(rate)
	}

	return obs, nil
}

// icaoFromComment extracts the 24-bit ICAO-ish address OGN embeds in
// the beacon comment (e.g. "id0ADDA5BA"), falling back to hashing the
// sender callsign when no id is present so the aircraft still gets a
// stable tracking key.
func icaoFromComment(comment, sender string) uint32 {
	if match := ognIDPattern.FindStringSubmatch(comment); match != nil {
		if v, err := strconv.ParseUint(match[1], 16, 32); err == nil {
			return uint32(v) & 0x00FFFFFF
		}
	}
	return fnv32(sender) & 0x00FFFFFF
}

func parseClimbRateFPM(comment string) (int, bool) {
	match := climbRatePat.FindStringSubmatch(comment)
	if match == nil {
		return 0, false
	}
	v, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

func intPtr(i int) *int32 {
	v := int32(i)
	return &v
}

// fnv32 is a tiny stable string hash, used only as a last-resort
// tracking key when a beacon carries no explicit ICAO-style id.
func fnv32(s string) uint32 {
	const offset32 = 2166136261
	const prime32 = 16777619
	h := uint32(offset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= prime32
	}
	return h
}
