// Package patterns provides a small grok-style pattern compiler, shared
// by anything that needs to parse loosely-structured text telemetry
// (APRS-IS beacons, NMEA-ish fragments) into named fields.
package patterns

// BasePatterns defines reusable regex components available to every
// Compiler via {PLACEHOLDER} syntax in a Format's Pattern, before any
// format-local patterns are overlaid on top.
var BasePatterns = map[string]string{
	// Station/callsign identifiers, shared by APRS-IS senders and
	// aircraft registrations alike.
	"CALLSIGN": `[A-Z0-9]{3,9}(?:-\d{1,2})?`,

	// Generic HHMMSS time-of-day: exactly six digits, no suffix (a
	// format that needs one, such as APRS-IS 'h', adds it itself).
	"HMS": `\d{6}`,

	// Generic decimal coordinate, signed.
	"DECIMAL": `-?\d+(?:\.\d+)?`,
}
