package ogn

import (
	"testing"
	"time"
)

func TestParseBeaconPositionLine(t *testing.T) {
	line := "FLRDDA5BA>APRS,qAS,LFMX:/170834h4415.41N/00600.17E'090/081/A=004780 id0ADDA5BA -454fpm"
	now := time.Date(2026, 7, 30, 17, 8, 34, 0, time.UTC)

	obs, err := ParseBeacon(line, now)
	if err != nil {
		t.Fatalf("ParseBeacon: %v", err)
	}
	if obs == nil {
		t.Fatal("expected an observation, got nil")
	}

	if obs.Callsign != "FLRDDA5BA" {
		t.Errorf("callsign = %q, want FLRDDA5BA", obs.Callsign)
	}
	if obs.ICAOAddress != 0x00DDA5BA {
		t.Errorf("icao address = %06X, want DDA5BA", obs.ICAOAddress)
	}
	if obs.PressureAltitudeFt == nil || *obs.PressureAltitudeFt != 4780 {
		t.Errorf("altitude = %v, want 4780", obs.PressureAltitudeFt)
	}
	if obs.TrackDeg != 90 {
		t.Errorf("track = %v, want 90", obs.TrackDeg)
	}
	if obs.GroundSpeedKt != 81 {
		t.Errorf("speed = %v, want 81", obs.GroundSpeedKt)
	}
	if obs.VerticalRateFPM == nil || *obs.VerticalRateFPM != -454 {
		t.Errorf("climb rate = %v, want -454", obs.VerticalRateFPM)
	}
	if obs.Source != "OGN" {
		t.Errorf("source = %q, want OGN", obs.Source)
	}
	if obs.Latitude <= 0 || obs.Longitude <= 0 {
		t.Errorf("expected positive lat/lon for N/E beacon, got %v/%v", obs.Latitude, obs.Longitude)
	}
}

func TestParseBeaconSkipsServerComments(t *testing.T) {
	obs, err := ParseBeacon("# aprsc 2.1.4-g408ed49 1 30 Jul 2026 17:08:34 GMT GLIDERN1.GLIDERNET.ORG", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs != nil {
		t.Error("expected nil observation for a server comment line")
	}
}

func TestParseBeaconSkipsNonPositionLine(t *testing.T) {
	obs, err := ParseBeacon("some random line that is not APRS at all", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs != nil {
		t.Error("expected nil observation for an unmatched line")
	}
}

func TestParseBeaconWithoutIDFallsBackToCallsignHash(t *testing.T) {
	line := "N825V>APRS,qAS,TEST:/170834h3700.00N/12200.00W'045/010/A=001000"
	obs, err := ParseBeacon(line, time.Now())
	if err != nil {
		t.Fatalf("ParseBeacon: %v", err)
	}
	if obs == nil {
		t.Fatal("expected an observation")
	}
	if obs.ICAOAddress == 0 {
		t.Error("expected a non-zero fallback ICAO address")
	}
	if obs.VerticalRateFPM != nil {
		t.Error("expected nil climb rate when comment has none")
	}
}
