// Command crctest exercises the GDL-90 codec end to end: it builds a
// handful of sample frames, serializes them, re-parses the bytes, and
// checks that it decodes to the same message type with the same key
// fields (the Heartbeat's two status flags, a report's address). No flags.
package main

import (
	"fmt"
	"os"
	"time"

	"gdl90"
)

func main() {
	failures := 0

	for _, name := range []string{"heartbeat", "traffic-report", "ownship-report"} {
		var err error
		switch name {
		case "heartbeat":
			err = roundTripHeartbeat()
		case "traffic-report":
			err = roundTripTrafficReport()
		case "ownship-report":
			err = roundTripOwnshipReport()
		}
		if err != nil {
			fmt.Printf("FAIL %-16s %v\n", name, err)
			failures++
		} else {
			fmt.Printf("PASS %-16s\n", name)
		}
	}

	if failures > 0 {
		fmt.Printf("\n%d of 3 round trips failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("\nall round trips passed")
}

func roundTripHeartbeat() error {
	hb := gdl90.Heartbeat{
		GPSPositionValid: true,
		UATInitialized:   true,
		Timestamp:        time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC),
	}
	frame, err := hb.Serialize(false)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	msgs, err := gdl90.ParseMessages(frame, false, false)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if len(msgs) != 1 {
		return fmt.Errorf("got %d messages, want 1", len(msgs))
	}
	got, ok := msgs[0].(gdl90.Heartbeat)
	if !ok {
		return fmt.Errorf("decoded message is %T, want gdl90.Heartbeat", msgs[0])
	}
	if got.GPSPositionValid != hb.GPSPositionValid || got.UATInitialized != hb.UATInitialized {
		return fmt.Errorf("decoded flags mismatch: %+v", got)
	}
	return nil
}

func roundTripTrafficReport() error {
	altitude := int32(4500)
	velocity := int32(120)
	tr := gdl90.TrafficReport{TrafficRecord: gdl90.TrafficRecord{
		AddressType:        gdl90.AddressTypeADSBWithICAOAddress,
		Address:             0xA12345,
		Latitude:            37.615223,
		Longitude:           -122.389977,
		PressureAltitudeFt:  &altitude,
		Airborne:            true,
		TrackType:           gdl90.TrackTypeTrueTrackAngle,
		Integrity:           gdl90.Integrity8,
		Accuracy:            gdl90.Accuracy8,
		HorizontalVelocityKt: &velocity,
		TrackDeg:            270,
		EmitterCategory:     gdl90.EmitterCategoryLight,
		Callsign:            "N825V",
	}}
	frame, err := tr.Serialize(false)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	msgs, err := gdl90.ParseMessages(frame, false, false)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if len(msgs) != 1 {
		return fmt.Errorf("got %d messages, want 1", len(msgs))
	}
	got, ok := msgs[0].(gdl90.TrafficReport)
	if !ok {
		return fmt.Errorf("decoded message is %T, want gdl90.TrafficReport", msgs[0])
	}
	if got.Address != tr.Address {
		return fmt.Errorf("decoded address = %06X, want %06X", got.Address, tr.Address)
	}
	return nil
}

func roundTripOwnshipReport() error {
	velocity := int32(95)
	or := gdl90.OwnshipReport{TrafficRecord: gdl90.TrafficRecord{
		AddressType:          gdl90.AddressTypeADSBWithICAOAddress,
		Address:              0x7C4AE1,
		Latitude:             33.9425,
		Longitude:            -118.408,
		Airborne:             true,
		TrackType:            gdl90.TrackTypeTrueTrackAngle,
		Integrity:            gdl90.Integrity8,
		Accuracy:             gdl90.Accuracy8,
		HorizontalVelocityKt: &velocity,
		TrackDeg:             90,
		EmitterCategory:      gdl90.EmitterCategoryLight,
		Callsign:             "N1234Z",
	}}
	frame, err := or.Serialize(false)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	msgs, err := gdl90.ParseMessages(frame, false, false)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if len(msgs) != 1 {
		return fmt.Errorf("got %d messages, want 1", len(msgs))
	}
	got, ok := msgs[0].(gdl90.OwnshipReport)
	if !ok {
		return fmt.Errorf("decoded message is %T, want gdl90.OwnshipReport", msgs[0])
	}
	if got.Address != or.Address {
		return fmt.Errorf("decoded address = %06X, want %06X", got.Address, or.Address)
	}
	return nil
}
