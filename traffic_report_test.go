package gdl90

import (
	"bytes"
	"errors"
	"testing"
)

func TestTrafficReportScenario3UnknownIntegrityZeroesPosition(t *testing.T) {
	rec := TrafficRecord{
		Integrity: IntegrityUnknown,
		Latitude:  44.5,
		Longitude: -122.25,
		TrackDeg:  90,
	}
	m := TrafficReport{rec}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got := msg.(TrafficReport)
	if got.Latitude != 0 || got.Longitude != 0 {
		t.Errorf("got lat=%v lon=%v, want 0,0 when integrity is unknown", got.Latitude, got.Longitude)
	}
}

func TestTrafficReportScenario4CallsignPadding(t *testing.T) {
	rec := TrafficRecord{
		Integrity: Integrity8,
		Callsign:  "N825V",
		TrackDeg:  0,
	}
	m := TrafficReport{rec}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// The callsign occupies body bytes 18..25 and is space-padded on the wire.
	_, body, err := deconstruct(frame, true)
	if err != nil {
		t.Fatalf("deconstruct: %v", err)
	}
	bodyBytes, err := body.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.Equal(bodyBytes[18:26], []byte("N825V   ")) {
		t.Errorf("got callsign bytes %q, want %q", bodyBytes[18:26], "N825V   ")
	}

	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got := msg.(TrafficReport)
	if got.Callsign != "N825V" {
		t.Errorf("got callsign %q, want %q", got.Callsign, "N825V")
	}
}

func TestTrafficReportScenario5InvalidCallsign(t *testing.T) {
	rec := TrafficRecord{Callsign: "ab!c"}
	m := TrafficReport{rec}
	if _, err := m.Serialize(false); !errors.Is(err, ErrInvalidCallsign) {
		t.Errorf("got %v, want ErrInvalidCallsign", err)
	}
}

func TestTrafficReportPressureAltitudeClamp(t *testing.T) {
	tooHigh := int32(200000)
	rec := TrafficRecord{
		Integrity:          Integrity8,
		PressureAltitudeFt: &tooHigh,
	}
	m := TrafficReport{rec}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got := msg.(TrafficReport)
	if got.PressureAltitudeFt == nil || *got.PressureAltitudeFt != pressureAltitudeMaxFt {
		t.Errorf("got %v, want clamp to %d", got.PressureAltitudeFt, pressureAltitudeMaxFt)
	}
}

func TestTrafficReportPressureAltitudeAbsent(t *testing.T) {
	rec := TrafficRecord{Integrity: Integrity8}
	m := TrafficReport{rec}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got := msg.(TrafficReport)
	if got.PressureAltitudeFt != nil {
		t.Errorf("got %v, want nil", got.PressureAltitudeFt)
	}
}

func TestTrafficReportHorizontalVelocitySentinels(t *testing.T) {
	maxV := int32(horizontalVelocityMaxExceeded)
	rec := TrafficRecord{Integrity: Integrity8, HorizontalVelocityKt: &maxV}
	m := TrafficReport{rec}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got := msg.(TrafficReport)
	if got.HorizontalVelocityKt == nil || *got.HorizontalVelocityKt != horizontalVelocityMaxExceeded {
		t.Errorf("got %v, want %d", got.HorizontalVelocityKt, horizontalVelocityMaxExceeded)
	}

	// absent
	rec2 := TrafficRecord{Integrity: Integrity8}
	m2 := TrafficReport{rec2}
	frame2, err := m2.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg2, err := ParseMessage(frame2, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got2 := msg2.(TrafficReport)
	if got2.HorizontalVelocityKt != nil {
		t.Errorf("got %v, want nil", got2.HorizontalVelocityKt)
	}
}

func TestTrafficReportVerticalVelocityClamp(t *testing.T) {
	tooFast := int32(40000)
	rec := TrafficRecord{Integrity: Integrity8, VerticalVelocityFPM: &tooFast}
	m := TrafficReport{rec}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got := msg.(TrafficReport)
	if got.VerticalVelocityFPM == nil || *got.VerticalVelocityFPM != verticalVelocityClampedFPM {
		t.Errorf("got %v, want clamp to %d", got.VerticalVelocityFPM, verticalVelocityClampedFPM)
	}

	// re-encoding the clamped value round-trips to the same bits.
	frame2, err := got.Serialize(false)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if string(frame2) != string(frame) {
		t.Errorf("re-encoded frame differs: %x vs %x", frame2, frame)
	}
}

func TestOwnshipReportUsesSameBodyLayout(t *testing.T) {
	rec := TrafficRecord{Integrity: Integrity8, Callsign: "N1TEST", TrackDeg: 180}
	o := OwnshipReport{rec}
	frame, err := o.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if frame[1] != 10 {
		t.Errorf("got message id %d, want 10", frame[1])
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got, ok := msg.(OwnshipReport)
	if !ok {
		t.Fatalf("expected OwnshipReport, got %T", msg)
	}
	if got.Callsign != "N1TEST" {
		t.Errorf("got callsign %q, want %q", got.Callsign, "N1TEST")
	}
}
