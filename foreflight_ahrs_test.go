package gdl90

import "testing"

func TestForeFlightAHRSRoundTrip(t *testing.T) {
	roll := 12.3
	pitch := -4.5
	heading := 271.0
	ias := int16(95)
	tas := int16(102)
	m := ForeFlightAHRS{
		RollDeg:             &roll,
		PitchDeg:            &pitch,
		HeadingDeg:          &heading,
		IsMagneticHeading:   true,
		IndicatedAirspeedKt: &ias,
		TrueAirspeedKt:      &tas,
	}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if frame[1] != 0x65 || frame[2] != 1 {
		t.Fatalf("got ids %x %x, want 0x65 0x01", frame[1], frame[2])
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got, ok := msg.(ForeFlightAHRS)
	if !ok {
		t.Fatalf("expected ForeFlightAHRS, got %T", msg)
	}
	if got.RollDeg == nil || *got.RollDeg != roll {
		t.Errorf("got roll %v, want %v", got.RollDeg, roll)
	}
	if got.PitchDeg == nil || *got.PitchDeg != pitch {
		t.Errorf("got pitch %v, want %v", got.PitchDeg, pitch)
	}
	if got.HeadingDeg == nil || *got.HeadingDeg != heading {
		t.Errorf("got heading %v, want %v", got.HeadingDeg, heading)
	}
	if !got.IsMagneticHeading {
		t.Error("expected IsMagneticHeading to round-trip true")
	}
	if got.IndicatedAirspeedKt == nil || *got.IndicatedAirspeedKt != ias {
		t.Errorf("got IAS %v, want %d", got.IndicatedAirspeedKt, ias)
	}
	if got.TrueAirspeedKt == nil || *got.TrueAirspeedKt != tas {
		t.Errorf("got TAS %v, want %d", got.TrueAirspeedKt, tas)
	}
}

func TestForeFlightAHRSAllUnavailable(t *testing.T) {
	m := ForeFlightAHRS{}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got := msg.(ForeFlightAHRS)
	if got.RollDeg != nil || got.PitchDeg != nil || got.HeadingDeg != nil ||
		got.IndicatedAirspeedKt != nil || got.TrueAirspeedKt != nil {
		t.Errorf("got %+v, want all nil", got)
	}
}

func TestForeFlightAHRSRollOutOfRangeEncodesSentinel(t *testing.T) {
	outOfRange := 200.0
	m := ForeFlightAHRS{RollDeg: &outOfRange}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got := msg.(ForeFlightAHRS)
	if got.RollDeg != nil {
		t.Errorf("got %v, want nil for roll outside +/-180 degrees", got.RollDeg)
	}
}
