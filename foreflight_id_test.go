package gdl90

import "testing"

func TestForeFlightIDRoundTrip(t *testing.T) {
	serial := uint64(123456789)
	m := ForeFlightID{
		DeviceSerialNumber: &serial,
		DeviceName:         "GDL90GO",
		DeviceLongName:     "GDL90GO Receiver", // 16 chars: fills the 128-bit field exactly
		IsMSL:              true,
	}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if frame[1] != 0x65 || frame[2] != 0 {
		t.Fatalf("got ids %x %x, want 0x65 0x00", frame[1], frame[2])
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got, ok := msg.(ForeFlightID)
	if !ok {
		t.Fatalf("expected ForeFlightID, got %T", msg)
	}
	if got.DeviceSerialNumber == nil || *got.DeviceSerialNumber != serial {
		t.Errorf("got serial %v, want %d", got.DeviceSerialNumber, serial)
	}
	if got.DeviceName != m.DeviceName || got.DeviceLongName != m.DeviceLongName || got.IsMSL != m.IsMSL {
		t.Errorf("got %+v, want %+v", got, m)
	}
}

func TestForeFlightIDDeviceLongNameFallsBackToDeviceName(t *testing.T) {
	m := ForeFlightID{DeviceName: "Shortname"}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got := msg.(ForeFlightID)
	if got.DeviceLongName != "Shortname" {
		t.Errorf("got long name %q, want fallback to %q", got.DeviceLongName, "Shortname")
	}
}

func TestForeFlightIDNoSerialNumber(t *testing.T) {
	m := ForeFlightID{DeviceName: "NoSerial"}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got := msg.(ForeFlightID)
	if got.DeviceSerialNumber != nil {
		t.Errorf("got %v, want nil", got.DeviceSerialNumber)
	}
}

func TestDecodeForeFlightIDRejectsFutureVersion(t *testing.T) {
	buf := make([]byte, 0, 37)
	buf = append(buf, 9) // unsupported version
	buf = append(buf, make([]byte, 36)...)
	if _, err := DecodeForeFlightID(buf, true); err == nil {
		t.Error("expected error for unsupported ForeFlight ID version")
	}
}
