package gdl90

import (
	"bytes"
	"testing"
)

func TestHeightAboveTerrainScenario2NilEncodesSentinel(t *testing.T) {
	m := HeightAboveTerrain{}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	// flag, id(9), sentinel hi, sentinel lo, crc(2), flag
	body := frame[1 : len(frame)-3]
	want := []byte{9, 0x80, 0x00}
	if !bytes.Equal(body, want) {
		t.Errorf("got body %x, want %x", body, want)
	}
}

func TestHeightAboveTerrainRoundTrip(t *testing.T) {
	for _, lsb := range []bool{false, true} {
		h := int16(-500)
		m := HeightAboveTerrain{HeightFt: &h}
		frame, err := m.Serialize(lsb)
		if err != nil {
			t.Fatalf("Serialize(lsb=%v): %v", lsb, err)
		}
		msg, err := ParseMessage(frame, !lsb, false)
		if err != nil {
			t.Fatalf("ParseMessage(lsb=%v): %v", lsb, err)
		}
		got, ok := msg.(HeightAboveTerrain)
		if !ok {
			t.Fatalf("expected HeightAboveTerrain, got %T", msg)
		}
		if got.HeightFt == nil || *got.HeightFt != h {
			t.Errorf("lsb=%v: got %v, want %d", lsb, got.HeightFt, h)
		}
	}
}

func TestHeightAboveTerrainNilRoundTrip(t *testing.T) {
	m := HeightAboveTerrain{}
	frame, err := m.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	msg, err := ParseMessage(frame, true, false)
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	got, ok := msg.(HeightAboveTerrain)
	if !ok {
		t.Fatalf("expected HeightAboveTerrain, got %T", msg)
	}
	if got.HeightFt != nil {
		t.Errorf("got %v, want nil", got.HeightFt)
	}
}
