package gdl90

import (
	"testing"
	"time"
)

func TestHeartbeatScenario1(t *testing.T) {
	h := Heartbeat{
		UATInitialized: true,
		Timestamp:      time.Date(0, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	frame, err := h.Serialize(false)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if frame[0] != flagByte {
		t.Fatalf("frame does not start with flag byte: %x", frame)
	}
	if frame[len(frame)-1] != flagByte {
		t.Fatalf("frame does not end with flag byte: %x", frame)
	}
	if frame[1] != 0x00 || frame[2] != 0x01 {
		t.Fatalf("frame = %x, want to start with 0x7E 0x00 0x01", frame)
	}

	payload := frame[1 : len(frame)-3]
	receivedCRC := [2]byte{frame[len(frame)-3], frame[len(frame)-2]}
	if computeCRCBytes(payload) != receivedCRC {
		t.Errorf("CRC mismatch: frame's CRC does not match CRC16-CCITT(id||body)")
	}
}

func TestHeartbeatRoundTrip(t *testing.T) {
	h := Heartbeat{
		GPSPositionValid:       true,
		UATInitialized:         true,
		UTCTimingValid:         true,
		CSARequested:           true,
		Timestamp:              time.Date(0, 1, 1, 13, 45, 31, 0, time.UTC),
		UplinkMessagesCount:    17,
		BasicLongMessagesCount: 511,
	}

	for _, lsb := range []bool{false, true} {
		frame, err := h.Serialize(lsb)
		if err != nil {
			t.Fatalf("Serialize(lsb=%v): %v", lsb, err)
		}
		msg, err := ParseMessage(frame, !lsb, false)
		if err != nil {
			t.Fatalf("ParseMessage(lsb=%v): %v", lsb, err)
		}
		got, ok := msg.(Heartbeat)
		if !ok {
			t.Fatalf("expected Heartbeat, got %T", msg)
		}
		if got.GPSPositionValid != h.GPSPositionValid ||
			got.UATInitialized != h.UATInitialized ||
			got.UTCTimingValid != h.UTCTimingValid ||
			got.CSARequested != h.CSARequested ||
			got.UplinkMessagesCount != h.UplinkMessagesCount ||
			got.BasicLongMessagesCount != h.BasicLongMessagesCount {
			t.Errorf("round trip mismatch (lsb=%v): got %+v, want %+v", lsb, got, h)
		}
		if got.Timestamp.Hour() != h.Timestamp.Hour() ||
			got.Timestamp.Minute() != h.Timestamp.Minute() ||
			got.Timestamp.Second() != h.Timestamp.Second() {
			t.Errorf("timestamp mismatch (lsb=%v): got %v, want %v", lsb, got.Timestamp, h.Timestamp)
		}
	}
}
