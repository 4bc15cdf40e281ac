package gdl90

import (
	"bytes"
	"testing"

	"gdl90/internal/bitbuf"
)

func TestEscapeUnescapeInvolution(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00, 0x01, 0x02},
		{0x7E},
		{0x7D},
		{0x7E, 0x7D, 0x7E},
		{0x00, 0x7D, 0x20, 0xFF},
	}
	for _, data := range cases {
		escaped := escape(data)
		got, err := unescape(escaped)
		if err != nil {
			t.Fatalf("unescape(escape(%x)): %v", data, err)
		}
		if !bytes.Equal(got, data) {
			t.Errorf("unescape(escape(%x)) = %x, want %x", data, got, data)
		}
	}
}

func TestUnescapeTrailingLoneEscapeByteFails(t *testing.T) {
	if _, err := unescape([]byte{0x01, 0x7D}); err == nil {
		t.Error("expected error for trailing lone escape byte")
	}
}

func TestEscapeNeverEmitsLoneFlagOrEscapeBytes(t *testing.T) {
	data := []byte{0x7E, 0x01, 0x7D, 0x02, 0x7E, 0x7E}
	escaped := escape(data)
	for i, b := range escaped {
		if b == flagByte {
			t.Fatalf("escaped buffer contains a bare flag byte at %d", i)
		}
		if b == escapeByte {
			if i+1 >= len(escaped) {
				t.Fatalf("escape byte at end of buffer with no follower")
			}
		}
	}
}

func TestBitReverseInvolution(t *testing.T) {
	data := []byte{0x00, 0xFF, 0xA5, 0x01, 0x80}
	if !bytes.Equal(reverseBits(reverseBits(data)), data) {
		t.Errorf("reverseBits is not involutive")
	}
}

func TestBuildDeconstructRoundTrip(t *testing.T) {
	for _, lsb := range []bool{false, true} {
		buf := bitbuf.New()
		buf.Append(0xABCD, 16)
		frame, err := build([]byte{0x00}, buf, lsb)
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if frame[0] != flagByte || frame[len(frame)-1] != flagByte {
			t.Fatalf("frame not bounded by flag bytes: %x", frame)
		}

		ids, body, err := deconstruct(frame, !lsb)
		if err != nil {
			t.Fatalf("deconstruct: %v", err)
		}
		if len(ids) != 1 || ids[0] != 0x00 {
			t.Errorf("got ids %v, want [0x00]", ids)
		}
		v, err := body.PopFront(16)
		if err != nil {
			t.Fatalf("PopFront: %v", err)
		}
		if v != 0xABCD {
			t.Errorf("got body %#x, want 0xABCD", v)
		}
	}
}

func TestDeconstructForeFlightSubID(t *testing.T) {
	buf := bitbuf.New()
	buf.Append(0x1234, 16)
	frame, err := build([]byte{0x65, 0x01}, buf, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ids, _, err := deconstruct(frame, true)
	if err != nil {
		t.Fatalf("deconstruct: %v", err)
	}
	if len(ids) != 2 || ids[0] != 0x65 || ids[1] != 0x01 {
		t.Errorf("got ids %v, want [0x65 0x01]", ids)
	}
}

func TestDeconstructMissingFlagBytes(t *testing.T) {
	if _, _, err := deconstruct([]byte{0x01, 0x02, 0x03}, true); err == nil {
		t.Error("expected error for missing flag bytes")
	}
}

func TestDeconstructInvalidCRC(t *testing.T) {
	buf := bitbuf.New()
	buf.Append(0xABCD, 16)
	frame, err := build([]byte{0x00}, buf, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	frame[len(frame)-2] ^= 0xFF
	if _, _, err := deconstruct(frame, true); err == nil {
		t.Error("expected InvalidCRC error")
	}
}
