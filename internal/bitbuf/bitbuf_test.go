package bitbuf

import "testing"

func TestAppendPopFrontRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		value uint64
		width int
	}{
		{"single bit set", 1, 1},
		{"single bit clear", 0, 1},
		{"byte", 0xAB, 8},
		{"17 bits", 0x1FFFF, 17},
		{"zero width", 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := New()
			b.Append(c.value, c.width)
			got, err := b.PopFront(c.width)
			if err != nil {
				t.Fatalf("PopFront: %v", err)
			}
			if got != c.value {
				t.Errorf("got %#x, want %#x", got, c.value)
			}
			if b.Len() != 0 {
				t.Errorf("expected buffer drained, got %d bits left", b.Len())
			}
		})
	}
}

func TestBytesRequiresByteAlignment(t *testing.T) {
	b := New()
	b.Append(1, 3)
	if _, err := b.Bytes(); err != ErrNotByteAligned {
		t.Fatalf("expected ErrNotByteAligned, got %v", err)
	}
}

func TestFromBytesAndBytesRoundTrip(t *testing.T) {
	data := []byte{0x00, 0xFF, 0xA5, 0x7E}
	b := FromBytes(data)
	out, err := b.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(out) != string(data) {
		t.Errorf("got %x, want %x", out, data)
	}
}

func TestPopFrontInsufficientBits(t *testing.T) {
	b := New()
	b.Append(1, 4)
	if _, err := b.PopFront(8); err != ErrInsufficientBits {
		t.Fatalf("expected ErrInsufficientBits, got %v", err)
	}
}

func TestConcat(t *testing.T) {
	a := New()
	a.Append(0b101, 3)
	b := New()
	b.Append(0b11, 2)
	a.Concat(b)
	got, err := a.PopFront(5)
	if err != nil {
		t.Fatalf("PopFront: %v", err)
	}
	if got != 0b10111 {
		t.Errorf("got %#b, want %#b", got, 0b10111)
	}
}

func TestMSBFirstPacking(t *testing.T) {
	b := New()
	b.Append(0b1, 1)
	b.Append(0b0000000, 7)
	out, err := b.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if out[0] != 0x80 {
		t.Errorf("got %#x, want 0x80", out[0])
	}
}
