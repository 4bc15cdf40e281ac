package gdl90

import "testing"

func TestCRCAgreement(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0x00, 0x81, 0x41, 0xDB, 0xD0, 0x08, 0x02},
		{0x7E, 0x7D, 0x01, 0x02, 0x03},
	}
	for _, data := range cases {
		crc := computeCRCBytes(data)
		recomputed := computeCRCBytes(data)
		if crc != recomputed {
			t.Errorf("CRC not stable across calls for %x", data)
		}
	}
}

func TestCRCDiffersOnCorruption(t *testing.T) {
	data := []byte{0x00, 0x81, 0x41, 0xDB, 0xD0, 0x08, 0x02}
	original := computeCRCBytes(data)
	corrupted := append([]byte(nil), data...)
	corrupted[len(corrupted)-1] ^= 0xFF
	if computeCRCBytes(corrupted) == original {
		t.Errorf("expected CRC to change when data is corrupted")
	}
}
