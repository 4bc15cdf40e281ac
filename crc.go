package gdl90

// CRC-16-CCITT, polynomial 0x1021, initial value 0x0000, no
// reflection. The 256-entry table is computed once at package
// initialization, mirroring the precomputed-table-and-index style of
// a conventional ARINC CRC implementation, but built and applied per
// the GDL 90 reference algorithm rather than ARINC's: here the table
// is indexed purely by crc>>8 (the byte being processed is folded in
// afterward, not into the index), and the result is emitted
// little-endian rather than big-endian.

var crcTable [256]uint16

func init() {
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc = crc << 1
			}
		}
		crcTable[i] = crc
	}
}

// computeCRC computes the CRC-16-CCITT over data using the GDL 90
// convention.
func computeCRC(data []byte) uint16 {
	var crc uint16
	for _, c := range data {
		m := crc << 8
		crc = crcTable[crc>>8] ^ m ^ uint16(c)
	}
	return crc
}

// computeCRCBytes returns the CRC over data as its two wire bytes,
// low byte first.
func computeCRCBytes(data []byte) [2]byte {
	crc := computeCRC(data)
	return [2]byte{byte(crc), byte(crc >> 8)}
}
