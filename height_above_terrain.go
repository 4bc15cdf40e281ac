package gdl90

import "gdl90/internal/bitbuf"

const heightAboveTerrainSentinel = 0x8000

// HeightAboveTerrain (message ID 9) reports height above terrain in
// feet. A nil HeightFt encodes as the sentinel 0x8000.
type HeightAboveTerrain struct {
	HeightFt *int16
}

var heightAboveTerrainMessageID = ID1(9)

func (m HeightAboveTerrain) MessageIDs() []byte { return []byte{9} }

func (m HeightAboveTerrain) Serialize(outgoingLSB bool) ([]byte, error) {
	buf := bitbuf.New()
	if m.HeightFt == nil {
		buf.Append(heightAboveTerrainSentinel, 16)
	} else {
		if err := appendInt(buf, int64(*m.HeightFt), 16, false); err != nil {
			return nil, err
		}
	}
	return build(m.MessageIDs(), buf, outgoingLSB)
}

func DecodeHeightAboveTerrain(data []byte, incomingMSB bool) (Message, error) {
	buf := bitbuf.FromBytes(data)
	raw, err := buf.PopFront(16)
	if err != nil {
		return nil, err
	}
	if buf.Len() != 0 {
		return nil, fErr(ErrDataTooLong, "%d bits remaining", buf.Len())
	}
	if raw == heightAboveTerrainSentinel {
		return HeightAboveTerrain{}, nil
	}
	signed := int16(raw)
	return HeightAboveTerrain{HeightFt: &signed}, nil
}

func init() {
	Register(heightAboveTerrainMessageID, DecodeHeightAboveTerrain)
}
