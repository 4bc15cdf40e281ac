package gdl90

import "gdl90/internal/bitbuf"

const (
	rollPitchResDeg     = 0.1
	rollPitchMaxDeg     = 180
	rollPitchSentinel   = 0x7FFF
	headingResDeg       = 0.1
	headingSentinel     = 0xFFFF
	airspeedSentinel    = 0xFFFF
)

// ForeFlightAHRS (message ID 0x65, 1) carries attitude and airspeed
// data for ForeFlight's synthetic AHRS display.
type ForeFlightAHRS struct {
	// RollDeg and PitchDeg are nil when unavailable or outside
	// +/-180 degrees.
	RollDeg  *float64
	PitchDeg *float64
	// HeadingDeg is nil when unavailable.
	HeadingDeg        *float64
	IsMagneticHeading bool
	// IndicatedAirspeedKt and TrueAirspeedKt are nil when unavailable.
	IndicatedAirspeedKt *int16
	TrueAirspeedKt      *int16
}

var foreFlightAHRSMessageID = ID2(0x65, 1)

func (m ForeFlightAHRS) MessageIDs() []byte { return []byte{0x65, 1} }

func appendRollPitch(buf *bitbuf.Buffer, value *float64) {
	if value == nil || *value < -rollPitchMaxDeg || *value > rollPitchMaxDeg {
		buf.Append(rollPitchSentinel, 16)
		return
	}
	raw := int64(*value / rollPitchResDeg)
	mask := uint64(1)<<16 - 1
	buf.Append(uint64(raw)&mask, 16)
}

func popRollPitch(buf *bitbuf.Buffer) (*float64, error) {
	raw, err := buf.PopFront(16)
	if err != nil {
		return nil, err
	}
	if raw == rollPitchSentinel {
		return nil, nil
	}
	signed := int16(raw)
	v := float64(signed) * rollPitchResDeg
	return &v, nil
}

func (m ForeFlightAHRS) Serialize(outgoingLSB bool) ([]byte, error) {
	buf := bitbuf.New()

	appendRollPitch(buf, m.RollDeg)
	appendRollPitch(buf, m.PitchDeg)

	if m.HeadingDeg == nil {
		buf.Append(headingSentinel, 16)
	} else {
		raw := int64(*m.HeadingDeg / headingResDeg)
		var magBit uint64
		if m.IsMagneticHeading {
			magBit = 1
		}
		mask := uint64(1)<<15 - 1
		combined := (magBit << 15) | (uint64(raw) & mask)
		buf.Append(combined, 16)
	}

	if err := appendAirspeed(buf, m.IndicatedAirspeedKt); err != nil {
		return nil, err
	}
	if err := appendAirspeed(buf, m.TrueAirspeedKt); err != nil {
		return nil, err
	}

	buf.Append(0, 8) // reserved, pads body to the 11-byte wire size

	return build(m.MessageIDs(), buf, outgoingLSB)
}

func appendAirspeed(buf *bitbuf.Buffer, value *int16) error {
	if value == nil {
		buf.Append(airspeedSentinel, 16)
		return nil
	}
	return appendInt(buf, int64(*value), 16, true)
}

func popAirspeed(buf *bitbuf.Buffer) (*int16, error) {
	raw, err := buf.PopFront(16)
	if err != nil {
		return nil, err
	}
	if raw == airspeedSentinel {
		return nil, nil
	}
	v := int16(raw)
	return &v, nil
}

func DecodeForeFlightAHRS(data []byte, incomingMSB bool) (Message, error) {
	buf := bitbuf.FromBytes(data)

	roll, err := popRollPitch(buf)
	if err != nil {
		return nil, err
	}
	pitch, err := popRollPitch(buf)
	if err != nil {
		return nil, err
	}

	headingRaw, err := buf.PopFront(16)
	if err != nil {
		return nil, err
	}

	indicatedAirspeed, err := popAirspeed(buf)
	if err != nil {
		return nil, err
	}
	trueAirspeed, err := popAirspeed(buf)
	if err != nil {
		return nil, err
	}

	if _, err := buf.PopFront(8); err != nil { // reserved
		return nil, err
	}
	if buf.Len() != 0 {
		return nil, fErr(ErrDataTooLong, "%d bits remaining", buf.Len())
	}

	msg := ForeFlightAHRS{
		RollDeg:             roll,
		PitchDeg:            pitch,
		IndicatedAirspeedKt: indicatedAirspeed,
		TrueAirspeedKt:      trueAirspeed,
	}
	if headingRaw != headingSentinel {
		isMagnetic := headingRaw&0x8000 != 0
		raw15 := headingRaw & 0x7FFF
		signBit := uint64(1) << 14
		var signed int64
		if raw15&signBit != 0 {
			signed = int64(raw15) - (1 << 15)
		} else {
			signed = int64(raw15)
		}
		heading := float64(signed) * headingResDeg
		msg.HeadingDeg = &heading
		msg.IsMagneticHeading = isMagnetic
	}

	return msg, nil
}

func init() {
	Register(foreFlightAHRSMessageID, DecodeForeFlightAHRS)
}
