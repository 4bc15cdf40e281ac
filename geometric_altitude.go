package gdl90

import "gdl90/internal/bitbuf"

const vfomUnavailable = 0x7FFF
const vfomMaxExceeded = 0x7FFE
const vfomMaxExceededThreshold = 32766

// OwnshipGeometricAltitude (message ID 11) reports WGS-84 geometric
// altitude and its vertical figure of merit.
type OwnshipGeometricAltitude struct {
	AltitudeFt       int32 // 5 ft/LSB resolution
	VerticalWarning  bool
	// VFOMMeters is the vertical figure of merit in meters. A nil
	// value encodes as "unavailable" (sentinel 0x7FFF); a value at or
	// above 32766 encodes as "exceeds maximum" (sentinel 0x7FFE).
	VFOMMeters *int32
}

var ownshipGeometricAltitudeMessageID = ID1(11)

func (m OwnshipGeometricAltitude) MessageIDs() []byte { return []byte{11} }

func (m OwnshipGeometricAltitude) Serialize(outgoingLSB bool) ([]byte, error) {
	buf := bitbuf.New()
	if err := appendIntScaled(buf, float64(m.AltitudeFt), 5, 16); err != nil {
		return nil, err
	}
	appendBool(buf, m.VerticalWarning)

	switch {
	case m.VFOMMeters == nil:
		buf.Append(vfomUnavailable, 15)
	case *m.VFOMMeters >= vfomMaxExceededThreshold:
		buf.Append(vfomMaxExceeded, 15)
	default:
		if err := appendUint(buf, int64(*m.VFOMMeters), 15, true); err != nil {
			return nil, err
		}
	}
	return build(m.MessageIDs(), buf, outgoingLSB)
}

func DecodeOwnshipGeometricAltitude(data []byte, incomingMSB bool) (Message, error) {
	buf := bitbuf.FromBytes(data)

	altitude, err := popIntScaled(buf, 16, 5)
	if err != nil {
		return nil, err
	}
	verticalWarning, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	vfomRaw, err := buf.PopFront(15)
	if err != nil {
		return nil, err
	}
	if buf.Len() != 0 {
		return nil, fErr(ErrDataTooLong, "%d bits remaining", buf.Len())
	}

	msg := OwnshipGeometricAltitude{
		AltitudeFt:      int32(altitude),
		VerticalWarning: verticalWarning,
	}
	if vfomRaw != vfomUnavailable {
		vfom := int32(vfomRaw)
		if vfomRaw == vfomMaxExceeded {
			vfom = vfomMaxExceededThreshold
		}
		msg.VFOMMeters = &vfom
	}
	return msg, nil
}

func init() {
	Register(ownshipGeometricAltitudeMessageID, DecodeOwnshipGeometricAltitude)
}
