package gdl90

import "gdl90/internal/bitbuf"

const foreFlightIDVersion = 1
const deviceSerialNumberSentinel = 0xFFFFFFFFFFFFFFFF

// ForeFlightID (message ID 0x65, 0) identifies the transmitting
// device to ForeFlight.
type ForeFlightID struct {
	// DeviceSerialNumber is nil when the device has no serial number.
	DeviceSerialNumber *uint64
	DeviceName         string
	// DeviceLongName falls back to DeviceName when empty.
	DeviceLongName string
	IsMSL          bool
}

var foreFlightIDMessageID = ID2(0x65, 0)

func (m ForeFlightID) MessageIDs() []byte { return []byte{0x65, 0} }

func (m ForeFlightID) Serialize(outgoingLSB bool) ([]byte, error) {
	buf := bitbuf.New()

	if err := appendUint(buf, foreFlightIDVersion, 8, false); err != nil {
		return nil, err
	}

	if m.DeviceSerialNumber == nil {
		buf.Append(deviceSerialNumberSentinel, 64)
	} else {
		buf.Append(*m.DeviceSerialNumber, 64)
	}

	appendString(buf, m.DeviceName, 64)

	longName := m.DeviceLongName
	if longName == "" {
		longName = m.DeviceName
	}
	appendString(buf, longName, 128)

	buf.Append(0, 7) // reserved
	appendBool(buf, m.IsMSL)
	buf.Append(0, 24) // reserved

	return build(m.MessageIDs(), buf, outgoingLSB)
}

func DecodeForeFlightID(data []byte, incomingMSB bool) (Message, error) {
	buf := bitbuf.FromBytes(data)

	version, err := buf.PopFront(8)
	if err != nil {
		return nil, err
	}
	if version != foreFlightIDVersion {
		return nil, fErr(ErrInvalidMessageID, "unsupported ForeFlight ID version %d", version)
	}

	serialRaw, err := buf.PopFront(64)
	if err != nil {
		return nil, err
	}

	deviceName, err := popString(buf, 64)
	if err != nil {
		return nil, err
	}
	deviceLongName, err := popString(buf, 128)
	if err != nil {
		return nil, err
	}

	if _, err := buf.PopFront(7); err != nil { // reserved
		return nil, err
	}
	isMSL, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	if _, err := buf.PopFront(24); err != nil { // reserved
		return nil, err
	}

	if buf.Len() != 0 {
		return nil, fErr(ErrDataTooLong, "%d bits remaining", buf.Len())
	}

	msg := ForeFlightID{
		DeviceName:     deviceName,
		DeviceLongName: deviceLongName,
		IsMSL:          isMSL,
	}
	if serialRaw != deviceSerialNumberSentinel {
		msg.DeviceSerialNumber = &serialRaw
	}
	return msg, nil
}

func init() {
	Register(foreFlightIDMessageID, DecodeForeFlightID)
}
