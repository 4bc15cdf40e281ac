package gdl90

import (
	"time"

	"gdl90/internal/bitbuf"
)

const secondsPerHour = 3600
const secondsPerMinute = 60

// Heartbeat (message ID 0) reports receiver status once per second.
// Most fields are ignored by ForeFlight but are still required on the
// wire.
type Heartbeat struct {
	GPSPositionValid             bool
	MaintenanceRequired          bool
	IdentTalkback                bool
	SelfAssignedAddressTalkback  bool
	GPSBatteryLow                bool
	RATCSTalkback                bool
	UATInitialized                bool
	CSARequested                 bool
	CSAUnavailable                bool
	UTCTimingValid                bool
	// Timestamp is UTC time of day; only hour/minute/second are used.
	Timestamp time.Time
	// UplinkMessagesCount is the number of uplink messages received
	// in the previous second (5 bits).
	UplinkMessagesCount int
	// BasicLongMessagesCount is the number of Basic and Long messages
	// received in the previous second (10 bits).
	BasicLongMessagesCount int
}

var heartbeatMessageID = ID1(0)

func (h Heartbeat) MessageIDs() []byte { return []byte{0} }

func (h Heartbeat) Serialize(outgoingLSB bool) ([]byte, error) {
	buf := bitbuf.New()

	totalSeconds := uint32(h.Timestamp.Hour())*secondsPerHour +
		uint32(h.Timestamp.Minute())*secondsPerMinute +
		uint32(h.Timestamp.Second())
	bit16 := (totalSeconds >> 16) & 1
	lowWord := totalSeconds & 0xFFFF
	lowByte := lowWord & 0xFF
	highByte := (lowWord >> 8) & 0xFF

	appendBool(buf, h.GPSPositionValid)
	appendBool(buf, h.MaintenanceRequired)
	appendBool(buf, h.IdentTalkback)
	appendBool(buf, h.SelfAssignedAddressTalkback)
	appendBool(buf, h.GPSBatteryLow)
	appendBool(buf, h.RATCSTalkback)
	buf.Append(0, 1) // reserved
	appendBool(buf, h.UATInitialized)

	buf.Append(uint64(bit16), 1)
	appendBool(buf, h.CSARequested)
	appendBool(buf, h.CSAUnavailable)
	buf.Append(0, 4) // reserved
	appendBool(buf, h.UTCTimingValid)

	buf.Append(uint64(lowByte), 8)
	buf.Append(uint64(highByte), 8)

	if err := appendUint(buf, int64(h.UplinkMessagesCount), 5, true); err != nil {
		return nil, err
	}
	buf.Append(0, 1) // reserved
	if err := appendUint(buf, int64(h.BasicLongMessagesCount), 10, true); err != nil {
		return nil, err
	}

	return build(h.MessageIDs(), buf, outgoingLSB)
}

// DecodeHeartbeat decodes a Heartbeat's already-deconstructed body
// bytes (as produced by Registry.ParseMessage).
func DecodeHeartbeat(data []byte, incomingMSB bool) (Message, error) {
	buf := bitbuf.FromBytes(data)

	gpsPositionValid, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	maintenanceRequired, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	identTalkback, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	selfAssignedAddressTalkback, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	gpsBatteryLow, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	ratcsTalkback, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	if _, err := buf.PopFront(1); err != nil { // reserved
		return nil, err
	}
	uatInitialized, err := popBool(buf)
	if err != nil {
		return nil, err
	}

	bit16, err := buf.PopFront(1)
	if err != nil {
		return nil, err
	}
	csaRequested, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	csaUnavailable, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	if _, err := buf.PopFront(4); err != nil { // reserved
		return nil, err
	}
	utcTimingValid, err := popBool(buf)
	if err != nil {
		return nil, err
	}

	lowByte, err := buf.PopFront(8)
	if err != nil {
		return nil, err
	}
	highByte, err := buf.PopFront(8)
	if err != nil {
		return nil, err
	}

	uplinkMessagesCount, err := popUint(buf, 5)
	if err != nil {
		return nil, err
	}
	if _, err := buf.PopFront(1); err != nil { // reserved
		return nil, err
	}
	basicLongMessagesCount, err := popUint(buf, 10)
	if err != nil {
		return nil, err
	}

	if buf.Len() != 0 {
		return nil, fErr(ErrDataTooLong, "%d bits remaining", buf.Len())
	}

	totalSeconds := (uint32(bit16) << 16) | (uint32(highByte) << 8) | uint32(lowByte)
	hours := totalSeconds / secondsPerHour
	remainder := totalSeconds % secondsPerHour
	minutes := remainder / secondsPerMinute
	seconds := remainder % secondsPerMinute

	return Heartbeat{
		GPSPositionValid:            gpsPositionValid,
		MaintenanceRequired:         maintenanceRequired,
		IdentTalkback:               identTalkback,
		SelfAssignedAddressTalkback: selfAssignedAddressTalkback,
		GPSBatteryLow:               gpsBatteryLow,
		RATCSTalkback:               ratcsTalkback,
		UATInitialized:              uatInitialized,
		CSARequested:                csaRequested,
		CSAUnavailable:              csaUnavailable,
		UTCTimingValid:              utcTimingValid,
		Timestamp:                   time.Date(0, 1, 1, int(hours), int(minutes), int(seconds), 0, time.UTC),
		UplinkMessagesCount:         int(uplinkMessagesCount),
		BasicLongMessagesCount:      int(basicLongMessagesCount),
	}, nil
}

func init() {
	Register(heartbeatMessageID, DecodeHeartbeat)
}
