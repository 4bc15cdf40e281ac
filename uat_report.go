package gdl90

import "gdl90/internal/bitbuf"

const (
	timeOfReceptionSentinel = 0xFFFFFF
	timeOfReceptionResNs    = 80
)

// UATReport holds the fields shared by Uplink Data (ID 7), Basic UAT
// Report (ID 30), and Long UAT Report (ID 31): a time-of-reception
// field followed by a fixed-size uplink payload whose size depends on
// the message type.
type UATReport struct {
	// TimeOfReceptionNs is nanoseconds since the top of the UTC
	// second, nil when invalid.
	TimeOfReceptionNs *int64
	Payload           []byte
}

func (r UATReport) serializeBody(payloadBits int) (*bitbuf.Buffer, error) {
	if len(r.Payload)*8 != payloadBits {
		return nil, fErr(ErrUplinkDataWrongSize, "payload is %d bytes, want %d", len(r.Payload), payloadBits/8)
	}

	buf := bitbuf.New()
	var raw uint32
	if r.TimeOfReceptionNs == nil {
		raw = timeOfReceptionSentinel
	} else {
		raw = uint32(*r.TimeOfReceptionNs / timeOfReceptionResNs)
	}
	buf.Append(uint64(raw&0xFF), 8)
	buf.Append(uint64((raw>>8)&0xFF), 8)
	buf.Append(uint64((raw>>16)&0xFF), 8)

	for _, b := range r.Payload {
		buf.Append(uint64(b), 8)
	}
	return buf, nil
}

func decodeUATReport(data []byte, payloadBits int) (UATReport, error) {
	buf := bitbuf.FromBytes(data)
	var r UATReport

	low, err := buf.PopFront(8)
	if err != nil {
		return r, err
	}
	mid, err := buf.PopFront(8)
	if err != nil {
		return r, err
	}
	high, err := buf.PopFront(8)
	if err != nil {
		return r, err
	}
	raw := (high << 16) | (mid << 8) | low
	if raw != timeOfReceptionSentinel {
		ns := int64(raw) * timeOfReceptionResNs
		r.TimeOfReceptionNs = &ns
	}

	payloadBytes := payloadBits / 8
	if buf.Len() != payloadBits {
		return r, fErr(ErrUplinkDataWrongSize, "remaining body is %d bits, want %d", buf.Len(), payloadBits)
	}
	payload := make([]byte, payloadBytes)
	for i := 0; i < payloadBytes; i++ {
		v, err := buf.PopFront(8)
		if err != nil {
			return r, err
		}
		payload[i] = byte(v)
	}
	r.Payload = payload
	return r, nil
}

// UplinkData (message ID 7) carries 432 bytes of UAT uplink payload.
type UplinkData struct {
	UATReport
}

const uplinkDataPayloadBits = 432 * 8

var uplinkDataMessageID = ID1(7)

func (m UplinkData) MessageIDs() []byte { return []byte{7} }

func (m UplinkData) Serialize(outgoingLSB bool) ([]byte, error) {
	buf, err := m.UATReport.serializeBody(uplinkDataPayloadBits)
	if err != nil {
		return nil, err
	}
	return build(m.MessageIDs(), buf, outgoingLSB)
}

func DecodeUplinkData(data []byte, incomingMSB bool) (Message, error) {
	r, err := decodeUATReport(data, uplinkDataPayloadBits)
	if err != nil {
		return nil, err
	}
	return UplinkData{r}, nil
}

func init() {
	Register(uplinkDataMessageID, DecodeUplinkData)
}

// BasicUATReport (message ID 30) carries 18 bytes of UAT payload.
type BasicUATReport struct {
	UATReport
}

const basicUATReportPayloadBits = 18 * 8

var basicUATReportMessageID = ID1(30)

func (m BasicUATReport) MessageIDs() []byte { return []byte{30} }

func (m BasicUATReport) Serialize(outgoingLSB bool) ([]byte, error) {
	buf, err := m.UATReport.serializeBody(basicUATReportPayloadBits)
	if err != nil {
		return nil, err
	}
	return build(m.MessageIDs(), buf, outgoingLSB)
}

func DecodeBasicUATReport(data []byte, incomingMSB bool) (Message, error) {
	r, err := decodeUATReport(data, basicUATReportPayloadBits)
	if err != nil {
		return nil, err
	}
	return BasicUATReport{r}, nil
}

func init() {
	Register(basicUATReportMessageID, DecodeBasicUATReport)
}

// LongUATReport (message ID 31) carries 34 bytes of UAT payload.
type LongUATReport struct {
	UATReport
}

const longUATReportPayloadBits = 34 * 8

var longUATReportMessageID = ID1(31)

func (m LongUATReport) MessageIDs() []byte { return []byte{31} }

func (m LongUATReport) Serialize(outgoingLSB bool) ([]byte, error) {
	buf, err := m.UATReport.serializeBody(longUATReportPayloadBits)
	if err != nil {
		return nil, err
	}
	return build(m.MessageIDs(), buf, outgoingLSB)
}

func DecodeLongUATReport(data []byte, incomingMSB bool) (Message, error) {
	r, err := decodeUATReport(data, longUATReportPayloadBits)
	if err != nil {
		return nil, err
	}
	return LongUATReport{r}, nil
}

func init() {
	Register(longUATReportMessageID, DecodeLongUATReport)
}
