package gdl90

// OwnshipReport (message ID 10) describes the receiver's own
// position. It shares Traffic Report's 27-byte body layout exactly;
// only the message ID differs.
type OwnshipReport struct {
	TrafficRecord
}

var ownshipReportMessageID = ID1(10)

func (m OwnshipReport) MessageIDs() []byte { return []byte{10} }

func (m OwnshipReport) Serialize(outgoingLSB bool) ([]byte, error) {
	buf, err := m.TrafficRecord.serializeBody()
	if err != nil {
		return nil, err
	}
	return build(m.MessageIDs(), buf, outgoingLSB)
}

func DecodeOwnshipReport(data []byte, incomingMSB bool) (Message, error) {
	r, err := decodeTrafficRecord(data)
	if err != nil {
		return nil, err
	}
	return OwnshipReport{r}, nil
}

func init() {
	Register(ownshipReportMessageID, DecodeOwnshipReport)
}
