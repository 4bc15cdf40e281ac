package gdl90

import "gdl90/internal/bitbuf"

// Initialization (message ID 2) configures receiver behavior.
type Initialization struct {
	AudioTest        bool
	AudioInhibit     bool
	CDTIOk           bool
	CSAAudioDisable  bool
	CSADisable       bool
}

var initializationMessageID = ID1(2)

func (m Initialization) MessageIDs() []byte { return []byte{2} }

func (m Initialization) Serialize(outgoingLSB bool) ([]byte, error) {
	buf := bitbuf.New()
	buf.Append(0, 1) // reserved
	appendBool(buf, m.AudioTest)
	buf.Append(0, 4) // reserved
	appendBool(buf, m.AudioInhibit)
	appendBool(buf, m.CDTIOk)
	buf.Append(0, 6) // reserved
	appendBool(buf, m.CSAAudioDisable)
	appendBool(buf, m.CSADisable)
	return build(m.MessageIDs(), buf, outgoingLSB)
}

func DecodeInitialization(data []byte, incomingMSB bool) (Message, error) {
	buf := bitbuf.FromBytes(data)

	if _, err := buf.PopFront(1); err != nil {
		return nil, err
	}
	audioTest, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	if _, err := buf.PopFront(4); err != nil {
		return nil, err
	}
	audioInhibit, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	cdtiOk, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	if _, err := buf.PopFront(6); err != nil {
		return nil, err
	}
	csaAudioDisable, err := popBool(buf)
	if err != nil {
		return nil, err
	}
	csaDisable, err := popBool(buf)
	if err != nil {
		return nil, err
	}

	if buf.Len() != 0 {
		return nil, fErr(ErrDataTooLong, "%d bits remaining", buf.Len())
	}

	return Initialization{
		AudioTest:       audioTest,
		AudioInhibit:    audioInhibit,
		CDTIOk:          cdtiOk,
		CSAAudioDisable: csaAudioDisable,
		CSADisable:      csaDisable,
	}, nil
}

func init() {
	Register(initializationMessageID, DecodeInitialization)
}
