package gdl90

import "sync"

// Message is implemented by every GDL 90 message type.
type Message interface {
	// MessageIDs returns the one- or two-byte ID tuple identifying
	// this message's type on the wire.
	MessageIDs() []byte

	// Serialize frames the message. outgoingLSB selects the
	// least-significant-bit-first wire convention when true.
	Serialize(outgoingLSB bool) ([]byte, error)
}

// MessageID is a registry key: either a single byte, or (for
// ForeFlight's proprietary messages) a leading 0x65 plus a sub-ID.
type MessageID struct {
	Primary byte
	Sub     byte
	HasSub  bool
}

// ID1 builds a single-byte message ID key.
func ID1(b byte) MessageID { return MessageID{Primary: b} }

// ID2 builds a two-byte (ForeFlight-style) message ID key.
func ID2(primary, sub byte) MessageID { return MessageID{Primary: primary, Sub: sub, HasSub: true} }

func idFromTuple(ids []byte) MessageID {
	if len(ids) == 2 {
		return ID2(ids[0], ids[1])
	}
	return ID1(ids[0])
}

// Decoder decodes a frame's body bits (as produced by deconstruct)
// into a Message. incomingMSB is forwarded to deconstruct by
// ParseMessage/ParseMessages; individual decoders receive already
//-deconstructed data and do not re-apply bit reversal.
type Decoder func(data []byte, incomingMSB bool) (Message, error)

// Registry is an immutable-after-registration mapping from message ID
// tuple to decoder. A process-wide default registry is populated by
// each message type's init() function, mirroring how each parser
// package self-registers on import.
type Registry struct {
	mu       sync.RWMutex
	decoders map[MessageID]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[MessageID]Decoder)}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry that every
// built-in message type registers itself into.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register adds a decoder for id to the default registry.
func Register(id MessageID, d Decoder) {
	defaultRegistry.Register(id, d)
}

// Register adds a decoder for id to r.
func (r *Registry) Register(id MessageID, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[id] = d
}

// Lookup returns the decoder registered for id, if any.
func (r *Registry) Lookup(id MessageID) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[id]
	return d, ok
}

// ParseMessage deconstructs a single framed buffer and dispatches it
// to the registered decoder for its message ID. If ignoreUnknown is
// true, an unrecognized ID returns (nil, nil) instead of
// ErrUnknownMessageID.
func (r *Registry) ParseMessage(data []byte, incomingMSB bool, ignoreUnknown bool) (Message, error) {
	ids, body, err := deconstruct(data, incomingMSB)
	if err != nil {
		return nil, err
	}
	bodyBytes, err := body.Bytes()
	if err != nil {
		return nil, err
	}

	d, ok := r.Lookup(idFromTuple(ids))
	if !ok {
		if ignoreUnknown {
			return nil, nil
		}
		return nil, fErr(ErrUnknownMessageID, "%v", ids)
	}
	return d(bodyBytes, incomingMSB)
}

// ParseMessage dispatches through the default registry.
func ParseMessage(data []byte, incomingMSB bool, ignoreUnknown bool) (Message, error) {
	return defaultRegistry.ParseMessage(data, incomingMSB, ignoreUnknown)
}

// ParseMessages splits a multi-frame byte stream into its constituent
// frames (delimited by paired 0x7E flag bytes) and parses each one in
// order.
func (r *Registry) ParseMessages(data []byte, incomingMSB bool, ignoreUnknown bool) ([]Message, error) {
	var messages []Message
	i := 0
	for i < len(data) {
		if data[i] != flagByte {
			i++
			continue
		}
		end := -1
		for j := i + 1; j < len(data); j++ {
			if data[j] == flagByte {
				end = j
				break
			}
		}
		if end == -1 {
			break
		}
		frame := data[i : end+1]
		msg, err := r.ParseMessage(frame, incomingMSB, ignoreUnknown)
		if err != nil {
			return nil, err
		}
		if msg != nil {
			messages = append(messages, msg)
		}
		i = end + 1
	}
	return messages, nil
}

// ParseMessages dispatches through the default registry.
func ParseMessages(data []byte, incomingMSB bool, ignoreUnknown bool) ([]Message, error) {
	return defaultRegistry.ParseMessages(data, incomingMSB, ignoreUnknown)
}
