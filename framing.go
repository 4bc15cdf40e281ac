package gdl90

import "gdl90/internal/bitbuf"

const flagByte byte = 0x7E
const escapeByte byte = 0x7D

// foreFlightMessageID is the leading byte shared by all ForeFlight
// proprietary messages; it is followed by a one-byte sub-ID.
const foreFlightMessageID byte = 0x65

// escape walks data byte-by-byte, replacing every flag or escape byte
// with the escape byte followed by the original XOR 0x20.
func escape(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b == flagByte || b == escapeByte {
			out = append(out, escapeByte, b^0x20)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// unescape is the inverse of escape. A trailing lone escape byte is
// malformed.
func unescape(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == escapeByte {
			if i+1 >= len(data) {
				return nil, fErr(ErrMissingFlagBytes, "lone escape byte at end of frame")
			}
			out = append(out, data[i+1]^0x20)
			i++
		} else {
			out = append(out, data[i])
		}
	}
	return out, nil
}

// reverseByte reverses the bit order within a single byte.
func reverseByte(b byte) byte {
	var r byte
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// reverseBits reverses the bit order within each byte of data,
// leaving byte order across the slice unchanged.
func reverseBits(data []byte) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = reverseByte(b)
	}
	return out
}

// build assembles a complete frame: message IDs, body bits, CRC,
// escaping, flag bytes, and (if outgoingLSB) a final per-byte bit
// reversal.
func build(messageIDs []byte, bodyBits *bitbuf.Buffer, outgoingLSB bool) ([]byte, error) {
	bodyBytes, err := bodyBits.Bytes()
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, len(messageIDs)+len(bodyBytes)+2)
	payload = append(payload, messageIDs...)
	payload = append(payload, bodyBytes...)

	crc := computeCRCBytes(payload)
	payload = append(payload, crc[0], crc[1])

	escaped := escape(payload)

	frame := make([]byte, 0, len(escaped)+2)
	frame = append(frame, flagByte)
	frame = append(frame, escaped...)
	frame = append(frame, flagByte)

	if outgoingLSB {
		frame = reverseBits(frame)
	}
	return frame, nil
}

// deconstruct splits a single framed buffer into its message ID tuple
// and body bits, verifying flag bytes and CRC along the way.
func deconstruct(data []byte, incomingMSB bool) (messageIDs []byte, bodyBits *bitbuf.Buffer, err error) {
	if len(data) < 2 || data[0] != flagByte || data[len(data)-1] != flagByte {
		return nil, nil, fErr(ErrMissingFlagBytes, "frame must begin and end with 0x7E")
	}

	inner := data[1 : len(data)-1]
	if !incomingMSB {
		inner = reverseBits(inner)
	}

	unescaped, err := unescape(inner)
	if err != nil {
		return nil, nil, err
	}

	if len(unescaped) < 2 {
		return nil, nil, fErr(ErrInvalidCRC, "frame too short to contain a crc")
	}

	payload := unescaped[:len(unescaped)-2]
	receivedCRC := [2]byte{unescaped[len(unescaped)-2], unescaped[len(unescaped)-1]}
	computedCRC := computeCRCBytes(payload)
	if receivedCRC != computedCRC {
		return nil, nil, fErr(ErrInvalidCRC, "received %x, computed %x", receivedCRC, computedCRC)
	}

	if len(payload) == 0 {
		return nil, nil, fErr(ErrInvalidMessageID, "payload has no message id")
	}

	if payload[0] == foreFlightMessageID {
		if len(payload) < 2 {
			return nil, nil, fErr(ErrInvalidMessageID, "ForeFlight message missing sub-id")
		}
		messageIDs = payload[:2]
		bodyBits = bitbuf.FromBytes(payload[2:])
	} else {
		messageIDs = payload[:1]
		bodyBits = bitbuf.FromBytes(payload[1:])
	}
	return messageIDs, bodyBits, nil
}
