// Package gdl90 implements the GDL 90 wire protocol used by portable
// aviation receivers to transport ADS-B traffic, ownship, weather
// uplink, and state-of-health data to cockpit displays such as
// ForeFlight.
//
// The package is a bidirectional codec: strongly-typed message values
// serialize into the GDL 90 framed byte stream, and incoming frames
// parse back into those same values. The codec holds no state beyond
// a read-only CRC table computed once at package initialization, and
// every exported function is safe to call concurrently.
package gdl90

import (
	"errors"
	"fmt"
)

// Error kinds. Each is a distinct sentinel tested with errors.Is;
// wrapping functions attach context with fmt.Errorf("%w: ...", ...).
var (
	// ErrMissingFlagBytes is returned when an incoming buffer does not
	// begin and end with the 0x7E flag byte.
	ErrMissingFlagBytes = errors.New("gdl90: missing flag bytes")

	// ErrInvalidCRC is returned when a frame's trailing CRC does not
	// match the CRC computed over its payload.
	ErrInvalidCRC = errors.New("gdl90: invalid crc")

	// ErrUnknownMessageID is returned when a frame's message ID tuple
	// is not present in the registry.
	ErrUnknownMessageID = errors.New("gdl90: unknown message id")

	// ErrInvalidMessageID is returned when a specific message type's
	// decoder is invoked on a frame whose IDs don't match that type.
	ErrInvalidMessageID = errors.New("gdl90: invalid message id")

	// ErrDataTooLong is returned when body bits remain unconsumed
	// after decoding a fixed-layout message type.
	ErrDataTooLong = errors.New("gdl90: data too long")

	// ErrInvalidCallsign is returned when a callsign contains
	// non-alphanumeric characters after trimming and upper-casing.
	ErrInvalidCallsign = errors.New("gdl90: invalid callsign")

	// ErrUnexpectedNegative is returned when a negative value is
	// passed to an unsigned-field encoder.
	ErrUnexpectedNegative = errors.New("gdl90: unexpected negative value")

	// ErrBadIntegerSize is returned when a value is out of range for
	// a field encoded in strict (non-clamping) mode.
	ErrBadIntegerSize = errors.New("gdl90: value out of range for field width")

	// ErrUplinkDataWrongSize is returned when a UAT uplink payload's
	// length does not match the message variant's fixed size.
	ErrUplinkDataWrongSize = errors.New("gdl90: uplink payload wrong size")
)

func fErr(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
