package gdl90

import (
	"strings"

	"gdl90/internal/bitbuf"
)

const (
	pressureAltitudeSentinel = 0xFFF
	pressureAltitudeMinFt    = -1000
	pressureAltitudeMaxFt    = 101350
	pressureAltitudeOffset   = 1000
	pressureAltitudeResFt    = 25

	horizontalVelocitySentinelAbsent = 0xFFF
	horizontalVelocitySentinelMax    = 0xFFE
	horizontalVelocityMaxExceeded    = 4094

	verticalVelocitySentinel   = 0x800
	verticalVelocityMaxFPM     = 32576
	verticalVelocityClampedFPM = 32640
	verticalVelocityResFPM     = 64

	trackResDeg = 360.0 / 256.0

	latLonResDeg = 180.0 / 8388608.0 // 180 / 2^23
)

// TrafficRecord holds the fields shared by Traffic Report (ID 20) and
// Ownship Report (ID 10); the two message types have an identical
// 27-byte body layout and differ only in their message ID.
type TrafficRecord struct {
	TrafficAlert            bool
	AddressType             AddressType
	Address                 uint32 // 24-bit ICAO-style address
	Latitude                float64
	Longitude               float64
	// PressureAltitudeFt is nil when unavailable.
	PressureAltitudeFt      *int32
	Airborne                bool
	ReportExtrapolated      bool
	TrackType               TrackType
	Integrity               Integrity
	Accuracy                Accuracy
	// HorizontalVelocityKt is nil when unavailable.
	HorizontalVelocityKt    *int32
	// VerticalVelocityFPM is nil when unavailable.
	VerticalVelocityFPM     *int32
	TrackDeg                float64
	EmitterCategory         EmitterCategory
	// Callsign is upper-cased and alphanumeric; empty or whitespace
	// encodes as all spaces.
	Callsign                string
	EmergencyPriorityCode   EmergencyPriorityCode
}

func validateCallsign(callsign string) (string, error) {
	trimmed := strings.TrimSpace(callsign)
	if trimmed == "" {
		return "", nil
	}
	upper := strings.ToUpper(trimmed)
	for _, r := range upper {
		if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
			return "", fErr(ErrInvalidCallsign, "callsign %q contains non-alphanumeric characters", callsign)
		}
	}
	return upper, nil
}

func (r TrafficRecord) serializeBody() (*bitbuf.Buffer, error) {
	buf := bitbuf.New()

	var alertBit uint64
	if r.TrafficAlert {
		alertBit = 1
	}
	buf.Append(alertBit<<3, 4)
	appendEnum(buf, r.AddressType, 4)

	if err := appendUint(buf, int64(r.Address), 24, false); err != nil {
		return nil, err
	}

	lat, lon := r.Latitude, r.Longitude
	if r.Integrity == IntegrityUnknown {
		lat, lon = 0, 0
	}
	if err := appendIntScaled(buf, lat, latLonResDeg, 24); err != nil {
		return nil, err
	}
	if err := appendIntScaled(buf, lon, latLonResDeg, 24); err != nil {
		return nil, err
	}

	switch {
	case r.PressureAltitudeFt == nil:
		buf.Append(pressureAltitudeSentinel, 12)
	default:
		alt := *r.PressureAltitudeFt
		if alt < pressureAltitudeMinFt {
			alt = pressureAltitudeMinFt
		} else if alt > pressureAltitudeMaxFt {
			alt = pressureAltitudeMaxFt
		}
		if err := appendUintOffsetScaled(buf, float64(alt), pressureAltitudeOffset, pressureAltitudeResFt, 12); err != nil {
			return nil, err
		}
	}

	appendBool(buf, r.Airborne)
	appendBool(buf, r.ReportExtrapolated)
	appendEnum(buf, r.TrackType, 2)
	appendEnum(buf, r.Integrity, 4)
	appendEnum(buf, r.Accuracy, 4)

	switch {
	case r.HorizontalVelocityKt == nil:
		buf.Append(horizontalVelocitySentinelAbsent, 12)
	case *r.HorizontalVelocityKt >= horizontalVelocityMaxExceeded:
		buf.Append(horizontalVelocitySentinelMax, 12)
	default:
		v := *r.HorizontalVelocityKt
		if v < 0 {
			v = 0
		}
		if err := appendUint(buf, int64(v), 12, true); err != nil {
			return nil, err
		}
	}

	switch {
	case r.VerticalVelocityFPM == nil:
		buf.Append(verticalVelocitySentinel, 12)
	default:
		v := *r.VerticalVelocityFPM
		if v > verticalVelocityMaxFPM {
			v = verticalVelocityClampedFPM
		} else if v < -verticalVelocityMaxFPM {
			v = -verticalVelocityClampedFPM
		}
		if err := appendIntScaled(buf, float64(v), verticalVelocityResFPM, 12); err != nil {
			return nil, err
		}
	}

	if err := appendUintScaled(buf, r.TrackDeg, trackResDeg, 8); err != nil {
		return nil, err
	}
	appendEnum(buf, r.EmitterCategory, 8)

	callsign, err := validateCallsign(r.Callsign)
	if err != nil {
		return nil, err
	}
	appendString(buf, callsign, 64)

	appendEnum(buf, r.EmergencyPriorityCode, 4)
	buf.Append(0, 4) // reserved

	return buf, nil
}

func decodeTrafficRecord(data []byte) (TrafficRecord, error) {
	buf := bitbuf.FromBytes(data)
	var r TrafficRecord

	alertRaw, err := buf.PopFront(4)
	if err != nil {
		return r, err
	}
	r.TrafficAlert = alertRaw&0x8 != 0

	addressType, err := popEnum(buf, 4, validAddressType)
	if err != nil {
		return r, err
	}
	r.AddressType = addressType

	address, err := popUint(buf, 24)
	if err != nil {
		return r, err
	}
	r.Address = uint32(address)

	lat, err := popIntScaled(buf, 24, latLonResDeg)
	if err != nil {
		return r, err
	}
	r.Latitude = lat

	lon, err := popIntScaled(buf, 24, latLonResDeg)
	if err != nil {
		return r, err
	}
	r.Longitude = lon

	altRaw, err := buf.PopFront(12)
	if err != nil {
		return r, err
	}
	if altRaw != pressureAltitudeSentinel {
		alt := int32(altRaw)*pressureAltitudeResFt - pressureAltitudeOffset
		r.PressureAltitudeFt = &alt
	}

	airborne, err := popBool(buf)
	if err != nil {
		return r, err
	}
	r.Airborne = airborne

	reportExtrapolated, err := popBool(buf)
	if err != nil {
		return r, err
	}
	r.ReportExtrapolated = reportExtrapolated

	trackType, err := popEnum(buf, 2, validTrackType)
	if err != nil {
		return r, err
	}
	r.TrackType = trackType

	integrity, err := popEnum(buf, 4, validIntegrity)
	if err != nil {
		return r, err
	}
	r.Integrity = integrity

	accuracy, err := popEnum(buf, 4, validAccuracy)
	if err != nil {
		return r, err
	}
	r.Accuracy = accuracy

	hvRaw, err := buf.PopFront(12)
	if err != nil {
		return r, err
	}
	switch hvRaw {
	case horizontalVelocitySentinelAbsent:
	case horizontalVelocitySentinelMax:
		v := int32(horizontalVelocityMaxExceeded)
		r.HorizontalVelocityKt = &v
	default:
		v := int32(hvRaw)
		r.HorizontalVelocityKt = &v
	}

	vvRaw, err := buf.PopFront(12)
	if err != nil {
		return r, err
	}
	if vvRaw != verticalVelocitySentinel {
		signBit := uint64(1) << 11
		var signed int64
		if vvRaw&signBit != 0 {
			signed = int64(vvRaw) - (1 << 12)
		} else {
			signed = int64(vvRaw)
		}
		v := int32(signed * verticalVelocityResFPM)
		r.VerticalVelocityFPM = &v
	}

	track, err := popUintScaled(buf, 8, trackResDeg)
	if err != nil {
		return r, err
	}
	r.TrackDeg = track

	emitterCategory, err := popEnum(buf, 8, validEmitterCategory)
	if err != nil {
		return r, err
	}
	r.EmitterCategory = emitterCategory

	callsign, err := popString(buf, 64)
	if err != nil {
		return r, err
	}
	r.Callsign = callsign

	emergencyPriorityCode, err := popEnum(buf, 4, validEmergencyPriorityCode)
	if err != nil {
		return r, err
	}
	r.EmergencyPriorityCode = emergencyPriorityCode

	if _, err := buf.PopFront(4); err != nil { // reserved
		return r, err
	}

	if buf.Len() != 0 {
		return r, fErr(ErrDataTooLong, "%d bits remaining", buf.Len())
	}

	return r, nil
}

// TrafficReport (message ID 20) describes a single observed aircraft.
type TrafficReport struct {
	TrafficRecord
}

var trafficReportMessageID = ID1(20)

func (m TrafficReport) MessageIDs() []byte { return []byte{20} }

func (m TrafficReport) Serialize(outgoingLSB bool) ([]byte, error) {
	buf, err := m.TrafficRecord.serializeBody()
	if err != nil {
		return nil, err
	}
	return build(m.MessageIDs(), buf, outgoingLSB)
}

func DecodeTrafficReport(data []byte, incomingMSB bool) (Message, error) {
	r, err := decodeTrafficRecord(data)
	if err != nil {
		return nil, err
	}
	return TrafficReport{r}, nil
}

func init() {
	Register(trafficReportMessageID, DecodeTrafficReport)
}
