// Package traffic tracks the live set of observed aircraft fed by the
// OGN and OpenSky ingesters, and serves both the broadcaster's
// once-a-second report loop and the read API.
package traffic

import (
	"time"

	"gdl90"
)

// Observation is a single aircraft position/velocity report, produced
// by an ingester and consumed by the Tracker, the storage backends,
// and the broadcaster.
type Observation struct {
	ICAOAddress         uint32
	Callsign            string
	Latitude, Longitude float64
	PressureAltitudeFt  *int32
	TrackDeg            float64
	GroundSpeedKt       float64
	VerticalRateFPM     *int32
	EmitterCategory     gdl90.EmitterCategory
	// Source identifies the ingester that produced this observation:
	// "OGN" or "OPENSKY".
	Source     string
	ObservedAt time.Time
}

// ToTrafficRecord converts an Observation into the wire record shared
// by gdl90.TrafficReport and gdl90.OwnshipReport.
func (o Observation) ToTrafficRecord() gdl90.TrafficRecord {
	velocity := int32(o.GroundSpeedKt)
	return gdl90.TrafficRecord{
		AddressType:          gdl90.AddressTypeADSBWithICAOAddress,
		Address:              o.ICAOAddress,
		Latitude:             o.Latitude,
		Longitude:            o.Longitude,
		PressureAltitudeFt:   o.PressureAltitudeFt,
		Airborne:             true,
		TrackType:            gdl90.TrackTypeTrueTrackAngle,
		Integrity:            gdl90.Integrity8,
		Accuracy:             gdl90.Accuracy8,
		HorizontalVelocityKt: &velocity,
		VerticalVelocityFPM:  o.VerticalRateFPM,
		TrackDeg:             o.TrackDeg,
		EmitterCategory:      o.EmitterCategory,
		Callsign:             o.Callsign,
	}
}
