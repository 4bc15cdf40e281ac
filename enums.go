package gdl90

// TrackType distinguishes what kind of heading/track a Traffic or
// Ownship Report's track field represents. 2 bits on the wire.
type TrackType int

const (
	TrackTypeInvalid          TrackType = 0
	TrackTypeTrueTrackAngle   TrackType = 1
	TrackTypeMagneticHeading  TrackType = 2
	TrackTypeTrueHeading      TrackType = 3
)

var validTrackType = map[TrackType]bool{
	TrackTypeInvalid: true, TrackTypeTrueTrackAngle: true,
	TrackTypeMagneticHeading: true, TrackTypeTrueHeading: true,
}

// Integrity is the Navigation Integrity Category (NIC), 0-11. 4 bits
// on the wire.
type Integrity int

const (
	IntegrityUnknown Integrity = iota
	Integrity1
	Integrity2
	Integrity3
	Integrity4
	Integrity5
	Integrity6
	Integrity7
	Integrity8
	Integrity9
	Integrity10
	Integrity11
)

var validIntegrity = buildValidRange[Integrity](0, 11)

// Accuracy is the Navigation Accuracy Category for Position (NACp),
// 0-11. 4 bits on the wire.
type Accuracy int

const (
	AccuracyUnknown Accuracy = iota
	Accuracy1
	Accuracy2
	Accuracy3
	Accuracy4
	Accuracy5
	Accuracy6
	Accuracy7
	Accuracy8
	Accuracy9
	Accuracy10
	Accuracy11
)

var validAccuracy = buildValidRange[Accuracy](0, 11)

// AddressType identifies the kind of address carried in a Traffic or
// Ownship Report. 4 bits on the wire.
type AddressType int

const (
	AddressTypeADSBWithICAOAddress       AddressType = 0
	AddressTypeADSBWithSelfAssignedAddr  AddressType = 1
	AddressTypeTISBWithICAOAddress       AddressType = 2
	AddressTypeTISBWithTrackFileID       AddressType = 3
	AddressTypeSurfaceVehicle            AddressType = 4
	AddressTypeGroundStationBeacon       AddressType = 5
)

var validAddressType = buildValidRange[AddressType](0, 5)

// EmitterCategory classifies the kind of aircraft or obstacle a
// Traffic or Ownship Report describes. 8 bits on the wire. Values 8,
// 13, and 16 are reserved and never valid.
type EmitterCategory int

const (
	EmitterCategoryNoInfo                  EmitterCategory = 0
	EmitterCategoryLight                   EmitterCategory = 1
	EmitterCategorySmall                   EmitterCategory = 2
	EmitterCategoryLarge                   EmitterCategory = 3
	EmitterCategoryHighVortexLarge         EmitterCategory = 4
	EmitterCategoryHeavy                   EmitterCategory = 5
	EmitterCategoryHighlyManeuverable      EmitterCategory = 6
	EmitterCategoryRotorcraft              EmitterCategory = 7
	EmitterCategoryGliderSailplane         EmitterCategory = 9
	EmitterCategoryLighterThanAir          EmitterCategory = 10
	EmitterCategoryParachutist             EmitterCategory = 11
	EmitterCategoryUltraLight              EmitterCategory = 12
	EmitterCategoryUAV                     EmitterCategory = 14
	EmitterCategorySpaceTransatmospheric   EmitterCategory = 15
	EmitterCategorySurfaceEmergencyVehicle EmitterCategory = 17
	EmitterCategorySurfaceServiceVehicle   EmitterCategory = 18
	EmitterCategoryPointObstacle           EmitterCategory = 19
	EmitterCategoryClusterObstacle         EmitterCategory = 20
	EmitterCategoryLineObstacle            EmitterCategory = 21
)

var validEmitterCategory = map[EmitterCategory]bool{
	EmitterCategoryNoInfo: true, EmitterCategoryLight: true, EmitterCategorySmall: true,
	EmitterCategoryLarge: true, EmitterCategoryHighVortexLarge: true, EmitterCategoryHeavy: true,
	EmitterCategoryHighlyManeuverable: true, EmitterCategoryRotorcraft: true,
	EmitterCategoryGliderSailplane: true, EmitterCategoryLighterThanAir: true,
	EmitterCategoryParachutist: true, EmitterCategoryUltraLight: true,
	EmitterCategoryUAV: true, EmitterCategorySpaceTransatmospheric: true,
	EmitterCategorySurfaceEmergencyVehicle: true, EmitterCategorySurfaceServiceVehicle: true,
	EmitterCategoryPointObstacle: true, EmitterCategoryClusterObstacle: true,
	EmitterCategoryLineObstacle: true,
}

// EmergencyPriorityCode is the emergency/priority status carried in a
// Traffic or Ownship Report. 4 bits on the wire.
type EmergencyPriorityCode int

const (
	EmergencyPriorityNone                  EmergencyPriorityCode = 0
	EmergencyPriorityGeneralEmergency      EmergencyPriorityCode = 1
	EmergencyPriorityMedicalEmergency      EmergencyPriorityCode = 2
	EmergencyPriorityMinimumFuel           EmergencyPriorityCode = 3
	EmergencyPriorityNoCommunication       EmergencyPriorityCode = 4
	EmergencyPriorityUnlawfulInterference  EmergencyPriorityCode = 5
	EmergencyPriorityDownedAircraft        EmergencyPriorityCode = 6
)

var validEmergencyPriorityCode = buildValidRange[EmergencyPriorityCode](0, 6)

func buildValidRange[T enumField](low, high int) map[T]bool {
	m := make(map[T]bool, high-low+1)
	for i := low; i <= high; i++ {
		m[T(i)] = true
	}
	return m
}
