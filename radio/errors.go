package radio

import "errors"

var (
	// ErrDeviceNotPresent is returned when the chip identity register
	// does not hold the KT0913 identifier.
	ErrDeviceNotPresent = errors.New("kt0913 not present on the bus")

	// ErrFrequencyOutOfRange is returned when a frequency does not belong
	// to any of the bands the tuner is configured for.
	ErrFrequencyOutOfRange = errors.New("frequency out of allowed RF bands")

	// ErrInvalidParameter is returned for values the chip cannot represent,
	// such as an unsupported audio gain or stereo on the AM band.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotStarted is returned by the driver when it is used before Start.
	ErrNotStarted = errors.New("kt0913 driver not started")
)
