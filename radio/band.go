package radio

import "fmt"

// Band is one of the mutually exclusive reception modes of the tuner.
type Band int

// Bands supported by the KT0913.
const (
	BandFMStandard Band = iota
	BandFMExtended
	BandAM
)

func (b Band) String() string {
	switch b {
	case BandFMStandard:
		return "FM"
	case BandFMExtended:
		return "FM campus"
	case BandAM:
		return "AM"
	default:
		return fmt.Sprintf("Band(%d)", int(b))
	}
}

// IsFM reports whether the band uses FM modulation.
func (b Band) IsFM() bool {
	return b == BandFMStandard || b == BandFMExtended
}

// Frequency ranges, in kHz.
const (
	amRangeLow          = 500
	amRangeHigh         = 1710
	fmRangeLowStandard  = 64000
	fmRangeLowExtended  = 32000
	fmRangeHigh         = 110000
	fmChannelSpacingKHz = 50
)

// BandDescriptor describes a frequency band the tuner can receive.
type BandDescriptor struct {
	Index   int
	Band    Band
	LowKHz  uint32
	HighKHz uint32
	Stereo  bool
}

// Contains reports whether khz is inside the band.
func (d BandDescriptor) Contains(khz uint32) bool {
	return khz >= d.LowKHz && khz <= d.HighKHz
}

var bandDescriptors = map[Band]BandDescriptor{
	BandFMStandard: {Index: 0, Band: BandFMStandard, LowKHz: fmRangeLowStandard, HighKHz: fmRangeHigh, Stereo: true},
	BandFMExtended: {Index: 0, Band: BandFMExtended, LowKHz: fmRangeLowExtended, HighKHz: fmRangeHigh, Stereo: true},
	BandAM:         {Index: 1, Band: BandAM, LowKHz: amRangeLow, HighKHz: amRangeHigh},
}

// classifyFrequency resolves the band for khz. AM is checked first, then
// standard FM and, only when allowed, the extended FM range.
func classifyFrequency(khz uint32, extendedFM bool) (Band, error) {
	if khz == 0 {
		return 0, fmt.Errorf("frequency 0: %w", ErrInvalidParameter)
	}

	for _, b := range []Band{BandAM, BandFMStandard, BandFMExtended} {
		if b == BandFMExtended && !extendedFM {
			continue
		}
		if bandDescriptors[b].Contains(khz) {
			return b, nil
		}
	}

	return 0, fmt.Errorf("%d kHz: %w", khz, ErrFrequencyOutOfRange)
}

// BandOf returns the band khz falls in, the extended FM range being
// considered only when extendedFM is set.
func BandOf(khz uint32, extendedFM bool) (Band, error) {
	return classifyFrequency(khz, extendedFM)
}

// enumerateBands lists the FM band (index 0) followed by the AM band (index 1).
func enumerateBands(extendedFM bool) []BandDescriptor {
	fm := bandDescriptors[BandFMStandard]
	if extendedFM {
		fm = bandDescriptors[BandFMExtended]
	}
	return []BandDescriptor{fm, bandDescriptors[BandAM]}
}

// tunerUnitsPerKHz is the multiplier of hosts that express frequencies in 1/16 kHz.
const tunerUnitsPerKHz = 16

// KHzToTunerUnits converts kHz to the 1/16 kHz unit used by some hosts.
func KHzToTunerUnits(khz uint32) uint32 {
	return khz * tunerUnitsPerKHz
}

// TunerUnitsToKHz converts 1/16 kHz units to kHz, truncating.
func TunerUnitsToKHz(units uint32) uint32 {
	return units / tunerUnitsPerKHz
}
