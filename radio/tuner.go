package radio

import (
	"fmt"
	"sync"

	multierror "github.com/hashicorp/go-multierror"
)

// Deemphasis is the FM audio de-emphasis time constant in microseconds.
type Deemphasis int

// De-emphasis settings supported by the chip.
const (
	Deemphasis50us Deemphasis = 50
	Deemphasis75us Deemphasis = 75
)

// maxSignal is the top of the normalized signal strength scale.
const maxSignal = 65535

// Tuner translates tuning requests into KT0913 register accesses.
// All methods are safe for concurrent use; calls are serialized because
// a read-modify-write must not interleave with another write.
type Tuner struct {
	mtx  sync.Mutex
	regs RegisterMap

	band       Band
	antiPop    AntiPop
	refClock   RefClock
	extendedFM bool

	debugMode bool
	debugLog  func(format string, v ...interface{})
	log       func(format string, v ...interface{})
}

// NewTuner checks that a KT0913 answers on regs and puts it into a known
// state: power up defaults, the configured anti-pop and reference clock,
// the campus band when enabled, and audio muted.
//
// When the initialization fails after the chip was identified, the chip is
// put in standby. A standby failure is reported along with the init one.
func NewTuner(regs RegisterMap, cfg KT0913Config) (*Tuner, error) {
	t, err := probe(regs, cfg)
	if err != nil {
		return nil, err
	}

	if err = t.init(); err != nil {
		var result *multierror.Error
		result = multierror.Append(result, fmt.Errorf("couldn't initialize radio: %w", err))
		if stErr := t.EnterStandby(); stErr != nil {
			result = multierror.Append(result, stErr)
		}
		return nil, result.ErrorOrNil()
	}
	return t, nil
}

// Attach checks that a KT0913 answers on regs and adopts its current
// state without writing the power up defaults. The band is recovered from
// the AM/FM mode bit and, for FM, from the tuned frequency.
func Attach(regs RegisterMap, cfg KT0913Config) (*Tuner, error) {
	t, err := probe(regs, cfg)
	if err != nil {
		return nil, err
	}

	am, err := fieldAMMode.isSet(regs)
	if err != nil {
		return nil, err
	}
	if am {
		t.band = BandAM
		return t, nil
	}

	if t.extendedFM {
		ch, err := fieldFMChannel.read(regs)
		if err != nil {
			return nil, err
		}
		// channel 0 means the chip was never tuned
		if ch != 0 && uint32(ch)*fmChannelSpacingKHz < fmRangeLowStandard {
			t.band = BandFMExtended
		}
	}
	return t, nil
}

func probe(regs RegisterMap, cfg KT0913Config) (*Tuner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id, err := regs.Read(REG_CHIP_ID)
	if err != nil {
		return nil, err
	}
	if id != CHIP_ID {
		return nil, fmt.Errorf("invalid chip id 0x%04x, expected 0x%04x: %w", id, CHIP_ID, ErrDeviceNotPresent)
	}

	return &Tuner{
		regs:       regs,
		band:       BandFMStandard,
		antiPop:    cfg.AntiPop,
		refClock:   cfg.RefClock,
		extendedFM: cfg.CampusBand,
		debugMode:  cfg.DebugMode,
		debugLog:   cfg.DebugLog,
		log:        cfg.Log,
	}, nil
}

func (t *Tuner) init() error {
	for _, rv := range initSequence {
		if err := t.regs.Write(rv.reg, rv.val); err != nil {
			return fmt.Errorf("writing defaults: %w", err)
		}
	}

	if err := fieldAntiPop.update(t.regs, uint16(t.antiPop)); err != nil {
		return fmt.Errorf("anti-pop config: %w", err)
	}

	if err := fieldRefClock.update(t.regs, uint16(t.refClock)); err != nil {
		return fmt.Errorf("refclk config: %w", err)
	}

	if t.extendedFM {
		t.log("campus band is enabled!\n")
		if err := fieldCampusBand.set(t.regs, true); err != nil {
			return fmt.Errorf("campus band: %w", err)
		}
	}

	return t.setMute(true)
}

// Band returns the band the tuner is currently set to, FM until the
// tuner exists.
func (t *Tuner) Band() Band {
	if t == nil {
		return BandFMStandard
	}
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.band
}

// Bands returns the FM band at index 0 and the AM band at index 1.
// The FM band is the campus one when it is enabled.
func (t *Tuner) Bands() []BandDescriptor {
	if t == nil {
		return enumerateBands(false)
	}
	return enumerateBands(t.extendedFM)
}

// SetFrequency tunes to khz, switching between AM and FM when needed.
// FM frequencies are truncated to the 50 kHz channel grid.
//
// The band is switched before the frequency is written. If that second
// write fails the tuner stays on the new band with a stale frequency.
func (t *Tuner) SetFrequency(khz uint32) error {
	if err := t.lock(); err != nil {
		return err
	}
	defer t.mtx.Unlock()

	band, err := classifyFrequency(khz, t.extendedFM)
	if err != nil {
		t.log("frequency out of allowed RF bands (%d kHz)\n", khz)
		return err
	}

	if band != t.band {
		if t.debugMode {
			t.debugLog("Switching band %s -> %s\n", t.band, band)
		}
		if err = fieldAMMode.set(t.regs, band == BandAM); err != nil {
			return err
		}
		t.band = band
	}

	if t.band == BandAM {
		return t.regs.Write(REG_AMCHAN, fieldAMTune.mask|fieldAMChannel.encode(uint16(khz)))
	}
	return t.regs.Write(REG_TUNE, fieldFMTune.mask|fieldFMChannel.encode(uint16(khz/fmChannelSpacingKHz)))
}

// Frequency returns the tuned frequency in kHz for the current band.
func (t *Tuner) Frequency() (uint32, error) {
	if err := t.lock(); err != nil {
		return 0, err
	}
	defer t.mtx.Unlock()
	return t.frequency()
}

func (t *Tuner) frequency() (uint32, error) {
	if t.band == BandAM {
		ch, err := fieldAMChannel.read(t.regs)
		return uint32(ch), err
	}

	ch, err := fieldFMChannel.read(t.regs)
	return uint32(ch) * fmChannelSpacingKHz, err
}

// SetMute mutes or unmutes the audio output.
func (t *Tuner) SetMute(mute bool) error {
	if err := t.lock(); err != nil {
		return err
	}
	defer t.mtx.Unlock()
	return t.setMute(mute)
}

func (t *Tuner) setMute(mute bool) error {
	return fieldUnmute.set(t.regs, !mute)
}

// SetVolume sets the volume. level goes from -60 to 0 in steps of 2 and
// is not clamped, callers must keep it in range.
func (t *Tuner) SetVolume(level int) error {
	if err := t.lock(); err != nil {
		return err
	}
	defer t.mtx.Unlock()

	// map [-60, 0] to [1, 31]
	return fieldVolume.update(t.regs, uint16(level/2+31))
}

// SetAudioGain sets the audio gain. Valid values are -3, 0, 3 and 6 dB.
func (t *Tuner) SetAudioGain(db int) error {
	v, ok := audioGains[db]
	if !ok {
		return fmt.Errorf("audio gain %d dB: %w", db, ErrInvalidParameter)
	}

	if err := t.lock(); err != nil {
		return err
	}
	defer t.mtx.Unlock()
	return fieldAudioGain.update(t.regs, v)
}

// SetDeemphasis sets the FM de-emphasis time constant.
func (t *Tuner) SetDeemphasis(d Deemphasis) error {
	v, ok := deemphasisValues[d]
	if !ok {
		return fmt.Errorf("de-emphasis %d us: %w", int(d), ErrInvalidParameter)
	}

	if err := t.lock(); err != nil {
		return err
	}
	defer t.mtx.Unlock()
	return fieldDeemphasis.update(t.regs, v)
}

// SetStereoEnabled selects stereo or mono decoding. AM is mono only.
func (t *Tuner) SetStereoEnabled(stereo bool) error {
	if err := t.lock(); err != nil {
		return err
	}
	defer t.mtx.Unlock()

	if stereo && t.band == BandAM {
		return fmt.Errorf("stereo on %s: %w", t.band, ErrInvalidParameter)
	}
	return fieldMono.set(t.regs, !stereo)
}

// StereoEnabled reports whether stereo decoding is configured.
// Use StereoDetected to know if a stereo signal is actually received.
func (t *Tuner) StereoEnabled() (bool, error) {
	if err := t.lock(); err != nil {
		return false, err
	}
	defer t.mtx.Unlock()
	return t.stereoEnabled()
}

func (t *Tuner) stereoEnabled() (bool, error) {
	mono, err := fieldMono.isSet(t.regs)
	return !mono, err
}

// StereoDetected reports whether the stereo pilot is being received.
func (t *Tuner) StereoDetected() (bool, error) {
	if err := t.lock(); err != nil {
		return false, err
	}
	defer t.mtx.Unlock()
	return t.stereoDetected()
}

func (t *Tuner) stereoDetected() (bool, error) {
	st, err := fieldStereo.read(t.regs)
	return st == stereoPilot, err
}

// PLLLocked reports whether the system PLL is locked.
func (t *Tuner) PLLLocked() (bool, error) {
	if err := t.lock(); err != nil {
		return false, err
	}
	defer t.mtx.Unlock()
	return fieldPLLLock.isSet(t.regs)
}

// SignalStrength returns the RSSI of the current band scaled to 0..65535.
func (t *Tuner) SignalStrength() (uint16, error) {
	if err := t.lock(); err != nil {
		return 0, err
	}
	defer t.mtx.Unlock()
	return t.signalStrength()
}

func (t *Tuner) signalStrength() (uint16, error) {
	f := fieldFMRSSI
	if t.band == BandAM {
		f = fieldAMRSSI
	}

	raw, err := f.read(t.regs)
	if err != nil {
		return 0, err
	}
	return scaleRSSI(raw, f.maxRaw()), nil
}

// scaleRSSI maps 0..top to 0..65535 with truncating integer arithmetic.
func scaleRSSI(raw, top uint16) uint16 {
	return uint16(uint32(raw) * maxSignal / uint32(top))
}

// FMSNR returns the raw FM signal to noise ratio reported by the chip.
func (t *Tuner) FMSNR() (uint8, error) {
	if err := t.lock(); err != nil {
		return 0, err
	}
	defer t.mtx.Unlock()

	snr, err := fieldFMSNR.read(t.regs)
	return uint8(snr), err
}

// lock takes the tuner mutex. A nil tuner belongs to a driver that
// was not started.
func (t *Tuner) lock() error {
	if t == nil {
		return ErrNotStarted
	}
	t.mtx.Lock()
	return nil
}

// EnterStandby puts the whole receiver in its low power state.
func (t *Tuner) EnterStandby() error {
	return t.setStandby(true)
}

// LeaveStandby wakes the receiver up from standby.
func (t *Tuner) LeaveStandby() error {
	return t.setStandby(false)
}

func (t *Tuner) setStandby(standby bool) error {
	if err := t.lock(); err != nil {
		return err
	}
	defer t.mtx.Unlock()

	if t.debugMode {
		t.debugLog("Standby -> %t\n", standby)
	}
	return fieldStandby.set(t.regs, standby)
}

// TunerStatus is a snapshot of the receiver state.
type TunerStatus struct {
	Band BandDescriptor

	// FrequencyKHz is the tuned frequency.
	FrequencyKHz uint32

	// StereoEnabled is the configured decoding mode, always false on AM.
	StereoEnabled bool

	// StereoDetected is true when a stereo pilot is received, always false on AM.
	StereoDetected bool

	// Signal is the signal strength on a 0..65535 scale.
	Signal uint16

	PLLLocked bool

	// AFC is always enabled by the power up defaults.
	AFC bool
}

// Status reads the tuner state from the chip.
func (t *Tuner) Status() (TunerStatus, error) {
	if err := t.lock(); err != nil {
		return TunerStatus{}, err
	}
	defer t.mtx.Unlock()

	st := TunerStatus{
		Band: bandDescriptors[t.band],
		AFC:  true,
	}
	var err error

	if st.FrequencyKHz, err = t.frequency(); err != nil {
		return st, err
	}

	if t.band.IsFM() {
		if st.StereoEnabled, err = t.stereoEnabled(); err != nil {
			return st, err
		}
		if st.StereoDetected, err = t.stereoDetected(); err != nil {
			return st, err
		}
	}

	if st.Signal, err = t.signalStrength(); err != nil {
		return st, err
	}

	st.PLLLocked, err = fieldPLLLock.isSet(t.regs)
	return st, err
}
