package radio

// AntiPop selects the capacitor used by the audio DAC anti-pop circuit.
type AntiPop uint8

// Anti-pop capacitor settings.
const (
	AntiPop100uF AntiPop = iota
	AntiPop60uF
	AntiPop20uF
	AntiPop10uF
)

// RefClock selects the reference clock the chip runs from.
type RefClock uint8

// Reference clock settings.
const (
	RefClock32768Hz RefClock = iota
	RefClock6500kHz
	RefClock7600kHz
	RefClock12MHz
	RefClock13MHz
	RefClock15200kHz
	RefClock19200kHz
	RefClock24MHz
	RefClock26MHz
	RefClock38kHz
)

// KT0913Config holds the configuration applied once when the tuner is initialized.
type KT0913Config struct {
	// AntiPop is the audio DAC anti-pop capacitor, 0 (100uF) to 3 (10uF).
	AntiPop AntiPop

	// RefClock is the reference clock, 0 (32.768kHz) to 9 (38kHz).
	RefClock RefClock

	// CampusBand enables the extended FM range down to 32MHz.
	CampusBand bool

	DebugMode bool
	DebugLog  func(format string, v ...interface{})
	Log       func(format string, v ...interface{})
}

// Validate ensures that our KT0913 configuration is valid.
// Out of range hardware settings are clamped, like the chip driver
// does with its device tree properties.
//noinspection GoUnnecessarilyExportedIdentifiers
func (c *KT0913Config) Validate() error {
	if c.Log == nil {
		c.Log = func(string, ...interface{}) {}
	}
	if c.DebugMode && c.DebugLog == nil {
		panic("cannot use debugging mode without configuring a DebugLog function, e.g. log.Printf")
	}

	if c.AntiPop > AntiPop10uF {
		c.Log("Anti-pop setting %d > %d. Adjusting to maximum of %d.\n", c.AntiPop, AntiPop10uF, AntiPop10uF)
		c.AntiPop = AntiPop10uF
	}

	if c.RefClock > RefClock38kHz {
		c.Log("Reference clock setting %d > %d. Adjusting to maximum of %d.\n", c.RefClock, RefClock38kHz, RefClock38kHz)
		c.RefClock = RefClock38kHz
	}

	return nil
}
