package radio

// Misc constants.
//
//goland:noinspection GoUnusedConst,GoUnnecessarilyExportedIdentifiers,GoSnakeCaseUsage
const (
	// Address is the fixed I2C address of the KT0913.
	Address = 0x35

	// CHIP_ID is the value of the identity register, ASCII 'KT'.
	CHIP_ID = 0x544B
)

// Registers of the KT0913 used by this driver. Every register is 16 bits
// wide and is transferred MSB first.
//
//goland:noinspection GoUnusedConst,GoUnnecessarilyExportedIdentifiers,GoSnakeCaseUsage
const (
	// REG_CHIP_ID holds the chip identifier.
	REG_CHIP_ID = 0x01

	// REG_SEEK configures FM channel spacing and the L/R mute.
	REG_SEEK = 0x02

	// REG_TUNE holds the FM channel in 50 kHz steps and the FM tune trigger.
	REG_TUNE = 0x03

	// REG_VOLUME holds soft mute, mute, de-emphasis and the DAC anti-pop setting.
	REG_VOLUME = 0x04

	// REG_DSPCFGA holds the mono/stereo selection and stereo blend settings.
	REG_DSPCFGA = 0x05

	// REG_LOCFGA holds the FM AFC configuration.
	REG_LOCFGA = 0x0A

	// REG_LOCFGC holds the campus band enable.
	REG_LOCFGC = 0x0C

	// REG_RXCFG holds the standby bit and the volume.
	REG_RXCFG = 0x0F

	// REG_STATUSA reports PLL lock, stereo pilot and the FM RSSI.
	REG_STATUSA = 0x12

	// REG_STATUSB is the second status register.
	REG_STATUSB = 0x13

	// REG_STATUSC reports power status, chip ready and the FM SNR.
	REG_STATUSC = 0x14

	// REG_AMSYSCFG holds the AM/FM mode, reference clock and audio gain.
	REG_AMSYSCFG = 0x16

	// REG_AMCHAN holds the AM channel in kHz and the AM tune trigger.
	REG_AMCHAN = 0x17

	// REG_AMCALI is the AM calibration register.
	REG_AMCALI = 0x18

	// REG_GPIOCFG configures the VOL and CH pins.
	REG_GPIOCFG = 0x1D

	// REG_AMDSP holds the AM channel bandwidth.
	REG_AMDSP = 0x22

	// REG_AMSTATUSA reports the AM RSSI.
	REG_AMSTATUSA = 0x24

	// REG_AMSTATUSB is the second AM status register.
	REG_AMSTATUSB = 0x25

	// REG_SOFTMUTE configures AM and FM soft mute.
	REG_SOFTMUTE = 0x2E

	// REG_AMCFG holds the AM channel spacing and the key working mode.
	REG_AMCFG = 0x33

	// REG_AMCFG2 holds AM timing settings.
	REG_AMCFG2 = 0x34

	// REG_AFC is the AFC register, the highest register address.
	REG_AFC = 0x3C
)

// Bit fields of the registers above.
var (
	fieldFMTune    = flag{reg: REG_TUNE, mask: 0x8000}
	fieldFMChannel = field{reg: REG_TUNE, mask: 0x0FFF}

	// set means audio on
	fieldUnmute     = flag{reg: REG_VOLUME, mask: 0x2000}
	fieldDeemphasis = field{reg: REG_VOLUME, mask: 0x0800}
	fieldAntiPop    = field{reg: REG_VOLUME, mask: 0x0030}

	fieldMono = flag{reg: REG_DSPCFGA, mask: 0x8000}

	fieldCampusBand = flag{reg: REG_LOCFGC, mask: 0x0008}

	fieldStandby = flag{reg: REG_RXCFG, mask: 0x1000}
	fieldVolume  = field{reg: REG_RXCFG, mask: 0x001F}

	fieldPLLLock = flag{reg: REG_STATUSA, mask: 0x0800}
	fieldStereo  = field{reg: REG_STATUSA, mask: 0x0300}
	fieldFMRSSI  = field{reg: REG_STATUSA, mask: 0x00F8}

	fieldFMSNR = field{reg: REG_STATUSC, mask: 0x1FC0}

	fieldAMTune    = flag{reg: REG_AMCHAN, mask: 0x8000}
	fieldAMChannel = field{reg: REG_AMCHAN, mask: 0x07FF}

	fieldAMMode    = flag{reg: REG_AMSYSCFG, mask: 0x8000}
	fieldRefClock  = field{reg: REG_AMSYSCFG, mask: 0x0F00}
	fieldAudioGain = field{reg: REG_AMSYSCFG, mask: 0x00C0}

	fieldAMRSSI = field{reg: REG_AMSTATUSA, mask: 0x1F00}
)

// stereoPilot is the fieldStereo value reported while a stereo signal is received.
const stereoPilot = 0x3

// audioGains maps the audio gain in dB to the AU_GAIN field value.
var audioGains = map[int]uint16{
	6:  0x1,
	3:  0x0,
	0:  0x3,
	-3: 0x2,
}

// deemphasisValues maps the de-emphasis time constant to the DE field value.
var deemphasisValues = map[Deemphasis]uint16{
	Deemphasis75us: 0,
	Deemphasis50us: 1,
}

type regValue struct {
	reg uint8
	val uint16
}

// initSequence puts the chip in a known state after power up. The order
// matters: the tune write must come after the AM/FM mode selection.
var initSequence = []regValue{
	// Standby disabled, volume 0dB
	{REG_RXCFG, 0x881F},
	// FM channel spacing = 50kHz, right & left unmuted
	{REG_SEEK, 0x000B},
	// Stereo, high stereo/mono blend level, blend disabled
	{REG_DSPCFGA, 0x1000},
	// FM AFC enabled
	{REG_LOCFGA, 0x0100},
	// Campus band disabled
	{REG_LOCFGC, 0x0024},
	// FM mode, internal bands, clock from XT at 32.768kHz,
	// 3dB audio gain, AM AFC enabled
	{REG_AMSYSCFG, 0x0002},
	// AM frequency = 504kHz
	{REG_AMCHAN, 0x01F8},
	// VOL and CH pins in HiZ
	{REG_GPIOCFG, 0x0000},
	// AM channel bandwidth = 6kHz, non-differential output
	{REG_AMDSP, 0xAFC4},
	// Soft mute disabled on AM and FM, defaults for attenuation,
	// attack/recover, start levels and target volume
	{REG_SOFTMUTE, 0x0010},
	// 1kHz AM channel spacing, working mode A for the keys
	{REG_AMCFG, 0x1401},
	// TIME1 = shortest, TIME2 = fastest
	{REG_AMCFG, 0x4050},
	// Tune 86MHz
	{REG_TUNE, 0x86B8},
	// Soft mute disabled, mute disabled, 75us de-emphasis,
	// no bass boost, 100uF anti-pop cap
	{REG_VOLUME, 0xE080},
}
