package periphbus

import (
	"errors"
	"testing"

	"amfmradio/radio"

	"gobot.io/x/gobot/gobottest"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

var _ radio.RegisterMap = (*RegisterMap)(nil)

func TestRead(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: radio.Address, W: []byte{radio.REG_CHIP_ID}, R: []byte{0x54, 0x4B}},
		},
	}
	regs := New(bus, radio.Address)

	id, err := regs.Read(radio.REG_CHIP_ID)
	gobottest.Assert(t, err, nil)
	gobottest.Assert(t, id, uint16(radio.CHIP_ID))
	gobottest.Assert(t, bus.Close(), nil)
}

func TestWrite(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: radio.Address, W: []byte{radio.REG_TUNE, 0x86, 0xB8}},
		},
	}
	regs := New(bus, radio.Address)

	gobottest.Assert(t, regs.Write(radio.REG_TUNE, 0x86B8), nil)
	gobottest.Assert(t, bus.Close(), nil)
}

func TestUpdateBits(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: radio.Address, W: []byte{radio.REG_VOLUME}, R: []byte{0xE0, 0x80}},
			{Addr: radio.Address, W: []byte{radio.REG_VOLUME, 0xC0, 0x80}},
			// already muted, no write
			{Addr: radio.Address, W: []byte{radio.REG_VOLUME}, R: []byte{0xC0, 0x80}},
		},
	}
	regs := New(bus, radio.Address)

	gobottest.Assert(t, regs.UpdateBits(radio.REG_VOLUME, 0x2000, 0x0000), nil)
	gobottest.Assert(t, regs.UpdateBits(radio.REG_VOLUME, 0x2000, 0x0000), nil)
	gobottest.Assert(t, bus.Close(), nil)
}

func TestTunerOverPeriph(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: radio.Address, W: []byte{radio.REG_CHIP_ID}, R: []byte{0x54, 0x4B}},
			{Addr: radio.Address, W: []byte{radio.REG_AMSYSCFG}, R: []byte{0x00, 0x02}},
			{Addr: radio.Address, W: []byte{radio.REG_STATUSA}, R: []byte{0x0B, 0xF8}},
		},
	}

	tuner, err := radio.Attach(New(bus, radio.Address), radio.KT0913Config{})
	gobottest.Assert(t, err, nil)
	gobottest.Assert(t, tuner.Band(), radio.BandFMStandard)

	signal, err := tuner.SignalStrength()
	gobottest.Assert(t, err, nil)
	gobottest.Assert(t, signal, uint16(65535))
	gobottest.Assert(t, bus.Close(), nil)
}

var errNAK = errors.New("i2c: NAK")

type failingBus struct{}

func (failingBus) String() string {
	return "failing"
}

func (failingBus) SetSpeed(physic.Frequency) error {
	return nil
}

func (failingBus) Tx(addr uint16, w, r []byte) error {
	return errNAK
}

func TestTransportErrors(t *testing.T) {
	regs := New(failingBus{}, radio.Address)

	_, err := regs.Read(radio.REG_STATUSA)
	gobottest.Assert(t, errors.Is(err, errNAK), true)

	err = regs.Write(radio.REG_TUNE, 0)
	gobottest.Assert(t, errors.Is(err, errNAK), true)

	err = regs.UpdateBits(radio.REG_TUNE, 0x8000, 0x8000)
	gobottest.Assert(t, errors.Is(err, errNAK), true)
}
