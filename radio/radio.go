// Package radio implements a driver for the KTMicro KT0913 AM/FM receiver.
//
// The chip is controlled through 16 bit registers over I2C. Tuner holds the
// register level logic and works on any RegisterMap; KT0913Driver wraps it
// as a gobot device that talks to the chip through an i2c.Connector.
//
// The driver is based on the Linux radio-kt0913 driver. To read about the
// chip itself, see the KT0913 datasheet published by KTMicro.
package radio

import (
	multierror "github.com/hashicorp/go-multierror"
	"gobot.io/x/gobot"
	"gobot.io/x/gobot/drivers/i2c"
)

// KT0913Driver holds the implementation to talk to a KT0913 receiver.
// The Tuner methods return ErrNotStarted until Start succeeded.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers
type KT0913Driver struct {
	*Tuner

	name         string
	conn         i2c.Connection
	i2cConnector i2c.Connector
	i2c.Config
	gobot.Commander

	cfg KT0913Config

	debugMode bool
	debugLog  func(format string, v ...interface{})
	log       func(format string, v ...interface{})
}

// Name of our device.
func (d *KT0913Driver) Name() string {
	return d.name
}

// SetName set the name of our device.
func (d *KT0913Driver) SetName(name string) {
	d.name = name
}

// Start connects to the chip, checks its identity and initializes it,
// see NewTuner.
func (d *KT0913Driver) Start() error {
	bus := d.GetBusOrDefault(d.i2cConnector.GetDefaultBus())
	addr := d.GetAddressOrDefault(Address)

	var err error
	d.conn, err = d.i2cConnector.GetConnection(addr, bus)
	if err != nil {
		return err
	}

	var debugLog func(format string, v ...interface{})
	if d.debugMode {
		debugLog = d.debugLog
	}
	regs := NewRegisterMap(d.conn, debugLog)

	tuner, err := NewTuner(regs, d.cfg)
	if err != nil {
		return err
	}

	d.Tuner = tuner
	d.log("kt0913 found @ 0x%x (bus %d)\n", addr, bus)
	return nil
}

// Halt mutes the audio and puts the receiver in standby. Both steps are
// attempted even if the first one fails.
func (d *KT0913Driver) Halt() error {
	if d.Tuner == nil {
		return nil
	}

	var result *multierror.Error
	if err := d.SetMute(true); err != nil {
		result = multierror.Append(result, err)
	}
	if err := d.EnterStandby(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// Connection retrieves the i2c connection to the device.
func (d *KT0913Driver) Connection() gobot.Connection {
	return d.i2cConnector.(gobot.Connection)
}

// NewKT0913Driver creates a new GoBot driver for our AM/FM receiver.
//
// Optional params:
//
//	i2c.WithBus(int):	bus to use with this driver
//	i2c.WithAddress(int):	address to use with this driver
func NewKT0913Driver(connector i2c.Connector, cfg KT0913Config, options ...func(i2c.Config)) (*KT0913Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &KT0913Driver{
		name:         gobot.DefaultName("KT0913Driver"),
		i2cConnector: connector,
		Config:       i2c.NewConfig(),
		Commander:    gobot.NewCommander(),

		cfg:       cfg,
		debugMode: cfg.DebugMode,
		debugLog:  cfg.DebugLog,
		log:       cfg.Log,
	}

	for _, option := range options {
		option(res)
	}

	res.addCommands()

	return res, nil
}
