// Command kt0913ctl inspects and controls a KT0913 receiver from the shell.
//
// Each invocation opens the I2C bus, talks to the chip and exits. Only the
// init subcommand writes the power up defaults, the others adopt the state
// the chip is in.
package main

import (
	"fmt"
	"log"
	"os"

	"amfmradio/periphbus"
	"amfmradio/radio"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := newRootCmd(openPeriph).Execute(); err != nil {
		os.Exit(1)
	}
}

// openFunc gives access to the registers of the chip at addr on bus and
// returns the function releasing the bus.
type openFunc func(bus string, addr uint16) (radio.RegisterMap, func() error, error)

func openPeriph(bus string, addr uint16) (radio.RegisterMap, func() error, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("couldn't initialize peripherals: %w", err)
	}

	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't open i2c bus %q: %w", bus, err)
	}

	return periphbus.New(b, addr), b.Close, nil
}
