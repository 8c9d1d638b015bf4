// Package periphbus gives access to the KT0913 registers through a
// periph.io I2C bus, for tools that run outside of a gobot robot.
package periphbus

import (
	"encoding/binary"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
)

// RegisterMap reads and writes 16 bit big-endian registers of an I2C device.
// It satisfies radio.RegisterMap.
type RegisterMap struct {
	mtx sync.Mutex
	dev *i2c.Dev
}

// New returns a RegisterMap for the device at addr on bus.
func New(bus i2c.Bus, addr uint16) *RegisterMap {
	return &RegisterMap{dev: &i2c.Dev{Bus: bus, Addr: addr}}
}

// Read a register with a repeated start transaction.
func (m *RegisterMap) Read(reg uint8) (uint16, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.read(reg)
}

// Write a register.
func (m *RegisterMap) Write(reg uint8, val uint16) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.write(reg, val)
}

// UpdateBits sets the bits of reg selected by mask to the ones in val.
// Nothing is written when the register already holds them.
func (m *RegisterMap) UpdateBits(reg uint8, mask, val uint16) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	orig, err := m.read(reg)
	if err != nil {
		return err
	}

	tmp := orig&^mask | val&mask
	if tmp == orig {
		return nil
	}
	return m.write(reg, tmp)
}

func (m *RegisterMap) read(reg uint8) (uint16, error) {
	var buf [2]byte
	if err := m.dev.Tx([]byte{reg}, buf[:]); err != nil {
		return 0, fmt.Errorf("read register 0x%02x: %w", reg, err)
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (m *RegisterMap) write(reg uint8, val uint16) error {
	buf := []byte{reg, 0, 0}
	binary.BigEndian.PutUint16(buf[1:], val)
	if err := m.dev.Tx(buf, nil); err != nil {
		return fmt.Errorf("write register 0x%02x: %w", reg, err)
	}
	return nil
}
