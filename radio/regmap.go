package radio

import (
	"fmt"
	"math/bits"
	"sync"

	"gobot.io/x/gobot/drivers/i2c"
)

// RegisterMap gives access to the 16 bit registers of the chip.
// Implementations must make every call atomic with respect to the others,
// UpdateBits included, and return transport errors unchanged or wrapped.
type RegisterMap interface {
	Read(reg uint8) (uint16, error)
	Write(reg uint8, val uint16) error
	// UpdateBits changes only the bits set in mask to the matching bits of val.
	UpdateBits(reg uint8, mask, val uint16) error
}

// I2CRegisterMap implements RegisterMap on top of a gobot i2c.Connection
// using SMBus word transfers. SMBus sends words LSB first while the chip
// expects MSB first, so every word is byte swapped.
type I2CRegisterMap struct {
	mtx  sync.Mutex
	conn i2c.Connection

	debugMode bool
	debugLog  func(format string, v ...interface{})
}

// NewRegisterMap wraps conn. debugLog may be nil.
func NewRegisterMap(conn i2c.Connection, debugLog func(format string, v ...interface{})) *I2CRegisterMap {
	return &I2CRegisterMap{
		conn:      conn,
		debugMode: debugLog != nil,
		debugLog:  debugLog,
	}
}

// Read a register.
func (m *I2CRegisterMap) Read(reg uint8) (uint16, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.read(reg)
}

// Write a register.
func (m *I2CRegisterMap) Write(reg uint8, val uint16) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.write(reg, val)
}

// UpdateBits performs a read-modify-write of reg. The write is skipped
// when the register already holds the requested bits.
func (m *I2CRegisterMap) UpdateBits(reg uint8, mask, val uint16) error {
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

func (m *I2CRegisterMap) read(reg uint8) (uint16, error) {
	val, err := m.conn.ReadWordData(reg)
	if err != nil {
		return 0, fmt.Errorf("read register 0x%02x: %w", reg, err)
	}
	val = bits.ReverseBytes16(val)

	if m.debugMode {
		m.debugLog("read  0x%02x = 0x%04x\n", reg, val)
	}
	return val, nil
}

func (m *I2CRegisterMap) write(reg uint8, val uint16) error {
	if m.debugMode {
		m.debugLog("write 0x%02x = 0x%04x\n", reg, val)
	}

	if err := m.conn.WriteWordData(reg, bits.ReverseBytes16(val)); err != nil {
		return fmt.Errorf("write register 0x%02x: %w", reg, err)
	}
	return nil
}
