// Package display drives a 16x2 character LCD behind a PCF8574 I2C
// backpack, such as the SunFounder LCD1602, and renders the receiver
// status on it.
package display

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"amfmradio/radio"

	"gobot.io/x/gobot"
	"gobot.io/x/gobot/drivers/i2c"
)

// Address is the default address of the backpack.
const Address = 0x27

// Size of the screen in characters.
const (
	Columns = 16
	Rows    = 2
)

// Bits of the backpack port. The LCD data lines are wired to the high nibble.
const (
	modeCommand = 0x00
	modeData    = 0x01
	enable      = 0x04
	backlight   = 0x08
)

// LCD1602Driver controls a 1602 character LCD in 4 bit mode.
//
//goland:noinspection GoUnnecessarilyExportedIdentifiers
type LCD1602Driver struct {
	name         string
	i2cConnector i2c.Connector
	i2c.Config
	gobot.Commander

	mtx       sync.Mutex
	conn      i2c.Connection
	backlight bool

	sleep func(time.Duration)
}

// Name of our device
func (lcd *LCD1602Driver) Name() string {
	return lcd.name
}

// SetName set the name of our device
func (lcd *LCD1602Driver) SetName(name string) {
	lcd.name = name
}

// Start switches the controller to 4 bit mode, 2 lines, display on and
// clears the screen.
func (lcd *LCD1602Driver) Start() error {
	bus := lcd.GetBusOrDefault(lcd.i2cConnector.GetDefaultBus())
	addr := lcd.GetAddressOrDefault(Address)

	var err error
	lcd.conn, err = lcd.i2cConnector.GetConnection(addr, bus)
	if err != nil {
		return err
	}

	lcd.mtx.Lock()
	defer lcd.mtx.Unlock()

	for _, cmd := range []byte{0x33, 0x32, 0x28, 0x0C} {
		if err = lcd.send(modeCommand, cmd); err != nil {
			return err
		}
		lcd.sleep(5 * time.Millisecond)
	}

	return lcd.clear()
}

// Halt turns the backlight off and clears the screen
func (lcd *LCD1602Driver) Halt() error {
	if lcd.conn == nil {
		return nil
	}

	lcd.mtx.Lock()
	defer lcd.mtx.Unlock()

	lcd.backlight = false
	return lcd.clear()
}

// Connection retrieves the i2c connection to the device
func (lcd *LCD1602Driver) Connection() gobot.Connection {
	return lcd.i2cConnector.(gobot.Connection)
}

// write puts b on the backpack port, keeping the backlight bit as configured.
func (lcd *LCD1602Driver) write(b byte) error {
	if lcd.backlight {
		b |= backlight
	}
	return lcd.conn.WriteByte(b)
}

// send clocks b into the controller, high nibble first.
func (lcd *LCD1602Driver) send(mode, b byte) error {
	for _, nibble := range []byte{b & 0xF0, (b & 0x0F) << 4} {
		if err := lcd.write(nibble | mode | enable); err != nil {
			return err
		}
		lcd.sleep(2 * time.Millisecond)
		if err := lcd.write(nibble | mode); err != nil {
			return err
		}
	}
	return nil
}

func (lcd *LCD1602Driver) clear() error {
	if err := lcd.send(modeCommand, 0x01); err != nil {
		return err
	}
	lcd.sleep(2 * time.Millisecond)
	return nil
}

// Clear removes any message from the screen
func (lcd *LCD1602Driver) Clear() error {
	lcd.mtx.Lock()
	defer lcd.mtx.Unlock()
	return lcd.clear()
}

// SetBacklight turns the backlight on or off.
func (lcd *LCD1602Driver) SetBacklight(on bool) error {
	lcd.mtx.Lock()
	defer lcd.mtx.Unlock()

	lcd.backlight = on
	return lcd.write(0)
}

func (lcd *LCD1602Driver) printLine(row int, msg string) error {
	if row < 0 {
		row = 0
	}
	if row >= Rows {
		row = Rows - 1
	}

	if len(msg) > Columns {
		msg = msg[:Columns]
	}
	msg += strings.Repeat(" ", Columns-len(msg))

	// move the cursor to the start of the row
	if err := lcd.send(modeCommand, byte(0x80+0x40*row)); err != nil {
		return err
	}

	for i := 0; i < len(msg); i++ {
		if err := lcd.send(modeData, msg[i]); err != nil {
			return err
		}
	}
	return nil
}

// PrintLine writes msg on row, truncated or padded with spaces to the
// width of the screen.
func (lcd *LCD1602Driver) PrintLine(row int, msg string) error {
	lcd.mtx.Lock()
	defer lcd.mtx.Unlock()
	return lcd.printLine(row, msg)
}

// ShowMessage renders msg over both rows.
func (lcd *LCD1602Driver) ShowMessage(msg string) error {
	lcd.mtx.Lock()
	defer lcd.mtx.Unlock()

	var second string
	if len(msg) > Columns {
		msg, second = msg[:Columns], msg[Columns:]
	}
	if err := lcd.printLine(0, msg); err != nil {
		return err
	}
	return lcd.printLine(1, second)
}

// ShowStatus renders the tuned station on the first row and the signal
// strength on the second one.
func (lcd *LCD1602Driver) ShowStatus(st radio.TunerStatus) error {
	lcd.mtx.Lock()
	defer lcd.mtx.Unlock()

	first, second := StatusLines(st)
	if err := lcd.printLine(0, first); err != nil {
		return err
	}
	return lcd.printLine(1, second)
}

// StatusLines formats st for the screen, e.g.
//
//	FM  98.10MHz  ST
//	########   80%
func StatusLines(st radio.TunerStatus) (string, string) {
	var first string
	if st.Band.Band == radio.BandAM {
		first = fmt.Sprintf("AM %6dkHz", st.FrequencyKHz)
	} else {
		first = fmt.Sprintf("FM %6.2fMHz", float64(st.FrequencyKHz)/1000)
		if st.StereoDetected {
			first += "  ST"
		}
	}

	if !st.PLLLocked {
		return first, "no lock"
	}

	bars := int(st.Signal) * 10 / 65535
	pct := int(st.Signal) * 100 / 65535
	return first, fmt.Sprintf("%-10s %3d%%", strings.Repeat("#", bars), pct)
}

func (lcd *LCD1602Driver) addCommands() {
	lcd.AddCommand("ShowMessage", func(params map[string]interface{}) interface{} {
		msg, ok := params["message"].(string)
		if !ok {
			return fmt.Errorf("missing param %q", "message")
		}
		return lcd.ShowMessage(msg)
	})

	lcd.AddCommand("Clear", func(params map[string]interface{}) interface{} {
		return lcd.Clear()
	})
}

// NewLCD1602Driver creates a new GoBot driver for the LCD.
//
// Optional params:
//		i2c.WithBus(int):	bus to use with this driver
//		i2c.WithAddress(int):	address to use with this driver
func NewLCD1602Driver(connector i2c.Connector, options ...func(i2c.Config)) *LCD1602Driver {
	lcd := &LCD1602Driver{
		name:         gobot.DefaultName("LCD1602Driver"),
		i2cConnector: connector,
		Config:       i2c.NewConfig(),
		Commander:    gobot.NewCommander(),
		backlight:    true,
		sleep:        time.Sleep,
	}

	for _, option := range options {
		option(lcd)
	}

	lcd.addCommands()

	return lcd
}
