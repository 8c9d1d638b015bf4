package radio

import (
	"errors"
	"math/bits"
	"sync"

	"gobot.io/x/gobot/drivers/i2c"
)

var errUnsupported = errors.New("operation not supported by the kt0913")

// I2CTestAdaptor emulates the register file of a KT0913 behind an i2c
// connection. Words go over the line MSB first, so the SMBus word calls
// see them byte swapped like on real hardware.
type I2CTestAdaptor struct {
	name          string
	mtx           sync.Mutex
	registers     map[uint8]uint16
	written       []regValue
	i2cConnectErr bool
	i2cReadErr    func(reg uint8) error
	i2cWriteErr   func(reg uint8, val uint16) error
}

// NewI2cTestAdaptor returns an adaptor with a KT0913 answering on the bus.
func NewI2cTestAdaptor() *I2CTestAdaptor {
	return &I2CTestAdaptor{
		registers: map[uint8]uint16{
			REG_CHIP_ID: CHIP_ID,
		},
	}
}

func (t *I2CTestAdaptor) register(reg uint8) uint16 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.registers[reg]
}

func (t *I2CTestAdaptor) setRegister(reg uint8, val uint16) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.registers[reg] = val
}

func (t *I2CTestAdaptor) writes() []regValue {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return append([]regValue(nil), t.written...)
}

func (t *I2CTestAdaptor) Read(b []byte) (count int, err error) {
	return 0, errUnsupported
}

func (t *I2CTestAdaptor) Write(b []byte) (count int, err error) {
	return 0, errUnsupported
}

func (t *I2CTestAdaptor) Close() error {
	return nil
}

func (t *I2CTestAdaptor) ReadByte() (val byte, err error) {
	return 0, errUnsupported
}

func (t *I2CTestAdaptor) ReadByteData( /* reg */ uint8) (val uint8, err error) {
	return 0, errUnsupported
}

func (t *I2CTestAdaptor) ReadWordData(reg uint8) (val uint16, err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if t.i2cReadErr != nil {
		if err = t.i2cReadErr(reg); err != nil {
			return 0, err
		}
	}
	return bits.ReverseBytes16(t.registers[reg]), nil
}

func (t *I2CTestAdaptor) WriteByte( /* val */ byte) (err error) {
	return errUnsupported
}

func (t *I2CTestAdaptor) WriteByteData( /* reg */ uint8 /* val */, uint8) (err error) {
	return errUnsupported
}

func (t *I2CTestAdaptor) WriteWordData(reg uint8, val uint16) (err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	val = bits.ReverseBytes16(val)
	if t.i2cWriteErr != nil {
		if err = t.i2cWriteErr(reg, val); err != nil {
			return err
		}
	}
	t.written = append(t.written, regValue{reg, val})
	t.registers[reg] = val
	return nil
}

func (t *I2CTestAdaptor) WriteBlockData( /* reg */ uint8 /* b */, []byte) (err error) {
	return errUnsupported
}

func (t *I2CTestAdaptor) GetConnection( /* address */ int /* bus */, int) (connection i2c.Connection, err error) {
	if t.i2cConnectErr {
		return nil, errors.New("invalid i2c connection")
	}
	return t, nil
}

func (t *I2CTestAdaptor) GetDefaultBus() int {
	return 0
}

func (t *I2CTestAdaptor) Name() string          { return t.name }
func (t *I2CTestAdaptor) SetName(n string)      { t.name = n }
func (t *I2CTestAdaptor) Connect() (err error)  { return }
func (t *I2CTestAdaptor) Finalize() (err error) { return }

type regOp struct {
	op   string
	reg  uint8
	mask uint16
	val  uint16
}

// recordingRegs is a RegisterMap keeping every operation in order.
type recordingRegs struct {
	registers map[uint8]uint16
	ops       []regOp
	failOn    func(op regOp) error
}

func newRecordingRegs() *recordingRegs {
	return &recordingRegs{
		registers: map[uint8]uint16{
			REG_CHIP_ID: CHIP_ID,
		},
	}
}

func (r *recordingRegs) do(op regOp) error {
	r.ops = append(r.ops, op)
	if r.failOn != nil {
		return r.failOn(op)
	}
	return nil
}

func (r *recordingRegs) Read(reg uint8) (uint16, error) {
	if err := r.do(regOp{op: "read", reg: reg}); err != nil {
		return 0, err
	}
	return r.registers[reg], nil
}

func (r *recordingRegs) Write(reg uint8, val uint16) error {
	if err := r.do(regOp{op: "write", reg: reg, val: val}); err != nil {
		return err
	}
	r.registers[reg] = val
	return nil
}

func (r *recordingRegs) UpdateBits(reg uint8, mask, val uint16) error {
	if err := r.do(regOp{op: "update", reg: reg, mask: mask, val: val}); err != nil {
		return err
	}
	r.registers[reg] = r.registers[reg]&^mask | val&mask
	return nil
}

// writesTo returns the ops that changed reg, in order.
func (r *recordingRegs) writesTo(reg uint8) []regOp {
	var res []regOp
	for _, op := range r.ops {
		if op.reg == reg && op.op != "read" {
			res = append(res, op)
		}
	}
	return res
}

// mutations returns every write and update, in order.
func (r *recordingRegs) mutations() []regOp {
	var res []regOp
	for _, op := range r.ops {
		if op.op != "read" {
			res = append(res, op)
		}
	}
	return res
}

func (r *recordingRegs) reset() {
	r.ops = nil
	r.failOn = nil
}

func testConfig() KT0913Config {
	return KT0913Config{
		Log: func(string, ...interface{}) {},
	}
}
