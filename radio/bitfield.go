package radio

import "math/bits"

// field describes a group of bits inside one of the chip registers.
// The shift is derived from the lowest set bit of the mask, so a field
// only needs its register address and mask to be fully described.
type field struct {
	reg  uint8
	mask uint16
}

func (f field) shift() uint {
	return uint(bits.TrailingZeros16(f.mask))
}

// encode places v in the field position. Bits of v that do not fit the
// field are dropped.
func (f field) encode(v uint16) uint16 {
	return (v << f.shift()) & f.mask
}

// decode extracts the field value from a full register value.
func (f field) decode(regVal uint16) uint16 {
	return (regVal & f.mask) >> f.shift()
}

// maxRaw is the largest raw value the field can hold.
func (f field) maxRaw() uint16 {
	return f.mask >> f.shift()
}

// update writes v into the field without touching the other bits of the register.
func (f field) update(regs RegisterMap, v uint16) error {
	return regs.UpdateBits(f.reg, f.mask, f.encode(v))
}

// read fetches the register and decodes the field.
func (f field) read(regs RegisterMap) (uint16, error) {
	val, err := regs.Read(f.reg)
	if err != nil {
		return 0, err
	}
	return f.decode(val), nil
}

// flag is a single-bit field.
type flag field

func (f flag) set(regs RegisterMap, on bool) error {
	var v uint16
	if on {
		v = 1
	}
	return field(f).update(regs, v)
}

func (f flag) isSet(regs RegisterMap) (bool, error) {
	v, err := field(f).read(regs)
	return v == 1, err
}
