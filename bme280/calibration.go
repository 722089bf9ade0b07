package bme280

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	// calibration ranges

	AddrCalTPStart byte = 0x88
	AddrCalTPEnd   byte = 0xA1
	AddrCalHStart  byte = 0xE1
	AddrCalHEnd    byte = 0xE7

	calTPLen = int(AddrCalTPEnd-AddrCalTPStart) + 1
	calHLen  = int(AddrCalHEnd-AddrCalHStart) + 1
)

// Calibration is the set of factory trimming coefficients of one device.
//
// Field widths follow the register map in the datasheet, so a value that
// does not fit the register cannot be represented. A Calibration is never
// modified by the compensation methods.
type Calibration struct {
	T1 uint16 `json:"dig_T1"`
	T2 int16  `json:"dig_T2"`
	T3 int16  `json:"dig_T3"`

	P1 uint16 `json:"dig_P1"`
	P2 int16  `json:"dig_P2"`
	P3 int16  `json:"dig_P3"`
	P4 int16  `json:"dig_P4"`
	P5 int16  `json:"dig_P5"`
	P6 int16  `json:"dig_P6"`
	P7 int16  `json:"dig_P7"`
	P8 int16  `json:"dig_P8"`
	P9 int16  `json:"dig_P9"`

	H1 uint8 `json:"dig_H1"`
	H2 int16 `json:"dig_H2"`
	H3 uint8 `json:"dig_H3"`
	H4 int16 `json:"dig_H4"`
	H5 int16 `json:"dig_H5"`
	H6 int8  `json:"dig_H6"`
}

// DefaultCalibration is the coefficient set the verification transcripts
// were recorded with.
var DefaultCalibration = Calibration{
	T1: 28998, T2: 27158, T3: 50,
	P1: 36231, P2: -10432, P3: 3024, P4: 7042, P5: -68, P6: -7, P7: 9900, P8: -10230, P9: 4285,
	H1: 75, H2: 378, H3: 0, H4: 282, H5: 50, H6: 30,
}

// NewCalibration parses calibration data from both register dumps.
func NewCalibration(tp, h []byte) (c Calibration, err error) {
	// tp covers 0x88 through 0xA1
	// h covers 0xE1 through 0xE7
	if len(tp) != calTPLen {
		return c, fmt.Errorf("bme280: calibration block 0x%02X needs %d bytes, got %d", AddrCalTPStart, calTPLen, len(tp))
	}
	if len(h) != calHLen {
		return c, fmt.Errorf("bme280: calibration block 0x%02X needs %d bytes, got %d", AddrCalHStart, calHLen, len(h))
	}

	getInt16 := func(lsb, msb byte) int16 {
		return int16(lsb) | (int16(msb) << 8)
	}

	getUInt16 := func(lsb, msb byte) uint16 {
		return uint16(lsb) | (uint16(msb) << 8)
	}

	c.T1 = getUInt16(tp[0], tp[1])
	c.T2 = getInt16(tp[2], tp[3])
	c.T3 = getInt16(tp[4], tp[5])

	c.P1 = getUInt16(tp[6], tp[7])
	c.P2 = getInt16(tp[8], tp[9])
	c.P3 = getInt16(tp[10], tp[11])
	c.P4 = getInt16(tp[12], tp[13])
	c.P5 = getInt16(tp[14], tp[15])
	c.P6 = getInt16(tp[16], tp[17])
	c.P7 = getInt16(tp[18], tp[19])
	c.P8 = getInt16(tp[20], tp[21])
	c.P9 = getInt16(tp[22], tp[23])

	// 0xA0 is reserved.
	c.H1 = tp[25]
	c.H2 = getInt16(h[0], h[1])
	c.H3 = h[2]
	// H4 and H5 are 12 bits wide and share the nibbles of 0xE5.
	c.H4 = int16(int8(h[3]))<<4 | int16(h[4]&0x0F)
	c.H5 = int16(int8(h[5]))<<4 | int16(h[4]>>4)
	c.H6 = int8(h[6])

	return c, nil
}

// Registers encodes c back into the two register dumps NewCalibration reads.
func (c *Calibration) Registers() (tp, h []byte) {
	tp = make([]byte, calTPLen)
	h = make([]byte, calHLen)

	putUint16 := func(b []byte, v uint16) {
		b[0] = byte(v)
		b[1] = byte(v >> 8)
	}

	putUint16(tp[0:], c.T1)
	putUint16(tp[2:], uint16(c.T2))
	putUint16(tp[4:], uint16(c.T3))
	for i, p := range []int16{int16(c.P1), c.P2, c.P3, c.P4, c.P5, c.P6, c.P7, c.P8, c.P9} {
		putUint16(tp[6+2*i:], uint16(p))
	}
	tp[25] = c.H1

	putUint16(h[0:], uint16(c.H2))
	h[2] = c.H3
	h[3] = byte(c.H4 >> 4)
	h[4] = byte(c.H4&0x0F) | byte(c.H5&0x0F)<<4
	h[5] = byte(c.H5 >> 4)
	h[6] = byte(c.H6)
	return tp, h
}

// String returns both register dumps as one hex string, the format accepted
// by ParseCalibrationHex.
func (c *Calibration) String() string {
	tp, h := c.Registers()
	return hex.EncodeToString(tp) + hex.EncodeToString(h)
}

// ParseCalibrationHex parses the 0x88 and 0xE1 register dumps written back to
// back as hex. Whitespace, ':' and ',' separators are ignored.
func ParseCalibrationHex(s string) (Calibration, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':', ',':
			return -1
		}
		return r
	}, s)
	s = strings.TrimPrefix(strings.ToLower(s), "0x")

	b, err := hex.DecodeString(s)
	if err != nil {
		return Calibration{}, fmt.Errorf("bme280: calibration hex: %v", err)
	}
	if len(b) != calTPLen+calHLen {
		return Calibration{}, fmt.Errorf("bme280: calibration hex needs %d bytes, got %d", calTPLen+calHLen, len(b))
	}
	return NewCalibration(b[:calTPLen], b[calTPLen:])
}

// LoadCalibration reads a JSON object keyed dig_T1 through dig_H6.
//
// Keys that are absent keep their DefaultCalibration value.
func LoadCalibration(r io.Reader) (Calibration, error) {
	c := DefaultCalibration
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Calibration{}, fmt.Errorf("bme280: calibration json: %v", err)
	}
	return c, nil
}
