// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bme280 re-implements the BME280 compensation formulas twice, once
// in the fixed-point arithmetic of the vendor firmware and once in double
// precision, so that the two can be checked against each other.
//
// Temperature must always be compensated first: it yields the fine
// temperature that the pressure and humidity formulas of the same path take
// as an argument.
package bme280

import (
	"errors"
	"fmt"
	"io"

	"periph.io/x/conn/v3/physic"
)

const (
	HectoPascal = 100 * physic.Pascal

	// data registers, read as one burst

	AddrPressMSB byte = 0xF7
	AddrHumLSB   byte = 0xFE

	tempPrecision = 1000000
)

// Raw is one uncompensated reading.
type Raw struct {
	Pressure    int32 `json:"pressure"`
	Temperature int32 `json:"temperature"`
	Humidity    int32 `json:"humidity"`
}

// ParseRaw decodes the data registers 0xF7 through 0xFE.
func ParseRaw(buf []byte) (Raw, error) {
	if len(buf) != int(AddrHumLSB-AddrPressMSB)+1 {
		return Raw{}, fmt.Errorf("bme280: data burst needs %d bytes, got %d", AddrHumLSB-AddrPressMSB+1, len(buf))
	}
	// These values are 20 bits as per doc.
	pRaw := uint32(buf[0])<<12 | uint32(buf[1])<<4 | uint32(buf[2])>>4
	tRaw := uint32(buf[3])<<12 | uint32(buf[4])<<4 | uint32(buf[5])>>4
	hRaw := uint32(buf[6])<<8 | uint32(buf[7])
	return Raw{Pressure: int32(pRaw), Temperature: int32(tRaw), Humidity: int32(hRaw)}, nil
}

// ReadRaw reads three whitespace separated integers in the order pressure,
// temperature, humidity.
func ReadRaw(r io.Reader) (Raw, error) {
	var raw Raw
	fields := []struct {
		name string
		dst  *int32
	}{
		{"pressure", &raw.Pressure},
		{"temperature", &raw.Temperature},
		{"humidity", &raw.Humidity},
	}
	for _, f := range fields {
		if _, err := fmt.Fscan(r, f.dst); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return Raw{}, fmt.Errorf("bme280: reading raw %s: %w", f.name, err)
		}
	}
	return raw, nil
}

// Fixed is the result of the fixed-point path.
type Fixed struct {
	Fine        FineTemp `json:"fine"`
	Temperature int32    `json:"temperature"` // 0.01 °C
	Pressure    uint32   `json:"pressure"`    // Pa, Q24.8
	Humidity    uint32   `json:"humidity"`    // %RH, Q22.10
}

// Fixed runs the fixed-point path on r.
func (c *Calibration) Fixed(r Raw) Fixed {
	t, fine := c.CompensateTempInt(r.Temperature)
	return Fixed{
		Fine:        fine,
		Temperature: t,
		Pressure:    c.CompensatePressureInt(r.Pressure, fine),
		Humidity:    c.CompensateHumidityInt(r.Humidity, fine),
	}
}

// Human returns the results in °C, Pa and %RH.
func (f Fixed) Human() (t, p, h float64) {
	return float64(f.Temperature) / 100, float64(f.Pressure) / 256, float64(f.Humidity) / 1024
}

// Env converts the result to periph units. No rounding is involved.
func (f Fixed) Env() physic.Env {
	return physic.Env{
		Temperature: physic.Temperature(f.Temperature)*10*physic.MilliKelvin + physic.ZeroCelsius,
		Pressure:    physic.Pressure(f.Pressure) * physic.Pascal / 256,
		// RelativeHumidity is 32 bits wide; scale in 64 bits, the result fits.
		Humidity:    physic.RelativeHumidity(int64(f.Humidity) * int64(physic.PercentRH) / 1024),
	}
}

// Float is the result of the floating-point path.
type Float struct {
	Fine        FineTempFloat `json:"fine"`
	Temperature float64       `json:"temperature"` // °C
	Pressure    float64       `json:"pressure"`    // Pa
	Humidity    float64       `json:"humidity"`    // %RH
}

// Float runs the floating-point path on r.
func (c *Calibration) Float(r Raw) Float {
	t, fine := c.CompensateTempFloat(r.Temperature)
	return Float{
		Fine:        fine,
		Temperature: t,
		Pressure:    c.CompensatePressureFloat(r.Pressure, fine),
		Humidity:    c.CompensateHumidityFloat(r.Humidity, fine),
	}
}

// Env converts the result to periph units.
func (f Float) Env() physic.Env {
	return physic.Env{
		Temperature: physic.Temperature(f.Temperature*tempPrecision)*physic.Kelvin/tempPrecision + physic.ZeroCelsius,
		Pressure:    physic.Pressure(f.Pressure * float64(physic.Pascal)),
		Humidity:    physic.RelativeHumidity(f.Humidity * float64(physic.PercentRH)),
	}
}
