package bme280

// FineTemp is the fine temperature of the fixed-point path. It carries the
// temperature dependence into the pressure and humidity compensation.
type FineTemp int32

// CompensateTempInt returns temperature in °C, resolution is 0.01 °C.
// Output value of 5123 equals 51.23 C.
//
// Intermediate products wrap like the 32 bit firmware arithmetic does.
func (c *Calibration) CompensateTempInt(raw int32) (int32, FineTemp) {
	t1 := int32(c.T1)
	var1 := (((raw >> 3) - (t1 << 1)) * int32(c.T2)) >> 11
	var2 := (((((raw >> 4) - t1) * ((raw >> 4) - t1)) >> 12) * int32(c.T3)) >> 14
	fine := var1 + var2
	return (fine*5 + 128) >> 8, FineTemp(fine)
}

// CompensatePressureInt returns pressure in Pa in Q24.8 format (24 integer
// bits and 8 fractional bits). Output value of 24674867 represents
// 24674867/256 = 96386.2 Pa = 963.862 hPa.
//
// It returns 0 when the coefficients make the divisor vanish.
func (c *Calibration) CompensatePressureInt(raw int32, fine FineTemp) uint32 {
	var1 := int64(fine) - 128000
	var2 := var1 * var1 * int64(c.P6)
	var2 = var2 + ((var1 * int64(c.P5)) << 17)
	var2 = var2 + (int64(c.P4) << 35)
	var1 = ((var1 * var1 * int64(c.P3)) >> 8) + ((var1 * int64(c.P2)) << 12)
	var1 = (((int64(1) << 47) + var1) * int64(c.P1)) >> 33
	if var1 == 0 {
		return 0
	}
	p := int64(1048576 - raw)
	p = (((p << 31) - var2) * 3125) / var1
	var1 = (int64(c.P9) * (p >> 13) * (p >> 13)) >> 25
	var2 = (int64(c.P8) * p) >> 19
	p = ((p + var1 + var2) >> 8) + (int64(c.P7) << 4)
	return uint32(p)
}

const humidityCeil = 419430400 // 100 %RH in Q22.10, before the final shift

// CompensateHumidityInt returns humidity in %RH in Q22.10 format (22 integer
// and 10 fractional bits). Output value of 47445 represents 47445/1024 =
// 46.333%
func (c *Calibration) CompensateHumidityInt(raw int32, fine FineTemp) uint32 {
	h1 := int32(c.H1)
	h2 := int32(c.H2)
	h3 := int32(c.H3)
	h4 := int32(c.H4)
	h5 := int32(c.H5)
	h6 := int32(c.H6)

	x := int32(fine) - 76800
	x = ((((raw << 14) - (h4 << 20) - (h5 * x)) + 16384) >> 15) *
		(((((((x*h6)>>10)*(((x*h3)>>11)+32768))>>10)+2097152)*h2 + 8192) >> 14)
	x = x - (((((x >> 15) * (x >> 15)) >> 7) * h1) >> 4)
	if x < 0 {
		x = 0
	}
	if x > humidityCeil {
		x = humidityCeil
	}
	return uint32(x >> 12)
}
