package bme280

// FineTempFloat is the fine temperature of the floating-point path.
//
// It is kept apart from FineTemp so the two paths never feed each other.
type FineTempFloat float64

// CompensateTempFloat returns temperature in °C.
func (c *Calibration) CompensateTempFloat(raw int32) (float64, FineTempFloat) {
	var var1, var2 float64

	tempFloat := float64(raw)
	t1 := float64(c.T1)
	var1 = ((tempFloat / 16384.0) - (t1 / 1024.0)) * float64(c.T2)
	var2 = ((tempFloat / 131072.0) - (t1 / 8192.0)) * ((tempFloat / 131072.0) - (t1 / 8192.0)) * float64(c.T3)
	fine := var1 + var2
	return fine / 5120.0, FineTempFloat(fine)
}

// CompensatePressureFloat returns pressure in Pa.
func (c *Calibration) CompensatePressureFloat(raw int32, fine FineTempFloat) (pressComp float64) {
	var var1, var2 float64

	var1 = (float64(fine) / 2.0) - 64000.0
	var2 = var1 * var1 * float64(c.P6) / 32768.0
	var2 = var2 + var1*float64(c.P5)*2.0
	var2 = (var2 / 4.0) + (float64(c.P4) * 65536.0)
	var1 = (float64(c.P3)*var1*var1/524288.0 + float64(c.P2)*var1) / 524288.0
	var1 = (1.0 + var1/32768.0) * float64(c.P1)
	if var1 == 0 {
		return 0
	}

	pressComp = 1048576.0 - float64(raw)
	pressComp = (pressComp - (var2 / 4096.0)) * 6250.0 / var1
	var1 = float64(c.P9) * pressComp * pressComp / 2147483648.0
	var2 = pressComp * float64(c.P8) / 32768.0
	return pressComp + (var1+var2+float64(c.P7))/16.0
}

// CompensateHumidityFloat returns humidity in %RH, clamped to [0, 100].
func (c *Calibration) CompensateHumidityFloat(raw int32, fine FineTempFloat) (humidityComp float64) {
	humidityComp = float64(fine) - 76800.0
	humidityComp = (float64(raw) - (float64(c.H4)*64.0 + float64(c.H5)/16384.0*humidityComp)) *
		(float64(c.H2) / 65536.0 * (1.0 + float64(c.H6)/67108864.0*humidityComp*(1.0+float64(c.H3)/67108864.0*humidityComp)))
	humidityComp = humidityComp * (1.0 - float64(c.H1)*humidityComp/524288.0)
	if humidityComp > 100.0 {
		humidityComp = 100.0
	} else if humidityComp < 0.0 {
		humidityComp = 0.0
	}
	return humidityComp
}
