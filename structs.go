package main

import (
	"BMECheck/bme280"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

type SensorReading struct {
	Temperature float64 `json:"temperature"` // °C
	Pressure    float64 `json:"pressure"`    // hPa
	Humidity    float64 `json:"humidity"`    // %RH
	Text        string  `json:"text"`
}

func NewSensorReading(e physic.Env) SensorReading {
	return SensorReading{
		Temperature: e.Temperature.Celsius(),
		Pressure:    float64(e.Pressure) / float64(bme280.HectoPascal),
		Humidity:    float64(e.Humidity) / float64(physic.PercentRH),
		Text:        fmt.Sprintf("%s %s %s", e.Temperature, e.Pressure, e.Humidity),
	}
}

type CompensationReport struct {
	Raw          bme280.Raw    `json:"raw"`
	Fixed        bme280.Fixed  `json:"fixed"`
	Float        bme280.Float  `json:"float"`
	FixedReading SensorReading `json:"fixedReading"`
	FloatReading SensorReading `json:"floatReading"`
	Agree        bool          `json:"agree"`
	Mismatch     string        `json:"mismatch,omitempty"`
	Updated      time.Time     `json:"-"`
	UpdatedStr   string        `json:"updated"`
}

func NewCompensationReport(cal *bme280.Calibration, raw bme280.Raw, tolerance float64, date time.Time) CompensationReport {
	fixed := cal.Fixed(raw)
	float := cal.Float(raw)
	report := CompensationReport{
		Raw:          raw,
		Fixed:        fixed,
		Float:        float,
		FixedReading: NewSensorReading(fixed.Env()),
		FloatReading: NewSensorReading(float.Env()),
		Agree:        true,
		Updated:      date,
		UpdatedStr:   date.Format("2006-01-02 15:04:05"), // ISO 8601 without timezone
	}
	if err := bme280.CrossCheck(fixed, float, tolerance); err != nil {
		report.Agree = false
		report.Mismatch = err.Error()
	}
	return report
}
