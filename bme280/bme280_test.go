package bme280

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

func TestParseRaw(t *testing.T) {
	raw, err := ParseRaw([]byte{0x65, 0x5A, 0xC0, 0x7E, 0xED, 0x00, 0x69, 0x78})
	require.NoError(t, err)
	assert.Equal(t, Raw{Pressure: 415148, Temperature: 519888, Humidity: 27000}, raw)

	_, err = ParseRaw(make([]byte, 6))
	assert.EqualError(t, err, "bme280: data burst needs 8 bytes, got 6")
}

func TestReadRaw(t *testing.T) {
	tests := []struct {
		given    string
		expected Raw
	}{
		{"400000 500000 400000\n", Raw{Pressure: 400000, Temperature: 500000, Humidity: 400000}},
		{"  1\n\t2 3", Raw{Pressure: 1, Temperature: 2, Humidity: 3}},
		{"-1 -2 -3 4", Raw{Pressure: -1, Temperature: -2, Humidity: -3}},
	}
	for _, test := range tests {
		t.Run(test.given, func(t *testing.T) {
			raw, err := ReadRaw(strings.NewReader(test.given))
			require.NoError(t, err)
			assert.Equal(t, test.expected, raw)
		})
	}
}

func TestReadRawErrors(t *testing.T) {
	_, err := ReadRaw(strings.NewReader("1 2"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "humidity")

	_, err = ReadRaw(strings.NewReader("1 x 3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")

	_, err = ReadRaw(strings.NewReader("99999999999 1 1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pressure")
}

func TestFixedEnv(t *testing.T) {
	f := Fixed{Temperature: 5123, Pressure: 24674867, Humidity: 47445}
	e := f.Env()

	assert.Equal(t, 51230*physic.MilliKelvin+physic.ZeroCelsius, e.Temperature)
	assert.InDelta(t, 51.23, e.Temperature.Celsius(), 1e-9)
	assert.InDelta(t, 963.862, float64(e.Pressure)/float64(HectoPascal), 1e-3)
	assert.InDelta(t, 46.333, float64(e.Humidity)/float64(physic.PercentRH), 1e-3)

	humidities := []struct {
		given    uint32
		expected physic.RelativeHumidity
	}{
		{20000, 20000 * physic.PercentRH / 1024},
		{70319, 6867089 * physic.TenthMicroRH},
		{humidityCeil >> 12, 100 * physic.PercentRH},
	}
	for _, test := range humidities {
		t.Run(fmt.Sprint(test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, Fixed{Humidity: test.given}.Env().Humidity)
		})
	}

	temp, p, h := f.Human()
	assert.Equal(t, 51.23, temp)
	assert.InDelta(t, 96386.19921875, p, 1e-9)
	assert.InDelta(t, 46.3330078125, h, 1e-9)
}

func TestFloatEnv(t *testing.T) {
	e := Float{Temperature: 21.38, Pressure: 103858.007, Humidity: 68.672}.Env()

	assert.InDelta(t, 21.38, e.Temperature.Celsius(), 1e-6)
	assert.InDelta(t, 1038.58007, float64(e.Pressure)/float64(HectoPascal), 1e-6)
	assert.InDelta(t, 68.672, float64(e.Humidity)/float64(physic.PercentRH), 1e-6)
}

func TestCrossCheck(t *testing.T) {
	c := DefaultCalibration
	for _, test := range readings[1:] {
		assert.NoError(t, CrossCheck(c.Fixed(test.raw), c.Float(test.raw), DefaultTolerance))
	}

	// The 32 bit humidity intermediates overflow on this input while the
	// double path saturates, so only humidity disagrees.
	golden := readings[0].raw
	err := CrossCheck(c.Fixed(golden), c.Float(golden), DefaultTolerance)
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Len(t, mismatch.Mismatches, 1)
	assert.Equal(t, "humidity", mismatch.Mismatches[0].Quantity)
	assert.Equal(t, 1.0, mismatch.Mismatches[0].Relative)
	assert.Contains(t, err.Error(), "humidity fixed 0 float 100")
}

func TestRelDiff(t *testing.T) {
	assert.Equal(t, 0.0, relDiff(0, 0))
	assert.Equal(t, 1.0, relDiff(0, -3))
	assert.InDelta(t, 0.5, relDiff(2, 4), 1e-12)
}
