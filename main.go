package main

import (
	"BMECheck/bme280"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
)

type ProgramArgs struct {
	// Output Options
	Extended  bool    `short:"x" long:"extended" description:"Also print human units and the floating-point path"`
	Tolerance float64 `short:"t" long:"tolerance" default:"0.01" description:"Relative difference allowed between both paths"`
	Verbose   bool    `short:"v" long:"verbose" description:"Debug logging"`

	// Calibration Options
	Calibration string `short:"c" long:"calibration" description:"JSON file with dig_T1..dig_H6 coefficients"`
	Registers   string `short:"r" long:"registers" description:"Calibration register dump 0x88..0xA1 and 0xE1..0xE7 as hex"`

	// Server Options
	Serve bool   `short:"s" long:"serve" description:"Serve compensations over HTTP instead of reading stdin"`
	Host  string `short:"H" long:"host" default:"127.0.0.1" description:"IP to listen on"`
	Port  uint16 `short:"P" long:"port" default:"27315" description:"Port to listen on"`
}

var (
	args ProgramArgs

	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// loadCalibration picks the register dump over the JSON file over the
// built-in coefficients.
func loadCalibration(a *ProgramArgs) (bme280.Calibration, error) {
	switch {
	case a.Registers != "":
		return bme280.ParseCalibrationHex(a.Registers)
	case a.Calibration != "":
		f, err := os.Open(a.Calibration)
		if err != nil {
			return bme280.Calibration{}, err
		}
		defer f.Close()
		return bme280.LoadCalibration(f)
	default:
		return bme280.DefaultCalibration, nil
	}
}

// runTranscript reads one raw reading from in and writes the compensated
// values of both paths to out.
func runTranscript(in io.Reader, out io.Writer, cal *bme280.Calibration, extended bool, tolerance float64) error {
	raw, err := bme280.ReadRaw(in)
	if err != nil {
		return err
	}
	logger.Debug().Int32("pressure", raw.Pressure).Int32("temperature", raw.Temperature).Int32("humidity", raw.Humidity).Msg("raw reading")

	fixed := cal.Fixed(raw)
	if _, err := fmt.Fprintf(out, "%d\n%d %d %d\n", fixed.Fine, fixed.Temperature, int32(fixed.Pressure), fixed.Humidity); err != nil {
		return err
	}

	float := cal.Float(raw)
	if extended {
		t, p, h := fixed.Human()
		_, err := fmt.Fprintf(out, "%.6g %.6g %.6g\n%.6g\n%.6g %.6g %.6g\n",
			t, p, h,
			float64(float.Fine),
			float.Temperature, float.Pressure, float.Humidity)
		if err != nil {
			return err
		}
	}

	var mismatch *bme280.MismatchError
	if err := bme280.CrossCheck(fixed, float, tolerance); errors.As(err, &mismatch) {
		for _, m := range mismatch.Mismatches {
			logger.Warn().
				Str("quantity", m.Quantity).
				Float64("fixed", m.Fixed).
				Float64("float", m.Float).
				Float64("relative", m.Relative).
				Msg("fixed and floating paths disagree")
		}
	}
	return nil
}

func main() {
	args = ProgramArgs{}
	argParser := flags.NewParser(&args, flags.Default)

	_, err := argParser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	logger = logger.Level(zerolog.InfoLevel)
	if args.Verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	cal, err := loadCalibration(&args)
	if err != nil {
		logger.Fatal().Err(err).Msg("couldn't load calibration")
	}
	logger.Debug().Str("registers", cal.String()).Msg("calibration")

	if args.Serve {
		serve(&cal, args.Host, args.Port, args.Tolerance)
		os.Exit(0)
	}

	if err := runTranscript(os.Stdin, os.Stdout, &cal, args.Extended, args.Tolerance); err != nil {
		logger.Fatal().Err(err).Msg("compensation failed")
	}
}
