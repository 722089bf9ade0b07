package main

import (
	"BMECheck/bme280"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

const (
	TIMEOUT_SECONDS = 5
)

type calibrationResponse struct {
	bme280.Calibration
	Registers string `json:"registers"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	jsonStr, err := json.Marshal(v)
	if err != nil {
		logger.Error().Err(err).Msg("couldn't encode response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(jsonStr); err != nil {
		logger.Error().Err(err).Msg("couldn't send response")
	}
}

func newRouter(cal *bme280.Calibration, tolerance float64) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/calibration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, calibrationResponse{Calibration: *cal, Registers: cal.String()})
	}).Methods(http.MethodGet)

	r.HandleFunc("/compensate/{pressure}/{temperature}/{humidity}", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		var raw bme280.Raw
		for _, f := range []struct {
			name string
			dst  *int32
		}{
			{"pressure", &raw.Pressure},
			{"temperature", &raw.Temperature},
			{"humidity", &raw.Humidity},
		} {
			v, err := strconv.ParseInt(vars[f.name], 10, 32)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid raw %s: %v", f.name, err), http.StatusBadRequest)
				return
			}
			*f.dst = int32(v)
		}

		report := NewCompensationReport(cal, raw, tolerance, time.Now())
		if !report.Agree {
			logger.Warn().Str("mismatch", report.Mismatch).Msg("fixed and floating paths disagree")
		}
		writeJSON(w, report)
	}).Methods(http.MethodGet)

	return r
}

// serve blocks until SIGINT.
func serve(cal *bme280.Calibration, host string, port uint16, tolerance float64) {
	addr := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{
		Addr:         addr,
		ReadTimeout:  TIMEOUT_SECONDS * time.Second,
		WriteTimeout: TIMEOUT_SECONDS * time.Second,
		IdleTimeout:  120 * time.Second,
		Handler:      newRouter(cal, tolerance),
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("listening")

		err := srv.ListenAndServe()
		logger.Info().Err(err).Msg("shutdown")
	}()

	sigChan := make(chan os.Signal, 1)
	// Only SIGINT (Ctrl+C) triggers a graceful shutdown.
	signal.Notify(sigChan, os.Interrupt)

	<-sigChan

	// Give the server a timeout period of 4 seconds
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()
	// Doesn't block if no connections, but will otherwise wait until the timeout deadline.
	_ = srv.Shutdown(ctx)
}
