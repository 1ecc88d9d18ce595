package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"pkt.systems/pslog"
)

const (
	logDir      = "logs"
	logFileName = "micromon.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging routes pslog and the standard logger away from the terminal the
// dashboard owns. With debug off everything is discarded; with debug on it goes
// to logs/micromon.log, rotated when the file has grown past maxLogSize.
// The returned file is nil when logging is disabled or the file cannot be opened
func setupLogging(debug bool) (*os.File, pslog.Logger) {
	if !debug {
		log.SetOutput(io.Discard)
		return nil, pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured, MinLevel: pslog.ErrorLevel})
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil, pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured})
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("micromon-%s.log", time.Now().Format("20060102-150405")))
		os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured})
	}

	logger := pslog.NewWithOptions(f, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.DebugLevel,
	})
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)
	return f, logger
}
