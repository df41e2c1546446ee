package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	logDir      = "logs"
	logFileName = "driftfield.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging builds the process logger. Batch commands log to stderr.
// Full-screen commands cannot share the terminal, so they log to a file
// under logDir when debug is set and discard everything otherwise.
func setupLogging(fullscreen, debug bool, level string) (*log.Logger, io.Closer, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if debug {
		lvl = log.DebugLevel
	}

	if !fullscreen {
		return log.NewWithOptions(os.Stderr, log.Options{Level: lvl, ReportTimestamp: true}), nopCloser{}, nil
	}

	if !debug {
		return log.New(io.Discard), nopCloser{}, nil
	}

	f, err := openLogFile(logDir, logFileName)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		ReportCaller:    true,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, f, nil
}

// openLogFile opens dir/name for appending. A file grown past maxLogSize
// is first moved aside under a timestamped name.
func openLogFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, name)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		ext := filepath.Ext(name)
		rotated := filepath.Join(dir, strings.TrimSuffix(name, ext)+"-"+time.Now().Format("20060102-150405")+ext)
		if err := os.Rename(path, rotated); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
