package main

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger writes to a rotating file in the temp directory and to stderr.
// The file comes first: a GUI build has no usable stderr and MultiWriter
// stops at the first failing writer.
func newLogger(dir string, level slog.Level) (*slog.Logger, io.Closer) {
	file := &lumberjack.Logger{
		Filename:   filepath.Join(dir, LogFileName),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
	}
	out := io.MultiWriter(file, os.Stderr)
	log.SetOutput(out)

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, file
}
