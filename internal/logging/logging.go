// Package logging builds the component loggers used across the
// explorer.
package logging

import (
	"io"
	"log"
)

// Level filters log output.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// New returns a logger for one component. Component logs are emitted at
// info level; a stricter configured level silences them entirely.
func New(w io.Writer, level Level, component string) *log.Logger {
	if level > LevelInfo {
		w = io.Discard
	}
	return log.New(w, component+": ", log.LstdFlags|log.LUTC|log.Lmsgprefix)
}
