package fts

import (
	"os"
	"reflect"

	"github.com/rs/zerolog"
)

// Logger is the advisory-warning sink for spec.md §7 class 3 events
// (version mismatch on load, pipeline label overwrite, unregistered
// pipeline function encountered while serializing). Callers embedding
// this engine may repoint it at their own zerolog.Logger; the default
// writes to stderr.
var Logger zerolog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func warnf(format string, args ...any) {
	Logger.Warn().Msgf(format, args...)
}

// funcPointer returns a comparable identity for a function value, used
// by Pipeline to find a previously-added stage by reference.
func funcPointer(fn any) uintptr {
	return reflect.ValueOf(fn).Pointer()
}
