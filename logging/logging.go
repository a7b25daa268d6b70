// Package logging builds the zerolog logger used across pixel-play.
package logging

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/pixel-play/config"
)

var logLevelMatches = map[string]zerolog.Level{
	"NONE":  zerolog.Disabled,
	"TRACE": zerolog.TraceLevel,
	"DEBUG": zerolog.DebugLevel,
	"INFO":  zerolog.InfoLevel,
	"WARN":  zerolog.WarnLevel,
	"ERROR": zerolog.ErrorLevel,
}

// ParseLevel maps a level name to zerolog; unknown names fall back to info
func ParseLevel(level string) zerolog.Level {
	if l, ok := logLevelMatches[strings.ToUpper(level)]; ok {
		return l
	}
	return zerolog.InfoLevel
}

// New returns a timestamped logger writing to w at the given level
func New(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Setup resolves the output for cfg. Interactive sessions own the terminal, so
// without a log file their output is discarded. The returned close func is never nil.
func Setup(cfg config.Log, interactive bool) (zerolog.Logger, func(), error) {
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), func() {}, fmt.Errorf("error opening log file: %w", err)
		}
		return New(cfg.Level, f), func() { _ = f.Close() }, nil
	}

	if interactive {
		return New(cfg.Level, io.Discard), func() {}, nil
	}

	var w io.Writer = os.Stderr
	if isTerminalAttached(os.Stderr) {
		w = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}
	return New(cfg.Level, w), func() {}, nil
}

func isTerminalAttached(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) && runtime.GOOS != "windows"
}
