// Package logging sets up the application file logger. The terminal is owned
// by the interactive views, so log output always goes to a file under the
// data directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const logFileName = "camptrack.log"

// Open creates the file logger for a data directory. The returned closer
// owns the underlying log file. With debug enabled the level drops to debug
// and events are mirrored to stderr in console format.
func Open(dataDir, level string, debug bool) (zerolog.Logger, io.Closer, error) {
	logPath := filepath.Join(dataDir, "logs", logFileName)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file %q: %w", logPath, err)
	}

	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	if debug {
		parsed = zerolog.DebugLevel
	}

	var out io.Writer = file
	if debug {
		console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		out = zerolog.MultiLevelWriter(file, console)
	}

	logger := zerolog.New(out).
		Level(parsed).
		With().
		Timestamp().
		Logger()

	return logger, file, nil
}
