// Package logger configures process-wide zerolog output. Under the stdio
// transport stdout and stderr carry protocol frames, so log lines go only to
// an append-only file; the HTTP transport adds a console writer on top.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultLogFile is the append-only diagnostic log. It is never read back.
const DefaultLogFile = "azure-vm-mcp.log"

// Options controls where log output is written.
type Options struct {
	// FilePath is the log file location. Empty means DefaultLogFile.
	FilePath string
	// Console mirrors log lines to stderr as well. Must stay false for the
	// stdio transport.
	Console bool
	// Level is the minimum level; zero value is InfoLevel.
	Level zerolog.Level
}

// New opens the log file and returns a configured logger together with a
// closer for the file handle.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	path := opts.FilePath
	if path == "" {
		path = DefaultLogFile
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, errors.Wrapf(err, "opening log file %s", path)
	}

	var writer io.Writer = file
	if opts.Console {
		console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		writer = zerolog.MultiLevelWriter(file, console)
	}

	log := zerolog.New(writer).Level(opts.Level).With().Timestamp().Logger()
	return log, file, nil
}
