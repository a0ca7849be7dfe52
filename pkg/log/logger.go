package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

const (
	FieldUsername  = "username"
	FieldSessionID = "session_id"
)

// Options selects the level and format of the process logger.
type Options struct {
	Debug bool
	// JSON writes one JSON object per line instead of the console format,
	// for running behind a log collector.
	JSON bool
	// Out defaults to stdout.
	Out io.Writer
}

// NewContextWithLogger installs the process logger and returns a context
// carrying it. The returned func flushes the non-blocking writer.
func NewContextWithLogger(ctx context.Context, opts Options) (context.Context, func()) {
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	// Ring buffer so a slow terminal never stalls a chat turn.
	wr := diode.NewWriter(out, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "logger dropped %d messages\n", missed)
	})

	var sink io.Writer = wr
	if !opts.JSON {
		sink = zerolog.ConsoleWriter{
			Out:        wr,
			TimeFormat: time.DateTime,
			PartsOrder: []string{
				zerolog.LevelFieldName,
				zerolog.TimestampFieldName,
				zerolog.MessageFieldName,
			},
		}
	}

	logger := zerolog.New(sink).With().Timestamp().Logger()
	log.Logger = logger

	return logger.WithContext(ctx), func() {
		wr.Close()
	}
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}

// WithUser returns a context whose logger tags every entry with the username.
func WithUser(ctx context.Context, username string) context.Context {
	l := FromCtx(ctx).With().Str(FieldUsername, username).Logger()
	return l.WithContext(ctx)
}

// WithSession tags entries with both the session and its user.
func WithSession(ctx context.Context, sessionID, username string) context.Context {
	l := FromCtx(ctx).With().
		Str(FieldSessionID, sessionID).
		Str(FieldUsername, username).
		Logger()
	return l.WithContext(ctx)
}
