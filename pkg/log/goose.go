package log

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// GooseLogger routes migration output into the process logger, tagged with
// the database dialect being migrated.
type GooseLogger struct {
	logger zerolog.Logger
}

func NewGooseLogger(ctx context.Context, dialect string) *GooseLogger {
	return &GooseLogger{
		logger: FromCtx(ctx).With().Str("component", "migrations").Str("dialect", dialect).Logger(),
	}
}

// Fatalf is called by goose on unrecoverable migration errors. It logs at
// error level and panics instead of exiting, so deferred cleanups still run.
func (g *GooseLogger) Fatalf(format string, v ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	g.logger.Error().Msg(msg)
	panic("migration failed: " + msg)
}

// Printf logs goose progress at debug level.
func (g *GooseLogger) Printf(format string, v ...interface{}) {
	g.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
