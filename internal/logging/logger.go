// Package logging is the structured logger shared by the server, the CLI
// and the extension. Everything logs through Logger so that tests can swap
// in NewNop and no secret material reaches the output by accident.
package logging

import "context"

// Logger is a context-aware, structured logger. Args are key-value pairs:
//
//	log.Info(ctx, "pushed vault", "created", 2, "updated", 5)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}
