package logio

import (
	"context"
	"fmt"
	"log/slog"
)

// Leveledf returns a printf-style logging function that emits records at the
// given level through a slog logger; formatting is skipped entirely when the
// level is disabled.
func Leveledf(log *slog.Logger, level slog.Level) func(mess string, args ...interface{}) {
	return func(mess string, args ...interface{}) {
		ctx := context.Background()
		if !log.Enabled(ctx, level) {
			return
		}
		if len(args) > 0 {
			mess = fmt.Sprintf(mess, args...)
		}
		log.Log(ctx, level, mess)
	}
}
