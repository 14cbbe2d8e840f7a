package logio_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/jcorbin/gotape/internal/logio"
	"github.com/stretchr/testify/assert"
)

func TestWriter(t *testing.T) {
	var lines []string
	lw := &logio.Writer{
		Prefix: "out: ",
		Logf: func(mess string, args ...interface{}) {
			lines = append(lines, fmt.Sprintf(mess, args...))
		},
	}
	fmt.Fprintf(lw, "hello\nwor")
	assert.Equal(t, []string{"out: hello"}, lines, "expected only complete lines")
	fmt.Fprintf(lw, "ld\n!")
	assert.Equal(t, []string{"out: hello", "out: world"}, lines, "expected second line")
	assert.NoError(t, lw.Close())
	assert.Equal(t, []string{"out: hello", "out: world", "out: !"}, lines, "expected partial line on close")
}

func TestLeveledf(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	logio.Leveledf(log, slog.LevelDebug)("hidden %v", 1)
	assert.Equal(t, "", buf.String(), "expected nothing at a disabled level")

	logio.Leveledf(log, slog.LevelInfo)("shown %v", 2)
	assert.Equal(t, "level=INFO msg=\"shown 2\"\n", buf.String(), "expected formatted record")
}
