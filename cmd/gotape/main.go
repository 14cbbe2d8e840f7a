// Command gotape runs tape machine programs, streaming program text from the
// named files (or - for stdin) into one resumable VM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"

	"github.com/jcorbin/gotape"
	"github.com/jcorbin/gotape/internal/fileinput"
	"github.com/jcorbin/gotape/internal/flushio"
	"github.com/jcorbin/gotape/internal/logio"
	"github.com/jcorbin/gotape/internal/panicerr"
)

func main() {
	app := app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	app.bind(flag.CommandLine)
	flag.Parse()

	ctx := context.Background()
	if err := panicerr.Recover("gotape", func() error {
		return app.run(ctx, flag.Args())
	}); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		os.Exit(1)
	}
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	timeout    time.Duration
	trace      bool
	traceFile  string
	tapeLimit  uint
	loopLimit  uint
	inlineOnly bool
	dump       bool
	savePath   string
	resumePath string
}

func (app *app) bind(flags *flag.FlagSet) {
	flags.StringVar(&app.configPath, "config", "", "load VM settings from a TOML file")
	flags.DurationVar(&app.timeout, "timeout", 0, "specify a time limit")
	flags.BoolVar(&app.trace, "trace", false, "enable trace logging")
	flags.StringVar(&app.traceFile, "trace-file", "", "write JSON trace logs to a file")
	flags.UintVar(&app.tapeLimit, "tape-limit", 0, "limit how many tape cells may be used")
	flags.UintVar(&app.loopLimit, "loop-limit", 0, "limit how deeply loops may nest")
	flags.BoolVar(&app.inlineOnly, "inline-only", false, "never allocate tape or loop memory")
	flags.BoolVar(&app.dump, "dump", false, "dump VM state to stderr after any error")
	flags.StringVar(&app.savePath, "save", "", "save a snapshot of an incomplete program to a file")
	flags.StringVar(&app.resumePath, "resume", "", "resume from a snapshot file")
}

func (app *app) run(ctx context.Context, args []string) (rerr error) {
	if len(args) == 0 && app.resumePath == "" {
		return errors.New("no program given; usage: gotape [flags] FILE...")
	}

	cfg, err := app.config()
	if err != nil {
		return err
	}

	log, closeLog, err := app.logger(cfg.Trace || app.trace)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); rerr == nil {
			rerr = cerr
		}
	}()

	in, progStdin, err := app.openProgram(args)
	if err != nil {
		return err
	}

	out := flushio.NewWriteFlusher(app.stdout)
	defer func() {
		if ferr := out.Flush(); rerr == nil {
			rerr = ferr
		}
	}()

	opts := []gotape.VMOption{cfg.Options(), gotape.WithOutput(out)}
	if progStdin {
		opts = append(opts, gotape.WithInput(strings.NewReader("")))
	} else {
		opts = append(opts, gotape.WithInput(app.stdin))
	}
	if cfg.Trace || app.trace || app.traceFile != "" {
		opts = append(opts, gotape.WithLogf(logio.Leveledf(log, slog.LevelDebug)))
	}

	if app.timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.timeout)
		defer cancel()
	}

	rn := runner{in: in, log: log}
	if err := app.start(&rn, opts...); err != nil {
		return err
	}

	err = rn.run(ctx)
	if rn.vm.Inline() {
		log.Debug("no allocations",
			"tape", len(rn.vm.Tape()),
			"loops", len(rn.vm.Loops()))
	}
	if errors.Is(err, gotape.ErrIncomplete) && app.savePath != "" {
		return app.save(rn.vm, log)
	}
	if err != nil {
		if app.dump {
			rn.vm.Dump(app.stderr)
		}
		return rn.locate(err)
	}
	return nil
}

func (app *app) config() (cfg gotape.Config, err error) {
	if app.configPath != "" {
		if cfg, err = gotape.LoadConfig(app.configPath); err != nil {
			return cfg, err
		}
	}
	if app.tapeLimit != 0 {
		cfg.TapeLimit = app.tapeLimit
	}
	if app.loopLimit != 0 {
		cfg.LoopLimit = app.loopLimit
	}
	if app.inlineOnly {
		cfg.InlineOnly = true
	}
	return cfg, nil
}

// logger builds a text logger on stderr, fanned out to a JSON trace file
// that receives every level.
func (app *app) logger(trace bool) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if trace {
		level = slog.LevelDebug
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(app.stderr, &slog.HandlerOptions{Level: level}),
	}
	closeLog := func() error { return nil }
	if app.traceFile != "" {
		f, err := os.Create(app.traceFile)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
		closeLog = f.Close
	}
	return slog.New(slogmulti.Fanout(handlers...)), closeLog, nil
}

// openProgram opens every named program file, or stdin for "-", returning
// whether stdin was used; once a file has been read, it is closed.
func (app *app) openProgram(args []string) (in *fileinput.Input, progStdin bool, err error) {
	in = &fileinput.Input{}
	defer func() {
		if err != nil {
			for _, r := range in.Queue {
				if cl, ok := r.(io.Closer); ok {
					cl.Close()
				}
			}
		}
	}()
	for _, arg := range args {
		if arg == "-" {
			progStdin = true
			in.Queue = append(in.Queue, fileinput.NamedReader("<stdin>", app.stdin))
			continue
		}
		f, err := os.Open(arg)
		if err != nil {
			return in, progStdin, err
		}
		in.Queue = append(in.Queue, f)
	}
	return in, progStdin, nil
}

func (app *app) start(rn *runner, opts ...gotape.VMOption) error {
	if app.resumePath == "" {
		rn.vm = gotape.New(nil, opts...)
		return nil
	}
	data, err := os.ReadFile(app.resumePath)
	if err != nil {
		return err
	}
	snap, err := gotape.UnmarshalSnapshot(data)
	if err != nil {
		return fmt.Errorf("%v: %w", app.resumePath, err)
	}
	if rn.vm, err = gotape.Restore(snap, opts...); err != nil {
		return fmt.Errorf("%v: %w", app.resumePath, err)
	}
	rn.resumed = app.resumePath
	rn.base = uint(len(snap.Program))
	rn.log.Info("resumed", "snapshot", app.resumePath, "pc", snap.PC, "size", rn.base)
	return nil
}

func (app *app) save(vm *gotape.VM, log *slog.Logger) error {
	snap := vm.Snapshot()
	data, err := gotape.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	if err := os.WriteFile(app.savePath, data, 0o644); err != nil {
		return err
	}
	log.Info("saved incomplete program",
		"snapshot", app.savePath,
		"pc", snap.PC,
		"loops", len(snap.Loops),
		"skip", snap.Skip)
	return nil
}
