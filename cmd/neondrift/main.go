// Command neondrift runs a session in-process and plays it in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"neondrift.city/internal/platform/logging"
	"neondrift.city/internal/protocol"
	"neondrift.city/internal/session"
	"neondrift.city/internal/sim/tuning"
	"neondrift.city/internal/sim/world"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		seed       = flag.Uint64("seed", 0, "city seed (0: NEONDRIFT_SEED or 1337)")
		job        = flag.String("job", "", "starting job (default: NEONDRIFT_JOB or courier)")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", os.Getenv("NEONDRIFT_DATA"), "runtime data directory")
		fresh      = flag.Bool("new", false, "ignore the save file and start a new run")
		logFile    = flag.String("log", "neondrift.log", "log file (the terminal is taken by the game)")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = 1337
		if v := strings.TrimSpace(os.Getenv("NEONDRIFT_SEED")); v != "" {
			if _, err := fmt.Sscan(v, seed); err != nil {
				return fmt.Errorf("NEONDRIFT_SEED: %w", err)
			}
		}
	}
	if *job == "" {
		*job = "courier"
		if v := strings.TrimSpace(os.Getenv("NEONDRIFT_JOB")); v != "" {
			*job = v
		}
	}
	j, err := modelpkg.ParseJob(*job)
	if err != nil {
		return err
	}

	tp := *tuningPath
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	logger, err := logging.ToFile(tune.Logging, *logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := session.Open(ctx, session.Options{
		ConfigDir: *configDir,
		Tuning:    tune,
		DataDir:   *dataDir,
		Seed:      *seed,
		Job:       j,
		Resume:    !*fresh,
		Log:       logger,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	runDone := make(chan error, 1)
	go func() { runDone <- sess.Runner.Run(ctx) }()

	report, err := play(ctx, sess.Runner, logger)
	cancel()
	<-runDone
	if err != nil {
		return err
	}
	fmt.Print(report.String())
	return nil
}

// play owns the terminal until the player quits, then returns the ending
// report.
func play(ctx context.Context, r *world.Runner, logger *zap.Logger) (world.Report, error) {
	var report world.Report

	screen, err := tcell.NewScreen()
	if err != nil {
		return report, err
	}
	if err := screen.Init(); err != nil {
		return report, err
	}
	defer screen.Fini()

	views, unsubscribe, err := r.Subscribe(ctx)
	if err != nil {
		return report, err
	}
	defer unsubscribe()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	mode := "world"
	for {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		case v, ok := <-views:
			if !ok {
				return report, nil
			}
			mode = v.Mode
			draw(screen, v)
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'Q') {
					err := r.Do(ctx, func(w *world.World) { report = w.Report() })
					return report, err
				}
				act, ok := keyAct(mode, ev)
				if !ok {
					continue
				}
				// Rejections already reach the screen through the event log.
				if err := r.Submit(ctx, act); err != nil && world.Code(err) == protocol.ErrInternal {
					logger.Warn("act", zap.String("action", act.Action), zap.Error(err))
				}
			}
		}
	}
}
