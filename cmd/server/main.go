package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"neondrift.city/internal/platform/logging"
	"neondrift.city/internal/session"
	"neondrift.city/internal/sim/tuning"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
	"neondrift.city/internal/transport/ws"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	var (
		addr       = flag.String("addr", envString("NEONDRIFT_ADDR", "127.0.0.1:8080"), "http listen address (loopback by default)")
		seed       = flag.Uint64("seed", envUint("NEONDRIFT_SEED", 1337), "city seed (ignored when resuming a save)")
		job        = flag.String("job", envString("NEONDRIFT_JOB", "courier"), "starting job")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		dataDir    = flag.String("data", envString("NEONDRIFT_DATA", ""), "runtime data directory (default: tuning save.dir)")
		resume     = flag.Bool("resume", true, "resume from the save file when present")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite save/action index")
	)
	flag.Parse()

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, tuneErr := tuning.Load(tp)
	if tuneErr != nil && !errors.Is(tuneErr, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load tuning:", tuneErr)
		os.Exit(1)
	}

	logger, err := logging.New(tune.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	if tuneErr != nil {
		logger.Warn("tuning not found; using defaults", zap.String("path", tp))
	}

	j, err := modelpkg.ParseJob(*job)
	if err != nil {
		logger.Fatal("bad -job", zap.Error(err))
	}

	ctx, cancel := signalContext()
	defer cancel()

	sess, err := session.Open(ctx, session.Options{
		ConfigDir: *configDir,
		Tuning:    tune,
		DataDir:   *dataDir,
		Seed:      *seed,
		Job:       j,
		Resume:    *resume,
		DisableDB: *disableDB,
		Log:       logger,
	})
	if err != nil {
		logger.Fatal("open session", zap.Error(err))
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("close session", zap.Error(err))
		}
	}()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := sess.Runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("world stopped", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(sess.Runner, ws.Config{
		SessionID: sess.ID,
		Params:    sess.Params(),
		Catalogs:  sess.Digests(),
		OutQueue:  tune.ViewQueueLen * 2,
	}, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Info("listening",
		zap.String("addr", *addr),
		zap.String("session", sess.ID),
		zap.Uint64("seed", sess.Seed),
		zap.Bool("resumed", sess.Resumed),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("ListenAndServe", zap.Error(err))
		cancel()
	}
	<-runDone
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envUint(key string, def uint64) uint64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
