// Command replay runs replay scripts against a seeded city and checks
// their expectations. It exits 1 when any expectation fails.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	persistlog "neondrift.city/internal/persistence/log"
	"neondrift.city/internal/platform/logging"
	"neondrift.city/internal/script"
	"neondrift.city/internal/sim/catalogs"
	"neondrift.city/internal/sim/tuning"
	"neondrift.city/internal/sim/world"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

func main() {
	var (
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		seed       = flag.Uint64("seed", 1, "seed for scripts without a seed line")
		job        = flag.String("job", "courier", "job for scripts without a job line")
		trace      = flag.Bool("trace", false, "print every command outcome")
		logDir     = flag.String("log_dir", "", "also write the applied actions as JSONL under this directory")
		quiet      = flag.Bool("q", false, "only print failures")
	)
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: replay [flags] script.nd...")
		os.Exit(2)
	}

	tp := *tuningPath
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load tuning:", err)
		os.Exit(1)
	}
	logger, err := logging.New(tune.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cats, err := catalogs.Default()
	if _, statErr := os.Stat(filepath.Join(*configDir, "items.json")); statErr == nil {
		cats, err = catalogs.Load(*configDir)
	}
	if err != nil {
		logger.Fatal("load catalogs", zap.Error(err))
	}
	j, err := modelpkg.ParseJob(*job)
	if err != nil {
		logger.Fatal("bad -job", zap.Error(err))
	}

	failed := false
	for _, path := range flag.Args() {
		ok, err := runOne(path, script.Env{
			Catalogs: cats,
			Tuning:   tune,
			Log:      logger,
			Seed:     *seed,
			Job:      j,
		}, *trace, *quiet, *logDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		failed = failed || !ok
	}
	if failed {
		os.Exit(1)
	}
}

func runOne(path string, env script.Env, trace, quiet bool, logDir string) (bool, error) {
	s, err := script.ParseFile(path)
	if err != nil {
		return false, err
	}
	if trace {
		env.Trace = os.Stdout
	}
	if logDir != "" {
		al := persistlog.NewActionLogger(logDir, filepath.Base(path))
		defer al.Close()
		env.Options = append(env.Options, world.WithActionLogger(al))
	}

	res, err := script.Run(s, env)
	if err != nil {
		return false, err
	}
	for _, f := range res.Failures {
		fmt.Println("FAIL", f)
	}
	if !quiet {
		fmt.Printf("%s: seed=%d job=%s commands=%d rejected=%d failures=%d\n",
			path, res.Seed, res.Job, res.Commands, res.Rejections, len(res.Failures))
		fmt.Print(res.Report.String())
	}
	return res.OK(), nil
}
