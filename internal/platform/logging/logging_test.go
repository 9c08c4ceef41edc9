package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"neondrift.city/internal/sim/tuning"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		cfg  tuning.Logging
		want zapcore.Level
	}{
		{tuning.Logging{Level: "debug", Format: "json"}, zapcore.DebugLevel},
		{tuning.Logging{Level: "warn", Format: "console"}, zapcore.WarnLevel},
		{tuning.Logging{Level: "loud", Format: "console"}, zapcore.InfoLevel},
	}
	for _, tc := range cases {
		log, err := New(tc.cfg)
		if err != nil {
			t.Fatalf("New(%+v): %v", tc.cfg, err)
		}
		if !log.Core().Enabled(tc.want) {
			t.Fatalf("%+v: level %v disabled", tc.cfg, tc.want)
		}
		if tc.want > zapcore.DebugLevel && log.Core().Enabled(tc.want-1) {
			t.Fatalf("%+v: level %v should be disabled", tc.cfg, tc.want-1)
		}
	}
}

func TestToFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	log, err := ToFile(tuning.Logging{Level: "info"}, path)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("hello")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"msg":"hello"`) {
		t.Fatalf("unexpected log output: %s", b)
	}
}
