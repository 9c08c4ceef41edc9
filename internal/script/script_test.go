package script

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neondrift.city/internal/sim/catalogs"
	"neondrift.city/internal/sim/tuning"
	"neondrift.city/internal/sim/world"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

func testEnv(t *testing.T) Env {
	t.Helper()
	cat, err := catalogs.Default()
	require.NoError(t, err)
	return Env{Catalogs: cat, Tuning: tuning.Defaults(), Seed: 1}
}

func TestParse(t *testing.T) {
	s, err := Parse("t.nd", `
# warm up
seed 7
job taxi_driver
move east 3
move north
tick 70ms x 10
tick
attack
item 2
buy 1
open inventory
close
expect hp >= 10
expect mode == world
`)
	require.NoError(t, err)
	require.Len(t, s.Stmts, 13)

	assert.Equal(t, uint64(7), *s.Stmts[0].Seed)
	assert.Equal(t, "taxi_driver", *s.Stmts[1].Job)
	assert.Equal(t, "east", s.Stmts[2].Move.Dir)
	assert.Equal(t, 3, *s.Stmts[2].Move.Steps)
	assert.Nil(t, s.Stmts[3].Move.Steps)
	assert.Equal(t, "70ms", *s.Stmts[4].Tick.Step)
	assert.Equal(t, 10, *s.Stmts[4].Tick.Times)
	assert.Nil(t, s.Stmts[5].Tick.Step)
	assert.Equal(t, "attack", s.Stmts[6].Combat.Action)
	assert.Equal(t, 2, *s.Stmts[7].Combat.Slot)
	assert.Equal(t, 1, *s.Stmts[8].Buy)
	assert.Equal(t, "inventory", *s.Stmts[9].Open)
	assert.True(t, s.Stmts[10].Close)

	e := s.Stmts[11].Expect
	assert.Equal(t, "hp", e.Field)
	assert.Equal(t, ">=", e.Op)
	assert.Equal(t, "10", e.Value.String())
	assert.Equal(t, "world", s.Stmts[12].Expect.Value.String())
	assert.Equal(t, 15, s.Stmts[12].Pos.Line)
}

func TestParseRejectsUnknownCommand(t *testing.T) {
	_, err := Parse("bad.nd", "seed 1\nteleport 4\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.nd:2")
}

func TestRunHeaderAndExpectations(t *testing.T) {
	s, err := Parse("", `
seed 9
job taxi_driver
expect credits == 400
expect job == taxi_driver
open inventory
expect mode == inventory
close
expect mode == world
tick 1s x 10
expect tick == 10
`)
	require.NoError(t, err)

	var trace bytes.Buffer
	env := testEnv(t)
	env.Trace = &trace
	res, err := Run(s, env)
	require.NoError(t, err)
	assert.True(t, res.OK(), "failures: %v", res.Failures)
	assert.Equal(t, uint64(9), res.Seed)
	assert.Equal(t, modelpkg.JobTaxiDriver, res.Job)
	assert.Equal(t, 2, res.Commands)
	assert.Equal(t, modelpkg.JobTaxiDriver, res.Summary.Job)
	assert.Contains(t, trace.String(), "OPEN ok")
}

func TestRunRecordsFailuresAndRejections(t *testing.T) {
	s, err := Parse("f.nd", `
confirm
open shop
expect credits < 0
expect mode != world
`)
	require.NoError(t, err)
	res, err := Run(s, testEnv(t))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rejections)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "credits", res.Failures[0].Field)
	assert.Equal(t, 4, res.Failures[0].Pos.Line)
	assert.True(t, strings.HasPrefix(res.Failures[1].String(), "f.nd:5:1: expect mode != world"))
	assert.False(t, res.OK())
}

func TestRunErrors(t *testing.T) {
	cases := map[string]string{
		"late seed":     "interact\nseed 3\n",
		"unknown job":   "job astronaut\n",
		"unknown field": "expect charisma > 1\n",
		"zero tick":     "tick 0ms\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := Parse(name, src)
			require.NoError(t, err)
			_, err = Run(s, testEnv(t))
			assert.Error(t, err)
		})
	}
}

type captured []world.ActionLogEntry

func (c *captured) WriteAction(e world.ActionLogEntry) error {
	*c = append(*c, e)
	return nil
}

func TestRunIsDeterministic(t *testing.T) {
	src := "seed 5\nmove east 4\nmove south 4\ninteract\ntick x 20\nmove west 2\n"
	run := func() (world.Summary, captured) {
		s, err := Parse("", src)
		require.NoError(t, err)
		var log captured
		env := testEnv(t)
		env.Options = []world.Option{world.WithActionLogger(&log)}
		res, err := Run(s, env)
		require.NoError(t, err)
		return res.Summary, log
	}
	a, logA := run()
	b, logB := run()
	assert.Equal(t, a, b)
	assert.Equal(t, logA, logB)
	assert.Len(t, logA, 11)
}

func TestSmokeReplayPasses(t *testing.T) {
	s, err := ParseFile("../../configs/replays/smoke.nd")
	require.NoError(t, err)
	res, err := Run(s, testEnv(t))
	require.NoError(t, err)
	assert.True(t, res.OK(), "failures: %v", res.Failures)
	assert.Equal(t, modelpkg.JobNightClerk, res.Job)
	assert.Equal(t, 1, res.Rejections)
}
