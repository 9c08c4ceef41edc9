package script

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/alecthomas/participle/v2/lexer"
	"go.uber.org/zap"

	"neondrift.city/internal/protocol"
	"neondrift.city/internal/sim/catalogs"
	"neondrift.city/internal/sim/gen"
	"neondrift.city/internal/sim/tuning"
	"neondrift.city/internal/sim/world"
	modelpkg "neondrift.city/internal/sim/world/kernel/model"
)

type Env struct {
	Catalogs *catalogs.Catalogs
	Tuning   tuning.Tuning
	Log      *zap.Logger
	// Trace receives one line per command; nil discards it.
	Trace io.Writer
	// Seed and Job apply unless the script sets its own.
	Seed    uint64
	Job     modelpkg.Job
	Options []world.Option
}

// Failure is one expectation that did not hold.
type Failure struct {
	Pos   lexer.Position
	Field string
	Op    string
	Want  string
	Got   string
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: expect %s %s %s, got %s", f.Pos, f.Field, f.Op, f.Want, f.Got)
}

type Result struct {
	Seed       uint64
	Job        modelpkg.Job
	Commands   int
	Rejections int
	Failures   []Failure
	Summary    world.Summary
	Report     world.Report
}

func (r Result) OK() bool { return len(r.Failures) == 0 }

type runner struct {
	env  Env
	seed uint64
	job  modelpkg.Job
	w    *world.World
	res  Result
}

// Run plays s against a freshly generated world. Rule rejections are counted,
// not fatal; malformed commands and unknown expect fields are errors.
func Run(s *Script, env Env) (Result, error) {
	if env.Catalogs == nil {
		return Result{}, fmt.Errorf("script: catalogs are required")
	}
	if env.Log == nil {
		env.Log = zap.NewNop()
	}
	if env.Trace == nil {
		env.Trace = io.Discard
	}
	r := &runner{env: env, seed: env.Seed, job: env.Job}
	for _, st := range s.Stmts {
		if err := r.exec(st); err != nil {
			return r.res, fmt.Errorf("%s: %w", st.Pos, err)
		}
	}
	if err := r.ensureWorld(); err != nil {
		return r.res, err
	}
	r.res.Summary = r.w.Summary()
	r.res.Report = r.w.Report()
	return r.res, nil
}

func (r *runner) ensureWorld() error {
	if r.w != nil {
		return nil
	}
	opts := append([]world.Option{world.WithLogger(r.env.Log)}, r.env.Options...)
	w, err := world.Generate(
		world.ConfigFrom(r.env.Tuning, r.seed, r.job),
		gen.ConfigFrom(r.env.Tuning),
		r.env.Catalogs,
		opts...,
	)
	if err != nil {
		return err
	}
	r.w = w
	r.res.Seed, r.res.Job = r.seed, r.job
	return nil
}

func (r *runner) exec(st *Stmt) error {
	switch {
	case st.Seed != nil:
		if r.w != nil {
			return fmt.Errorf("seed must come before any command")
		}
		r.seed = *st.Seed
		return nil
	case st.Job != nil:
		if r.w != nil {
			return fmt.Errorf("job must come before any command")
		}
		j, err := modelpkg.ParseJob(*st.Job)
		if err != nil {
			return err
		}
		r.job = j
		return nil
	}

	if err := r.ensureWorld(); err != nil {
		return err
	}

	switch {
	case st.Move != nil:
		dx, dy := direction(st.Move.Dir)
		steps := 1
		if st.Move.Steps != nil {
			steps = *st.Move.Steps
		}
		for range steps {
			act := newAct(protocol.ActMove)
			act.DX, act.DY = dx, dy
			r.apply(st.Pos, act)
		}
	case st.Interact:
		r.apply(st.Pos, newAct(protocol.ActInteract))
	case st.Combat != nil:
		act := newAct(protocol.ActCombat)
		act.Combat = st.Combat.Action
		if st.Combat.Slot != nil {
			act.Slot = *st.Combat.Slot
		}
		r.apply(st.Pos, act)
	case st.Cursor != nil:
		act := newAct(protocol.ActCursor)
		act.DY = *st.Cursor
		r.apply(st.Pos, act)
	case st.Confirm:
		r.apply(st.Pos, newAct(protocol.ActConfirm))
	case st.Tick != nil:
		return r.tick(st.Tick)
	case st.Buy != nil:
		act := newAct(protocol.ActBuy)
		act.Slot = *st.Buy
		r.apply(st.Pos, act)
	case st.Use != nil:
		act := newAct(protocol.ActUse)
		act.Slot = *st.Use
		r.apply(st.Pos, act)
	case st.Equip != nil:
		act := newAct(protocol.ActEquip)
		act.Slot = *st.Equip
		r.apply(st.Pos, act)
	case st.Open != nil:
		act := newAct(protocol.ActOpen)
		act.Mode = *st.Open
		r.apply(st.Pos, act)
	case st.Close:
		r.apply(st.Pos, newAct(protocol.ActClose))
	case st.Save:
		r.apply(st.Pos, newAct(protocol.ActSave))
	case st.Expect != nil:
		return r.expect(st.Pos, st.Expect)
	}
	return nil
}

func newAct(action string) protocol.ActMsg {
	return protocol.ActMsg{Type: protocol.TypeAct, ProtocolVersion: protocol.Version, Action: action}
}

func direction(dir string) (dx, dy int) {
	switch dir {
	case "north":
		return 0, -1
	case "south":
		return 0, 1
	case "east":
		return 1, 0
	default:
		return -1, 0
	}
}

func (r *runner) apply(pos lexer.Position, act protocol.ActMsg) {
	r.res.Commands++
	err := r.w.Apply(act)
	outcome := "ok"
	if err != nil {
		r.res.Rejections++
		outcome = world.Code(err)
	}
	fmt.Fprintf(r.env.Trace, "%d:%d %s %s\n", pos.Line, pos.Column, act.Action, outcome)
}

func (r *runner) tick(t *Tick) error {
	step := time.Duration(r.env.Tuning.TickMS) * time.Millisecond
	if t.Step != nil {
		d, err := time.ParseDuration(*t.Step)
		if err != nil {
			return err
		}
		step = d
	}
	if step <= 0 {
		return fmt.Errorf("tick step must be positive")
	}
	times := 1
	if t.Times != nil {
		times = *t.Times
	}
	for range times {
		r.w.Tick(step.Seconds())
	}
	return nil
}

func (r *runner) expect(pos lexer.Position, e *Expect) error {
	get, ok := fields[e.Field]
	if !ok {
		return fmt.Errorf("unknown expect field %q", e.Field)
	}
	got := get(r.w, r.w.View())
	if !compare(got, e.Op, e.Value) {
		r.res.Failures = append(r.res.Failures, Failure{
			Pos: pos, Field: e.Field, Op: e.Op, Want: e.Value.String(), Got: fmt.Sprint(got),
		})
		fmt.Fprintf(r.env.Trace, "%d:%d expect %s FAILED (got %v)\n", pos.Line, pos.Column, e.Field, got)
	}
	return nil
}

// Numeric fields return float64; the rest return string.
var fields = map[string]func(*world.World, protocol.ViewMsg) any{
	"hp":        func(_ *world.World, v protocol.ViewMsg) any { return v.Player.HP },
	"stress":    func(_ *world.World, v protocol.ViewMsg) any { return v.Player.Stress },
	"hunger":    func(_ *world.World, v protocol.ViewMsg) any { return v.Player.Hunger },
	"sleep":     func(_ *world.World, v protocol.ViewMsg) any { return v.Player.Sleep },
	"credits":   func(_ *world.World, v protocol.ViewMsg) any { return float64(v.Player.Credits) },
	"level":     func(_ *world.World, v protocol.ViewMsg) any { return float64(v.Player.Level) },
	"xp":        func(_ *world.World, v protocol.ViewMsg) any { return float64(v.Player.XP) },
	"wanted":    func(_ *world.World, v protocol.ViewMsg) any { return float64(v.Player.Wanted) },
	"sync":      func(_ *world.World, v protocol.ViewMsg) any { return float64(v.Player.Sync) },
	"decay":     func(_ *world.World, v protocol.ViewMsg) any { return float64(v.Player.Decay) },
	"network":   func(_ *world.World, v protocol.ViewMsg) any { return float64(v.Player.Network) },
	"x":         func(_ *world.World, v protocol.ViewMsg) any { return float64(v.Player.Pos[0]) },
	"y":         func(_ *world.World, v protocol.ViewMsg) any { return float64(v.Player.Pos[1]) },
	"tick":      func(_ *world.World, v protocol.ViewMsg) any { return float64(v.Tick) },
	"items":     func(_ *world.World, v protocol.ViewMsg) any { return float64(len(v.Player.Inventory)) },
	"weight":    func(_ *world.World, v protocol.ViewMsg) any { return v.Player.Weight },
	"stability": func(_ *world.World, v protocol.ViewMsg) any { return v.Player.Stability },
	"anxiety":   func(_ *world.World, v protocol.ViewMsg) any { return v.Player.Anxiety },
	"mode":      func(_ *world.World, v protocol.ViewMsg) any { return v.Mode },
	"zone":      func(_ *world.World, v protocol.ViewMsg) any { return v.Player.Zone },
	"weather":   func(_ *world.World, v protocol.ViewMsg) any { return v.Clock.Weather },
	"job":       func(_ *world.World, v protocol.ViewMsg) any { return v.Player.Job },
	"ending":    func(w *world.World, _ protocol.ViewMsg) any { return w.Ending().String() },
	"quests_done": func(w *world.World, _ protocol.ViewMsg) any {
		return float64(len(w.Report().Quests))
	},
}

func compare(got any, op string, want Value) bool {
	switch g := got.(type) {
	case float64:
		if want.Number == nil {
			return false
		}
		n := *want.Number
		switch op {
		case "==":
			return g == n
		case "!=":
			return g != n
		case ">=":
			return g >= n
		case "<=":
			return g <= n
		case ">":
			return g > n
		case "<":
			return g < n
		}
	case string:
		w := want.String()
		switch op {
		case "==":
			return g == w
		case "!=":
			return g != w
		}
	}
	return false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
