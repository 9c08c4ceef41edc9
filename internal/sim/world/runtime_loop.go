package world

import (
	"context"
	"time"

	"go.uber.org/zap"

	"neondrift.city/internal/protocol"
)

type actReq struct {
	act   protocol.ActMsg
	reply chan error
}

type subReq struct {
	ch   chan protocol.ViewMsg
	done chan int
}

type doReq struct {
	fn   func(*World)
	done chan struct{}
}

// Runner owns a World and drives it in real time. All access to the world
// goes through the loop goroutine.
type Runner struct {
	w        *World
	interval time.Duration
	queueLen int

	inbox chan actReq
	sub   chan subReq
	unsub chan int
	do    chan doReq
	stop  chan struct{}
	done  chan struct{}
}

func NewRunner(w *World, interval time.Duration, queueLen int) *Runner {
	if interval <= 0 {
		interval = 70 * time.Millisecond
	}
	if queueLen <= 0 {
		queueLen = 4
	}
	return &Runner{
		w:        w,
		interval: interval,
		queueLen: queueLen,
		inbox:    make(chan actReq, 64),
		sub:      make(chan subReq),
		unsub:    make(chan int),
		do:       make(chan doReq),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	subs := map[int]chan protocol.ViewMsg{}
	nextSub := 0
	var pending []actReq
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stop:
			return nil
		case req := <-r.inbox:
			pending = append(pending, req)
		case req := <-r.sub:
			nextSub++
			subs[nextSub] = req.ch
			req.done <- nextSub
		case id := <-r.unsub:
			if ch, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
		case req := <-r.do:
			req.fn(r.w)
			close(req.done)
		case now := <-ticker.C:
			for _, req := range pending {
				req.reply <- r.w.Apply(req.act)
			}
			pending = pending[:0]
			dt := now.Sub(last).Seconds()
			last = now
			r.w.Tick(dt)
			if len(subs) == 0 {
				continue
			}
			v := r.w.View()
			for _, ch := range subs {
				sendLatest(ch, v)
			}
		}
	}
}

func (r *Runner) Stop() { close(r.stop) }

// Submit queues act for the next tick and waits for its outcome.
func (r *Runner) Submit(ctx context.Context, act protocol.ActMsg) error {
	req := actReq{act: act, reply: make(chan error, 1)}
	select {
	case r.inbox <- req:
	case <-r.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-r.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns a channel of views published after every tick and a
// cancel func. Slow readers lose the oldest views.
func (r *Runner) Subscribe(ctx context.Context) (<-chan protocol.ViewMsg, func(), error) {
	req := subReq{ch: make(chan protocol.ViewMsg, r.queueLen), done: make(chan int, 1)}
	select {
	case r.sub <- req:
	case <-r.done:
		return nil, nil, context.Canceled
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
	id := <-req.done
	cancel := func() {
		select {
		case r.unsub <- id:
		case <-r.done:
		}
	}
	return req.ch, cancel, nil
}

// Do runs fn on the loop goroutine between ticks.
func (r *Runner) Do(ctx context.Context, fn func(*World)) error {
	req := doReq{fn: fn, done: make(chan struct{})}
	select {
	case r.do <- req:
	case <-r.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
	<-req.done
	return nil
}

func (r *Runner) Logger() *zap.Logger { return r.w.log }

func sendLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
