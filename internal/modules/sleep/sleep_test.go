package sleep

import (
	"testing"
	"time"

	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/reactor"
	"github.com/danmuck/decld/internal/testutil/testlog"
	"github.com/danmuck/decld/internal/value"
)

type recordSignal struct {
	events []module.Event
	dieds  []bool
}

func (s *recordSignal) Event(ev module.Event) { s.events = append(s.events, ev) }
func (s *recordSignal) Died(isError bool)     { s.dieds = append(s.dieds, isError) }

func TestUpAfterDelay(t *testing.T) {
	testlog.Start(t)
	r := reactor.New()
	sig := &recordSignal{}
	inst, err := (Module{}).Init(module.InitParams{
		Args:    value.NewList(value.NewString("5ms")),
		Reactor: r,
		Signal:  sig,
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	r.Flush()
	if len(sig.events) != 0 {
		t.Fatalf("up arrived before the delay")
	}

	time.Sleep(20 * time.Millisecond)
	r.Flush()
	if len(sig.events) != 1 || sig.events[0] != module.EventUp {
		t.Fatalf("expected up, got %v", sig.events)
	}

	inst.Die()
	r.Flush()
	if len(sig.dieds) != 1 || sig.dieds[0] {
		t.Fatalf("expected immediate clean died, got %v", sig.dieds)
	}
}

func TestDieBeforeUpCancelsTimer(t *testing.T) {
	testlog.Start(t)
	r := reactor.New()
	sig := &recordSignal{}
	inst, err := (Module{}).Init(module.InitParams{
		Args:    value.NewList(value.NewString("1h")),
		Reactor: r,
		Signal:  sig,
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	inst.Die()
	r.Flush()
	if len(sig.events) != 0 {
		t.Fatalf("up must not arrive after die")
	}
	if len(sig.dieds) != 1 {
		t.Fatalf("expected died, got %v", sig.dieds)
	}
}

func TestDownDelayPostponesDeath(t *testing.T) {
	testlog.Start(t)
	r := reactor.New()
	sig := &recordSignal{}
	inst, err := (Module{}).Init(module.InitParams{
		Args:    value.NewList(value.NewString("0s"), value.NewString("10ms")),
		Reactor: r,
		Signal:  sig,
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	r.Flush()

	inst.Die()
	r.Flush()
	if len(sig.dieds) != 0 {
		t.Fatalf("died arrived before the down delay")
	}

	time.Sleep(30 * time.Millisecond)
	r.Flush()
	if len(sig.dieds) != 1 {
		t.Fatalf("expected died after delay, got %v", sig.dieds)
	}
}

func TestArgumentValidation(t *testing.T) {
	testlog.Start(t)
	r := reactor.New()
	cases := []value.Value{
		value.NewList(),
		value.NewList(value.NewString("soon")),
		value.NewList(value.NewString("-1s")),
		value.NewList(value.NewList()),
		value.NewList(value.NewString("1s"), value.NewString("1s"), value.NewString("1s")),
	}
	for i, args := range cases {
		if _, err := (Module{}).Init(module.InitParams{Args: args, Reactor: r, Signal: &recordSignal{}}); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
