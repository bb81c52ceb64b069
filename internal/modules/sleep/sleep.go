// Package sleep provides the sleep builtin: a statement that goes up after
// a delay and, when torn down, dies after an optional second delay
// (immediately when none is given), useful for sequencing and for
// exercising asynchronous transitions.
package sleep

import (
	"fmt"
	"time"

	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/reactor"
	"github.com/danmuck/decld/internal/value"
)

type Module struct{}

func (Module) Info() module.Info {
	return module.Info{
		Type:        "sleep",
		Name:        "Sleep",
		Description: "Goes up after a delay; optionally delays its death.",
	}
}

// Init accepts one or two duration arguments: the up delay and an optional
// down delay.
func (Module) Init(p module.InitParams) (module.Instance, error) {
	elems := p.Args.List()
	if len(elems) < 1 || len(elems) > 2 {
		return nil, fmt.Errorf("sleep: expects one or two arguments, got %d", len(elems))
	}

	upDelay, err := durationArg(elems[0])
	if err != nil {
		return nil, fmt.Errorf("sleep: up delay: %w", err)
	}
	var downDelay time.Duration
	if len(elems) == 2 {
		downDelay, err = durationArg(elems[1])
		if err != nil {
			return nil, fmt.Errorf("sleep: down delay: %w", err)
		}
	}

	inst := &instance{
		signal:    p.Signal,
		timer:     p.Reactor.NewTimer(),
		downDelay: downDelay,
	}
	inst.timer.SetAbsolute(time.Now().Add(upDelay), func() {
		inst.signal.Event(module.EventUp)
	})
	return inst, nil
}

func durationArg(v value.Value) (time.Duration, error) {
	s, ok := v.AsString()
	if !ok {
		return 0, fmt.Errorf("not a string")
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", d)
	}
	return d, nil
}

type instance struct {
	signal    module.Signaler
	timer     *reactor.Timer
	downDelay time.Duration
}

func (in *instance) Die() {
	in.timer.Stop()
	if in.downDelay <= 0 {
		in.signal.Died(false)
		return
	}
	in.timer.SetAbsolute(time.Now().Add(in.downDelay), func() {
		in.signal.Died(false)
	})
}

func (in *instance) GetVar(name string) (value.Value, error) {
	return value.Value{}, fmt.Errorf("sleep: unknown variable %q", name)
}
