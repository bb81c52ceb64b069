// Package run provides the run.local and run.remote builtin modules:
// statements that go up when a start command succeeds and run an optional
// stop command when torn down.
package run

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/reactor"
	"github.com/danmuck/decld/internal/value"
)

const remoteDialTimeout = 15 * time.Second

// LocalModule runs commands on the local host.
// Arguments: start argv list, optional stop argv list.
type LocalModule struct{}

func (LocalModule) Info() module.Info {
	return module.Info{
		Type:        "run.local",
		Name:        "Run local",
		Description: "Runs a local command on advance and an optional command on teardown.",
	}
}

func (LocalModule) Init(p module.InitParams) (module.Instance, error) {
	start, stop, err := commandArgs(p.Args.List())
	if err != nil {
		return nil, fmt.Errorf("run.local: %w", err)
	}
	return startInstance(p, LocalRunner{}, start, stop), nil
}

// RemoteModule runs commands over SSH.
// Arguments: host, user, key path, start argv list, optional stop argv
// list.
type RemoteModule struct{}

func (RemoteModule) Info() module.Info {
	return module.Info{
		Type:        "run.remote",
		Name:        "Run remote",
		Description: "Runs a command on a remote host over SSH on advance and teardown.",
	}
}

func (RemoteModule) Init(p module.InitParams) (module.Instance, error) {
	elems := p.Args.List()
	if len(elems) < 4 {
		return nil, fmt.Errorf("run.remote: expects host, user, key path, and a command list")
	}
	host, ok := elems[0].AsString()
	if !ok {
		return nil, fmt.Errorf("run.remote: host is not a string")
	}
	user, ok := elems[1].AsString()
	if !ok {
		return nil, fmt.Errorf("run.remote: user is not a string")
	}
	keyPath, ok := elems[2].AsString()
	if !ok {
		return nil, fmt.Errorf("run.remote: key path is not a string")
	}

	start, stop, err := commandArgs(elems[3:])
	if err != nil {
		return nil, fmt.Errorf("run.remote: %w", err)
	}

	runner := SSHRunner{
		Host:    host,
		User:    user,
		KeyPath: keyPath,
		Timeout: remoteDialTimeout,
	}
	return startInstance(p, runner, start, stop), nil
}

// commandArgs decodes a start argv list and an optional stop argv list.
func commandArgs(elems []value.Value) (start, stop []string, err error) {
	if len(elems) < 1 || len(elems) > 2 {
		return nil, nil, fmt.Errorf("expects a command list and an optional stop command list, got %d arguments", len(elems))
	}
	start, err = argv(elems[0])
	if err != nil {
		return nil, nil, fmt.Errorf("command: %w", err)
	}
	if len(elems) == 2 {
		stop, err = argv(elems[1])
		if err != nil {
			return nil, nil, fmt.Errorf("stop command: %w", err)
		}
	}
	return start, stop, nil
}

func argv(v value.Value) ([]string, error) {
	if !v.IsList() {
		return nil, fmt.Errorf("not a list")
	}
	if v.Len() == 0 {
		return nil, fmt.Errorf("empty command")
	}
	out := make([]string, 0, v.Len())
	for i, e := range v.List() {
		s, ok := e.AsString()
		if !ok {
			return nil, fmt.Errorf("element %d is not a string", i)
		}
		out = append(out, s)
	}
	return out, nil
}

func startInstance(p module.InitParams, runner Runner, start, stop []string) *instance {
	inst := &instance{
		r:       p.Reactor,
		signal:  p.Signal,
		runner:  runner,
		start:   start,
		stop:    stop,
		log:     p.Log,
		running: true,
	}
	go inst.exec()
	return inst
}

// instance state is mutated only on the reactor; the exec goroutines just
// run the command and post the result.
type instance struct {
	r      *reactor.Reactor
	signal module.Signaler
	runner Runner
	start  []string
	stop   []string
	log    zerolog.Logger

	running      bool
	dieRequested bool
	done         bool
	output       string
}

func (in *instance) exec() {
	out, err := in.runner.Run(in.start[0], in.start[1:]...)
	in.r.Post(func() {
		in.startDone(out, err)
	})
}

func (in *instance) startDone(out string, err error) {
	in.running = false
	in.output = out

	if err != nil {
		in.log.Error().Err(err).Str("output", out).Msg("command failed")
		in.done = true
		in.signal.Died(true)
		return
	}

	if in.dieRequested {
		in.runStop()
		return
	}

	in.signal.Event(module.EventUp)
}

func (in *instance) Die() {
	if in.done {
		return
	}
	in.dieRequested = true
	if in.running {
		// the start command is still in flight; startDone finishes the
		// teardown
		return
	}
	in.runStop()
}

func (in *instance) runStop() {
	if len(in.stop) == 0 {
		in.done = true
		in.signal.Died(false)
		return
	}
	stop := in.stop
	go func() {
		out, err := in.runner.Run(stop[0], stop[1:]...)
		in.r.Post(func() {
			if err != nil {
				in.log.Error().Err(err).Str("output", out).Msg("stop command failed")
			}
			in.done = true
			in.signal.Died(err != nil)
		})
	}()
}

func (in *instance) GetVar(name string) (value.Value, error) {
	if name == "output" {
		return value.NewString(in.output), nil
	}
	return value.Value{}, fmt.Errorf("run: unknown variable %q", name)
}
