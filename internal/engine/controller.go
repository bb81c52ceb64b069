package engine

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/decld/internal/config"
	"github.com/danmuck/decld/internal/logging"
	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/observability"
	"github.com/danmuck/decld/internal/reactor"
)

// Controller owns the set of processes, drives global termination, and
// requests reactor exit once every process has retreated.
type Controller struct {
	r     *reactor.Reactor
	reg   *module.Registry
	retry RetryConfig
	rng   *rand.Rand

	terminating bool
	processes   []*Process

	log zerolog.Logger
}

// NewController builds a controller on the given reactor and registry.
func NewController(r *reactor.Reactor, reg *module.Registry, retry RetryConfig) *Controller {
	return &Controller{
		r:     r,
		reg:   reg,
		retry: retry,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   logging.C(logging.ChannelEngine),
	}
}

// AddProcess loads a process declaration, takes ownership of it, and kicks
// off its first work pass. Load failure leaves the controller unchanged.
func (c *Controller) AddProcess(cfg config.Process) error {
	p, err := newProcess(c, cfg)
	if err != nil {
		return err
	}
	c.processes = append(c.processes, p)
	observability.SetProcessCount(len(c.processes))
	p.work()
	return nil
}

// Len returns the number of live processes.
func (c *Controller) Len() int {
	return len(c.processes)
}

// Terminating reports whether global termination has been requested.
func (c *Controller) Terminating() bool {
	return c.terminating
}

// Terminate requests global teardown. A repeated request is ignored. With
// no processes left the reactor exits immediately.
func (c *Controller) Terminate() {
	if c.terminating {
		return
	}

	c.log.Info().Msg("tearing down")
	c.terminating = true

	if len(c.processes) == 0 {
		c.r.Quit(1)
		return
	}

	// retreat may remove processes mid-iteration; walk a snapshot
	snapshot := make([]*Process, len(c.processes))
	copy(snapshot, c.processes)
	for _, p := range snapshot {
		p.work()
	}
}

// retreat tears the process down in reverse statement order and removes it
// once fully retreated.
func (c *Controller) retreat(p *Process) {
	if p.fp == 0 {
		// finished retreating
		c.remove(p)
		if len(c.processes) == 0 {
			c.r.Quit(1)
		}
		return
	}

	// order the last living statement to die, if needed
	ps := p.stmts[p.fp-1]
	if ps.state != StateDying {
		ps.log.Info().Msg("killing")
		ps.inst.Die()
		ps.setState(StateDying)

		if p.ap > ps.i {
			p.ap = ps.i
		}
	}
}

func (c *Controller) remove(p *Process) {
	p.waitTimer.Stop()
	for i, q := range c.processes {
		if q == p {
			c.processes = append(c.processes[:i], c.processes[i+1:]...)
			break
		}
	}
	observability.SetProcessCount(len(c.processes))
	p.log.Info().Msg("process finished")
}
