// Package engine implements the per-process state machine that drives
// statement instantiation, propagates module instance transitions, enforces
// ordered teardown, and schedules retries after initialization failure.
//
// A process keeps two interlocked pointers over its statement vector: AP,
// the index of the next statement it wants live, and FP, one past the last
// statement whose instance still exists. Statements advance strictly in
// index order and are torn down strictly in reverse order.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/decld/internal/config"
	"github.com/danmuck/decld/internal/logging"
	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/observability"
	"github.com/danmuck/decld/internal/reactor"
	"github.com/danmuck/decld/internal/value"
)

var (
	ErrUnknownModule    = errors.New("engine: no module for statement")
	ErrBadArgument      = errors.New("engine: malformed argument")
	ErrUnknownStatement = errors.New("engine: unknown statement name in variable")
	ErrResolveVar       = errors.New("engine: failed to resolve variable")
)

// processStatement is the runtime instance of one statement within a
// process: its template, current state, error bookkeeping, and, when
// instantiated, the live module instance.
type processStatement struct {
	p *Process
	i int

	st Statement

	state      StmtState
	haveError  bool
	errorUntil time.Time

	// gen increments on every instance creation; signals carry the value
	// they were bound with so callbacks from a replaced instance are
	// dropped.
	gen  uint64
	inst module.Instance

	log zerolog.Logger
}

func (ps *processStatement) setState(s StmtState) {
	ps.state = s
	observability.RecordTransition(ps.p.name, s.String())
}

// setError requires the forgotten state. It marks the statement failed and
// records the absolute deadline of the next attempt.
func (ps *processStatement) setError() {
	if ps.state != StateForgotten {
		panic("engine: setError on non-forgotten statement")
	}
	ps.haveError = true
	ps.errorUntil = time.Now().Add(retryDelay(ps.p.ctl.retry, ps.p.ctl.rng))
}

// stmtSignal delivers module instance callbacks back into the engine as
// reactor jobs, carrying a stable (process, index) pair plus the instance
// generation.
type stmtSignal struct {
	p   *Process
	ps  *processStatement
	gen uint64
}

func (s stmtSignal) Event(ev module.Event) {
	s.p.ctl.r.Post(func() {
		s.p.handleEvent(s.ps, s.gen, ev)
	})
}

func (s stmtSignal) Died(isError bool) {
	s.p.ctl.r.Post(func() {
		s.p.handleDied(s.ps, s.gen, isError)
	})
}

// Process owns an ordered vector of process-statements and the two
// pointers that drive it.
type Process struct {
	ctl  *Controller
	name string

	stmts []*processStatement

	// ap is the index of the next statement to instantiate. fp is one
	// past the last statement with a live instance. 0 <= ap <= fp <= N.
	ap int
	fp int

	waitTimer *reactor.Timer

	log zerolog.Logger
}

// newProcess loads every statement template atomically: either all load or
// the process load fails.
func newProcess(ctl *Controller, cfg config.Process) (*Process, error) {
	p := &Process{
		ctl:  ctl,
		name: cfg.Name,
		log:  logging.C(logging.ChannelEngine).With().Str("process", cfg.Name).Logger(),
	}
	p.waitTimer = ctl.r.NewTimer()

	for i, sc := range cfg.Statements {
		st, err := LoadStatement(ctl.reg, sc)
		if err != nil {
			return nil, fmt.Errorf("process %s: statement %d: %w", cfg.Name, i, err)
		}
		ps := &processStatement{
			p:     p,
			i:     i,
			st:    st,
			state: StateForgotten,
			log:   p.log.With().Int("statement", i).Logger(),
		}
		p.stmts = append(p.stmts, ps)
	}

	return p, nil
}

// Name returns the process name.
func (p *Process) Name() string {
	return p.name
}

// work is the single entry for every external event. It disarms the retry
// timer, then retreats when the daemon is terminating and fights forward
// otherwise.
func (p *Process) work() {
	p.waitTimer.Stop()

	if p.ctl.terminating {
		p.ctl.retreat(p)
		return
	}

	p.fight()
}

// fight makes forward progress toward AP == FP == N with all prior
// statements adult.
func (p *Process) fight() {
	if p.ap == p.fp {
		if !(p.ap > 0 && p.stmts[p.ap-1].state == StateChild) {
			p.advance()
		}
		return
	}

	// order the last living statement to die, if needed
	ps := p.stmts[p.fp-1]
	if ps.state != StateDying {
		ps.log.Info().Msg("killing")
		ps.inst.Die()
		ps.setState(StateDying)
	}
}

// advance instantiates the statement at AP, or logs victory when the whole
// process is up.
func (p *Process) advance() {
	if p.ap == len(p.stmts) {
		p.log.Info().Msg("victory")
		observability.RecordVictory(p.name)
		return
	}

	ps := p.stmts[p.ap]

	// honor a pending retry deadline
	if ps.haveError && ps.errorUntil.After(time.Now()) {
		p.wait()
		return
	}

	ps.log.Info().Msg("initializing")

	args, err := p.materializeArgs(ps)
	if err != nil {
		ps.log.Error().Err(err).Msg("failed to build arguments")
		ps.setError()
		p.wait()
		return
	}

	ps.gen++
	inst, err := ps.st.mod.Init(module.InitParams{
		Name:      ps.st.name,
		Args:      args,
		LogPrefix: fmt.Sprintf("process %s: statement %d: module: ", p.name, ps.i),
		Log: logging.C(logging.ChannelModule).With().
			Str("process", p.name).Int("statement", ps.i).
			Str("module", ps.st.ModuleType()).Logger(),
		Reactor: p.ctl.r,
		Signal:  stmtSignal{p: p, ps: ps, gen: ps.gen},
	})
	if err != nil {
		ps.log.Error().Err(err).Msg("failed to initialize")
		ps.setError()
		p.wait()
		return
	}

	ps.inst = inst
	ps.setState(StateChild)
	p.ap++
	p.fp++
	observability.RecordAdvance(p.name)
}

// materializeArgs resolves the template arguments into a fresh list:
// literals by deep copy, variable references against earlier adult
// statements.
func (p *Process) materializeArgs(ps *processStatement) (value.Value, error) {
	args := value.NewList()
	for _, a := range ps.st.args {
		if !a.isVar {
			args.Append(a.lit.Clone())
			continue
		}
		v, err := p.resolveVar(a)
		if err != nil {
			return value.Value{}, err
		}
		args.Append(v)
	}
	return args, nil
}

// resolveVar scans backward from AP for the first earlier statement whose
// name matches the reference target, then asks its instance for the path.
func (p *Process) resolveVar(a Argument) (value.Value, error) {
	for i := p.ap; i > 0; i-- {
		rps := p.stmts[i-1]
		if rps.st.name == "" || rps.st.name != a.target {
			continue
		}
		v, err := rps.inst.GetVar(a.path)
		if err != nil {
			return value.Value{}, fmt.Errorf("%w: %s.%s: %v", ErrResolveVar, a.target, a.path, err)
		}
		return v, nil
	}
	return value.Value{}, fmt.Errorf("%w: %s.%s", ErrUnknownStatement, a.target, a.path)
}

// wait arms the retry timer for the statement at AP.
func (p *Process) wait() {
	ps := p.stmts[p.ap]
	ps.log.Info().Msg("waiting after error")
	p.waitTimer.SetAbsolute(ps.errorUntil, p.waitTimerFired)
}

func (p *Process) waitTimerFired() {
	p.log.Info().Msg("retrying")
	observability.RecordRetry(p.name)

	p.stmts[p.ap].haveError = false
	p.advance()
}

// handleEvent applies one module event. Events from a replaced instance,
// or events that are invalid for the current state (possible because
// signals are posted, not synchronous), are dropped.
func (p *Process) handleEvent(ps *processStatement, gen uint64, ev module.Event) {
	if gen != ps.gen {
		ps.log.Debug().Stringer("event", ev).Msg("event from replaced instance")
		return
	}

	switch ev {
	case module.EventUp:
		if ps.state != StateChild {
			ps.log.Debug().Stringer("event", ev).Msg("stale event")
			return
		}
		ps.log.Info().Msg("up")
		ps.setState(StateAdult)

	case module.EventDown:
		if ps.state != StateAdult {
			ps.log.Debug().Stringer("event", ev).Msg("stale event")
			return
		}
		ps.log.Info().Msg("down")
		ps.setState(StateChild)

		// statements after this one lost their prerequisite
		if p.ap > ps.i+1 {
			p.ap = ps.i + 1
		}

	case module.EventDying:
		if ps.state != StateChild && ps.state != StateAdult {
			ps.log.Debug().Stringer("event", ev).Msg("stale event")
			return
		}
		ps.log.Info().Msg("dying")
		ps.setState(StateDying)

		if p.ap > ps.i {
			p.ap = ps.i
		}

	default:
		ps.log.Warn().Stringer("event", ev).Msg("unknown event")
		return
	}

	p.work()
}

// handleDied finishes one instance lifecycle: the instance is released,
// the statement returns to forgotten, and both pointers are recomputed.
func (p *Process) handleDied(ps *processStatement, gen uint64, isError bool) {
	if gen != ps.gen || ps.state == StateForgotten {
		ps.log.Debug().Msg("died signal from replaced instance")
		return
	}

	ps.inst = nil
	ps.setState(StateForgotten)

	if isError {
		ps.setError()
	} else {
		ps.haveError = false
	}

	if p.ap > ps.i {
		p.ap = ps.i
	}

	for p.fp > 0 && p.stmts[p.fp-1].state == StateForgotten {
		p.fp--
	}

	ps.log.Info().Msg("died")
	if isError {
		ps.log.Error().Msg("with error")
	}

	p.work()
}
