// Package module defines the capability set a statement module exposes to
// the engine, and the registry that maps module type names to
// implementations.
package module

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/danmuck/decld/internal/reactor"
	"github.com/danmuck/decld/internal/value"
)

// Event is a module instance lifecycle signal delivered to the engine.
type Event int

const (
	EventUp Event = iota
	EventDown
	EventDying
)

func (e Event) String() string {
	switch e {
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventDying:
		return "dying"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Info is the contract for module identity and display data.
type Info struct {
	Type        string
	Name        string
	Description string
}

// Signaler carries the two engine callbacks bound to one statement.
// Implementations deliver asynchronously through the reactor, so a module
// may signal from inside Init or Die without re-entering the engine.
type Signaler interface {
	// Event reports an up/down/dying transition of the live instance.
	Event(ev Event)
	// Died reports that the instance has finished terminating. After Died
	// the instance must not signal again.
	Died(isError bool)
}

// InitParams is everything a module receives when instantiated for one
// statement.
type InitParams struct {
	// Name is the statement's local name, empty when the statement is
	// unnamed.
	Name string
	// Args is the materialized argument list (always a list value). The
	// instance owns it.
	Args value.Value
	// LogPrefix identifies the statement for module-side diagnostics, of
	// the form "process <pname>: statement <i>: module: ".
	LogPrefix string
	Log       zerolog.Logger
	Reactor   *reactor.Reactor
	Signal    Signaler
}

// Instance is one live realization of a module for one statement.
type Instance interface {
	// Die asks the instance to terminate. The instance responds with a
	// Died signal, possibly before Die returns.
	Die()
	// GetVar resolves a variable path against the instance and returns a
	// value owned by the caller. The empty path names the instance's
	// primary value.
	GetVar(name string) (value.Value, error)
}

// Module is the capability set for one statement type.
type Module interface {
	Info() Info
	// Init creates a live instance. On error the statement enters the
	// retry path; no Died signal follows a failed Init.
	Init(p InitParams) (Instance, error)
}

// GlobalIniter is implemented by modules needing a one-shot hook at daemon
// start. Failure aborts startup.
type GlobalIniter interface {
	GlobalInit() error
}
