package engine

import (
	"fmt"
	"strings"

	"github.com/danmuck/decld/internal/config"
	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/value"
)

// StmtState is the lifecycle state of one process-statement.
type StmtState int

const (
	// StateForgotten: no live module instance. Initial, and terminal for
	// each instantiation cycle.
	StateForgotten StmtState = iota
	// StateChild: instance created, not yet reported up.
	StateChild
	// StateAdult: instance reported up and has not gone down since.
	StateAdult
	// StateDying: instance was asked to terminate; awaiting its died
	// signal.
	StateDying
)

func (s StmtState) String() string {
	switch s {
	case StateForgotten:
		return "forgotten"
	case StateChild:
		return "child"
	case StateAdult:
		return "adult"
	case StateDying:
		return "dying"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Argument is a loaded statement argument: a literal value or a variable
// reference resolved at each advance.
type Argument struct {
	isVar  bool
	target string
	path   string
	lit    value.Value
}

// LiteralArg builds a literal argument.
func LiteralArg(v value.Value) Argument {
	return Argument{lit: v}
}

// VarArg builds a variable reference argument. path may be empty.
func VarArg(target, path string) Argument {
	return Argument{isVar: true, target: target, path: path}
}

// Statement is the immutable template of one statement: optional local
// name, resolved module, and the ordered argument list.
type Statement struct {
	name string
	mod  module.Module
	args []Argument
}

// LoadStatement resolves the module type against the registry and builds
// the argument list. Load failure fails the containing process load.
func LoadStatement(reg *module.Registry, cfg config.Statement) (Statement, error) {
	mod, ok := reg.Resolve(cfg.Module)
	if !ok {
		return Statement{}, fmt.Errorf("%w: %s", ErrUnknownModule, cfg.Module)
	}

	decoded, err := cfg.BuildArgs()
	if err != nil {
		return Statement{}, fmt.Errorf("%w: %v", ErrBadArgument, err)
	}

	args := make([]Argument, 0, len(decoded))
	for _, a := range decoded {
		if a.IsVar {
			target, path := splitRef(a.Ref)
			args = append(args, VarArg(target, path))
			continue
		}
		args = append(args, LiteralArg(a.Literal.Clone()))
	}

	return Statement{name: cfg.Name, mod: mod, args: args}, nil
}

// Name returns the statement's local name, empty when unnamed.
func (s Statement) Name() string {
	return s.name
}

// ModuleType returns the resolved module's type name.
func (s Statement) ModuleType() string {
	return s.mod.Info().Type
}

// splitRef splits "target.path.sub" into target and the joined remainder;
// a bare "target" yields an empty path.
func splitRef(ref string) (string, string) {
	target, path, _ := strings.Cut(ref, ".")
	return target, path
}
