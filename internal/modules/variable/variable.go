// Package variable provides the var, list, and concat builtin modules:
// statements that hold values and expose them to later statements.
package variable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/value"
)

// VarModule holds a single value.
type VarModule struct{}

func (VarModule) Info() module.Info {
	return module.Info{
		Type:        "var",
		Name:        "Var",
		Description: "Holds one value and exposes it to later statements.",
	}
}

func (VarModule) Init(p module.InitParams) (module.Instance, error) {
	elems := p.Args.List()
	if len(elems) != 1 {
		return nil, fmt.Errorf("var: expects exactly one argument, got %d", len(elems))
	}
	inst := &valueInstance{kind: "var", val: elems[0], signal: p.Signal}
	p.Signal.Event(module.EventUp)
	return inst, nil
}

// ListModule aggregates its arguments into a list value.
type ListModule struct{}

func (ListModule) Info() module.Info {
	return module.Info{
		Type:        "list",
		Name:        "List",
		Description: "Aggregates its arguments into one list value.",
	}
}

func (ListModule) Init(p module.InitParams) (module.Instance, error) {
	inst := &valueInstance{kind: "list", val: p.Args, signal: p.Signal}
	p.Signal.Event(module.EventUp)
	return inst, nil
}

// ConcatModule joins its string arguments.
type ConcatModule struct{}

func (ConcatModule) Info() module.Info {
	return module.Info{
		Type:        "concat",
		Name:        "Concat",
		Description: "Concatenates its string arguments into one string.",
	}
}

func (ConcatModule) Init(p module.InitParams) (module.Instance, error) {
	var b strings.Builder
	for i, e := range p.Args.List() {
		s, ok := e.AsString()
		if !ok {
			return nil, fmt.Errorf("concat: argument %d is not a string", i)
		}
		b.WriteString(s)
	}
	inst := &valueInstance{kind: "concat", val: value.NewString(b.String()), signal: p.Signal}
	p.Signal.Event(module.EventUp)
	return inst, nil
}

// valueInstance backs all three modules: a held value that dies on demand.
type valueInstance struct {
	kind   string
	val    value.Value
	signal module.Signaler
}

func (in *valueInstance) Die() {
	in.signal.Died(false)
}

func (in *valueInstance) GetVar(name string) (value.Value, error) {
	switch name {
	case "":
		return in.val.Clone(), nil
	case "length":
		if !in.val.IsList() {
			break
		}
		return value.NewString(strconv.Itoa(in.val.Len())), nil
	}
	return value.Value{}, fmt.Errorf("%s: unknown variable %q", in.kind, name)
}
