// Package println provides the println builtin: prints its arguments when
// instantiated, then stays up until torn down.
package println

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/value"
)

// Out is the print destination; tests redirect it.
var Out io.Writer = os.Stdout

type Module struct{}

func (Module) Info() module.Info {
	return module.Info{
		Type:        "println",
		Name:        "Println",
		Description: "Prints its arguments on instantiation.",
	}
}

func (Module) Init(p module.InitParams) (module.Instance, error) {
	fmt.Fprintln(Out, Render(p.Args))
	p.Signal.Event(module.EventUp)
	return &instance{signal: p.Signal}, nil
}

// Render joins the argument list with spaces; strings print raw, lists in
// their braced form.
func Render(args value.Value) string {
	parts := make([]string, 0, args.Len())
	for _, e := range args.List() {
		if s, ok := e.AsString(); ok {
			parts = append(parts, s)
			continue
		}
		parts = append(parts, e.String())
	}
	return strings.Join(parts, " ")
}

type instance struct {
	signal module.Signaler
}

func (in *instance) Die() {
	in.signal.Died(false)
}

func (in *instance) GetVar(name string) (value.Value, error) {
	return value.Value{}, fmt.Errorf("println: unknown variable %q", name)
}
