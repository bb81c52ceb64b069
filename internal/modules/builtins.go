// Package modules wires the builtin statement modules into a registry.
package modules

import (
	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/modules/println"
	"github.com/danmuck/decld/internal/modules/run"
	"github.com/danmuck/decld/internal/modules/sleep"
	"github.com/danmuck/decld/internal/modules/variable"
)

// RegisterBuiltins registers every builtin module.
func RegisterBuiltins(reg *module.Registry) error {
	builtins := []module.Module{
		variable.VarModule{},
		variable.ListModule{},
		variable.ConcatModule{},
		println.Module{},
		sleep.Module{},
		run.LocalModule{},
		run.RemoteModule{},
	}
	for _, m := range builtins {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}
