package modules

import (
	"testing"

	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/testutil/testlog"
)

func TestRegisterBuiltins(t *testing.T) {
	testlog.Start(t)
	reg := module.NewRegistry()
	if err := RegisterBuiltins(reg); err != nil {
		t.Fatalf("register: %v", err)
	}

	want := []string{"concat", "list", "println", "run.local", "run.remote", "sleep", "var"}
	list := reg.ListInfo()
	if len(list) != len(want) {
		t.Fatalf("registered %d modules, want %d", len(list), len(want))
	}
	for i, info := range list {
		if info.Type != want[i] {
			t.Fatalf("module %d: %s, want %s", i, info.Type, want[i])
		}
	}

	if err := reg.GlobalInitAll(); err != nil {
		t.Fatalf("global init: %v", err)
	}

	// a second registration must collide
	if err := RegisterBuiltins(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}
