package variable

import (
	"strings"
	"testing"

	"github.com/danmuck/decld/internal/module"
	"github.com/danmuck/decld/internal/testutil/testlog"
	"github.com/danmuck/decld/internal/value"
)

type recordSignal struct {
	events []module.Event
	dieds  []bool
}

func (s *recordSignal) Event(ev module.Event) { s.events = append(s.events, ev) }
func (s *recordSignal) Died(isError bool)     { s.dieds = append(s.dieds, isError) }

func initWith(t *testing.T, m module.Module, args ...value.Value) (module.Instance, *recordSignal) {
	t.Helper()
	sig := &recordSignal{}
	inst, err := m.Init(module.InitParams{Args: value.NewList(args...), Signal: sig})
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	return inst, sig
}

func TestVarHoldsValue(t *testing.T) {
	testlog.Start(t)
	inst, sig := initWith(t, VarModule{}, value.NewString("eth0"))

	if len(sig.events) != 1 || sig.events[0] != module.EventUp {
		t.Fatalf("expected immediate up, got %v", sig.events)
	}
	got, err := inst.GetVar("")
	if err != nil || !got.Equal(value.NewString("eth0")) {
		t.Fatalf("GetVar: %s, %v", got, err)
	}
	if _, err := inst.GetVar("other"); err == nil {
		t.Fatalf("unknown variable must fail")
	}

	inst.Die()
	if len(sig.dieds) != 1 || sig.dieds[0] {
		t.Fatalf("expected clean died, got %v", sig.dieds)
	}
}

func TestVarArgCount(t *testing.T) {
	testlog.Start(t)
	sig := &recordSignal{}
	if _, err := (VarModule{}).Init(module.InitParams{Args: value.NewList(), Signal: sig}); err == nil {
		t.Fatalf("expected arity error")
	}
	if len(sig.events) != 0 {
		t.Fatalf("failed init must not signal")
	}
}

func TestListAggregatesAndLength(t *testing.T) {
	testlog.Start(t)
	inst, _ := initWith(t, ListModule{}, value.NewString("a"), value.NewString("b"))

	got, err := inst.GetVar("")
	if err != nil || got.Len() != 2 {
		t.Fatalf("GetVar: %s, %v", got, err)
	}
	length, err := inst.GetVar("length")
	if err != nil || !length.Equal(value.NewString("2")) {
		t.Fatalf("length: %s, %v", length, err)
	}
}

func TestConcat(t *testing.T) {
	testlog.Start(t)
	inst, _ := initWith(t, ConcatModule{}, value.NewString("foo"), value.NewString("-"), value.NewString("bar"))
	got, err := inst.GetVar("")
	if err != nil || !got.Equal(value.NewString("foo-bar")) {
		t.Fatalf("GetVar: %s, %v", got, err)
	}
}

func TestConcatRejectsLists(t *testing.T) {
	testlog.Start(t)
	sig := &recordSignal{}
	_, err := (ConcatModule{}).Init(module.InitParams{
		Args:   value.NewList(value.NewString("a"), value.NewList()),
		Signal: sig,
	})
	if err == nil || !strings.Contains(err.Error(), "not a string") {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestGetVarReturnsClone(t *testing.T) {
	testlog.Start(t)
	inst, _ := initWith(t, ListModule{}, value.NewString("a"))
	first, _ := inst.GetVar("")
	first.Append(value.NewString("mutation"))
	second, _ := inst.GetVar("")
	if second.Len() != 1 {
		t.Fatalf("held value was mutated through a resolved copy")
	}
}
