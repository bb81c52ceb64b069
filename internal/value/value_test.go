package value

import "testing"

func TestStringValue(t *testing.T) {
	v := NewString("eth0")
	if v.Kind() != KindString {
		t.Fatalf("kind %s, want string", v.Kind())
	}
	s, ok := v.AsString()
	if !ok || s != "eth0" {
		t.Fatalf("AsString: ok=%v s=%q", ok, s)
	}
	if _, ok := NewList().AsString(); ok {
		t.Fatalf("list must not read as string")
	}
}

func TestListAppend(t *testing.T) {
	v := NewList()
	v.Append(NewString("a"))
	v.Append(NewList(NewString("b")))
	if v.Len() != 2 {
		t.Fatalf("len %d, want 2", v.Len())
	}
	if !v.List()[1].IsList() {
		t.Fatalf("second element should be a list")
	}
}

func TestAppendOnStringPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	v := NewString("x")
	v.Append(NewString("y"))
}

func TestCloneIsIndependent(t *testing.T) {
	orig := NewList(NewString("a"), NewList(NewString("b")))
	dup := orig.Clone()
	dup.Append(NewString("c"))
	inner := dup.List()[1]
	inner.Append(NewString("d"))

	if orig.Len() != 2 {
		t.Fatalf("original grew to %d elements", orig.Len())
	}
	if orig.List()[1].Len() != 1 {
		t.Fatalf("original nested list was mutated")
	}
	if !orig.Equal(NewList(NewString("a"), NewList(NewString("b")))) {
		t.Fatalf("original changed: %s", orig)
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{NewString("x"), NewString("x"), true},
		{NewString("x"), NewString("y"), false},
		{NewString("x"), NewList(NewString("x")), false},
		{NewList(), NewList(), true},
		{NewList(NewString("a")), NewList(NewString("a")), true},
		{NewList(NewString("a")), NewList(NewString("a"), NewString("b")), false},
		{NewList(NewList(NewString("a"))), NewList(NewList(NewString("a"))), true},
	}
	for i, c := range cases {
		if got := c.a.Equal(c.b); got != c.want {
			t.Fatalf("case %d: Equal(%s, %s)=%v want %v", i, c.a, c.b, got, c.want)
		}
	}
}

func TestRender(t *testing.T) {
	v := NewList(NewString("a"), NewList(NewString("b"), NewString("c")))
	if got := v.String(); got != `{"a", {"b", "c"}}` {
		t.Fatalf("render %s", got)
	}
}
