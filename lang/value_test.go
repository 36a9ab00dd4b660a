package lang

import "testing"

func TestValueFormatting(t *testing.T) {
	fn := FunctionValue(&Function{Name: "f"})
	tests := []struct {
		v     Value
		str   string
		repr  string
		truth bool
	}{
		{IntValue(3), "3", "3", true},
		{IntValue(0), "0", "0", false},
		{FloatValue(2), "2.0", "2.0", true},
		{FloatValue(0.25), "0.25", "0.25", true},
		{StringValue("hi"), "hi", `"hi"`, true},
		{StringValue(""), "", `""`, false},
		{ListValue(IntValue(1), StringValue("a")), `[1, "a"]`, `[1, "a"]`, true},
		{ListValue(), "[]", "[]", true},
		{fn, "<function f>", "<function f>", true},
		{BuiltinValue("len", nil, nil), "<built-in function len>", "<built-in function len>", true},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		if got := tt.v.Repr(); got != tt.repr {
			t.Errorf("Repr() = %q, want %q", got, tt.repr)
		}
		if got := tt.v.IsTrue(); got != tt.truth {
			t.Errorf("%s: IsTrue() = %v, want %v", tt.repr, got, tt.truth)
		}
	}
}

func TestCopiesShareListStore(t *testing.T) {
	a := ListValue(IntValue(1))
	b := a.WithContext(NewContext("f", nil, a.Start))
	b.List().Elements = append(b.List().Elements, IntValue(2))
	if len(a.List().Elements) != 2 {
		t.Fatalf("expected copies to share elements, got %s", a.Repr())
	}
}

func TestRestampDoesNotMutateConstant(t *testing.T) {
	ctx := NewContext("x", nil, Null.Start)
	_ = Null.WithContext(ctx)
	if Null.Context != nil {
		t.Fatalf("constant was mutated")
	}
}

func TestEnv(t *testing.T) {
	root := NewEnv(nil)
	root.Define("a", IntValue(1))
	child := NewEnv(root)
	child.Define("a", IntValue(2))

	if v, _ := child.Get("a"); v.Int() != 2 {
		t.Fatalf("child a = %s", v.Repr())
	}
	if v, _ := root.Get("a"); v.Int() != 1 {
		t.Fatalf("root a = %s", v.Repr())
	}
	root.Define("b", IntValue(3))
	if v, ok := child.Get("b"); !ok || v.Int() != 3 {
		t.Fatalf("child should see later parent binding, got %s", v.Repr())
	}
	if _, ok := child.Get("missing"); ok {
		t.Fatalf("expected missing binding")
	}
}
