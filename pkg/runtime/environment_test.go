package runtime

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnvironmentLookupChain(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", IntValue{Val: 1})
	child := global.Extend()

	got, err := child.Get("x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.(IntValue).Val != 1 {
		t.Fatalf("expected 1, got %v", got)
	}

	_, err = child.Get("missing")
	var undef UndefinedVariableError
	if !errors.As(err, &undef) || undef.Name != "missing" {
		t.Fatalf("expected UndefinedVariableError, got %v", err)
	}
	if err.Error() != "Undefined variable 'missing'" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestEnvironmentDefineStaysLocal(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", IntValue{Val: 1})
	child := global.Extend()
	child.Define("x", IntValue{Val: 2})

	if v, _ := global.Get("x"); v.(IntValue).Val != 1 {
		t.Fatalf("define in child leaked to parent: %v", v)
	}
	if v, _ := child.Get("x"); v.(IntValue).Val != 2 {
		t.Fatalf("child binding should shadow, got %v", v)
	}

	child.Define("x", IntValue{Val: 3})
	if diff := cmp.Diff([]string{"x"}, child.Names()); diff != "" {
		t.Fatalf("redefinition should replace in place (-want +got):\n%s", diff)
	}
}

func TestEnvironmentAssignNearest(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("count", IntValue{Val: 0})
	child := global.Extend()

	child.Assign("count", IntValue{Val: 5})
	if v, _ := global.Get("count"); v.(IntValue).Val != 5 {
		t.Fatalf("assign should update the outer binding, got %v", v)
	}
	if len(child.Names()) != 0 {
		t.Fatalf("assign to an outer name should not create a local binding")
	}

	child.Assign("fresh", BoolValue{Val: true})
	if diff := cmp.Diff([]string{"fresh"}, child.Names()); diff != "" {
		t.Fatalf("unbound assign should define locally (-want +got):\n%s", diff)
	}
	if global.Has("fresh") {
		t.Fatalf("unbound assign leaked to parent")
	}
}

func TestEnvironmentSlotAndCopies(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("m", NewMatrixValue(1, 1))
	env.Define("n", IntValue{Val: 1})

	got, _ := env.Get("m")
	got.(*MatrixValue).M.Set(0, 0, 4)
	slot, err := env.Lookup("m")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if (*slot).(*MatrixValue).M.At(0, 0) != 0 {
		t.Fatalf("Get must return an independent copy")
	}

	nslot, _ := env.Lookup("n")
	for i := 0; i < 20; i++ {
		env.Define("pad"+string(rune('a'+i)), VoidValue{})
	}
	*nslot = IntValue{Val: 9}
	if v, _ := env.Get("n"); v.(IntValue).Val != 9 {
		t.Fatalf("slot write lost after further definitions, got %v", v)
	}
}

func TestEnvironmentReturnState(t *testing.T) {
	env := NewEnvironment(nil)
	if env.IsReturning() {
		t.Fatalf("fresh scope should not be returning")
	}
	env.SetReturn(nil)
	if !env.IsReturning() {
		t.Fatalf("expected returning after SetReturn")
	}
	if _, ok := env.ReturnValue.(VoidValue); !ok {
		t.Fatalf("nil return should be stored as void, got %#v", env.ReturnValue)
	}
	env.ClearReturn()
	if env.IsReturning() || env.ReturnValue != nil {
		t.Fatalf("ClearReturn should reset state")
	}
}
