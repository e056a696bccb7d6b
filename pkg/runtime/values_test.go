package runtime

import (
	"math"
	"testing"

	"mlang/interpreter-go/pkg/ast"
)

func TestFormatScalars(t *testing.T) {
	cases := []struct {
		name  string
		value Value
		want  string
	}{
		{"Int", IntValue{Val: -42}, "-42"},
		{"FloatShort", FloatValue{Val: 2.5}, "2.5"},
		{"FloatSixDigits", FloatValue{Val: 3.14159265}, "3.14159"},
		{"FloatWhole", FloatValue{Val: 4}, "4"},
		{"FloatLarge", FloatValue{Val: 1234567}, "1.23457e+06"},
		{"FloatSmall", FloatValue{Val: 0.00001}, "1e-05"},
		{"FloatInf", FloatValue{Val: math.Inf(1)}, "inf"},
		{"String", StringValue{Val: "hi there"}, "hi there"},
		{"True", BoolValue{Val: true}, "true"},
		{"False", BoolValue{Val: false}, "false"},
		{"Void", VoidValue{}, "void"},
		{"Array", &ArrayValue{Elements: []Value{IntValue{Val: 1}, StringValue{Val: "a"}}}, "[1, a]"},
		{"Function", &FunctionValue{Declaration: ast.Fn("f", ast.TypeVoid, nil)}, "<function f>"},
	}
	for _, tc := range cases {
		if got := Format(tc.value); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	orig := NewMatrixValue(1, 2)
	orig.M.Set(0, 1, 7)
	dup := Copy(orig).(*MatrixValue)
	dup.M.Set(0, 1, 9)
	if orig.M.At(0, 1) != 7 {
		t.Fatalf("mutating the copy changed the original matrix")
	}

	arr := &ArrayValue{Elements: []Value{NewMatrixValue(1, 1)}}
	dupArr := Copy(arr).(*ArrayValue)
	dupArr.Elements[0].(*MatrixValue).M.Set(0, 0, 3)
	if arr.Elements[0].(*MatrixValue).M.At(0, 0) != 0 {
		t.Fatalf("array copy shares nested matrix storage")
	}

	if _, ok := Copy(nil).(VoidValue); !ok {
		t.Fatalf("copy of nil should be void")
	}
}

func TestZeroValue(t *testing.T) {
	cases := []struct {
		dataType ast.DataType
		want     string
		kind     Kind
	}{
		{ast.TypeInt, "0", KindInt},
		{ast.TypeFloat, "0", KindFloat},
		{ast.TypeBool, "false", KindBool},
		{ast.TypeString, "", KindString},
		{ast.TypeMatrix, "[\n]\n", KindMatrix},
		{ast.TypeVoid, "void", KindVoid},
	}
	for _, tc := range cases {
		got := ZeroValue(tc.dataType)
		if got.Kind() != tc.kind {
			t.Fatalf("%s: expected kind %s, got %s", tc.dataType, tc.kind, got.Kind())
		}
		if Format(got) != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.dataType, tc.want, Format(got))
		}
	}
}

func TestMatrixFromDuplicatesInput(t *testing.T) {
	m := NewMatrix(1, 1)
	v := MatrixFrom(m)
	m.Set(0, 0, 5)
	if v.M.At(0, 0) != 0 {
		t.Fatalf("matrix value observed later change to its source")
	}
}
