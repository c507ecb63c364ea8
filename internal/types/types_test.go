package types

import "testing"

func TestWidening(t *testing.T) {
	tests := []struct {
		from, to TypeID
		want     bool
	}{
		{Short, Int, true},
		{Char, Double, true},
		{Int, Long, true},
		{Long, Float, true},
		{Int, Int, true},
		{Int, Short, false},
		{Char, Short, false},
		{Short, Char, false},
		{Double, Float, false},
		{Boolean, Int, false},
		{String, Object, false},
	}
	for _, tt := range tests {
		if got := IsWidening(tt.from, tt.to); got != tt.want {
			t.Errorf("IsWidening(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestNarrowing(t *testing.T) {
	if !IsNarrowing(Int, Short) || !IsNarrowing(Int, Char) || !IsNarrowing(Char, Short) {
		t.Error("int->short, int->char and char->short narrow")
	}
	if IsNarrowing(Int, Int) || IsNarrowing(Short, Int) || IsNarrowing(Boolean, Int) {
		t.Error("identity, widening and non-numeric pairs do not narrow")
	}
}

func TestConversion(t *testing.T) {
	if Short2Int.From() != Short || Short2Int.To() != Int {
		t.Fatalf("Short2Int decodes to %v -> %v", Short2Int.From(), Short2Int.To())
	}
	if Conv(Short, Int) != Short2Int {
		t.Fatal("Conv disagrees with the named constant")
	}
	if uint8(String2Object) != uint8(Object)<<4|uint8(String) {
		t.Fatal("target type lives in the high nibble")
	}
	if got := Long2Double.String(); got != "long2double" {
		t.Errorf("String() = %q", got)
	}
}

func TestOperatorClasses(t *testing.T) {
	if !In.IsBinary() || Not.IsBinary() || OpNone.IsBinary() {
		t.Error("IsBinary misclassifies")
	}
	if !NotEqualEqual.IsEquality() || !NotEqual.IsNegatedEquality() || EqualEqual.IsNegatedEquality() {
		t.Error("equality predicates misclassify")
	}
	if UnsignedRightShift.String() != ">>>" || InstanceOf.String() != "instanceof" {
		t.Error("operator names")
	}
}

func TestLookupBase(t *testing.T) {
	if id, ok := LookupBase("int"); !ok || id != Int {
		t.Error("int should be a base type")
	}
	if _, ok := LookupBase("String"); ok {
		t.Error("String is a reference type")
	}
}
