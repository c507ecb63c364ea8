package operators

import (
	"testing"

	"github.com/tangzhangming/jscheck/internal/types"
)

func TestLookupEntries(t *testing.T) {
	tests := []struct {
		name        string
		op          types.Operator
		left, right types.TypeID
		lc, rc      types.Conversion
		result      types.TypeID
	}{
		{"int + int", types.Plus, types.Int, types.Int, types.Int2Int, types.Int2Int, types.Int},
		{"int + String", types.Plus, types.Int, types.String, types.Int2Int, types.String2String, types.String},
		{"String + String", types.Plus, types.String, types.String, types.String2String, types.String2String, types.String},
		{"double + int", types.Plus, types.Double, types.Int, types.Double2Double, types.Int2Double, types.Double},
		{"int + long", types.Plus, types.Int, types.Long, types.Int2Long, types.Long2Long, types.Long},
		{"short & short", types.And, types.Short, types.Short, types.Short2Int, types.Short2Int, types.Int},
		{"boolean && boolean", types.AndAnd, types.Boolean, types.Boolean, types.Boolean2Boolean, types.Boolean2Boolean, types.Boolean},
		{"null == null", types.EqualEqual, types.Null, types.Null, types.Null2Object, types.Null2Object, types.Boolean},
		{"String == null", types.EqualEqual, types.String, types.Null, types.String2Object, types.Null2Object, types.Boolean},
		{"char < int", types.Less, types.Char, types.Int, types.Char2Int, types.Int2Int, types.Boolean},
		{"short << short", types.LeftShift, types.Short, types.Short, types.Short2Int, types.Short2Int, types.Int},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Lookup(tt.op, tt.left, tt.right)
			if sig.Left() != tt.lc || sig.Right() != tt.rc || sig.Result() != tt.result {
				t.Errorf("got %v, want %v %v -> %v", sig, tt.lc, tt.rc, tt.result)
			}
			if !sig.Valid() {
				t.Error("entry should be valid")
			}
		})
	}
}

func TestLookupResultOnly(t *testing.T) {
	tests := []struct {
		name        string
		op          types.Operator
		left, right types.TypeID
		result      types.TypeID
	}{
		{"String - int", types.Minus, types.String, types.Int, types.Int},
		{"String * String", types.Multiply, types.String, types.String, types.Int},
		{"String - double", types.Minus, types.String, types.Double, types.Undefined},
		{"null - null", types.Minus, types.Null, types.Null, types.Undefined},
		{"any + any", types.Plus, types.Any, types.Any, types.Any},
		{"any - long", types.Minus, types.Any, types.Long, types.Any},
		{"any == any", types.EqualEqual, types.Any, types.Any, types.Boolean},
		{"String < int", types.Less, types.String, types.Int, types.Boolean},
		{"boolean + boolean", types.Plus, types.Boolean, types.Boolean, types.Undefined},
		{"void & void", types.And, types.Void, types.Void, types.Undefined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Lookup(tt.op, tt.left, tt.right).Result(); got != tt.result {
				t.Errorf("got %v, want %v", got, tt.result)
			}
		})
	}
}

func TestMinusDoesNotAlterPlus(t *testing.T) {
	if got := Lookup(types.Plus, types.String, types.Double).Result(); got != types.String {
		t.Errorf("String + double = %v, want String", got)
	}
	if got := Lookup(types.Minus, types.String, types.Double).Result(); got != types.Undefined {
		t.Errorf("String - double = %v, want undefined", got)
	}
}

func TestSharedTables(t *testing.T) {
	shared := [][2]types.Operator{
		{types.And, types.Xor},
		{types.AndAnd, types.OrOr},
		{types.Less, types.GreaterEqual},
		{types.Minus, types.Remainder},
		{types.LeftShift, types.UnsignedRightShift},
		{types.EqualEqual, types.NotEqualEqual},
		{types.EqualEqual, types.In},
	}
	for _, pair := range shared {
		if !Shares(pair[0], pair[1]) {
			t.Errorf("%v and %v should share a table", pair[0], pair[1])
		}
	}
	if Shares(types.Plus, types.Minus) {
		t.Error("+ and - must have distinct tables")
	}
}

func TestLookupNonBinary(t *testing.T) {
	for _, op := range []types.Operator{types.OpNone, types.Not, types.TypeOf, types.QuestionColon} {
		if sig := Lookup(op, types.Int, types.Int); sig != 0 {
			t.Errorf("%v: expected empty signature, got %v", op, sig)
		}
	}
}

func TestPack(t *testing.T) {
	sig := Pack(types.Short2Int, types.Char2Long, types.Long)
	if sig.Left() != types.Short2Int || sig.Right() != types.Char2Long || sig.Result() != types.Long {
		t.Fatalf("round trip failed: %v", sig)
	}
	if uint32(sig) != uint32(types.Short2Int)<<12|uint32(types.Char2Long)<<4|uint32(types.Long) {
		t.Fatalf("unexpected layout %#x", uint32(sig))
	}
}
