package flow

import (
	"math/rand"
	"testing"
)

func randomInfo(r *rand.Rand) *Unconditional {
	u := New()
	switch r.Intn(6) {
	case 0:
		return Dead()
	case 1:
		u.SetReach(Unreachable)
	}
	for slot := 0; slot < 80; slot++ {
		switch r.Intn(4) {
		case 0:
			u.MarkAsDefinitelyAssigned(slot)
		case 1:
			u.potential.set(slot)
		}
		switch r.Intn(5) {
		case 0:
			u.MarkAsDefinitelyNull(slot)
		case 1:
			u.MarkAsDefinitelyNonNull(slot)
		case 2:
			u.MarkAsPotentiallyNull(slot)
		}
	}
	return u
}

func TestLatticeLaws(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a, b, c := randomInfo(r), randomInfo(r), randomInfo(r)
		if !Equal(Join(a, b), Join(b, a)) {
			t.Fatalf("join not commutative:\n%v\n%v", a, b)
		}
		if !Equal(Join(Join(a, b), c), Join(a, Join(b, c))) {
			t.Fatalf("join not associative:\n%v\n%v\n%v", a, b, c)
		}
		if !Equal(Join(a, a), a) {
			t.Fatalf("join not idempotent: %v", a)
		}
		if !Equal(Join(a, Dead()), a) {
			t.Fatalf("dead end is not the join identity: %v", a)
		}
		if !Equal(Meet(a, Dead()), Dead()) {
			t.Fatalf("dead end does not absorb meet: %v", a)
		}
		if !Equal(Meet(a, b), Meet(b, a)) {
			t.Fatalf("meet not commutative:\n%v\n%v", a, b)
		}
		if !Equal(Meet(Meet(a, b), c), Meet(a, Meet(b, c))) {
			t.Fatalf("meet not associative:\n%v\n%v\n%v", a, b, c)
		}
		if !Equal(Meet(a, a), a) {
			t.Fatalf("meet not idempotent: %v", a)
		}
	}
}

func TestJoinDefiniteAssignment(t *testing.T) {
	a := New().MarkAsDefinitelyAssigned(0).MarkAsDefinitelyAssigned(1)
	b := New().MarkAsDefinitelyAssigned(1)

	j := Join(a, b)
	if j.IsDefinitelyAssigned(0) || !j.IsDefinitelyAssigned(1) {
		t.Errorf("definite: got %v", j)
	}
	if !j.IsPotentiallyAssigned(0) {
		t.Errorf("potential lost: %v", j)
	}
	if !Join(Dead(), b).IsDefinitelyAssigned(1) {
		t.Error("joining with a dead end must keep the live side")
	}
}

func TestJoinNullStatus(t *testing.T) {
	tests := []struct {
		name string
		a, b func(*Unconditional) *Unconditional
		want NullStatus
	}{
		{"both null", mark(IsNull), mark(IsNull), IsNull},
		{"both non-null", mark(IsNonNull), mark(IsNonNull), IsNonNull},
		{"null and non-null", mark(IsNull), mark(IsNonNull), MaybeNull},
		{"null and unknown", mark(IsNull), mark(NullUnknown), MaybeNull},
		{"non-null and unknown", mark(IsNonNull), mark(NullUnknown), NullUnknown},
	}
	for _, tt := range tests {
		j := Join(tt.a(New()), tt.b(New()))
		if got := j.NullStatus(3); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func mark(s NullStatus) func(*Unconditional) *Unconditional {
	return func(u *Unconditional) *Unconditional {
		switch s {
		case IsNull:
			return u.MarkAsDefinitelyNull(3)
		case IsNonNull:
			return u.MarkAsDefinitelyNonNull(3)
		case MaybeNull:
			return u.MarkAsPotentiallyNull(3)
		}
		return u
	}
}

func TestReachLevels(t *testing.T) {
	silent := New().SetReach(Unreachable).MarkAsDefinitelyAssigned(0)
	live := New()

	if got := Join(silent, live); got.Reach() != Reachable || got.IsDefinitelyAssigned(0) {
		t.Errorf("reachable side must win: %v", got)
	}
	if got := Join(silent, Dead()); got.Reach() != Unreachable {
		t.Errorf("silent beats dead: %v", got)
	}
	if got := Dead().SafeInitsWhenTrue(); got.Reach() != Unreachable {
		t.Errorf("safe copy should not be a dead end: %v", got)
	}
	cond := NewConditional(New(), Dead())
	if !cond.Reachable() || cond.InitsWhenFalse().Reachable() {
		t.Error("conditional reachability")
	}
	if u := cond.UnconditionalInits(); !u.Reachable() {
		t.Error("unconditional inits of a half-dead conditional is reachable")
	}
}

func TestEqualIgnoresTrailingWords(t *testing.T) {
	a := New().MarkAsDefinitelyAssigned(2)
	b := New().MarkAsDefinitelyAssigned(2).MarkAsDefinitelyAssigned(200)
	b.definite.clear(200)
	b.potential.clear(200)
	if !Equal(a, b) {
		t.Errorf("%v != %v", a, b)
	}
	d1 := Dead().MarkAsDefinitelyAssigned(1)
	if !Equal(d1, Dead()) {
		t.Error("dead infos compare equal")
	}
}

func TestSequentialHelpers(t *testing.T) {
	u := New().MarkAsDefinitelyAssigned(0).MarkAsDefinitelyNull(0)
	other := New().MarkAsDefinitelyAssigned(1).MarkAsDefinitelyNonNull(0)
	u.AddInitializationsFrom(other)
	if !u.IsDefinitelyAssigned(0) || !u.IsDefinitelyAssigned(1) || u.NullStatus(0) != IsNonNull {
		t.Errorf("AddInitializationsFrom: %v", u)
	}

	v := New().MarkAsDefinitelyNonNull(2)
	v.AddPotentialInitializationsFrom(New().MarkAsDefinitelyAssigned(4).MarkAsPotentiallyNull(2))
	if v.IsDefinitelyAssigned(4) || !v.IsPotentiallyAssigned(4) || v.NullStatus(2) != MaybeNull {
		t.Errorf("AddPotentialInitializationsFrom: %v", v)
	}

	c := u.NullInfoLessUnconditionalCopy()
	if c.NullStatus(0) != NullUnknown || !c.IsDefinitelyAssigned(0) {
		t.Errorf("null-info-less copy: %v", c)
	}
	if u.NullStatus(0) != IsNonNull {
		t.Error("copy must not alias the original")
	}
}

func TestJumpRouting(t *testing.T) {
	method := NewContext(MethodContext, nil, nil)
	loop := NewContext(LoopContext, method, nil)
	finally := NewContext(FinallyContext, loop, nil)
	finally.FinallyInits = New().MarkAsDefinitelyAssigned(5)
	try := NewContext(ExceptionContext, finally, nil)

	if try.BreakTarget("") != loop {
		t.Fatal("unlabeled break should target the loop")
	}
	if !try.RecordJump(loop, Break, New().MarkAsDefinitelyAssigned(1)) {
		t.Fatal("jump should reach its target")
	}
	if !loop.InitsOnBreak.IsDefinitelyAssigned(1) || !loop.InitsOnBreak.IsDefinitelyAssigned(5) {
		t.Errorf("break inits should carry finally assignments: %v", loop.InitsOnBreak)
	}
	if try.InitsOnReturn == nil {
		t.Error("leaving a try block must be recorded")
	}

	finally.Escaping = true
	if try.RecordJump(nil, Return, New()) {
		t.Error("escaping finally must stop the return")
	}
	if method.InitsOnReturn != nil {
		t.Error("return should not reach the method")
	}
}

func TestContinueTarget(t *testing.T) {
	method := NewContext(MethodContext, nil, nil)
	outer := NewLabel(method, nil, "outer")
	loop := NewContext(LoopContext, outer, nil)
	block := NewLabel(loop, nil, "block")
	inner := NewContext(SwitchContext, block, nil)

	tests := []struct {
		label  string
		target *Context
		found  bool
	}{
		{"", loop, true},
		{"outer", loop, true},
		{"block", nil, true},
		{"missing", nil, false},
	}
	for _, tt := range tests {
		target, found := inner.ContinueTarget(tt.label)
		if target != tt.target || found != tt.found {
			t.Errorf("continue %q: got %v %v", tt.label, target, found)
		}
	}
	if inner.BreakTarget("outer") != outer || inner.BreakTarget("") != inner {
		t.Error("break targets")
	}
}

func TestRecordRaise(t *testing.T) {
	method := NewContext(MethodContext, nil, nil)
	outer := NewContext(ExceptionContext, method, nil)
	catchAll := &Handler{}
	outer.Handlers = []*Handler{catchAll}
	inner := NewContext(ExceptionContext, outer, nil)
	specific := &Handler{}
	inner.Handlers = []*Handler{specific}

	inner.RecordRaise(New().MarkAsDefinitelyAssigned(0), func(h *Handler) (bool, bool) {
		return true, h == catchAll
	})
	if !specific.Raised || !catchAll.Raised {
		t.Error("both handlers may catch")
	}

	specific.Raised, catchAll.Raised = false, false
	inner.RecordRaise(New(), func(h *Handler) (bool, bool) { return true, true })
	if !specific.Raised || catchAll.Raised {
		t.Error("a definite catch stops propagation")
	}
}

func TestDeferredNullCheckInLoop(t *testing.T) {
	method := NewContext(MethodContext, nil, nil)
	loop := NewContext(LoopContext, method, nil)

	loop.RecordNullCheck(NullCheck{Slot: 0, Name: "o"})
	loop.RecordNullCheck(NullCheck{Slot: 1, Name: "p"})
	loop.RecordNullCheck(NullCheck{Slot: 2, Name: "q"})
	if len(method.NullChecks()) != 0 {
		t.Fatal("unknown checks must wait for the loop")
	}

	entry := New().MarkAsDefinitelyNonNull(0).MarkAsDefinitelyNonNull(1).MarkAsDefinitelyNull(2)
	backEdge := New().MarkAsDefinitelyNull(0).MarkAsDefinitelyNonNull(1).MarkAsDefinitelyNull(2)
	loop.CompleteNullChecks(Join(entry, backEdge))

	checks := method.NullChecks()
	if len(checks) != 2 {
		t.Fatalf("got %d checks, want 2", len(checks))
	}
	if checks[0].Name != "o" || checks[0].Status != MaybeNull {
		t.Errorf("o: %+v", checks[0])
	}
	if checks[1].Name != "q" || checks[1].Status != IsNull {
		t.Errorf("q: %+v", checks[1])
	}
}
