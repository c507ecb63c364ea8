package compiler

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"

	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/profiler"
)

func TestDriverParallel(t *testing.T) {
	var sources []Source
	for i := 0; i < 8; i++ {
		text := fmt.Sprintf("var v%d = %d + 1;\n", i, i)
		if i%2 == 1 {
			text += "undefinedName;\n"
		}
		sources = append(sources, Source{Name: fmt.Sprintf("f%d.js", i), Text: text})
	}

	d := NewDriver(Options{}, 4, nil)
	results, err := d.Check(context.Background(), sources)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(sources) {
		t.Fatalf("expected %d results, got %d", len(sources), len(results))
	}
	for i, r := range results {
		if r.Name != sources[i].Name {
			t.Errorf("result %d: expected %s, got %s", i, sources[i].Name, r.Name)
		}
		if want := i%2 == 1; r.HasErrors() != want {
			t.Errorf("%s: expected HasErrors=%v", r.Name, want)
		}
		if !r.Investigated || r.Skipped {
			t.Errorf("%s: expected a fully investigated result", r.Name)
		}
	}

	stats := d.Stats()
	if stats.Units != 8 || stats.Problems != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestDriverSharedProblemLimit(t *testing.T) {
	sources := []Source{
		{Name: "a.js", Text: "a1;\na2;\n"},
		{Name: "b.js", Text: "b1;\nb2;\n"},
		{Name: "c.js", Text: "c1;\n"},
	}

	d := NewDriver(Options{MaxProblems: 3}, 1, nil)
	results, err := d.Check(context.Background(), sources)
	if err == nil {
		t.Fatal("expected the compilation to be aborted")
	}
	errs := multierr.Errors(err)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one abort, got %v", errs)
	}
	if a, ok := errors.AsAbort(errs[0]); !ok || a.Level != errors.AbortCompilation {
		t.Errorf("expected AbortCompilation, got %v", errs[0])
	}

	if results[0].Skipped || len(results[0].Problems) != 2 {
		t.Errorf("a.js: expected 2 problems, got %d", len(results[0].Problems))
	}
	var tooMany int
	for _, p := range results[1].Problems {
		if p.ID == errors.TooManyProblems {
			tooMany++
		}
	}
	if tooMany != 1 {
		t.Errorf("b.js: expected one too-many-problems report, got %d", tooMany)
	}
	if !results[2].Skipped {
		t.Error("c.js should have been skipped")
	}
	if d.Stats().Skipped != 1 {
		t.Errorf("expected 1 skipped unit, got %d", d.Stats().Skipped)
	}
}

func TestDriverCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDriver(Options{}, 2, nil)
	results, _ := d.Check(ctx, []Source{{Name: "a.js", Text: "var a = 1;"}, {Name: "b.js", Text: "var b = 1;"}})
	for _, r := range results {
		if !r.Skipped {
			t.Errorf("%s: expected skipped after cancellation", r.Name)
		}
	}
}

func TestDriverCache(t *testing.T) {
	cache, err := NewResultCache("", 10)
	if err != nil {
		t.Fatal(err)
	}
	src := []Source{{Name: "a.js", Text: "missing;\n"}}

	d := NewDriver(Options{}, 1, cache)
	first, err := d.Check(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Check(context.Background(), src)
	if err != nil {
		t.Fatal(err)
	}

	if first[0].Cached {
		t.Error("first check should not come from the cache")
	}
	if !second[0].Cached {
		t.Error("second check should come from the cache")
	}
	if len(first[0].Problems) != len(second[0].Problems) {
		t.Fatalf("cached problems differ: %d vs %d", len(first[0].Problems), len(second[0].Problems))
	}
	if second[0].Problems[0].ID != errors.UndefinedName {
		t.Errorf("expected cached %s, got %s", errors.UndefinedName, second[0].Problems[0].ID)
	}
	if d.Stats().CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", d.Stats().CacheHits)
	}

	// 源码变化后键不同
	changed := []Source{{Name: "a.js", Text: "missing2;\n"}}
	third, _ := d.Check(context.Background(), changed)
	if third[0].Cached {
		t.Error("changed source should not hit the cache")
	}
}

func TestResultCachePersistence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	u, err := Compile(context.Background(), "a.js", "missing;\n", Options{})
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey("a.js", "missing;\n", Options{})

	cache, err := NewResultCache(dir, 10)
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Put(key, NewCachedResult(u)); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewResultCache(dir, 10)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := reopened.Get(key)
	if !ok {
		t.Fatal("expected persisted entry")
	}
	if len(got.Records) != 1 || got.Records[0].ID != errors.UndefinedName {
		t.Errorf("unexpected records: %+v", got.Records)
	}
	if got.Records[0].Span.Start.Line != 1 {
		t.Errorf("expected span on line 1, got %d", got.Records[0].Span.Start.Line)
	}
}

func TestResultCacheEviction(t *testing.T) {
	cache, err := NewResultCache("", 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := cache.Put(fmt.Sprintf("k%d", i), &CachedResult{Name: "x"}); err != nil {
			t.Fatal(err)
		}
	}
	if n := cache.Stats().Entries; n != 2 {
		t.Errorf("expected 2 entries after eviction, got %d", n)
	}
}

func TestCacheKeyInputs(t *testing.T) {
	base := CacheKey("a.js", "x;", Options{})
	if CacheKey("a.js", "x;", Options{}) != base {
		t.Error("cache key should be deterministic")
	}

	table := errors.NewSeverityTable()
	if err := table.Set("unreachable-code", errors.SeverityError); err != nil {
		t.Fatal(err)
	}
	variants := map[string]string{
		"name":     CacheKey("b.js", "x;", Options{}),
		"source":   CacheKey("a.js", "y;", Options{}),
		"diet":     CacheKey("a.js", "x;", Options{Diet: true}),
		"severity": CacheKey("a.js", "x;", Options{Severity: table}),
	}
	for name, key := range variants {
		if key == base {
			t.Errorf("changing %s should change the cache key", name)
		}
	}
}

func TestDriverProfiler(t *testing.T) {
	p := profiler.NewProfiler(0)
	d := NewDriver(Options{}, 2, nil)
	d.SetProfiler(p)
	if _, err := d.Check(context.Background(), []Source{
		{Name: "a.js", Text: "var a = 1;\n"},
		{Name: "b.js", Text: "var b = ;\n"},
	}); err != nil {
		t.Fatal(err)
	}

	counts := map[profiler.Phase]int64{}
	for _, ps := range p.GetProfile().Phases {
		counts[ps.Phase] = ps.Count
	}
	for _, phase := range []profiler.Phase{profiler.PhaseParse, profiler.PhaseResolve, profiler.PhaseAnalyse} {
		if counts[phase] != 2 {
			t.Errorf("expected 2 %s records, got %d", phase, counts[phase])
		}
	}
	if counts[profiler.PhaseCache] != 0 {
		t.Errorf("no cache configured, got %d cache records", counts[profiler.PhaseCache])
	}
}

func TestDriverParsePanic(t *testing.T) {
	sources := []Source{
		{Name: "ok.js", Text: "var a = 1;\n"},
		{Name: "bad.js", Text: "var b = 2;\n"},
		{Name: "after.js", Text: "undefinedName;\n"},
	}

	d := NewDriver(Options{}, 1, nil)
	d.parse = func(name, source string, opts Options) *Unit {
		if name == "bad.js" {
			panic("lexer state corrupted")
		}
		return Parse(name, source, opts)
	}
	results, err := d.Check(context.Background(), sources)
	if n := len(multierr.Errors(err)); n != 1 {
		t.Fatalf("expected 1 error, got %d (%v)", n, err)
	}
	if len(results) != len(sources) {
		t.Fatalf("expected %d results, got %d", len(sources), len(results))
	}

	bad := results[1]
	if bad.Name != "bad.js" || bad.Investigated {
		t.Errorf("expected bad.js to be marked uninvestigated, got %+v", bad)
	}
	if len(bad.Problems) != 1 || bad.Problems[0].ID != errors.InternalError {
		t.Errorf("expected one InternalError, got %v", bad.Problems)
	}
	if !results[0].Investigated || results[0].HasErrors() {
		t.Errorf("ok.js should be unaffected: %+v", results[0])
	}
	if !results[2].HasErrors() {
		t.Error("after.js should still be checked")
	}
	if stats := d.Stats(); stats.Aborted != 1 {
		t.Errorf("expected 1 aborted unit, got %+v", stats)
	}
}
