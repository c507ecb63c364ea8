package profiler

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
)

func TestRecordAggregates(t *testing.T) {
	p := NewProfiler(1)
	p.Record("a.js", PhaseParse, 2*time.Millisecond)
	p.Record("a.js", PhaseResolve, 3*time.Millisecond)
	p.Record("b.js", PhaseParse, 4*time.Millisecond)

	profile := p.GetProfile()
	if len(profile.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(profile.Phases))
	}
	parse := profile.Phases[0]
	if parse.Phase != PhaseParse || parse.Count != 2 {
		t.Errorf("unexpected parse stats: %+v", parse)
	}
	if parse.MinTime != 2*time.Millisecond || parse.MaxTime != 4*time.Millisecond {
		t.Errorf("unexpected min/max: %s/%s", parse.MinTime, parse.MaxTime)
	}
	if len(profile.TopUnits) != 1 || profile.TopUnits[0].Name != "a.js" {
		t.Errorf("expected a.js as slowest unit, got %+v", profile.TopUnits)
	}
}

func TestNilProfiler(t *testing.T) {
	var p *Profiler
	p.Record("a.js", PhaseParse, time.Second)
	p.Time("a.js", PhaseAnalyse)()
}

func TestWriteProfile(t *testing.T) {
	p := NewProfiler(0)
	p.Record("src/main.js", PhaseAnalyse, time.Millisecond)

	var text bytes.Buffer
	if err := p.WriteProfile(&text, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "analyse") || !strings.Contains(text.String(), "src/main.js") {
		t.Errorf("unexpected text report:\n%s", text.String())
	}

	var out bytes.Buffer
	if err := p.WriteProfile(&out, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var decoded Profile
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(decoded.Phases) != 1 || decoded.Phases[0].Phase != PhaseAnalyse {
		t.Errorf("unexpected decoded phases: %+v", decoded.Phases)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("expected json, got %v %v", f, err)
	}
	if _, err := ParseFormat("flamegraph"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestHeapProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mem.pprof")
	if err := WriteHeapProfile(path); err != nil {
		t.Fatal(err)
	}
	if s := formatBytes(2048); s != "2.00 KB" {
		t.Errorf("formatBytes(2048) = %q", s)
	}
}
