// profiler.go - jscheck 性能分析器
//
// 记录每个编译单元在各个阶段（解析、名称解析、流分析）上花费的时间，
// 并按阶段和单元汇总。配合 cpu.go / memory.go 的 pprof 输出使用。

package profiler

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/encoding/json"
)

// Phase 检查阶段
type Phase string

const (
	PhaseParse   Phase = "parse"
	PhaseResolve Phase = "resolve"
	PhaseAnalyse Phase = "analyse"
	PhaseCache   Phase = "cache"
)

// OutputFormat 输出格式
type OutputFormat int

const (
	// FormatText 文本格式
	FormatText OutputFormat = iota
	// FormatJSON JSON 格式
	FormatJSON
)

// ParseFormat 解析输出格式名
func ParseFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown profile format %q", name)
}

// PhaseStats 一个阶段的统计
type PhaseStats struct {
	Phase     Phase         `json:"phase"`
	Count     int64         `json:"count"`
	TotalTime time.Duration `json:"totalTime"`
	MinTime   time.Duration `json:"minTime"`
	MaxTime   time.Duration `json:"maxTime"`
}

// UnitStats 一个编译单元的统计
type UnitStats struct {
	Name      string                  `json:"name"`
	TotalTime time.Duration           `json:"totalTime"`
	Phases    map[Phase]time.Duration `json:"phases"`
}

// Profile 分析结果
type Profile struct {
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
	Phases    []*PhaseStats `json:"phases"`
	TopUnits  []*UnitStats  `json:"topUnits"` // 按总时间排序的前 N 个单元
}

// Profiler 阶段分析器，可被多个 worker 并发使用
type Profiler struct {
	mu sync.Mutex

	start  time.Time
	topN   int
	phases map[Phase]*PhaseStats
	units  map[string]*UnitStats
}

// NewProfiler 创建分析器；topN 不大于 0 时默认 10
func NewProfiler(topN int) *Profiler {
	if topN <= 0 {
		topN = 10
	}
	return &Profiler{
		start:  time.Now(),
		topN:   topN,
		phases: make(map[Phase]*PhaseStats),
		units:  make(map[string]*UnitStats),
	}
}

// Record 记录一个单元在某阶段的耗时；nil 分析器上调用无效果
func (p *Profiler) Record(unit string, phase Phase, d time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	ps := p.phases[phase]
	if ps == nil {
		ps = &PhaseStats{Phase: phase, MinTime: d}
		p.phases[phase] = ps
	}
	ps.Count++
	ps.TotalTime += d
	if d < ps.MinTime {
		ps.MinTime = d
	}
	if d > ps.MaxTime {
		ps.MaxTime = d
	}

	us := p.units[unit]
	if us == nil {
		us = &UnitStats{Name: unit, Phases: make(map[Phase]time.Duration)}
		p.units[unit] = us
	}
	us.Phases[phase] += d
	us.TotalTime += d
}

// Time 开始计时，返回的函数结束计时并记录
func (p *Profiler) Time(unit string, phase Phase) func() {
	if p == nil {
		return func() {}
	}
	start := time.Now()
	return func() { p.Record(unit, phase, time.Since(start)) }
}

// GetProfile 汇总当前数据
func (p *Profiler) GetProfile() *Profile {
	p.mu.Lock()
	defer p.mu.Unlock()

	profile := &Profile{
		StartTime: p.start,
		Duration:  time.Since(p.start),
	}
	for _, ps := range p.phases {
		cp := *ps
		profile.Phases = append(profile.Phases, &cp)
	}
	sort.Slice(profile.Phases, func(i, j int) bool {
		return profile.Phases[i].Phase < profile.Phases[j].Phase
	})

	units := make([]*UnitStats, 0, len(p.units))
	for _, us := range p.units {
		cp := &UnitStats{Name: us.Name, TotalTime: us.TotalTime, Phases: make(map[Phase]time.Duration, len(us.Phases))}
		for k, v := range us.Phases {
			cp.Phases[k] = v
		}
		units = append(units, cp)
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].TotalTime != units[j].TotalTime {
			return units[i].TotalTime > units[j].TotalTime
		}
		return units[i].Name < units[j].Name
	})
	if len(units) > p.topN {
		units = units[:p.topN]
	}
	profile.TopUnits = units
	return profile
}

// WriteProfile 写出报告
func (p *Profiler) WriteProfile(w io.Writer, format OutputFormat) error {
	profile := p.GetProfile()
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	}
	return writeTextProfile(w, profile)
}

// writeTextProfile 写入文本格式报告
func writeTextProfile(w io.Writer, profile *Profile) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Check Profile Report\n")
	fmt.Fprintf(&b, "====================\n\n")
	fmt.Fprintf(&b, "Wall Time: %s\n\n", profile.Duration)

	fmt.Fprintf(&b, "%-10s %8s %12s %12s %12s\n", "Phase", "Count", "Total", "Min", "Max")
	b.WriteString(strings.Repeat("-", 58) + "\n")
	for _, ps := range profile.Phases {
		fmt.Fprintf(&b, "%-10s %8d %12s %12s %12s\n", ps.Phase, ps.Count, ps.TotalTime, ps.MinTime, ps.MaxTime)
	}

	if len(profile.TopUnits) > 0 {
		fmt.Fprintf(&b, "\nSlowest Units:\n")
		fmt.Fprintf(&b, "%-40s %12s\n", "Unit", "Total")
		b.WriteString(strings.Repeat("-", 53) + "\n")
		for _, us := range profile.TopUnits {
			fmt.Fprintf(&b, "%-40s %12s\n", truncateName(us.Name, 40), us.TotalTime)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// truncateName 截断单元名，保留末尾部分
func truncateName(name string, maxLen int) string {
	if len(name) <= maxLen {
		return name
	}
	return "..." + name[len(name)-maxLen+3:]
}
