package compiler

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/profiler"
	"github.com/tangzhangming/jscheck/internal/token"
)

// ============================================================================
// 批量驱动
// ============================================================================
//
// 各编译单元互相独立：每个单元有自己的环境、作用域和流状态，
// 只有运算符签名表是共享的（只读）。单元按 Parallelism 并行检查；
// 问题总数通过 problemBudget 在单元之间共享，达到上限后
// 正在检查的单元在下一个顶层语句边界中止，尚未开始的单元直接跳过。
// ============================================================================

// Source 一个待检查的源文件
type Source struct {
	Name string
	Text string
}

// Result 一个源文件的检查结果
type Result struct {
	Name         string
	Unit         *Unit // 来自缓存或被跳过时为 nil
	Problems     []*errors.Problem
	Investigated bool
	Cached       bool
	Skipped      bool // 编译在它开始之前就已中止
	Elapsed      time.Duration
}

// HasErrors 是否有错误级别的问题
func (r *Result) HasErrors() bool {
	for _, p := range r.Problems {
		if p.Severity == errors.SeverityError {
			return true
		}
	}
	return false
}

// DriverStats 驱动统计
type DriverStats struct {
	Units     int64
	Problems  int64
	Aborted   int64 // 没有完整分析的单元数
	CacheHits int64
	Skipped   int64
}

// problemBudget 所有单元共享的问题计数
type problemBudget struct {
	count *atomic.Int64
	limit int64
}

func newProblemBudget(limit int) *problemBudget {
	return &problemBudget{count: atomic.NewInt64(0), limit: int64(limit)}
}

func (b *problemBudget) add(*errors.Problem) {
	b.count.Inc()
}

func (b *problemBudget) exceeded() bool {
	return b != nil && b.limit > 0 && b.count.Load() >= b.limit
}

// Driver 批量检查多个编译单元
type Driver struct {
	opts        Options
	parallelism int
	cache       *ResultCache
	profiler    *profiler.Profiler
	parse       func(name, source string, opts Options) *Unit
	log         *zap.Logger

	units     *atomic.Int64
	problems  *atomic.Int64
	aborted   *atomic.Int64
	cacheHits *atomic.Int64
	skipped   *atomic.Int64
}

// NewDriver 创建驱动；parallelism 不大于 0 时使用 GOMAXPROCS，cache 可以为 nil
func NewDriver(opts Options, parallelism int, cache *ResultCache) *Driver {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	return &Driver{
		opts:        opts,
		parallelism: parallelism,
		cache:       cache,
		parse:       Parse,
		log:         opts.logger(),
		units:       atomic.NewInt64(0),
		problems:    atomic.NewInt64(0),
		aborted:     atomic.NewInt64(0),
		cacheHits:   atomic.NewInt64(0),
		skipped:     atomic.NewInt64(0),
	}
}

// SetProfiler 记录各阶段耗时；传 nil 关闭
func (d *Driver) SetProfiler(p *profiler.Profiler) {
	d.profiler = p
}

// Stats 返回累计统计
func (d *Driver) Stats() DriverStats {
	return DriverStats{
		Units:     d.units.Load(),
		Problems:  d.problems.Load(),
		Aborted:   d.aborted.Load(),
		CacheHits: d.cacheHits.Load(),
		Skipped:   d.skipped.Load(),
	}
}

// Check 检查一批源文件，结果与 sources 一一对应
//
// 返回的 error 是整个编译级别的中止和内部错误的合并；
// 单元内的问题只出现在 Result.Problems 中。
func (d *Driver) Check(ctx context.Context, sources []Source) ([]*Result, error) {
	results := make([]*Result, len(sources))
	budget := newProblemBudget(d.opts.MaxProblems)
	stopped := atomic.NewBool(false)

	var (
		mu   sync.Mutex
		errs error
	)
	fail := func(err error) {
		mu.Lock()
		errs = multierr.Append(errs, err)
		mu.Unlock()
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < d.parallelism; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				src := sources[i]
				if stopped.Load() || ctx.Err() != nil {
					d.skipped.Inc()
					results[i] = &Result{Name: src.Name, Skipped: true}
					continue
				}
				r, err := d.checkOne(ctx, src, budget)
				results[i] = r
				if err == nil {
					continue
				}
				if a, ok := errors.AsAbort(err); ok && a.Level == errors.AbortCompilation {
					if stopped.CAS(false, true) {
						fail(err)
					}
					continue
				}
				fail(err)
			}
		}()
	}
	for i := range sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	d.log.Debug("batch finished",
		zap.Int("units", len(sources)),
		zap.Int64("problems", budget.count.Load()),
		zap.Bool("stopped", stopped.Load()))
	return results, errs
}

// checkOne 检查单个源文件；panic 被转换成 InternalError 问题和返回的错误
func (d *Driver) checkOne(ctx context.Context, src Source, budget *problemBudget) (r *Result, err error) {
	start := time.Now()
	d.units.Inc()

	key := ""
	if d.cache != nil {
		key = CacheKey(src.Name, src.Text, d.opts)
		done := d.profiler.Time(src.Name, profiler.PhaseCache)
		cached, ok := d.cache.Get(key)
		done()
		if ok {
			d.cacheHits.Inc()
			d.log.Debug("cache hit", zap.String("unit", src.Name))
			problems := cached.Problems()
			for _, p := range problems {
				budget.add(p)
			}
			d.problems.Add(int64(len(problems)))
			return &Result{
				Name:         src.Name,
				Problems:     problems,
				Investigated: cached.Investigated,
				Cached:       true,
				Elapsed:      time.Since(start),
			}, nil
		}
	}

	d.log.Debug("unit start", zap.String("unit", src.Name))
	var u *Unit
	defer func() {
		if v := recover(); v != nil {
			if u == nil {
				// 解析时出错，没有可用的单元
				u = d.placeholderUnit(src, budget)
			}
			span := token.Span{}
			if u.File != nil {
				span = u.File.Span()
			}
			u.Sink.Report(errors.InternalError, span, "check", fmt.Sprint(v))
			u.Investigated = false
			d.log.Error("internal error",
				zap.String("unit", src.Name),
				zap.Any("panic", v),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("check %s: internal error: %v", src.Name, v)
		}
		r = d.finish(u, start, key, err)
	}()

	done := d.profiler.Time(src.Name, profiler.PhaseParse)
	u = d.parse(src.Name, src.Text, d.opts)
	done()
	u.budget = budget
	for _, p := range u.Sink.Problems() {
		budget.add(p)
	}
	u.Sink.OnReport = budget.add

	done = d.profiler.Time(src.Name, profiler.PhaseResolve)
	err = u.Resolve(ctx)
	done()
	if err == nil {
		done = d.profiler.Time(src.Name, profiler.PhaseAnalyse)
		err = u.Analyse(ctx)
		done()
	}
	err = u.unitBoundary(err)
	return r, err
}

// placeholderUnit 没有语法树的空单元，只用来承载问题
func (d *Driver) placeholderUnit(src Source, budget *problemBudget) *Unit {
	sink := errors.NewSink(d.opts.Severity, d.opts.MaxProblems)
	sink.OnReport = budget.add
	return &Unit{
		Name:   src.Name,
		Source: src.Text,
		Sink:   sink,
		opts:   d.opts,
		log:    d.log,
		budget: budget,
	}
}

func (d *Driver) finish(u *Unit, start time.Time, key string, err error) *Result {
	r := &Result{
		Name:         u.Name,
		Unit:         u,
		Problems:     u.Problems(),
		Investigated: u.Investigated,
		Elapsed:      time.Since(start),
	}
	d.problems.Add(int64(len(r.Problems)))
	if !u.Investigated || err != nil {
		d.aborted.Inc()
	}
	// 没有分析完的结果不缓存
	if d.cache != nil && err == nil && u.Investigated {
		if cerr := d.cache.Put(key, NewCachedResult(u)); cerr != nil {
			d.log.Warn("cache write failed", zap.String("unit", u.Name), zap.Error(cerr))
		}
	}
	d.log.Debug("unit finished",
		zap.String("unit", u.Name),
		zap.Int("problems", len(r.Problems)),
		zap.Bool("investigated", u.Investigated),
		zap.Duration("elapsed", r.Elapsed))
	return r
}
