// cache.go - 检查结果缓存
//
// 以 (文件名, 源代码, 选项) 的 blake2b 哈希为键缓存一个编译单元的诊断结果，
// 源代码和影响诊断的选项都没变时直接复用上一次的问题列表。
//
// 功能：
// 1. 内容哈希计算
// 2. 结果序列化/反序列化
// 3. 可选的磁盘持久化（缓存目录 + 索引文件）
// 4. LRU 缓存清理策略

package compiler

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/encoding/json"
	"golang.org/x/crypto/blake2b"

	"github.com/tangzhangming/jscheck/internal/errors"
	"github.com/tangzhangming/jscheck/internal/i18n"
	"github.com/tangzhangming/jscheck/internal/token"
)

const (
	// CacheVersion 缓存版本，版本不匹配时整个缓存作废
	CacheVersion = "1"

	// DefaultCacheDir 默认缓存目录
	DefaultCacheDir = ".jscheck-cache"

	// MaxCacheEntries 默认最大缓存条目数
	MaxCacheEntries = 1000
)

// ProblemRecord 可序列化的问题
type ProblemRecord struct {
	ID       errors.ProblemID `json:"id"`
	Severity errors.Severity  `json:"severity"`
	Message  string           `json:"message"`
	Span     token.Span       `json:"span"`
	Hints    []string         `json:"hints,omitempty"`
}

// CachedResult 一个单元的缓存结果
type CachedResult struct {
	Name         string          `json:"name"`
	Investigated bool            `json:"investigated"`
	Records      []ProblemRecord `json:"problems"`
	CheckedAt    time.Time       `json:"checked_at"`
}

// NewCachedResult 从检查完的单元生成缓存结果
func NewCachedResult(u *Unit) *CachedResult {
	problems := u.Problems()
	r := &CachedResult{
		Name:         u.Name,
		Investigated: u.Investigated,
		Records:      make([]ProblemRecord, len(problems)),
		CheckedAt:    time.Now(),
	}
	for i, p := range problems {
		r.Records[i] = ProblemRecord{ID: p.ID, Severity: p.Severity, Message: p.Message, Span: p.Span, Hints: p.Hints}
	}
	return r
}

// Problems 还原成问题列表（不含消息参数）
func (r *CachedResult) Problems() []*errors.Problem {
	out := make([]*errors.Problem, len(r.Records))
	for i, rec := range r.Records {
		out[i] = &errors.Problem{ID: rec.ID, Severity: rec.Severity, Message: rec.Message, Span: rec.Span, Hints: rec.Hints}
	}
	return out
}

// CacheKey 缓存键：影响诊断内容的全部输入的哈希
func CacheKey(name, source string, opts Options) string {
	h, _ := blake2b.New256(nil)
	write := func(s string) {
		h.Write([]byte(strconv.Itoa(len(s))))
		h.Write([]byte{':'})
		h.Write([]byte(s))
	}
	write(CacheVersion)
	write(name)
	write(source)
	write(strconv.FormatBool(opts.Diet))
	write(strconv.Itoa(opts.MaxProblems))
	write(strconv.Itoa(opts.MaxUnitProblems))
	write(opts.Severity.Fingerprint())
	write(string(i18n.GetLanguage()))
	return hex.EncodeToString(h.Sum(nil))
}

// ============================================================================
// ResultCache
// ============================================================================

// cacheIndex 缓存索引
type cacheIndex struct {
	Version string                 `json:"version"`
	Entries map[string]*cacheEntry `json:"entries"`
}

// cacheEntry 缓存条目
type cacheEntry struct {
	Result      *CachedResult `json:"result"`
	AccessedAt  time.Time     `json:"accessed_at"`
	AccessCount int           `json:"access_count"`
}

// ResultCache 检查结果缓存，可并发使用
type ResultCache struct {
	mu         sync.Mutex
	dir        string // 为空时只在内存中
	maxEntries int
	index      *cacheIndex
	enabled    bool
	hits       int
	misses     int
}

// CacheStats 缓存统计信息
type CacheStats struct {
	Entries int
	Hits    int
	Misses  int
	Dir     string
}

// NewResultCache 创建缓存；dir 非空时从 dir/index.json 加载并在写入时持久化
func NewResultCache(dir string, maxEntries int) (*ResultCache, error) {
	if maxEntries <= 0 {
		maxEntries = MaxCacheEntries
	}
	rc := &ResultCache{dir: dir, maxEntries: maxEntries, enabled: true}
	rc.index = newCacheIndex()
	if dir == "" {
		return rc, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	// 索引损坏或版本不匹配时从空缓存开始
	if idx, err := loadCacheIndex(rc.indexPath()); err == nil && idx.Version == CacheVersion {
		rc.index = idx
	}
	return rc, nil
}

func newCacheIndex() *cacheIndex {
	return &cacheIndex{Version: CacheVersion, Entries: make(map[string]*cacheEntry)}
}

// Enable 启用缓存
func (rc *ResultCache) Enable() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.enabled = true
}

// Disable 禁用缓存
func (rc *ResultCache) Disable() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.enabled = false
}

// Get 按键取缓存结果
func (rc *ResultCache) Get(key string) (*CachedResult, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if !rc.enabled {
		return nil, false
	}
	entry, ok := rc.index.Entries[key]
	if !ok {
		rc.misses++
		return nil, false
	}
	rc.hits++
	entry.AccessedAt = time.Now()
	entry.AccessCount++
	return entry.Result, true
}

// Put 存入结果；超出容量时淘汰最久未访问的条目
func (rc *ResultCache) Put(key string, r *CachedResult) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if !rc.enabled {
		return nil
	}
	rc.index.Entries[key] = &cacheEntry{Result: r, AccessedAt: time.Now(), AccessCount: 1}
	if n := len(rc.index.Entries); n > rc.maxEntries {
		rc.evictLRU(n - rc.maxEntries)
	}
	return rc.save()
}

// Invalidate 删除一个条目
func (rc *ResultCache) Invalidate(key string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	delete(rc.index.Entries, key)
}

// Clear 清空缓存
func (rc *ResultCache) Clear() error {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.index = newCacheIndex()
	return rc.save()
}

// Stats 缓存统计
func (rc *ResultCache) Stats() CacheStats {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return CacheStats{Entries: len(rc.index.Entries), Hits: rc.hits, Misses: rc.misses, Dir: rc.dir}
}

// ============================================================================
// 内部方法
// ============================================================================

func (rc *ResultCache) indexPath() string {
	return filepath.Join(rc.dir, "index.json")
}

func loadCacheIndex(path string) (*cacheIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	idx := &cacheIndex{}
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("failed to parse cache index: %w", err)
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]*cacheEntry)
	}
	return idx, nil
}

// save 持久化索引（不加锁）
func (rc *ResultCache) save() error {
	if rc.dir == "" {
		return nil
	}
	data, err := json.Marshal(rc.index)
	if err != nil {
		return fmt.Errorf("failed to encode cache index: %w", err)
	}
	tmp := rc.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache index: %w", err)
	}
	return os.Rename(tmp, rc.indexPath())
}

// evictLRU 删除 count 个最久未访问的条目
func (rc *ResultCache) evictLRU(count int) {
	keys := make([]string, 0, len(rc.index.Entries))
	for k := range rc.index.Entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return rc.index.Entries[keys[i]].AccessedAt.Before(rc.index.Entries[keys[j]].AccessedAt)
	})
	for i := 0; i < count && i < len(keys); i++ {
		delete(rc.index.Entries, keys[i])
	}
}
