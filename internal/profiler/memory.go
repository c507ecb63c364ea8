// memory.go - 内存性能分析

package profiler

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"go.uber.org/multierr"
)

// WriteHeapProfile 在 GC 之后把堆分配写入 path
func WriteHeapProfile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create memory profile: %w", err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("write memory profile: %w", err)
	}
	return nil
}

// MemStats 当前堆使用情况的简要描述
func MemStats() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("heap %s, total alloc %s, %d GC",
		formatBytes(int64(m.HeapAlloc)), formatBytes(int64(m.TotalAlloc)), m.NumGC)
}

// formatBytes 格式化字节数
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
