// cpu.go - CPU 性能分析
//
// 把整个检查过程的 CPU 采样写成 pprof 文件，供 go tool pprof 查看。

package profiler

import (
	"fmt"
	"os"
	"runtime/pprof"

	"go.uber.org/multierr"
)

// CPUProfile 一次进行中的 CPU 采样
type CPUProfile struct {
	file *os.File
}

// StartCPUProfile 开始采样并写入 path
func StartCPUProfile(path string) (*CPUProfile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create cpu profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		return nil, multierr.Append(fmt.Errorf("start cpu profile: %w", err), f.Close())
	}
	return &CPUProfile{file: f}, nil
}

// Stop 停止采样并关闭文件；可以重复调用
func (p *CPUProfile) Stop() error {
	if p == nil || p.file == nil {
		return nil
	}
	pprof.StopCPUProfile()
	err := p.file.Close()
	p.file = nil
	return err
}
