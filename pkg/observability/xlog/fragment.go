package xlog

import (
	"io"
	"os"
	"sync"
)

// fragmentTracker 保存日志文件中的片段起点。派生 logger 共享同一个实例。
type fragmentTracker struct {
	mu     sync.Mutex
	sink   FileSink // nil 表示日志目标不是文件
	secure bool
	offset int64
	marked bool
}

func newFragmentTracker(sink FileSink, secure bool) *fragmentTracker {
	return &fragmentTracker{sink: sink, secure: secure}
}

// path 返回可用于片段操作的日志文件路径，不可用时返回空字符串。
func (f *fragmentTracker) path() string {
	if f == nil || f.secure || f.sink == nil {
		return ""
	}
	return f.sink.Path()
}

func (f *fragmentTracker) mark() bool {
	name := f.path()
	if name == "" {
		return false
	}
	file, err := os.Open(name)
	if err != nil {
		return false
	}
	defer file.Close()
	end, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return false
	}

	f.mu.Lock()
	f.offset = end
	f.marked = true
	f.mu.Unlock()
	return true
}

func (f *fragmentTracker) read() (string, bool) {
	name := f.path()
	if name == "" {
		return "", false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.marked {
		return "", false
	}
	file, err := os.Open(name)
	if err != nil {
		return "", false
	}
	defer file.Close()
	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return "", false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", false
	}
	// 没有新内容时保留标记，之后追加的内容仍能从同一起点取回
	if len(data) > 0 {
		f.marked = false
	}
	return string(data), true
}
