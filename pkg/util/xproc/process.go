package xproc

import (
	"os"
	"path/filepath"
	"sync"
)

// osExecutable 是 os.Executable 的包级变量，支持测试中 mock。
var osExecutable = os.Executable

var (
	processNameOnce  sync.Once
	processNameValue string
)

// ProcessID 返回当前进程 ID。远程日志转发时随每条记录发送。
func ProcessID() int {
	return os.Getpid()
}

// baseName 提取路径的基础文件名，对 "."、".."、分隔符返回空字符串。
func baseName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

func resolveProcessName() string {
	if exe, err := osExecutable(); err == nil && exe != "" {
		if name := baseName(exe); name != "" {
			return name
		}
	}
	if len(os.Args) == 0 || os.Args[0] == "" {
		return ""
	}
	return baseName(os.Args[0])
}

// ProcessName 返回当前进程名称（不含路径），首次调用后缓存。
//
// 优先使用 [os.Executable]，失败时回退到 os.Args[0]；都无效时返回空字符串。
func ProcessName() string {
	processNameOnce.Do(func() {
		processNameValue = resolveProcessName()
	})
	return processNameValue
}
