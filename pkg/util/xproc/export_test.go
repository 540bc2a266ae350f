package xproc

import "sync"

// ResetProcessName 重置进程名称缓存（仅用于测试）。
func ResetProcessName() {
	processNameOnce = sync.Once{}
	processNameValue = ""
}

// SetExecutable 替换 os.Executable 并返回恢复函数（仅用于测试）。
func SetExecutable(fn func() (string, error)) (restore func()) {
	orig := osExecutable
	osExecutable = fn
	return func() { osExecutable = orig }
}

var ParseGoroutineID = parseGoroutineID
