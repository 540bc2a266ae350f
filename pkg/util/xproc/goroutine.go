package xproc

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutinePrefix 是 runtime.Stack 输出的首行前缀："goroutine 18 [running]:"。
var goroutinePrefix = []byte("goroutine ")

// GoroutineID 返回当前 goroutine 的 ID，解析失败时返回 0。
//
// Go 不对外暴露 goroutine ID，这里从 runtime.Stack 首行解析。
// 只用于日志中的线程标识，不能作为业务逻辑的依据。
func GoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseGoroutineID(buf[:n])
}

func parseGoroutineID(b []byte) uint64 {
	b, ok := bytes.CutPrefix(b, goroutinePrefix)
	if !ok {
		return 0
	}
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// IsMainGoroutine 报告当前是否运行在主 goroutine（ID 为 1）上。
func IsMainGoroutine() bool {
	return GoroutineID() == 1
}
