package xhook

import (
	"errors"
	"strconv"
)

var (
	// ErrAlreadyInstalled Install 重复调用时返回
	ErrAlreadyInstalled = errors.New("xhook: router already installed")

	// ErrNilLogger New 的 logger 为 nil 时返回
	ErrNilLogger = errors.New("xhook: logger is nil")
)

// ExitSignal 以 panic 方式请求结束当前 goroutine（或以 Code 退出进程）。
//
// goroutine 中的 ExitSignal 被静默忽略；主 goroutine 中 RecoverMain 以 Code 退出且不记录。
type ExitSignal struct {
	Code int
}

func (e ExitSignal) Error() string {
	return "xhook: exit " + strconv.Itoa(e.Code)
}
