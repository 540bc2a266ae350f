package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 表示因收到系统信号而终止。
	// 使用 errors.Is(err, ErrSignal) 判断是否为信号错误。
	ErrSignal = errors.New("received signal")

	// ErrNilFunc 传给 Go/GoWithName/Ticker 的函数为 nil
	ErrNilFunc = errors.New("xrun: nil function")

	// ErrWorkerPanic worker panic 后作为其返回值，可用 errors.As 取出 *xfault.PanicError
	ErrWorkerPanic = errors.New("xrun: worker panicked")

	// ErrInvalidInterval Ticker 的间隔参数必须为正数
	ErrInvalidInterval = errors.New("xrun: interval must be positive")
)

// SignalError 包含触发终止的具体信号信息。
//
//	var sigErr *xrun.SignalError
//	if errors.As(err, &sigErr) {
//	    fmt.Printf("received signal: %v\n", sigErr.Signal)
//	}
type SignalError struct {
	Signal os.Signal
}

// Error 实现 error 接口。
func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Is 支持 errors.Is(err, ErrSignal) 判断。
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}

// Unwrap 返回底层错误。
func (e *SignalError) Unwrap() error {
	return ErrSignal
}
