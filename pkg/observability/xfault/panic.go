package xfault

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// PanicError 包装一次 recover() 得到的值及 panic 时的 goroutine 堆栈。
type PanicError struct {
	Value any
	stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap 在 panic 值本身是 error 时返回它，使 errors.Is/As 可以穿透。
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Stack 返回 panic 时捕获的堆栈。
func (e *PanicError) Stack() []byte { return e.stack }

// Recovered 把 recover() 的返回值转换为 error。v 为 nil 时返回 nil。
// stack 为 nil 时在调用点捕获当前 goroutine 堆栈（在 defer 中调用即为 panic 现场）。
func Recovered(v any, stack []byte) error {
	if v == nil {
		return nil
	}
	if stack == nil {
		stack = debug.Stack()
	}
	return &PanicError{Value: v, stack: stack}
}

// stacker 由携带堆栈的错误实现。
type stacker interface {
	Stack() []byte
}

// StackOf 返回错误链中第一个携带的堆栈，没有则返回 nil。
func StackOf(err error) []byte {
	var s stacker
	if errors.As(err, &s) {
		return s.Stack()
	}
	return nil
}
