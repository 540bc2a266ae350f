package xfault

import (
	"errors"
	"fmt"
)

// ErrCallCancelled 表示一次跨组件调用被主动取消。总是被判定为预期故障。
var ErrCallCancelled = errors.New("xfault: call cancelled")

// PlatformError 是带数值错误码的操作系统错误（Win32 风格）。
type PlatformError struct {
	Op   string
	Code int
}

func (e *PlatformError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("platform error %d", e.Code)
	}
	return fmt.Sprintf("%s: platform error %d", e.Op, e.Code)
}

// PlatformCode 返回平台错误码。
func (e *PlatformError) PlatformCode() int { return e.Code }

// COMError 是带 HRESULT 的组件调用错误。
type COMError struct {
	Op      string
	HResult int32
	Text    string
}

func (e *COMError) Error() string {
	msg := fmt.Sprintf("COM error 0x%08X", uint32(e.HResult))
	if e.Text != "" {
		msg += ": " + e.Text
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	return msg
}

// HRESULT 返回结果码。
func (e *COMError) HRESULT() int32 { return e.HResult }

// platformCoder 由携带平台错误码的错误实现。
type platformCoder interface {
	PlatformCode() int
}

// hresulter 由携带 HRESULT 的错误实现。
type hresulter interface {
	HRESULT() int32
}
