//go:build windows

package xfault

import (
	"errors"
	"syscall"
)

// platformErrno 在 Windows 上把 syscall.Errno 视为平台错误码。
func platformErrno(err error) (int64, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int64(errno), true
	}
	return 0, false
}
