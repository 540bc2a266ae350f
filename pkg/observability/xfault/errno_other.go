//go:build !windows

package xfault

// platformErrno 在非 Windows 平台上不识别 errno：POSIX errno 与 Win32 码空间不同。
func platformErrno(error) (int64, bool) {
	return 0, false
}
