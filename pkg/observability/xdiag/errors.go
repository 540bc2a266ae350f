package xdiag

import "errors"

// ErrClosed Diag 已关闭
var ErrClosed = errors.New("xdiag: already closed")
