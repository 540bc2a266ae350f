package xremote

import "errors"

var (
	// ErrNilBridge 当 Bridge 为 nil 时返回
	ErrNilBridge = errors.New("xremote: bridge is nil")

	// ErrBridgePanic Bridge 调用 panic
	ErrBridgePanic = errors.New("xremote: bridge panicked")
)
