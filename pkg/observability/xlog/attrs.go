package xlog

import (
	"log/slog"
)

// =============================================================================
// 记录属性 Key 常量
// =============================================================================

const (
	// KeyCodepath 调用点 codepath，门面输出的每条记录都带有该属性
	KeyCodepath = "codepath"

	// KeyThread goroutine 名称
	KeyThread = "thread"

	// KeyThreadID goroutine ID
	KeyThreadID = "thread_id"

	// KeyLogger 日志命名空间，用于区分应用自身日志与第三方库日志
	KeyLogger = "logger"

	// KeyError 错误字段的标准 key
	KeyError = "error"

	// KeyRunID 单次运行 ID
	KeyRunID = "run_id"

	// KeyComponent 组件名称字段的标准 key
	KeyComponent = "component"
)

// reservedKey 报告 key 是否由格式化器放在记录头部而非作为普通属性输出。
func reservedKey(key string) bool {
	switch key {
	case KeyCodepath, KeyThread, KeyThreadID, KeyLogger:
		return true
	}
	return false
}

// Err 创建错误属性。err 为 nil 时返回空属性（会被忽略）。
//
// 值保留 error 本身，格式化器据此输出错误链及其携带的堆栈。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

// Component 创建组件名属性。
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}
