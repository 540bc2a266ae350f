package xlog

import (
	"fmt"
	"log/slog"
	"strings"
)

// Level 日志级别，与 slog.Level 兼容。
//
// 级别只按数值比较：自定义级别 IO 与 DEBUGWARNING 位于标准级别之间，
// 名称相等判断会漏掉它们。
type Level slog.Level

// 日志级别常量，数值顺序：IO < DEBUG < DEBUGWARNING < INFO < WARNING < ERROR < CRITICAL < OFF。
const (
	LevelIO           = Level(-6)
	LevelDebug        = Level(slog.LevelDebug)
	LevelDebugWarning = Level(-2)
	LevelInfo         = Level(slog.LevelInfo)
	LevelWarning      = Level(slog.LevelWarn)
	LevelError        = Level(slog.LevelError)
	LevelCritical     = Level(12)

	// LevelOff 是哨兵级别：阈值设为 OFF 时任何记录都不会输出，也不能以 OFF 级别记录。
	LevelOff = Level(100)
)

// String 返回级别的规范名称，非预定义级别委托给 slog.Level.String()（如 "INFO+1"）。
func (l Level) String() string {
	switch l {
	case LevelIO:
		return "IO"
	case LevelDebug:
		return "DEBUG"
	case LevelDebugWarning:
		return "DEBUGWARNING"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	case LevelOff:
		return "OFF"
	default:
		return slog.Level(l).String()
	}
}

// Slog 返回对应的 slog.Level。
func (l Level) Slog() slog.Level { return slog.Level(l) }

// MarshalText 实现 encoding.TextMarshaler 接口。
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析级别名称（大小写不敏感，自动 TrimSpace）。
// 除规范名称外接受 "warn" 作为 WARNING 的别名。
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IO":
		return LevelIO, nil
	case "DEBUG":
		return LevelDebug, nil
	case "DEBUGWARNING":
		return LevelDebugWarning, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	case "OFF":
		return LevelOff, nil
	default:
		return LevelInfo, fmt.Errorf("xlog: unknown level %q", s)
	}
}
