package xpolicy

import (
	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// LaunchArgs 影响日志级别的启动参数
type LaunchArgs struct {
	// Secure 安全模式（如登录界面），总是关闭日志
	Secure bool

	// DebugLogging --debug-logging
	DebugLogging bool

	// LogLevel --log-level 的值，只在 HasLogLevel 时有效
	LogLevel xlog.Level

	// HasLogLevel 是否显式给出了 --log-level
	HasLogLevel bool

	// NoLogging --no-logging
	NoLogging bool

	// LogFileName --log-file，空表示默认路径
	LogFileName string
}

// levelOverridden 命令行是否显式指定了级别
func (a LaunchArgs) levelOverridden() bool {
	return a.DebugLogging || a.HasLogLevel
}

// ShouldDisableLogging 是否完全关闭日志。
// 安全模式总是关闭；--no-logging 只在没有显式指定级别时生效。
func ShouldDisableLogging(a LaunchArgs) bool {
	return a.Secure || (a.NoLogging && !a.levelOverridden())
}

// IsLevelForced 级别是否由启动参数决定，不受配置影响
func IsLevelForced(a LaunchArgs) bool {
	return a.Secure || a.levelOverridden() || a.NoLogging
}

// InitialLevel 启动时的日志级别
func InitialLevel(a LaunchArgs) xlog.Level {
	switch {
	case ShouldDisableLogging(a):
		return xlog.LevelOff
	case a.DebugLogging:
		return xlog.LevelDebug
	case a.HasLogLevel:
		return a.LogLevel
	default:
		return xlog.LevelInfo
	}
}

// allowedConfigLevels 配置文件可以选择的级别
var allowedConfigLevels = map[xlog.Level]struct{}{
	xlog.LevelIO:           {},
	xlog.LevelDebug:        {},
	xlog.LevelDebugWarning: {},
	xlog.LevelInfo:         {},
	xlog.LevelOff:          {},
}

// ParseConfigLevel 解析配置中的级别名称（忽略大小写），不在允许集合内时返回 false。
func ParseConfigLevel(name string) (xlog.Level, bool) {
	level, err := xlog.ParseLevel(name)
	if err != nil {
		return xlog.LevelInfo, false
	}
	if _, ok := allowedConfigLevels[level]; !ok {
		return xlog.LevelInfo, false
	}
	return level, true
}
