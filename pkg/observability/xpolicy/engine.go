package xpolicy

import (
	"context"
	"sync"

	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// LevelStore 持久化的日志级别配置，xconf.Store 实现此接口
type LevelStore interface {
	LoggingLevel() string
	SetLoggingLevel(name string) error
}

// Engine 持有级别策略状态：当前阈值与是否强制。
//
// 阈值本身保存在 leveler 中（xlog 的 slog.LevelVar，原子更新），
// Engine 只负责决定写入什么值。
type Engine struct {
	mu      sync.Mutex
	leveler xlog.Leveler
	logger  xlog.Logger
	forced  bool
}

// New 按启动参数计算初始级别并写入 leveler。
// logger 用于输出配置修复警告，nil 时使用 xlog.Default()。
func New(args LaunchArgs, leveler xlog.Leveler, logger xlog.Logger) *Engine {
	e := &Engine{
		leveler: leveler,
		logger:  logger,
		forced:  IsLevelForced(args),
	}
	leveler.SetLevel(InitialLevel(args))
	return e
}

// Forced 级别是否由启动参数强制
func (e *Engine) Forced() bool {
	return e.forced
}

// Level 当前阈值
func (e *Engine) Level() xlog.Level {
	return e.leveler.GetLevel()
}

// SetLevelFromConfig 按配置设置级别，强制状态下不做任何事。
//
// 非法的级别名称被修复为 INFO 并写回配置；写回失败不影响已生效的级别，错误返回给调用方。
func (e *Engine) SetLevelFromConfig(ctx context.Context, store LevelStore) error {
	if e.forced || store == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	name := store.LoggingLevel()
	level, ok := ParseConfigLevel(name)
	if ok {
		e.leveler.SetLevel(level)
		return nil
	}

	e.log().Warning(ctx, "invalid setting for logging level: %s", name)
	e.leveler.SetLevel(xlog.LevelInfo)
	return store.SetLoggingLevel(xlog.LevelInfo.String())
}

func (e *Engine) log() xlog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return xlog.Default()
}
