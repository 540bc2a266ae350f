package xconf

import (
	"errors"
	"strings"
)

// 诊断日志相关的配置键
const (
	KeyLoggingLevel         = "general.loggingLevel"
	KeyExternalDependencies = "debugLog.externalDependencies"
	KeyPlayErrorSound       = "featureFlag.playErrorSound"
)

// DefaultLoggingLevel 未配置日志级别时的取值
const DefaultLoggingLevel = "INFO"

// Store 以类型化的方式读写诊断日志使用的配置项。
//
// 每次读取都访问 Config 的当前快照，配置重载后立即生效。
type Store struct {
	cfg Config
}

// NewStore 创建 Store。cfg 为 nil 时使用空的内存配置。
func NewStore(cfg Config) *Store {
	if cfg == nil {
		cfg, _ = NewFromBytes(nil, FormatYAML)
	}
	return &Store{cfg: cfg}
}

// Config 返回底层配置
func (s *Store) Config() Config {
	return s.cfg
}

// LoggingLevel 返回配置的日志级别名称（已去掉首尾空白，保持原样大小写）。
func (s *Store) LoggingLevel() string {
	v := strings.TrimSpace(s.cfg.Client().String(KeyLoggingLevel))
	if v == "" {
		return DefaultLoggingLevel
	}
	return v
}

// SetLoggingLevel 修改日志级别并写回文件。内存配置只修改不写回。
func (s *Store) SetLoggingLevel(name string) error {
	if err := s.cfg.Set(KeyLoggingLevel, name); err != nil {
		return err
	}
	if err := s.cfg.Save(); err != nil && !errors.Is(err, ErrNotPersistent) {
		return err
	}
	return nil
}

// ExternalDependencies 是否保留第三方库低于 WARNING 的记录
func (s *Store) ExternalDependencies() bool {
	return s.cfg.Client().Bool(KeyExternalDependencies)
}

// PlayErrorSound 错误提示音开关：0 默认，1 开启，2 关闭
func (s *Store) PlayErrorSound() int {
	return s.cfg.Client().Int(KeyPlayErrorSound)
}
