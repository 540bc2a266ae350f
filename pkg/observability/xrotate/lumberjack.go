package xrotate

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	retry "github.com/avast/retry-go/v5"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/xdiag/pkg/util/xfile"
)

// Lumberjack 默认配置值
const (
	// DefaultMaxSizeMB 默认单个日志文件最大大小（MB）
	DefaultMaxSizeMB = 100

	// DefaultMaxBackups 默认保留的轮转备份数量
	DefaultMaxBackups = 3

	// maxSizeMB 单个日志文件大小上限（10 GB）
	maxSizeMB = 10240

	// maxBackups 备份文件数量上限
	maxBackups = 1024

	// defaultProbeAttempts 打开探测的默认尝试次数
	defaultProbeAttempts = 3

	// probeDelay 打开探测的重试间隔
	probeDelay = 20 * time.Millisecond
)

// fileMode 日志文件权限，与 lumberjack 创建文件的权限一致
const fileMode = 0o600

type lumberjackConfig struct {
	MaxSizeMB     int
	MaxBackups    int
	Compress      bool
	LocalTime     bool
	ProbeAttempts uint
	Truncate      bool
}

// Option lumberjack 配置选项函数
type Option func(*lumberjackConfig)

// WithMaxSize 设置单个日志文件最大大小（MB）
func WithMaxSize(mb int) Option {
	return func(c *lumberjackConfig) { c.MaxSizeMB = mb }
}

// WithMaxBackups 设置保留的轮转备份数量，0 表示不限制
func WithMaxBackups(n int) Option {
	return func(c *lumberjackConfig) { c.MaxBackups = n }
}

// WithCompress 设置是否 gzip 压缩轮转备份
func WithCompress(compress bool) Option {
	return func(c *lumberjackConfig) { c.Compress = compress }
}

// WithLocalTime 设置备份文件名是否使用本地时间
func WithLocalTime(local bool) Option {
	return func(c *lumberjackConfig) { c.LocalTime = local }
}

// WithProbeAttempts 设置创建时打开探测的尝试次数（至少 1 次）。
// 启动时日志文件可能仍被上一个进程占用，短暂重试可以越过这个窗口。
func WithProbeAttempts(n uint) Option {
	return func(c *lumberjackConfig) { c.ProbeAttempts = max(n, 1) }
}

// WithTruncate 设置创建时是否清空已有文件。默认追加。
func WithTruncate(truncate bool) Option {
	return func(c *lumberjackConfig) { c.Truncate = truncate }
}

// lumberjackRotator 基于 lumberjack 的 Rotator 实现
type lumberjackRotator struct {
	logger *lumberjack.Logger
	path   string
	closed atomic.Bool
}

// NewLumberjack 创建基于 lumberjack 的日志轮转器
//
// 与 lumberjack 的延迟创建不同，这里在返回前打开一次文件（默认追加，
// [WithTruncate] 时清空），无法打开时返回 [ErrOpen]，调用方据此切换到丢弃输出。
func NewLumberjack(filename string, opts ...Option) (Rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := lumberjackConfig{
		MaxSizeMB:     DefaultMaxSizeMB,
		MaxBackups:    DefaultMaxBackups,
		ProbeAttempts: defaultProbeAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	safePath, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(safePath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if err := probe(safePath, cfg.ProbeAttempts, cfg.Truncate); err != nil {
		return nil, err
	}

	return &lumberjackRotator{
		logger: &lumberjack.Logger{
			Filename:   safePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		},
		path: safePath,
	}, nil
}

func validateConfig(cfg *lumberjackConfig) error {
	if cfg.MaxSizeMB <= 0 || cfg.MaxSizeMB > maxSizeMB {
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, cfg.MaxSizeMB, maxSizeMB)
	}
	if cfg.MaxBackups < 0 || cfg.MaxBackups > maxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, cfg.MaxBackups, maxBackups)
	}
	return nil
}

// probe 打开文件确认可写，失败时按固定间隔重试。truncate 时清空已有内容。
func probe(path string, attempts uint, truncate bool) error {
	flag := os.O_WRONLY | os.O_APPEND | os.O_CREATE
	if truncate {
		flag = os.O_WRONLY | os.O_TRUNC | os.O_CREATE
	}
	err := retry.New(
		retry.Attempts(attempts),
		retry.Delay(probeDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	).Do(func() error {
		f, err := os.OpenFile(path, flag, fileMode)
		if err != nil {
			return err
		}
		return f.Close()
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return nil
}

// Write 实现 io.Writer 接口
func (r *lumberjackRotator) Write(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	n, err := r.logger.Write(p)
	if err != nil && r.closed.Load() {
		// Write 与 Close 并发时保持 ErrClosed 契约
		return n, ErrClosed
	}
	return n, err
}

// Close 实现 io.Closer 接口
func (r *lumberjackRotator) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}
	return r.logger.Close()
}

// Rotate 手动触发轮转
func (r *lumberjackRotator) Rotate() error {
	if r.closed.Load() {
		return ErrClosed
	}
	return r.logger.Rotate()
}

// Path 返回活动日志文件的路径
func (r *lumberjackRotator) Path() string {
	return r.path
}
