package xrotate

import "io"

// 编译时断言：Rotator 接口是 io.WriteCloser 的超集
var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志文件轮转器接口
//
// 所有实现都必须是并发安全的：
//   - Close 后调用 Write 或 Rotate 返回 [ErrClosed]
//   - Path 返回当前活动日志文件的路径，日志片段读取依赖它
type Rotator interface {
	// Write 追加写入日志数据，达到轮转条件时自动轮转
	Write(p []byte) (n int, err error)

	// Close 关闭轮转器，重复调用返回 [ErrClosed]
	Close() error

	// Rotate 手动触发轮转
	Rotate() error

	// Path 返回活动日志文件的路径
	Path() string
}
