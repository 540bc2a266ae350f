package xalert

import (
	"io"
	"os"
	"sync"
)

// System 基于系统提示音与 [Action] 扩展点的 Alerter 实现
type System struct {
	mu     sync.Mutex
	out    io.Writer
	beep   func(out io.Writer)
	action *Action
}

// Option System 配置选项
type Option func(*System)

// WithOutput 设置非 Windows 平台写入 BEL 的终端，默认是创建时的 os.Stderr
func WithOutput(w io.Writer) Option {
	return func(s *System) {
		if w != nil {
			s.out = w
		}
	}
}

// WithAction 使用外部的扩展点广播错误通知
func WithAction(a *Action) Option {
	return func(s *System) {
		if a != nil {
			s.action = a
		}
	}
}

// WithBeep 替换提示音实现
func WithBeep(fn func(out io.Writer)) Option {
	return func(s *System) {
		if fn != nil {
			s.beep = fn
		}
	}
}

// New 创建 System
func New(opts ...Option) *System {
	s := &System{
		out:    os.Stderr,
		beep:   platformBeep,
		action: NewAction(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Beep 同步播放错误提示音
func (s *System) Beep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beep(s.out)
}

// NotifyError 广播"出现错误"通知
func (s *System) NotifyError() {
	s.action.Notify()
}

// Action 返回错误通知扩展点，供监听者注册
func (s *System) Action() *Action {
	return s.action
}

// writeBell 向终端写入 BEL
func writeBell(out io.Writer) {
	if out != nil {
		_, _ = out.Write([]byte{'\a'})
	}
}

// PlayErrorSound 配置项 featureFlag.playErrorSound 的取值
const (
	PlayErrorSoundDefault = 0
	PlayErrorSoundEnabled = 1
	PlayErrorSoundOff     = 2
)

// ShouldPlayErrorSound 测试构建总是播放错误提示，否则只在配置显式启用时播放。
func ShouldPlayErrorSound(testBuild bool, flag int) bool {
	return testBuild || flag == PlayErrorSoundEnabled
}
