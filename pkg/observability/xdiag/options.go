package xdiag

import (
	"github.com/omeyang/xdiag/pkg/config/xconf"
	"github.com/omeyang/xdiag/pkg/observability/xcaller"
	"github.com/omeyang/xdiag/pkg/observability/xlog"
	"github.com/omeyang/xdiag/pkg/observability/xpolicy"
	"github.com/omeyang/xdiag/pkg/observability/xremote"
	"github.com/omeyang/xdiag/pkg/observability/xrotate"
)

// DefaultLogFileName 默认日志文件名，位于 LogDir 下
const DefaultLogFileName = "xdiag.log"

// Options Initialize 的参数
type Options struct {
	// Args 启动参数
	Args xpolicy.LaunchArgs

	// Store 持久化配置；nil 使用空的内存配置
	Store *xconf.Store

	// Remote 非 nil 时本进程是远程进程，日志转发到宿主，不写文件
	Remote xremote.Bridge

	// RemoteOptions 远程转发的熔断等参数
	RemoteOptions []xremote.Option

	// LogDir 默认日志文件所在目录，空为 os.TempDir()
	LogDir string

	// RotateOptions 日志文件轮转参数
	RotateOptions []xrotate.Option

	// Resolver 解析 codepath；nil 时新建。使用本库的程序通常需要
	// 用 xcaller.WithAppModule/WithAppRoot 指定自己的模块，否则其代码都被标记为 external。
	Resolver *xcaller.Resolver

	// ConfigDir 用户可写的配置目录，其中的代码记为 external。
	// 空且 Resolver 未设置配置目录时取 Store 配置文件所在目录。
	ConfigDir string

	// BasePath 源码根目录，堆栈与警告位置中的该前缀会被去掉
	BasePath string

	// Viewer 实时日志查看器
	Viewer xlog.Viewer

	// Alerter 声音提示；nil 使用 xalert.New()
	Alerter xlog.Alerter

	// TestBuild 测试构建总是为 ERROR 记录广播错误通知
	TestBuild bool

	// StdStreams 是否把 os.Stdout/os.Stderr 重定向到日志
	StdStreams bool

	// WatchConfig 配置文件变化后重新应用日志级别
	WatchConfig bool

	// Exit 覆盖进程退出函数，用于测试 RecoverMain
	Exit func(code int)
}
