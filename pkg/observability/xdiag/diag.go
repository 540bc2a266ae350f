package xdiag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/omeyang/xdiag/pkg/config/xconf"
	"github.com/omeyang/xdiag/pkg/observability/xalert"
	"github.com/omeyang/xdiag/pkg/observability/xcaller"
	"github.com/omeyang/xdiag/pkg/observability/xhook"
	"github.com/omeyang/xdiag/pkg/observability/xlog"
	"github.com/omeyang/xdiag/pkg/observability/xpolicy"
	"github.com/omeyang/xdiag/pkg/observability/xremote"
	"github.com/omeyang/xdiag/pkg/observability/xrotate"
	"github.com/omeyang/xdiag/pkg/util/xproc"
)

// Diag 已初始化的诊断日志子系统
type Diag struct {
	logger   xlog.LoggerWithLevel
	engine   *xpolicy.Engine
	router   *xhook.Router
	store    *xconf.Store
	resolver *xcaller.Resolver
	watcher  *xconf.Watcher
	logFile  string
	runID    string

	closers []func() error
	mu      sync.Mutex
	closed  bool
}

// Initialize 组装并安装诊断日志子系统，见包文档。
//
// 日志文件打不开不是错误：输出降级为丢弃并记录一条 ERROR。
// 只有 Logger 构建失败或故障钩子安装失败才返回错误。
func Initialize(ctx context.Context, opts Options) (*Diag, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = xconf.NewStore(nil)
	}
	d := &Diag{store: store, runID: uuid.NewString(), resolver: resolverFor(opts, store)}

	alerter := opts.Alerter
	if alerter == nil {
		alerter = xalert.New()
	}
	b := xlog.New().
		SetLevel(xpolicy.InitialLevel(opts.Args)).
		SetSecure(opts.Args.Secure).
		SetViewer(opts.Viewer).
		SetBasePath(opts.BasePath).
		SetResolver(d.resolver).
		SetExternalGate(store.ExternalDependencies)
	// 远程进程只转发记录，由宿主负责提示音
	if opts.Remote == nil {
		b.SetAlerter(alerter, func() bool {
			return xalert.ShouldPlayErrorSound(opts.TestBuild, store.PlayErrorSound())
		})
	}

	var openErr error
	switch {
	case opts.Remote != nil:
		remote := append([]xremote.Option{
			xremote.WithBasePath(opts.BasePath),
			xremote.WithResolver(d.resolver),
		}, opts.RemoteOptions...)
		b.SetHandlerFactory(xremote.Factory(opts.Remote, remote...))
	case xpolicy.ShouldDisableLogging(opts.Args):
		b.SetOutput(io.Discard)
	default:
		path := logFilePath(opts)
		rotOpts := opts.RotateOptions
		// 备份失败不影响启动，但本次运行从空文件开始
		if _, err := xrotate.BackupPrevious(path); err != nil {
			rotOpts = append(slices.Clone(rotOpts), xrotate.WithTruncate(true))
		}
		rot, err := xrotate.NewLumberjack(path, rotOpts...)
		if err != nil {
			openErr = fmt.Errorf("open log file %s: %w", path, err)
			b.SetOutput(io.Discard)
			break
		}
		d.logFile = rot.Path()
		d.closers = append(d.closers, rot.Close)
		b.SetOutput(rot)
	}

	logger, cleanup, err := b.Build()
	if err != nil {
		_ = d.runClosers()
		return nil, fmt.Errorf("xdiag: build logger: %w", err)
	}
	d.closers = append(d.closers, cleanup)
	d.logger = logger
	xlog.SetDefault(logger)

	if openErr != nil {
		logger.Error(ctx, "failed to open log file, falling back to discard", slog.Any("error", openErr))
	}

	d.engine = xpolicy.New(opts.Args, logger, logger)

	if err := d.installRouter(ctx, opts); err != nil {
		_ = d.runClosers()
		return nil, err
	}

	if err := d.engine.SetLevelFromConfig(ctx, store); err != nil {
		logger.Warning(ctx, "failed to save repaired logging level", slog.Any("error", err))
	}

	if opts.WatchConfig {
		d.watchConfig(ctx)
	}

	logger.Info(ctx, "diagnostic logging started",
		slog.String(xlog.KeyRunID, d.runID),
		slog.String("level", logger.GetLevel().String()),
		slog.Bool("forced", d.engine.Forced()),
		slog.String("process", xproc.ProcessName()),
		slog.Int("pid", xproc.ProcessID()),
	)
	return d, nil
}

// resolverFor 返回 codepath 解析器，并设置配置目录
func resolverFor(opts Options, store *xconf.Store) *xcaller.Resolver {
	r := opts.Resolver
	if r == nil {
		r = xcaller.NewResolver()
	}
	switch {
	case opts.ConfigDir != "":
		r.SetConfigDir(opts.ConfigDir)
	case r.ConfigDir() == "":
		if path := store.Config().Path(); path != "" {
			r.SetConfigDir(filepath.Dir(path))
		}
	}
	return r
}

func logFilePath(opts Options) string {
	if opts.Args.LogFileName != "" {
		return opts.Args.LogFileName
	}
	dir := opts.LogDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, DefaultLogFileName)
}

// installRouter 安装故障钩子。崩溃输出文件设置失败时不带它重试一次。
func (d *Diag) installRouter(ctx context.Context, opts Options) error {
	hookOpts := []xhook.Option{
		xhook.WithStdStreams(opts.StdStreams),
		xhook.WithResolver(d.resolver),
	}
	if opts.Exit != nil {
		hookOpts = append(hookOpts, xhook.WithExit(opts.Exit))
	}

	if d.logFile != "" {
		r, err := xhook.New(d.logger, append(hookOpts, xhook.WithCrashOutput(d.logFile))...)
		if err != nil {
			return fmt.Errorf("xdiag: create router: %w", err)
		}
		if err = r.Install(); err == nil {
			d.router = r
			return nil
		}
		d.logger.Warning(ctx, "crash output unavailable", slog.Any("error", err))
	}

	r, err := xhook.New(d.logger, hookOpts...)
	if err != nil {
		return fmt.Errorf("xdiag: create router: %w", err)
	}
	if err := r.Install(); err != nil {
		return fmt.Errorf("xdiag: install router: %w", err)
	}
	d.router = r
	return nil
}

// watchConfig 配置文件变化后重新应用级别；内存配置不监听
func (d *Diag) watchConfig(ctx context.Context) {
	w, err := xconf.Watch(d.store.Config(), func(_ xconf.Config, err error) {
		if err != nil {
			d.logger.Warning(ctx, "failed to reload configuration", slog.Any("error", err))
			return
		}
		if err := d.engine.SetLevelFromConfig(ctx, d.store); err != nil {
			d.logger.Warning(ctx, "failed to save repaired logging level", slog.Any("error", err))
		}
	})
	if err != nil {
		if !errors.Is(err, xconf.ErrNotPersistent) {
			d.logger.Warning(ctx, "configuration watch unavailable", slog.Any("error", err))
		}
		return
	}
	d.watcher = w
}

// Logger 返回全局日志门面
func (d *Diag) Logger() xlog.LoggerWithLevel { return d.logger }

// Engine 返回级别策略
func (d *Diag) Engine() *xpolicy.Engine { return d.engine }

// Router 返回已安装的故障钩子
func (d *Diag) Router() *xhook.Router { return d.router }

// Resolver 返回 codepath 解析器
func (d *Diag) Resolver() *xcaller.Resolver { return d.resolver }

// Store 返回持久化配置
func (d *Diag) Store() *xconf.Store { return d.store }

// LogFile 返回日志文件路径；远程、关闭或降级时为空
func (d *Diag) LogFile() string { return d.logFile }

// RunID 返回本次运行的标识，写在启动记录中
func (d *Diag) RunID() string { return d.runID }

// Close 停止配置监听、撤销故障钩子并关闭日志文件。重复调用返回 ErrClosed。
func (d *Diag) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.closed = true

	var errs []error
	if d.watcher != nil {
		errs = append(errs, d.watcher.Stop())
	}
	if d.router != nil {
		d.router.Restore()
	}
	errs = append(errs, d.runClosers())
	return errors.Join(errs...)
}

// runClosers 逆序关闭资源
func (d *Diag) runClosers() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	d.closers = nil
	return errors.Join(errs...)
}
