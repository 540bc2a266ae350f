package xconf

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce 连续变更合并为一次重载的窗口
const defaultDebounce = 100 * time.Millisecond

// WatchCallback 配置文件变更后调用，err 非 nil 表示重载或监视失败（旧配置保留）。
type WatchCallback func(cfg Config, err error)

// WatchOption 监视器配置选项
type WatchOption func(*Watcher)

// WithDebounce 设置防抖时间，d <= 0 时使用默认值。
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher 监视配置文件所在目录，目标文件变化时重载配置并回调。
//
// 监视目录而非文件本身：编辑器与 Save 都会以 rename 方式替换文件。
type Watcher struct {
	cfg      Config
	fs       *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// Watch 创建并启动监视器。调用方负责 Stop。
func Watch(cfg Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if cfg == nil || cfg.Path() == "" {
		return nil, ErrNotPersistent
	}

	w := &Watcher{
		cfg:      cfg,
		callback: callback,
		debounce: defaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: failed to create watcher: %w", err)
	}
	dir := filepath.Dir(cfg.Path())
	if err := fsWatcher.Add(dir); err != nil {
		return nil, errors.Join(
			fmt.Errorf("xconf: failed to watch directory %s: %w", dir, err),
			fsWatcher.Close(),
		)
	}
	w.fs = fsWatcher

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Stop 停止监视。返回后不会再有回调开始执行；可重复调用。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.done)
	w.mu.Unlock()

	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	filename := filepath.Base(w.cfg.Path())

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			// Write: 原地修改；Create/Rename: 原子替换
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.notify(fmt.Errorf("xconf: watch error: %w", err))
		}
	}
}

// schedule 重置防抖定时器
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.notify(w.cfg.Reload())
	})
}

func (w *Watcher) notify(err error) {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped || w.callback == nil {
		return
	}
	w.callback(w.cfg, err)
}
