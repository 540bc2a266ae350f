package xalert

import (
	"sync"
)

// Action 一个可注册多个监听者的扩展点。
//
// 监听者在 Notify 的调用方之外执行，单个监听者 panic 不影响其他监听者。
type Action struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[uint64]func()
	order    []uint64
	wg       sync.WaitGroup
}

// NewAction 创建空的扩展点
func NewAction() *Action {
	return &Action{handlers: make(map[uint64]func())}
}

// Register 注册监听者，返回注销函数。fn 为 nil 时忽略。
func (a *Action) Register(fn func()) (unregister func()) {
	if fn == nil {
		return func() {}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	a.handlers[id] = fn
	a.order = append(a.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { a.remove(id) })
	}
}

func (a *Action) remove(id uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.handlers, id)
	for i, v := range a.order {
		if v == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Len 返回已注册的监听者数量
func (a *Action) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.handlers)
}

// Notify 按注册顺序在后台调用全部监听者后立即返回。
func (a *Action) Notify() {
	a.mu.RLock()
	fns := make([]func(), 0, len(a.order))
	for _, id := range a.order {
		fns = append(fns, a.handlers[id])
	}
	a.mu.RUnlock()
	if len(fns) == 0 {
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for _, fn := range fns {
			safeCall(fn)
		}
	}()
}

// Wait 等待所有已发出的通知执行完毕
func (a *Action) Wait() {
	a.wg.Wait()
}

func safeCall(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
