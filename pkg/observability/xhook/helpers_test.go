package xhook_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xdiag/pkg/observability/xhook"
	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

// captureSink 记录收到的事件
type captureSink struct {
	mu     sync.Mutex
	events []xhook.Event
	notify chan struct{}
}

func newCaptureSink() *captureSink {
	return &captureSink{notify: make(chan struct{}, 64)}
}

func (s *captureSink) Report(_ context.Context, ev xhook.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *captureSink) all() []xhook.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]xhook.Event(nil), s.events...)
}

// wait 等待至少 n 个事件
func (s *captureSink) wait(t *testing.T, n int) []xhook.Event {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		if evs := s.all(); len(evs) >= n {
			return evs
		}
		select {
		case <-s.notify:
		case <-deadline:
			t.Fatalf("timed out waiting for %d events, got %d", n, len(s.all()))
		}
	}
}

type exitRecorder struct {
	mu    sync.Mutex
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.mu.Lock()
	e.codes = append(e.codes, code)
	e.mu.Unlock()
}

// syncBuffer 并发安全的 bytes.Buffer
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newLogger(t *testing.T, level xlog.Level) (xlog.LoggerWithLevel, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	logger, _, err := xlog.New().SetOutput(buf).SetLevel(level).Build()
	require.NoError(t, err)
	return logger, buf
}

func newRouter(t *testing.T, opts ...xhook.Option) (*xhook.Router, *captureSink, *exitRecorder) {
	t.Helper()
	logger, _ := newLogger(t, xlog.LevelIO)
	sink := newCaptureSink()
	exits := &exitRecorder{}
	opts = append([]xhook.Option{xhook.WithSinks(sink), xhook.WithExit(exits.exit)}, opts...)
	r, err := xhook.New(logger, opts...)
	require.NoError(t, err)
	return r, sink, exits
}
