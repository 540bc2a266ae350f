package xlog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xdiag/pkg/observability/xlog"
)

func newFileLogger(t *testing.T, secure bool) xlog.LoggerWithLevel {
	t.Helper()
	logger, cleanup, err := xlog.New().
		SetRotation(filepath.Join(t.TempDir(), "xdiag.log")).
		SetSecure(secure).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return logger
}

func TestFragmentRoundTrip(t *testing.T) {
	logger := newFileLogger(t, false)
	ctx := context.Background()

	logger.Info(ctx, "before")
	require.True(t, logger.MarkFragmentStart())
	logger.Info(ctx, "inside")

	text, ok := logger.Fragment()
	require.True(t, ok)
	assert.Contains(t, text, "inside")
	assert.NotContains(t, text, "before")

	// 读到内容后标记被清除
	_, ok = logger.Fragment()
	assert.False(t, ok)
}

func TestFragmentIndependentWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xdiag.log")
	logger, cleanup, err := xlog.New().SetRotation(path).Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	logger.Info(context.Background(), "startup")
	require.True(t, logger.MarkFragmentStart())

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o600)
	require.NoError(t, err)
	const appended = "external line 1\nexternal line 2\n"
	_, err = f.WriteString(appended)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	text, ok := logger.Fragment()
	require.True(t, ok)
	assert.Equal(t, appended, text)

	text, ok = logger.Fragment()
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestFragmentEmptyKeepsMark(t *testing.T) {
	logger := newFileLogger(t, false)
	ctx := context.Background()

	require.True(t, logger.MarkFragmentStart())
	text, ok := logger.Fragment()
	require.True(t, ok)
	assert.Empty(t, text)

	logger.Warning(ctx, "late")
	text, ok = logger.Fragment()
	require.True(t, ok)
	assert.Contains(t, text, "late")
}

func TestFragmentWithoutMark(t *testing.T) {
	logger := newFileLogger(t, false)
	_, ok := logger.Fragment()
	assert.False(t, ok)
}

func TestFragmentSharedByDerived(t *testing.T) {
	logger := newFileLogger(t, false)
	child := logger.With(xlog.Component("child"))

	require.True(t, logger.MarkFragmentStart())
	child.Info(context.Background(), "from child")
	text, ok := child.Fragment()
	require.True(t, ok)
	assert.Contains(t, text, "from child component=child")
}

func TestFragmentUnavailable(t *testing.T) {
	secure := newFileLogger(t, true)
	assert.False(t, secure.MarkFragmentStart())
	_, ok := secure.Fragment()
	assert.False(t, ok)

	plain, _ := newTestLogger(t, xlog.LevelInfo)
	assert.False(t, plain.MarkFragmentStart())
}
