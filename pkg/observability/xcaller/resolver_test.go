package xcaller_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xdiag/pkg/observability/xcaller"
)

const testModule = "pkg.observability.xcaller_test"

type widget struct{ r *xcaller.Resolver }

func (w *widget) Method() xcaller.Site { return w.r.Caller(0) }

func (w widget) ValueMethod() xcaller.Site { return w.r.Caller(0) }

func (w *widget) Closure() xcaller.Site {
	get := func() xcaller.Site { return w.r.Caller(0) }
	return get()
}

// freeWithReceiver 的第一个参数是对象，但它不是方法。
func freeWithReceiver(w *widget) xcaller.Site { return w.r.Caller(0) }

type base struct{ r *xcaller.Resolver }

func (b *base) Shared() xcaller.Site { return b.r.Caller(0) }

type derived struct{ *base }

type sharer interface{ Shared() xcaller.Site }

func TestResolverCaller(t *testing.T) {
	r := xcaller.NewResolver()
	w := &widget{r: r}
	d := derived{base: &base{r: r}}

	tests := []struct {
		name string
		site xcaller.Site
		want string
	}{
		{name: "指针接收者方法", site: w.Method(), want: testModule + ".widget.Method"},
		{name: "值接收者方法", site: w.ValueMethod(), want: testModule + ".widget.ValueMethod"},
		{name: "闭包归属外层方法", site: w.Closure(), want: testModule + ".widget.Closure"},
		{name: "普通函数不带类型段", site: freeWithReceiver(w), want: testModule + ".freeWithReceiver"},
		{name: "提升方法归属定义者", site: d.Shared(), want: testModule + ".base.Shared"},
		{name: "接口调用跳过包装帧", site: sharer(d).Shared(), want: testModule + ".base.Shared"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.site.Codepath())
			assert.False(t, tt.site.External)
			assert.Equal(t, "resolver_test.go", filepath.Base(tt.site.File))
		})
	}
}

func helper(r *xcaller.Resolver) xcaller.Site { return r.Caller(1) }

func TestResolverCaller_Skip(t *testing.T) {
	site := helper(xcaller.NewResolver())
	assert.Equal(t, testModule+".TestResolverCaller_Skip", site.Codepath())
}

func TestResolverFromPC(t *testing.T) {
	r := xcaller.NewResolver()
	var pcs [1]uintptr
	runtime.Callers(1, pcs[:])
	assert.Equal(t, testModule+".TestResolverFromPC", r.FromPC(pcs[0]).Codepath())
	assert.True(t, r.FromPC(0).IsZero())
}

func TestResolverFromFrame_StdlibIsExternal(t *testing.T) {
	r := xcaller.NewResolver()
	site := r.FromFrame(runtime.Frame{
		Function: "net/http.(*conn).serve",
		File:     "/usr/local/go/src/net/http/server.go",
		Line:     2000,
	})
	assert.Equal(t, "external:net/http.conn.serve", site.Codepath())
}

func TestResolverFromFrame_NoSymbol(t *testing.T) {
	r := xcaller.NewResolver(xcaller.WithAppRoot(t.TempDir()))
	site := r.FromFrame(runtime.Frame{File: "/somewhere/plugin.go"})
	assert.Equal(t, "external:/somewhere/plugin.go", site.Codepath())
}

func TestResolverIsExternal(t *testing.T) {
	root := t.TempDir()
	configDir := filepath.Join(root, "userconfig")
	require.NoError(t, os.MkdirAll(configDir, 0o750))

	r := xcaller.NewResolver(
		xcaller.WithAppModule("example.com/app"),
		xcaller.WithAppRoot(root),
		xcaller.WithConfigDir(configDir),
	)

	assert.False(t, r.IsExternal(filepath.Join(root, "pkg", "a.go")))
	assert.True(t, r.IsExternal(filepath.Join(filepath.Dir(root), "other", "b.go")))
	assert.True(t, r.IsExternal(filepath.Join(configDir, "addons", "c.go")))
	assert.False(t, r.IsExternal("example.com/app/pkg/a.go"), "trimpath 模块内文件")
	assert.True(t, r.IsExternal("golang.org/x/sync@v0.19.0/errgroup/errgroup.go"), "trimpath 依赖文件")
	assert.False(t, r.IsExternal(""))

	r.SetConfigDir("")
	assert.False(t, r.IsExternal(filepath.Join(configDir, "addons", "c.go")))
}

func TestResolverModuleNames(t *testing.T) {
	r := xcaller.NewResolver(xcaller.WithAppModule("example.com/app"), xcaller.WithAppRoot("/"))
	tests := []struct {
		fn   string
		want string
	}{
		{fn: "example.com/app/internal/speech.(*Synth).Speak", want: "internal.speech.Synth.Speak"},
		{fn: "example.com/app.Run", want: "app.Run"},
		{fn: "main.main", want: "main.main"},
		{fn: "example.com/other/pkg.Do", want: "example.com/other/pkg.Do"},
	}
	for _, tt := range tests {
		site := r.FromFrame(runtime.Frame{Function: tt.fn, File: "/src/x.go"})
		assert.Equal(t, tt.want, site.Codepath(), tt.fn)
	}
}

type registered struct{}

func TestRegister(t *testing.T) {
	r := xcaller.NewResolver(xcaller.WithAppModule("example.com/app"), xcaller.WithAppRoot("/"))
	xcaller.RegisterModule("example.com/app/internal/speech", "speech")
	xcaller.RegisterType[*registered]("Registered")
	t.Cleanup(func() {
		xcaller.RegisterModule("example.com/app/internal/speech", "")
		xcaller.RegisterType[registered]("")
	})

	site := r.FromFrame(runtime.Frame{Function: "example.com/app/internal/speech.Speak", File: "/src/x.go"})
	assert.Equal(t, "speech.Speak", site.Codepath())

	site = r.FromFrame(runtime.Frame{
		Function: "github.com/omeyang/xdiag/pkg/observability/xcaller_test.(*registered).Do",
		File:     "/src/x.go",
	})
	assert.Equal(t, "Registered", site.Type)
}

func TestSiteCodepath(t *testing.T) {
	tests := []struct {
		site xcaller.Site
		want string
	}{
		{site: xcaller.Site{Module: "speech", Type: "Synth", Function: "Speak"}, want: "speech.Synth.Speak"},
		{site: xcaller.Site{Module: "speech", Function: "Speak"}, want: "speech.Speak"},
		{site: xcaller.Site{Module: "speech"}, want: "speech"},
		{site: xcaller.Site{Module: "addon", Function: "Run", External: true}, want: "external:addon.Run"},
		{site: xcaller.Site{}, want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.site.Codepath())
		assert.Equal(t, tt.want, tt.site.String())
	}
}

func TestWithSite(t *testing.T) {
	_, ok := xcaller.SiteFrom(context.Background())
	assert.False(t, ok)

	want := xcaller.Site{Module: "speech", Function: "Speak"}
	got, ok := xcaller.SiteFrom(xcaller.WithSite(context.Background(), want))
	require.True(t, ok)
	assert.Equal(t, want, got)

	_, ok = xcaller.SiteFrom(xcaller.WithSite(context.Background(), xcaller.Site{}))
	assert.False(t, ok, "空调用点视为未设置")
}

func TestDefault(t *testing.T) {
	r := xcaller.Default()
	assert.Same(t, r, xcaller.Default())
	assert.Equal(t, "github.com/omeyang/xdiag", r.AppModule())
}
