package xdiag_test

import (
	"context"
	"fmt"
	"os"

	"github.com/omeyang/xdiag/pkg/observability/xdiag"
	"github.com/omeyang/xdiag/pkg/observability/xpolicy"
)

func ExampleInitialize() {
	dir, err := os.MkdirTemp("", "xdiag-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	d, err := xdiag.Initialize(context.Background(), xdiag.Options{
		Args:   xpolicy.LaunchArgs{DebugLogging: true},
		LogDir: dir,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer d.Close()

	fmt.Println(d.Logger().GetLevel(), d.Engine().Forced())
	// Output:
	// DEBUG true
}
