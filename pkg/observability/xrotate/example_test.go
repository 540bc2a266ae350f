package xrotate_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/omeyang/xdiag/pkg/observability/xrotate"
)

func ExampleNewLumberjack() {
	dir, _ := os.MkdirTemp("", "xrotate")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "xdiag.log")
	_, _ = xrotate.BackupPrevious(path)

	r, err := xrotate.NewLumberjack(path, xrotate.WithMaxSize(10), xrotate.WithMaxBackups(1))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	fmt.Fprintln(r, "INFO - main (12:00:00.000) - main (1):")
	fmt.Println(filepath.Base(r.Path()))
	// Output: xdiag.log
}
