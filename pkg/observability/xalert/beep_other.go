//go:build !windows

package xalert

import "io"

func platformBeep(out io.Writer) {
	writeBell(out)
}
