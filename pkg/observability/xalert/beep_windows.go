//go:build windows

package xalert

import (
	"io"

	"golang.org/x/sys/windows"
)

// mbIconHand MB_ICONHAND，系统"严重停止"提示音
const mbIconHand = 0x10

var procMessageBeep = windows.NewLazySystemDLL("user32.dll").NewProc("MessageBeep")

// platformBeep 调用 MessageBeep；user32 不可用时退回到 BEL
func platformBeep(out io.Writer) {
	if err := procMessageBeep.Find(); err != nil {
		writeBell(out)
		return
	}
	_, _, _ = procMessageBeep.Call(mbIconHand)
}
