package xrotate

import (
	"errors"
	"io/fs"
	"os"

	"github.com/omeyang/xdiag/pkg/util/xfile"
)

// BackupPrevious 把上一次运行留下的日志文件改名为 "<base>-old<ext>"，覆盖更早的备份。
//
// 返回备份文件路径。当前文件不存在时返回 ("", nil)。
// 这是尽力而为的操作：调用方通常忽略错误继续启动。
func BackupPrevious(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyFilename
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	old := xfile.BackupName(path)
	if err := os.Remove(old); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if err := os.Rename(path, old); err != nil {
		return "", err
	}
	return old, nil
}
