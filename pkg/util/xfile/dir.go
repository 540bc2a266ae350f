package xfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDirPerm 默认目录权限（所有者 rwx，组 r-x，其他无权限）。
const DefaultDirPerm = 0750

// EnsureDir 确保文件的父目录存在，使用 [DefaultDirPerm] 创建。
// 目录已存在时不报错。
func EnsureDir(filename string) error {
	return EnsureDirWithPerm(filename, DefaultDirPerm)
}

// EnsureDirWithPerm 确保文件的父目录存在，使用指定权限。
//
// perm 必须包含所有者执行位（0100），否则目录无法遍历。
// 目录已存在时不会修改其权限。
func EnsureDirWithPerm(filename string, perm os.FileMode) error {
	if filename == "" {
		return fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if containsNullByte(filename) {
		return fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}
	if perm&0100 == 0 {
		return fmt.Errorf("directory permission %04o missing owner execute bit: %w", perm, ErrInvalidPerm)
	}
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// BackupName 返回 path 对应的"上一次运行"备份文件名：<base>-old<ext>。
//
//	BackupName("/tmp/xdiag.log") // "/tmp/xdiag-old.log"
//	BackupName("trace")          // "trace-old"
func BackupName(path string) string {
	ext := filepath.Ext(path)
	if ext == filepath.Base(path) {
		// ".log" 这类隐藏文件没有主干，整体作为主干处理
		ext = ""
	}
	return path[:len(path)-len(ext)] + "-old" + ext
}
