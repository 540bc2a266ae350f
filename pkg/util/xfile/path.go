package xfile

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// containsNullByte 检测路径是否包含空字节。
func containsNullByte(path string) bool {
	return strings.ContainsRune(path, 0)
}

// hasDotDotSegment 检测路径中是否包含 ".." 作为独立路径段。
// 同时将 '/' 和 '\' 视为分隔符，"app..2024.log" 这样的文件名不会被误判。
func hasDotDotSegment(path string) bool {
	i := 0
	for i < len(path) {
		if path[i] == '/' || path[i] == '\\' {
			i++
			continue
		}
		j := i
		for j < len(path) && path[j] != '/' && path[j] != '\\' {
			j++
		}
		if j-i == 2 && path[i] == '.' && path[i+1] == '.' {
			return true
		}
		i = j
	}
	return false
}

// SanitizePath 对文件路径进行格式检查和规范化。
//
// 拒绝空路径、空字节、显式目录路径（尾随 "/" 或 "\"）以及规范化后
// 仍含 ".." 段的相对路径。绝对路径中的 ".." 由 filepath.Clean 正常解析。
func SanitizePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if containsNullByte(filename) {
		return "", fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}
	// Clean 会移除尾部斜杠，必须先检查
	if strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, "\\") {
		return "", fmt.Errorf("path is a directory: %w", ErrInvalidPath)
	}
	cleaned := filepath.Clean(filename)
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("path traversal in filename: %w", ErrPathTraversal)
	}
	base := filepath.Base(cleaned)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("no file name specified: %w", ErrInvalidPath)
	}
	return cleaned, nil
}

// IsWithin 报告 path 是否位于目录 root 之内（包括 root 本身）。
//
// 两者都按词法规范化后比较，不解析符号链接；Windows 上忽略大小写。
// root 为空时总是返回 false。
func IsWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if runtime.GOOS == "windows" {
		root = strings.ToLower(root)
		path = strings.ToLower(path)
	}
	if root == path {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// TrimBase 去掉 path 中的 base 前缀及其后的分隔符；path 不在 base 内时原样返回。
// 用于在日志中显示相对源码路径。
func TrimBase(base, path string) string {
	if base == "" || !IsWithin(base, path) {
		return path
	}
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(path))
	if err != nil {
		return path
	}
	return rel
}
