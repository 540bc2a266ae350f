package xfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// EnsureDir 单元测试
// =============================================================================

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
	}{
		{name: "创建单层目录", filename: filepath.Join(tmpDir, "newdir", "app.log")},
		{name: "创建多层目录", filename: filepath.Join(tmpDir, "a", "b", "c", "app.log")},
		{name: "目录已存在", filename: filepath.Join(tmpDir, "app.log")},
		{name: "当前目录文件", filename: "app.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := EnsureDir(tt.filename); err != nil {
				t.Fatalf("EnsureDir() 意外错误: %v", err)
			}
			info, err := os.Stat(filepath.Dir(tt.filename))
			if err != nil {
				t.Fatalf("目录未创建: %v", err)
			}
			if !info.IsDir() {
				t.Error("期望是目录")
			}
		})
	}
}

func TestEnsureDirWithPerm_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		perm     os.FileMode
		wantErr  error
	}{
		{name: "空路径", filename: "", perm: DefaultDirPerm, wantErr: ErrEmptyPath},
		{name: "空字节", filename: "a\x00/b.log", perm: DefaultDirPerm, wantErr: ErrNullByte},
		{name: "缺少执行位", filename: filepath.Join(t.TempDir(), "x", "b.log"), perm: 0600, wantErr: ErrInvalidPerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureDirWithPerm(tt.filename, tt.perm)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EnsureDirWithPerm() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackupName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: filepath.Join("tmp", "xdiag.log"), want: filepath.Join("tmp", "xdiag-old.log")},
		{in: "trace", want: "trace-old"},
		{in: "a.b.log", want: "a.b-old.log"},
		{in: ".log", want: ".log-old"},
	}
	for _, tt := range tests {
		if got := BackupName(tt.in); got != tt.want {
			t.Errorf("BackupName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
