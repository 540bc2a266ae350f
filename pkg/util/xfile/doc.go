// Package xfile 提供诊断日志子系统使用的文件路径工具。
//
// # 路径校验
//
//   - SanitizePath: 检查路径格式，拒绝空路径、空字节、目录路径和相对路径穿越
//   - EnsureDir: 确保文件的父目录存在
//
// # 路径关系
//
//   - IsWithin: 判断路径是否位于某个目录之内，用于区分应用自身代码与外部代码
//   - TrimBase: 去掉源码根目录前缀，让堆栈和调用点更易读
//   - BackupName: 计算上一次运行日志的备份文件名（"-old" 后缀）
//
// # 错误处理
//
// 预定义错误变量支持 [errors.Is] 判断：
//
//	_, err := xfile.SanitizePath("../etc/passwd")
//	if errors.Is(err, xfile.ErrPathTraversal) {
//	    // 处理路径穿越
//	}
package xfile
