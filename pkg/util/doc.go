// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfile: 文件操作工具，目录创建、路径规范化、源码根目录裁剪、备份文件名
//   - xproc: 进程信息查询，PID 和进程名称
//
// 设计原则：
//   - 安全处理路径遍历
//   - 跨平台兼容
package util
