// Package xrotate 提供诊断日志文件的输出目标。
//
// [NewLumberjack] 基于 lumberjack v2 按大小轮转，返回的 Rotator 带有 Path 方法，
// 可作为 xlog 的文件目标并支持日志片段读取。创建时会以追加方式探测文件是否可写。
//
// [BackupPrevious] 在启动时把上一次运行的日志改名为固定的 "-old" 备份。
package xrotate
