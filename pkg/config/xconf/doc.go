// Package xconf 基于 koanf 的配置加载、写回与热重载。
//
// # 配置实例
//
//   - [New]: 从文件加载，按扩展名识别 YAML（.yaml/.yml）或 JSON（.json）
//   - [Open]: 同 New，文件不存在时从空配置开始
//   - [NewFromBytes]: 纯内存配置，不支持 Save/Reload
//
// [Config.Set] 修改内存中的值，[Config.Save] 以"临时文件 + rename"写回，
// [Config.Reload] 解析失败时保留旧配置。Client() 返回当前快照，
// 重载后旧指针仍可用但数据过期，使用时每次重新获取。
//
// # 诊断日志配置
//
// [Store] 为日志子系统读写以下配置项：
//
//	general:
//	  loggingLevel: INFO            # IO/DEBUG/DEBUGWARNING/INFO/OFF
//	debugLog:
//	  externalDependencies: false   # 保留第三方库低于 WARNING 的记录
//	featureFlag:
//	  playErrorSound: 0             # 0 默认，1 开启，2 关闭
//
// # 热重载
//
// [Watch] 基于 fsnotify 监视配置文件所在目录，内置防抖，重载后回调。
// Stop() 返回后不再有回调开始执行。
package xconf
