// Package xcaller 把调用点解析为可读的 codepath：[external:]module[.Type].function。
//
// # 解析规则
//
//   - module：应用模块内的包取相对导入路径并把 "/" 换成 "."，其他包保留完整导入路径
//   - Type：仅当函数符号本身是方法时取其接收者类型；普通函数即使第一个参数是对象也不带类型段
//   - function：闭包归属到外层命名函数，包级变量初始化闭包的函数段为空
//
// 提升方法（嵌入类型的方法）归属到真正定义它的类型，即最浅的定义者。
//
// # external 前缀
//
// 源文件位于应用根目录之外，或位于用户可写的配置目录内时，codepath 带 "external:" 前缀。
// 使用 -trimpath 构建时文件路径是模块相对路径，此时按导入路径是否属于应用模块判断。
//
// # 显式调用上下文
//
// 入口代码可以用 [WithSite] 把调用点放进 context，日志门面会优先使用它而不是遍历堆栈。
// [RegisterModule] 与 [RegisterType] 允许用显式元数据覆盖显示名称。
package xcaller
