//go:build !mobile

// Package mobile 的桌面端占位
//
// 绑定代码和资源嵌入只在 -tags mobile 时编译，
// 普通的 go build ./... 只看到这个文件。
package mobile

// Dummy 保证包在桌面端也有导出符号
func Dummy() {}
