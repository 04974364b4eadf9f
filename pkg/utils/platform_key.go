package utils

import (
	"os"
	"runtime"
)

// MobileKey 移动平台的通用标识
const MobileKey = "mobile"

// PlatformKey 返回 "GOOS/GOARCH" 形式的平台标识
func PlatformKey() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// PlatformKeys 返回用于匹配平台缺陷列表的全部标识
// 移动端额外包含 "mobile"
func PlatformKeys() []string {
	keys := []string{PlatformKey()}
	if IsMobile() {
		keys = append(keys, MobileKey)
	}
	return keys
}

// HasDisplay 粗略判断是否有可用的图形环境
// Linux/BSD 下需要 DISPLAY 或 WAYLAND_DISPLAY，其他系统默认可用
func HasDisplay() bool {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
	return true
}
