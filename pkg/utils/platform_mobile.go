//go:build mobile

package utils

// IsMobile 在 -tags mobile 构建中恒为 true
// PlatformKeys 会因此带上 MobileKey，自动调度据此避开垂直同步
func IsMobile() bool {
	return true
}
