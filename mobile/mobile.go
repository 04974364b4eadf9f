//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译。构建前需要先把根目录的
// assets/ 和 data/ 复制到本目录（见 embed.go）：
//
//	cp -r assets data mobile/
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.junglerun -o build/android/junglerun.aar -v ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/JungleRun.xcframework -v ./mobile
package mobile

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2/mobile"
	"github.com/rs/zerolog/log"

	"github.com/decker502/junglerun/pkg/app"
	"github.com/decker502/junglerun/pkg/embedded"
)

func init() {
	// assetsFS 和 dataFS 在 embed.go 中声明
	embedded.Init(assetsFS, dataFS)

	// 移动端由宿主驱动帧循环，只能使用窗口后端
	gameApp, err := app.NewApp(app.Config{Backend: app.BackendEbiten})
	if err != nil {
		log.Fatal().Err(err).Msg("游戏初始化失败")
	}
	if err := gameApp.Prepare(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("资源加载失败")
	}

	game, err := gameApp.Game()
	if err != nil {
		log.Fatal().Err(err).Msg("游戏初始化失败")
	}

	// 注册游戏到 ebitenmobile
	mobile.SetGame(game)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
