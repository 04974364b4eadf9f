// check_resources 校验磁盘上的资源树和配置文件
//
// 解码资源表中的每一张图片并打印 MD5，随后加载游戏配置和关卡，
// 确认所有平台都落在合法轨道上。任何一项失败时以非零状态退出。
//
// 用法（在项目根目录）：
//
//	go run ./cmd/check_resources
//	go run ./cmd/check_resources --root . --config data/game.yaml
package main

import (
	"crypto/md5"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/decker502/junglerun/pkg/config"
	"github.com/decker502/junglerun/pkg/entities"
	"github.com/decker502/junglerun/pkg/game"
)

func main() {
	root := flag.String("root", ".", "Project root containing assets/ and data/")
	configPath := flag.String("config", "data/game.yaml", "Game config, relative to root")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	fsys := os.DirFS(*root)
	failed := false

	cfgData, err := fs.ReadFile(fsys, *configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("读取游戏配置失败")
	}
	cfg, err := config.ParseGameConfig(cfgData)
	if err != nil {
		log.Fatal().Err(err).Msg("游戏配置无效")
	}

	if !checkImages(fsys, cfg.Assets.ResourceConfig) {
		failed = true
	}
	if !checkLevel(fsys, cfg) {
		failed = true
	}

	if failed {
		os.Exit(1)
	}
	log.Info().Msg("✅ 所有资源检查通过")
}

// checkImages 解码资源表中的所有图片
func checkImages(fsys fs.FS, resourceConfig string) bool {
	data, err := fs.ReadFile(fsys, resourceConfig)
	if err != nil {
		log.Error().Err(err).Msg("读取资源表失败")
		return false
	}
	var rc game.ResourceConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		log.Error().Err(err).Msg("解析资源表失败")
		return false
	}

	rm := game.NewResourceManager(fsys)
	if err := rm.LoadResourceConfig(resourceConfig); err != nil {
		log.Error().Err(err).Msg("加载资源表失败")
		return false
	}

	ok := true
	for _, group := range rc.GroupNames() {
		if err := rm.LoadResourceGroup(group); err != nil {
			log.Error().Err(err).Str("group", group).Msg("资源组加载失败")
			ok = false
		}
		for _, res := range rc.Groups[group].Images {
			p, err := rm.ResolvePath(res.ID)
			if err != nil {
				log.Error().Err(err).Str("id", res.ID).Msg("无法解析路径")
				ok = false
				continue
			}
			img := rm.GetImageByID(res.ID)
			if img == nil {
				_, err := rm.LoadImageByID(res.ID)
				log.Error().Err(err).Str("id", res.ID).Str("path", p).Msg("图片解码失败")
				ok = false
				continue
			}
			raw, _ := fs.ReadFile(fsys, path.Clean(p))
			b := img.Bounds()
			log.Info().
				Str("group", group).
				Str("id", res.ID).
				Str("md5", md5Hex(raw)).
				Int("width", b.Dx()).
				Int("height", b.Dy()).
				Msg("image ok")
		}
	}
	return ok
}

// checkLevel 加载关卡并构建平台
func checkLevel(fsys fs.FS, cfg *config.GameConfig) bool {
	data, err := fs.ReadFile(fsys, cfg.Level)
	if err != nil {
		log.Error().Err(err).Str("level", cfg.Level).Msg("读取关卡失败")
		return false
	}
	level, err := config.ParseLevelConfig(data)
	if err != nil {
		log.Error().Err(err).Str("level", cfg.Level).Msg("关卡配置无效")
		return false
	}
	platforms, err := entities.NewPlatforms(level, cfg)
	if err != nil {
		log.Error().Err(err).Str("level", cfg.Level).Msg("平台构建失败")
		return false
	}
	log.Info().Str("level", level.ID).Int("platforms", len(platforms)).Msg("level ok")
	return true
}

func md5Hex(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}
