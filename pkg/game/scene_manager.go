package game

import (
	"errors"
	"fmt"

	"github.com/decker502/junglerun/pkg/render"
	"github.com/rs/zerolog/log"
)

// ErrNoSceneFactory 未设置场景工厂时加载关卡
var ErrNoSceneFactory = errors.New("scene factory not set")

// SceneFactory 场景工厂函数类型
// 用于创建指定ID的关卡场景，避免循环依赖
type SceneFactory func(levelID string) (Scene, error)

// SceneManager controls which scene is active.
// It ensures only one scene's Update and Draw methods are called per tick.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager creates a manager with no active scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// LoadLevel 通过工厂创建关卡场景并切换过去
// 创建失败时保留当前场景
func (sm *SceneManager) LoadLevel(levelID string) error {
	logger := log.With().Str("component", "SceneManager").Logger()
	logger.Info().Str("level", levelID).Msg("加载关卡")

	if sm.sceneFactory == nil {
		return ErrNoSceneFactory
	}

	scene, err := sm.sceneFactory(levelID)
	if err != nil {
		return fmt.Errorf("failed to create scene for level %s: %w", levelID, err)
	}
	sm.SwitchTo(scene)
	logger.Info().Str("level", levelID).Msg("成功切换到关卡")
	return nil
}

// Update updates the active scene. Does nothing without one.
func (sm *SceneManager) Update(durationMs float64) error {
	if sm.currentScene == nil {
		return nil
	}
	return sm.currentScene.Update(durationMs)
}

// Draw renders the active scene. Does nothing without one.
func (sm *SceneManager) Draw(surface render.Surface) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(surface)
	}
}
