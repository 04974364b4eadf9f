package systems

import (
	"errors"
	"fmt"
	"math"

	"github.com/decker502/junglerun/pkg/config"
)

// ErrNegativeDuration 帧时长为负，时钟出现倒退
var ErrNegativeDuration = errors.New("negative frame duration")

// MotionState 每帧更新的滚动状态
// 只在帧回调中修改，由 Driver 持有
type MotionState struct {
	// BackgroundOffset 背景层累计位移，始终位于 [0, 背景宽度)
	BackgroundOffset float64
	// PlatformOffset 平台层累计位移，不重置
	PlatformOffset float64

	BackgroundVelocity float64
	PlatformVelocity   float64
}

// MotionSystem 根据帧时长推进各滚动层的位移。
// 位移只依赖速度和经过的时间，与帧率无关。
type MotionSystem struct {
	baseVelocity float64
	multiplier   float64
	wrapMode     string
	layerWidth   float64

	state MotionState
}

// NewMotionSystem 创建运动系统。
// layerWidth 为背景图层宽度，用于背景位移回绕。
func NewMotionSystem(motion config.MotionConfig, layerWidth float64) *MotionSystem {
	ms := &MotionSystem{
		baseVelocity: motion.BackgroundVelocity,
		multiplier:   motion.PlatformMultiplier,
		wrapMode:     motion.WrapMode,
		layerWidth:   layerWidth,
	}
	ms.UpdateVelocities()
	return ms
}

// State 返回当前状态的副本
func (ms *MotionSystem) State() MotionState {
	return ms.state
}

// SetBaseVelocity 修改基础滚动速度，下一帧生效
func (ms *MotionSystem) SetBaseVelocity(v float64) {
	ms.baseVelocity = v
}

// Update 按帧时长（毫秒）推进：先重算速度，再推进背景和平台。
func (ms *MotionSystem) Update(durationMs float64) error {
	if durationMs < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeDuration, durationMs)
	}
	ms.UpdateVelocities()
	ms.AdvanceBackground(durationMs)
	ms.AdvancePlatforms(durationMs)
	return nil
}

// UpdateVelocities 由基础速度重算背景和平台速度
func (ms *MotionSystem) UpdateVelocities() {
	ms.state.BackgroundVelocity = ms.baseVelocity
	ms.state.PlatformVelocity = ms.baseVelocity * ms.multiplier
}

// AdvanceBackground 推进背景位移。
// 位移为负或达到图层宽度时归零；wrap_mode 为 modulo 时改为取模回绕。
func (ms *MotionSystem) AdvanceBackground(durationMs float64) {
	offset := ms.state.BackgroundOffset + ms.state.BackgroundVelocity*durationMs/1000
	if offset < 0 || offset >= ms.layerWidth {
		if ms.wrapMode == config.WrapModeModulo && ms.layerWidth > 0 {
			offset = math.Mod(offset, ms.layerWidth)
			if offset < 0 {
				offset += ms.layerWidth
			}
		} else {
			offset = 0
		}
	}
	ms.state.BackgroundOffset = offset
}

// AdvancePlatforms 推进平台位移
func (ms *MotionSystem) AdvancePlatforms(durationMs float64) {
	ms.state.PlatformOffset += ms.state.PlatformVelocity * durationMs / 1000
}
