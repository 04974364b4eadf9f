package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LevelConfig 关卡配置数据结构
// 定义了关卡中所有平台的位置与外观
type LevelConfig struct {
	ID        string           `yaml:"id"`        // 关卡ID，如 "level-1"
	Name      string           `yaml:"name"`      // 关卡名称
	Platforms []PlatformConfig `yaml:"platforms"` // 平台列表，按绘制顺序排列
}

// PlatformConfig 单个平台的配置
type PlatformConfig struct {
	Left      float64  `yaml:"left"`      // 左边缘 X 坐标
	Width     float64  `yaml:"width"`     // 宽度
	FillStyle string   `yaml:"fillStyle"` // 填充颜色，如 "#fafa00" 或 "rgb(250, 250, 0)"
	Opacity   *float64 `yaml:"opacity"`   // 不透明度 0.0 ~ 1.0，缺省 1.0
	Track     int      `yaml:"track"`     // 所在轨道（1-3）
	Pulsate   bool     `yaml:"pulsate"`   // 闪烁效果（预留，尚未使用）
}

// OpacityOrDefault 返回配置的不透明度，未配置时为 1.0
func (p PlatformConfig) OpacityOrDefault() float64 {
	if p.Opacity == nil {
		return 1.0
	}
	return *p.Opacity
}

// LoadLevelConfig 从YAML文件加载关卡配置
// 参数：
//
//	filepath - 关卡配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}

	levelConfig, err := ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return levelConfig, nil
}

// ParseLevelConfig 解析 YAML 关卡配置（用于嵌入资源）
func ParseLevelConfig(data []byte) (*LevelConfig, error) {
	var levelConfig LevelConfig
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML: %w", err)
	}

	applyLevelDefaults(&levelConfig)

	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, fmt.Errorf("invalid level config: %w", err)
	}

	return &levelConfig, nil
}

// applyLevelDefaults 为缺失的可选字段设置默认值
func applyLevelDefaults(config *LevelConfig) {
	if config.Name == "" {
		config.Name = config.ID
	}
	for i := range config.Platforms {
		if config.Platforms[i].FillStyle == "" {
			config.Platforms[i].FillStyle = "#fafa00"
		}
	}
}

// validateLevelConfig 验证关卡配置的完整性和合法性
func validateLevelConfig(config *LevelConfig) error {
	if config.ID == "" {
		return fmt.Errorf("level ID is required")
	}

	for i, p := range config.Platforms {
		if p.Track < 1 || p.Track > TrackCount {
			return fmt.Errorf("platforms[%d]: track must be between 1 and %d, got %d", i, TrackCount, p.Track)
		}
		if p.Width <= 0 {
			return fmt.Errorf("platforms[%d]: width must be positive, got %v", i, p.Width)
		}
		if o := p.OpacityOrDefault(); o < 0 || o > 1 {
			return fmt.Errorf("platforms[%d]: opacity must be between 0 and 1, got %v", i, o)
		}
	}

	return nil
}
