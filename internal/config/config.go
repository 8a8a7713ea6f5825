// Package config 管理命令行工具的配置: 默认值 < 配置文件 < 命令行参数
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	uvatlas "github.com/flywave/go-uvatlas"
	"gopkg.in/yaml.v3"
)

const FileName = "uvatlas.yaml"

type Config struct {
	Atlas   uvatlas.Options `yaml:"atlas"`
	Input   InputConfig     `yaml:"input"`
	Preview PreviewConfig   `yaml:"preview"`
	Logging LoggingConfig   `yaml:"logging"`
}

// InputConfig 输入网格预处理
type InputConfig struct {
	Simplify float64 `yaml:"simplify"` // 保留面比例, 1 为不减面
}

type PreviewConfig struct {
	Thumbnail uint `yaml:"thumbnail"` // 0 为原尺寸
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

func Default() *Config {
	return &Config{
		Atlas: uvatlas.DefaultOptions(),
		Input: InputConfig{
			Simplify: 1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load 读取配置, path 为空时依次查找当前目录与用户配置目录
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}
	if err := cfg.Atlas.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	candidates := []string{
		filepath.Join(".", FileName),
		filepath.Join(ConfigDir(), FileName),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir 返回系统相关的配置目录
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "uvatlas")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "uvatlas")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "uvatlas")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "uvatlas")
	}
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// SaveTo 写出配置, 自动创建父目录
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
