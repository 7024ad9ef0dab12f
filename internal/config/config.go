// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 服务器监听地址，如 "127.0.0.1"
	Port    int    `toml:"port"`    // 服务器监听端口，如 8000
	Mode    string `toml:"mode"`    // 运行模式："dev" 或 "release"
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// StoreConfig 文档存储配置
// backend 决定命名 JSON 文档落在哪种介质上
type StoreConfig struct {
	Backend       string `toml:"backend"`       // "pebble"（默认）、"redis" 或 "memory"
	PebblePath    string `toml:"pebblePath"`    // pebble 数据目录
	RedisHost     string `toml:"redisHost"`     // Redis 服务器地址
	RedisPort     int    `toml:"redisPort"`     // Redis 端口，默认 6379
	RedisPassword string `toml:"redisPassword"` // Redis 密码，无密码留空
	RedisDb       int    `toml:"redisDb"`       // Redis 数据库编号
	Session       string `toml:"session"`       // 会话标识，作为文档名前缀，隔离不同对话
}

// AgentConfig 生成触发回调配置
// 提交摘要会 POST 到宿主（SillyTavern 适配层）的该地址
type AgentConfig struct {
	BaseURL        string `toml:"baseURL"`        // 宿主回调地址，如 "http://127.0.0.1:8100"
	TriggerPath    string `toml:"triggerPath"`    // 触发路径，默认 "/api/generate"
	TimeoutSeconds int    `toml:"timeoutSeconds"` // 请求超时秒数，0 取默认值
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig  `toml:"mainConfig"`
	LogConfig   `toml:"logConfig"`
	StoreConfig `toml:"storeConfig"`
	AgentConfig `toml:"agentConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	// 候选配置文件路径（优先加载本地配置）
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}

	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，加载失败时使用零值默认配置
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
	}
	return config
}
