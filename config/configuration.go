package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Configuration 配置接口
// 键为环境变量名（如 MAX_PAGES），值在读取时去掉首尾空白，空白值视为不存在。
type Configuration interface {
	// Get 获取配置值，不存在时返回空串
	Get(key string) string
	// Lookup 获取配置值并返回是否存在
	Lookup(key string) (string, bool)
	// GetWithDefault 获取配置值，如果不存在则返回默认值
	GetWithDefault(key, defaultValue string) string
	// GetInt 获取整数配置值
	GetInt(key string) (int, error)
	// GetBool 获取布尔配置值
	GetBool(key string) (bool, error)
	// GetAll 获取所有配置（副本）
	GetAll() map[string]string
}

// ConfigurationSource 配置源接口
type ConfigurationSource interface {
	Load() (map[string]string, error)
	Name() string
}

// ConfigurationBuilder 配置构建器
type ConfigurationBuilder struct {
	sources []ConfigurationSource
	mu      sync.RWMutex
}

// NewConfigurationBuilder 创建配置构建器
func NewConfigurationBuilder() *ConfigurationBuilder {
	return &ConfigurationBuilder{
		sources: make([]ConfigurationSource, 0),
	}
}

// Add 添加配置源
func (b *ConfigurationBuilder) Add(source ConfigurationSource) *ConfigurationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sources = append(b.sources, source)
	return b
}

// AddEnvironmentVariables 添加进程环境变量配置源
func (b *ConfigurationBuilder) AddEnvironmentVariables(prefix string) *ConfigurationBuilder {
	return b.Add(&EnvironmentVariableSource{Prefix: prefix})
}

// AddEnvMap 添加注入的环境变量表，便于测试
func (b *ConfigurationBuilder) AddEnvMap(env map[string]string) *ConfigurationBuilder {
	return b.Add(&EnvMapSource{Env: env})
}

// AddYamlFile 添加 YAML 文件配置源
func (b *ConfigurationBuilder) AddYamlFile(path string, optional ...bool) *ConfigurationBuilder {
	isOptional := len(optional) > 0 && optional[0]
	return b.Add(&YamlFileSource{Path: path, Optional: isOptional})
}

// AddDotEnvFile 添加 .env 文件配置源
func (b *ConfigurationBuilder) AddDotEnvFile(path string, optional ...bool) *ConfigurationBuilder {
	isOptional := len(optional) > 0 && optional[0]
	return b.Add(&DotEnvSource{Path: path, Optional: isOptional})
}

// Build 构建配置
func (b *ConfigurationBuilder) Build() (Configuration, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	config := &configuration{
		data: make(map[string]string),
	}

	// 按顺序加载所有配置源（后面的会覆盖前面的，空白值不覆盖）
	for _, source := range b.sources {
		data, err := source.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load config source %s: %w", source.Name(), err)
		}
		for k, v := range data {
			if strings.TrimSpace(v) == "" {
				continue
			}
			config.data[k] = v
		}
	}

	return config, nil
}

// configuration 配置实现
type configuration struct {
	data map[string]string
	mu   sync.RWMutex
}

func (c *configuration) Lookup(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value := strings.TrimSpace(c.data[key])
	if value == "" {
		return "", false
	}
	return value, true
}

func (c *configuration) Get(key string) string {
	value, _ := c.Lookup(key)
	return value
}

func (c *configuration) GetWithDefault(key, defaultValue string) string {
	if value, ok := c.Lookup(key); ok {
		return value
	}
	return defaultValue
}

func (c *configuration) GetInt(key string) (int, error) {
	value, ok := c.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("key %s not found", key)
	}
	return strconv.Atoi(value)
}

func (c *configuration) GetBool(key string) (bool, error) {
	value, ok := c.Lookup(key)
	if !ok {
		return false, fmt.Errorf("key %s not found", key)
	}
	return strconv.ParseBool(value)
}

func (c *configuration) GetAll() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// 返回副本
	result := make(map[string]string, len(c.data))
	for k, v := range c.data {
		result[k] = v
	}
	return result
}
