package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariableSource 进程环境变量配置源
type EnvironmentVariableSource struct {
	Prefix string
}

func (s *EnvironmentVariableSource) Name() string {
	return fmt.Sprintf("EnvironmentVariables(%s)", s.Prefix)
}

func (s *EnvironmentVariableSource) Load() (map[string]string, error) {
	result := make(map[string]string)

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		// 检查并移除前缀
		if s.Prefix != "" {
			if !strings.HasPrefix(key, s.Prefix) {
				continue
			}
			key = strings.TrimPrefix(key, s.Prefix)
		}

		result[key] = value
	}

	return result, nil
}

// EnvMapSource 注入的环境变量表
type EnvMapSource struct {
	Env map[string]string
}

func (s *EnvMapSource) Name() string {
	return "EnvMap"
}

func (s *EnvMapSource) Load() (map[string]string, error) {
	// 返回副本
	result := make(map[string]string, len(s.Env))
	for k, v := range s.Env {
		result[k] = v
	}
	return result, nil
}

// YamlFileSource YAML 文件配置源
// 文件为扁平的 KEY: value 映射，键与环境变量同名
type YamlFileSource struct {
	Path     string
	Optional bool
}

func (s *YamlFileSource) Name() string {
	return fmt.Sprintf("YamlFile(%s)", s.Path)
}

func (s *YamlFileSource) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if s.Optional && os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	result := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case nil:
			continue
		case map[string]any, []any:
			return nil, fmt.Errorf("key %s: nested values are not supported", k)
		}
		result[k] = fmt.Sprint(v)
	}

	return result, nil
}

// DotEnvSource .env 文件配置源
type DotEnvSource struct {
	Path     string
	Optional bool
}

func (s *DotEnvSource) Name() string {
	return fmt.Sprintf("DotEnv(%s)", s.Path)
}

func (s *DotEnvSource) Load() (map[string]string, error) {
	result, err := godotenv.Read(s.Path)
	if err != nil {
		if s.Optional && errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	return result, nil
}
