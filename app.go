package scrapekit

import (
	"io"
	"os"
	"sync"

	"github.com/gocrud/scrapekit/config"
	"github.com/gocrud/scrapekit/logging"
)

// runOptions 运行选项
type runOptions struct {
	env      map[string]string
	dotEnv   string
	yamlFile string
	output   io.Writer
	clock    logging.Clock
}

// Option 配置 Run / Schedule
type Option func(*runOptions)

// WithEnv 使用给定的环境变量表代替进程环境变量
func WithEnv(env map[string]string) Option {
	return func(o *runOptions) {
		o.env = env
	}
}

// WithDotEnv 先加载 .env 文件，环境变量优先
func WithDotEnv(path string) Option {
	return func(o *runOptions) {
		o.dotEnv = path
	}
}

// WithYamlFile 先加载 YAML 配置文件，环境变量优先
func WithYamlFile(path string) Option {
	return func(o *runOptions) {
		o.yamlFile = path
	}
}

// WithOutput 设置控制台输出
// 调度器和各次运行的日志共用同一把锁写入 w，w 本身不需要并发安全。
func WithOutput(w io.Writer) Option {
	return func(o *runOptions) {
		o.output = w
	}
}

// WithClock 设置日志时间源
func WithClock(c logging.Clock) Option {
	return func(o *runOptions) {
		o.clock = c
	}
}

func newRunOptions(opts []Option) *runOptions {
	o := &runOptions{output: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}
	if o.output == nil {
		o.output = os.Stdout
	}
	o.output = &syncWriter{w: o.output}
	return o
}

// syncWriter 串行化对底层 writer 的写入
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// configuration 按 YAML -> .env -> 环境变量 的顺序构建配置
func (o *runOptions) configuration() (config.Configuration, error) {
	builder := config.NewConfigurationBuilder()
	if o.yamlFile != "" {
		builder.AddYamlFile(o.yamlFile)
	}
	if o.dotEnv != "" {
		builder.AddDotEnvFile(o.dotEnv)
	}
	if o.env != nil {
		builder.AddEnvMap(o.env)
	} else {
		builder.AddEnvironmentVariables("")
	}
	return builder.Build()
}

// LoadSettings 按选项加载运行配置
func LoadSettings(opts ...Option) (config.Settings, error) {
	return newRunOptions(opts).loadSettings()
}

func (o *runOptions) loadSettings() (config.Settings, error) {
	cfg, err := o.configuration()
	if err != nil {
		return config.Settings{}, err
	}
	return config.Load(cfg)
}

func (o *runOptions) newLogger(settings config.Settings) *logging.RunLogger {
	return logging.NewBuilder().
		SetTimezone(settings.Timezone).
		SetOutput(o.output).
		SetClock(o.clock).
		Build()
}
