package logging

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/trickstertwo/xclock"
)

// defaultClock 每次调用都读取 xclock 的全局时钟，测试中可以用 xclock.SetDefault 冻结时间
var defaultClock Clock = ClockFunc(xclock.Now)

// Builder 运行日志构建器
type Builder struct {
	timezone   string
	runID      string
	output     io.Writer
	formatter  Formatter
	clock      Clock
	errHandler func(error)
}

// NewBuilder 创建构建器
func NewBuilder() *Builder {
	return &Builder{
		timezone: "UTC",
		output:   os.Stdout,
	}
}

// SetTimezone 设置时区名称（仅记录，不影响时间戳）
func (b *Builder) SetTimezone(tz string) *Builder {
	b.timezone = tz
	return b
}

// SetRunID 设置运行标识，未设置时自动生成 UUID
func (b *Builder) SetRunID(id string) *Builder {
	b.runID = id
	return b
}

// SetOutput 设置控制台输出目标
func (b *Builder) SetOutput(w io.Writer) *Builder {
	b.output = w
	return b
}

// SetFormatter 设置控制台格式化器
func (b *Builder) SetFormatter(f Formatter) *Builder {
	b.formatter = f
	return b
}

// SetClock 设置时间源
func (b *Builder) SetClock(c Clock) *Builder {
	b.clock = c
	return b
}

// SetErrorHandler 设置控制台写入失败时的处理函数
func (b *Builder) SetErrorHandler(handler func(error)) *Builder {
	b.errHandler = handler
	return b
}

// Build 构建 RunLogger
func (b *Builder) Build() *RunLogger {
	output := b.output
	if output == nil {
		output = os.Stdout
	}

	writer := NewConsoleWriter(output, b.formatter)
	if b.errHandler != nil {
		writer.SetErrorHandler(b.errHandler)
	}

	clock := b.clock
	if clock == nil {
		clock = defaultClock
	}

	runID := b.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	return &RunLogger{
		tz:      b.timezone,
		runID:   runID,
		clock:   clock,
		writer:  writer,
		entries: make([]LogEntry, 0, 64),
	}
}
