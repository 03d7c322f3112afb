package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel 日志级别
type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelWarn
	LogLevelError
)

// String 返回日志级别的字符串表示
func (l LogLevel) String() string {
	switch l {
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Valid 判断是否为受支持的级别
func (l LogLevel) Valid() bool {
	return l >= LogLevelInfo && l <= LogLevelError
}

// ParseLogLevel 解析级别名称（不区分大小写）
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return LogLevelInfo, nil
	case "WARN", "WARNING":
		return LogLevelWarn, nil
	case "ERROR":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger 运行日志接口
// step/stage 两级标签用于定位事件发生在流水线的哪个阶段
type Logger interface {
	Log(level LogLevel, step, stage, message string, extra ...string)
	Info(step, stage, message string, extra ...string)
	Warn(step, stage, message string, extra ...string)
	Error(step, stage, message string, extra ...string)
	// Entries 返回目前累积的全部条目（副本）
	Entries() []LogEntry
}

// Clock 时间源
type Clock interface {
	Now() time.Time
}

// ClockFunc 函数形式的时间源
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// RunLogger 单次运行的日志记录器
// 每次调用先追加到内存序列，再同步回显一行到控制台。
// 序列只追加，不删除、不修改、不重排。
type RunLogger struct {
	tz      string
	runID   string
	clock   Clock
	writer  *ConsoleWriter
	entries []LogEntry
	last    time.Time
	mu      sync.Mutex
}

func (l *RunLogger) Info(step, stage, message string, extra ...string) {
	l.Log(LogLevelInfo, step, stage, message, extra...)
}

func (l *RunLogger) Warn(step, stage, message string, extra ...string) {
	l.Log(LogLevelWarn, step, stage, message, extra...)
}

func (l *RunLogger) Error(step, stage, message string, extra ...string) {
	l.Log(LogLevelError, step, stage, message, extra...)
}

// Log 记录一条日志
// 不返回错误：控制台写入失败交给 ConsoleWriter 的错误处理函数，已追加的条目不受影响。
func (l *RunLogger) Log(level LogLevel, step, stage, message string, extra ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	// 时钟回拨时沿用上一条的时间，保证时间戳单调不减
	if now.Before(l.last) {
		now = l.last
	}
	l.last = now

	entry := LogEntry{
		Time:    now,
		Level:   level,
		Step:    step,
		Stage:   stage,
		Message: message,
		Extra:   joinExtra(extra),
	}
	l.entries = append(l.entries, entry)

	// 持锁输出，回显顺序与追加顺序一致
	l.writer.WriteLog(&entry)
}

// Entries 返回条目快照，之后的 Log 调用不会影响已返回的切片
func (l *RunLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]LogEntry, len(l.entries))
	copy(result, l.entries)
	return result
}

// Len 返回已记录的条目数
func (l *RunLogger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// RunID 返回本次运行的标识
func (l *RunLogger) RunID() string {
	return l.runID
}

// Timezone 返回配置的时区名称
// 仅作描述用途，时间戳始终按 UTC 输出。
func (l *RunLogger) Timezone() string {
	return l.tz
}

// consoleLogger 只回显、不保留条目的日志记录器
// 用于调度器这类生命周期很长的输出，避免内存无限增长
type consoleLogger struct {
	clock  Clock
	writer *ConsoleWriter
	mu     sync.Mutex
}

// NewConsoleLogger 创建只输出到 w 的日志记录器
func NewConsoleLogger(w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}
	return &consoleLogger{
		clock:  defaultClock,
		writer: NewConsoleWriter(w, NewTextFormatter()),
	}
}

func (l *consoleLogger) Info(step, stage, message string, extra ...string) {
	l.Log(LogLevelInfo, step, stage, message, extra...)
}

func (l *consoleLogger) Warn(step, stage, message string, extra ...string) {
	l.Log(LogLevelWarn, step, stage, message, extra...)
}

func (l *consoleLogger) Error(step, stage, message string, extra ...string) {
	l.Log(LogLevelError, step, stage, message, extra...)
}

func (l *consoleLogger) Log(level LogLevel, step, stage, message string, extra ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.writer.WriteLog(&LogEntry{
		Time:    l.clock.Now(),
		Level:   level,
		Step:    step,
		Stage:   stage,
		Message: message,
		Extra:   joinExtra(extra),
	})
}

func (l *consoleLogger) Entries() []LogEntry {
	return nil
}

func joinExtra(extra []string) string {
	switch len(extra) {
	case 0:
		return ""
	case 1:
		return extra[0]
	default:
		return strings.Join(extra, " ")
	}
}

// colorize 为日志级别添加颜色
func colorize(level LogLevel, text string) string {
	const (
		reset  = "\033[0m"
		green  = "\033[32m"
		yellow = "\033[33m"
		red    = "\033[31m"
	)

	switch level {
	case LogLevelInfo:
		return green + text + reset
	case LogLevelWarn:
		return yellow + text + reset
	case LogLevelError:
		return red + text + reset
	default:
		return text
	}
}
