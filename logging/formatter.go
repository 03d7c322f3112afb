package logging

import (
	"time"
)

// TimestampFormat ISO-8601 UTC，毫秒精度
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Formatter 日志格式化接口
type Formatter interface {
	// Format 格式化日志条目
	Format(entry *LogEntry) ([]byte, error)
}

// LogEntry 日志条目
type LogEntry struct {
	Time    time.Time
	Level   LogLevel
	Step    string
	Stage   string
	Message string
	// Extra 附加信息，空字符串表示未提供
	Extra string
}

// Timestamp 返回 UTC 的 ISO-8601 时间戳，例如 2025-01-01T08:30:00.000Z
func (e LogEntry) Timestamp() string {
	return e.Time.UTC().Format(TimestampFormat)
}
