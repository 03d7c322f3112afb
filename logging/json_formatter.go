package logging

import (
	"github.com/goccy/go-json"
)

// JsonFormatter JSON 格式化器，每条日志一个 JSON 对象
type JsonFormatter struct{}

// NewJsonFormatter 创建 JSON 格式化器
func NewJsonFormatter() *JsonFormatter {
	return &JsonFormatter{}
}

type jsonEntry struct {
	Ts      string `json:"ts"`
	Level   string `json:"level"`
	Step    string `json:"step"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
	Extra   string `json:"extra,omitempty"`
}

// Format 格式化日志
func (f *JsonFormatter) Format(entry *LogEntry) ([]byte, error) {
	return json.Marshal(jsonEntry{
		Ts:      entry.Timestamp(),
		Level:   entry.Level.String(),
		Step:    entry.Step,
		Stage:   entry.Stage,
		Message: entry.Message,
		Extra:   entry.Extra,
	})
}
