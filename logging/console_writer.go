package logging

import (
	"fmt"
	"io"
	"os"
)

// ConsoleWriter 同步日志写入器
// 只负责"输出"这一步；条目是否保留由调用方决定。
type ConsoleWriter struct {
	writer     io.Writer
	formatter  Formatter
	errHandler func(error)
}

// NewConsoleWriter 创建写入器
func NewConsoleWriter(writer io.Writer, formatter Formatter) *ConsoleWriter {
	if formatter == nil {
		formatter = NewTextFormatter()
	}
	return &ConsoleWriter{
		writer:    writer,
		formatter: formatter,
	}
}

// WriteLog 格式化并写出一条日志，每次调用恰好写一行
func (w *ConsoleWriter) WriteLog(entry *LogEntry) {
	data, err := w.formatter.Format(entry)
	if err != nil {
		w.handleError(fmt.Errorf("format log entry: %w", err))
		return
	}

	// JSON 格式化结果不带换行，这里补上
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	if _, err := w.writer.Write(data); err != nil {
		w.handleError(fmt.Errorf("write log entry: %w", err))
	}
}

// SetErrorHandler 设置错误处理函数
func (w *ConsoleWriter) SetErrorHandler(handler func(error)) {
	w.errHandler = handler
}

func (w *ConsoleWriter) handleError(err error) {
	if w.errHandler != nil {
		w.errHandler(err)
		return
	}
	fmt.Fprintf(os.Stderr, "ConsoleWriter: %v\n", err)
}
