package logging

// TextFormatter 文本格式化器
// 输出形如：[2025-01-01T08:30:00.000Z] INFO fetch page-1: loaded | items=24
type TextFormatter struct {
	// ColorOutput 为级别加 ANSI 颜色，默认关闭以保持行格式稳定
	ColorOutput bool
}

// NewTextFormatter 创建文本格式化器
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format 格式化日志
func (f *TextFormatter) Format(entry *LogEntry) ([]byte, error) {
	buffer := getBuffer()
	defer putBuffer(buffer)

	buffer.WriteByte('[')
	buffer.WriteString(entry.Timestamp())
	buffer.WriteString("] ")

	levelStr := entry.Level.String()
	if f.ColorOutput {
		buffer.WriteString(colorize(entry.Level, levelStr))
	} else {
		buffer.WriteString(levelStr)
	}

	buffer.WriteByte(' ')
	buffer.WriteString(entry.Step)
	buffer.WriteByte(' ')
	buffer.WriteString(entry.Stage)
	buffer.WriteString(": ")
	buffer.WriteString(entry.Message)

	if entry.Extra != "" {
		buffer.WriteString(" | ")
		buffer.WriteString(entry.Extra)
	}

	buffer.WriteByte('\n')

	// 复制结果，buffer 归还后会被复用
	result := make([]byte, buffer.Len())
	copy(result, buffer.Bytes())
	return result, nil
}
