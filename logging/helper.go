package logging

// NewRunLogger 创建输出到标准输出的 RunLogger
func NewRunLogger(tz string) *RunLogger {
	return NewBuilder().SetTimezone(tz).Build()
}
