package cron

import "time"

// options Cron 服务配置选项
type options struct {
	// Location 时区设置，默认 UTC
	Location *time.Location
	// EnableSeconds 是否启用秒级精度（默认分钟级）
	EnableSeconds bool
	// EnableCronLogger 是否启用 cron 库的内部调度日志（默认 false）
	EnableCronLogger bool
}

// Option 配置 Service
type Option func(*options)

// WithSeconds 启用秒级精度
func WithSeconds() Option {
	return func(o *options) {
		o.EnableSeconds = true
	}
}

// WithLocation 设置时区
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.Location = loc
		}
	}
}

// EnableCronLogger 启用 cron 库的内部调度日志
func EnableCronLogger() Option {
	return func(o *options) {
		o.EnableCronLogger = true
	}
}
