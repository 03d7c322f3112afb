package cron

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gocrud/scrapekit/logging"
	"github.com/robfig/cron/v3"
)

// Service 定时运行任务
// 每个任务在独立的 goroutine 中执行，任务内部应自行创建本次运行的 RunLogger。
type Service struct {
	cron   *cron.Cron
	logger logging.Logger
	mu     sync.RWMutex
	jobs   map[string]cron.EntryID // 任务名称到任务ID的映射
}

// NewService 创建 Cron 服务
// logger 只记录调度事件，为 nil 时输出到标准输出且不保留条目
func NewService(logger logging.Logger, opts ...Option) *Service {
	opt := &options{
		Location: time.UTC,
	}
	for _, o := range opts {
		o(opt)
	}

	if logger == nil {
		logger = logging.NewConsoleLogger(nil)
	}

	cronLog := newCronLogger(logger)
	cronOpts := []cron.Option{
		cron.WithLocation(opt.Location),
		// 上一次运行未结束时跳过本次，保证同一任务不会并发运行
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	}

	// 只在启用时添加 cron 库的日志记录器
	if opt.EnableCronLogger {
		cronOpts = append(cronOpts, cron.WithLogger(cronLog))
	}

	if opt.EnableSeconds {
		cronOpts = append(cronOpts, cron.WithSeconds())
	}

	return &Service{
		cron:   cron.New(cronOpts...),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

// AddJob 添加定时任务
// spec: cron 表达式，如 "0 6 * * *" (每天 6 点)；启用秒级精度时为 6 段
// name: 任务名称（用于管理和日志），重复注册返回错误
func (s *Service) AddJob(spec, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("cron job '%s' already registered", name)
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		s.logger.Info("cron", name, "job started")
		defer s.logger.Info("cron", name, "job completed")
		job()
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job '%s': %w", name, err)
	}

	s.jobs[name] = entryID
	s.logger.Info("cron", name, "job registered", "spec="+spec)
	return nil
}

// RemoveJob 移除定时任务
func (s *Service) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.jobs[name]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, name)
		s.logger.Info("cron", name, "job removed")
	}
}

// Next 返回任务的下一次运行时间
func (s *Service) Next(name string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entryID, exists := s.jobs[name]
	if !exists {
		return time.Time{}, false
	}
	return s.cron.Entry(entryID).Next, true
}

// Start 启动调度，阻塞直到 ctx 取消
func (s *Service) Start(ctx context.Context) error {
	s.mu.RLock()
	n := len(s.jobs)
	s.mu.RUnlock()

	s.logger.Info("cron", "service", fmt.Sprintf("starting with %d jobs", n))
	s.cron.Start()

	<-ctx.Done()
	return nil
}

// Stop 停止调度，等待正在运行的任务完成或 ctx 超时
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("cron", "service", "stopping")

	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		s.logger.Info("cron", "service", "stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("cron", "service", "stop timeout, forcing shutdown")
		return ctx.Err()
	}
}

// cronLogger 适配器：将运行日志接口适配到 cron 的日志接口
type cronLogger struct {
	logger logging.Logger
}

func newCronLogger(logger logging.Logger) cron.Logger {
	return &cronLogger{logger: logger}
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info("cron", "scheduler", msg, formatKeysAndValues(keysAndValues))
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	extra := formatKeysAndValues(keysAndValues)
	if extra != "" {
		extra += " "
	}
	l.logger.Error("cron", "scheduler", msg, extra+"error="+err.Error())
}

func formatKeysAndValues(keysAndValues []interface{}) string {
	parts := make([]string, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		parts = append(parts, fmt.Sprintf("%v=%v", keysAndValues[i], keysAndValues[i+1]))
	}
	return strings.Join(parts, " ")
}
