// Package scrapekit 为抓取任务提供运行外壳：加载配置、创建本次运行的日志记录器、执行任务并交回日志。
package scrapekit

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gocrud/scrapekit/config"
	"github.com/gocrud/scrapekit/cron"
	"github.com/gocrud/scrapekit/logging"
)

// RunContext 传给任务的运行上下文
type RunContext struct {
	Settings config.Settings
	Logger   logging.Logger
}

// RunFunc 一次抓取任务
type RunFunc func(ctx context.Context, rc *RunContext) error

// Result 一次运行的结果
type Result struct {
	RunID    string
	Settings config.Settings
	// Entries 本次运行累积的全部日志，按记录顺序排列
	Entries []logging.LogEntry
	Err     error
}

// Run 执行一次任务
// 必需配置缺失时直接返回错误，此时不会创建日志记录器。
// 任务失败时同时返回 Result（含全部日志）和任务的错误。
func Run(job RunFunc, opts ...Option) (*Result, error) {
	o := newRunOptions(opts)

	// 1. 加载配置
	settings, err := o.loadSettings()
	if err != nil {
		return nil, err
	}

	// 2. 监听退出信号
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := runOnce(ctx, o, settings, job)
	return result, result.Err
}

func runOnce(ctx context.Context, o *runOptions, settings config.Settings, job RunFunc) *Result {
	logger := o.newLogger(settings)

	logger.Info("run", "start", "run started",
		fmt.Sprintf("run_id=%s category_url=%s max_pages=%d headless=%t",
			logger.RunID(), settings.CategoryURL, settings.MaxPages, settings.Headless))

	err := safeCall(ctx, job, &RunContext{Settings: settings, Logger: logger})
	if err != nil {
		logger.Error("run", "failed", "run failed", err.Error())
	} else {
		logger.Info("run", "finish", "run finished", fmt.Sprintf("entries=%d", logger.Len()))
	}

	return &Result{
		RunID:    logger.RunID(),
		Settings: settings,
		Entries:  logger.Entries(),
		Err:      err,
	}
}

// safeCall 任务 panic 时转换为错误，保证日志能被交回
func safeCall(ctx context.Context, job RunFunc, rc *RunContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job(ctx, rc)
}

// Schedule 按 cron 表达式重复运行任务，阻塞直到收到退出信号或 ctx 取消
// spec 为空时使用配置中的 SCHEDULE。每次运行结束后把结果交给 onResult（可为 nil）。
func Schedule(ctx context.Context, spec string, job RunFunc, onResult func(*Result), opts ...Option) error {
	o := newRunOptions(opts)

	settings, err := o.loadSettings()
	if err != nil {
		return err
	}
	if spec == "" {
		spec = settings.Schedule
	}
	if spec == "" {
		return fmt.Errorf("%w: %s is empty", config.ErrInvalidConfig, config.KeySchedule)
	}

	loc, err := settings.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := cron.NewService(logging.NewConsoleLogger(o.output), cron.WithLocation(loc))
	err = svc.AddJob(spec, "scrape", func() {
		// 每次运行使用全新的 RunLogger
		result := runOnce(ctx, o, settings, job)
		if onResult != nil {
			onResult(result)
		}
	})
	if err != nil {
		return err
	}

	if err := svc.Start(ctx); err != nil {
		return err
	}

	// 给定 5 秒超时时间等待正在运行的任务
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return svc.Stop(shutdownCtx)
}
