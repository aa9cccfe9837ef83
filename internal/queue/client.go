package queue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/storepanel/internal/config"
	"github.com/storepanel/internal/constants"
	"github.com/storepanel/internal/logger"

	"github.com/hibiken/asynq"
)

// Client 任务队列客户端
type Client struct {
	inner   *asynq.Client
	enabled bool
}

// BuildRedisOpt 构建 asynq 使用的 Redis 连接配置
func BuildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// BuildServerConfig 构建 asynq 服务端配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{constants.QueueDefault: 10}
	}
	serverCfg := asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      asynqZapLogger{},
	}
	return BuildRedisOpt(cfg), serverCfg
}

// asynqZapLogger 将 asynq 内部日志接入 zap
type asynqZapLogger struct{}

func (asynqZapLogger) Debug(args ...interface{}) { logger.S().Debug(args...) }
func (asynqZapLogger) Info(args ...interface{})  { logger.S().Info(args...) }
func (asynqZapLogger) Warn(args ...interface{})  { logger.S().Warn(args...) }
func (asynqZapLogger) Error(args ...interface{}) { logger.S().Error(args...) }
func (asynqZapLogger) Fatal(args ...interface{}) { logger.S().Fatal(args...) }

// NewClient 创建任务队列客户端
// 队列未启用时返回空实现，入队调用静默降级
func NewClient(cfg *config.QueueConfig) *Client {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false}
	}
	return &Client{
		inner:   asynq.NewClient(BuildRedisOpt(cfg)),
		enabled: true,
	}
}

// Enabled 判断队列是否可用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.inner != nil
}

// Close 关闭客户端连接
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueueAlertInventoryScan 入队库存扫描任务
func (c *Client) EnqueueAlertInventoryScan(ctx context.Context, payload AlertInventoryScanPayload) error {
	if !c.Enabled() {
		logger.Debugw("queue_disabled_skip_enqueue", "task", constants.TaskAlertInventoryScan, "product_id", payload.ProductID)
		return nil
	}
	task, err := NewAlertInventoryScanTask(payload)
	if err != nil {
		return err
	}
	info, err := c.inner.EnqueueContext(ctx, task,
		asynq.Queue(constants.QueueDefault),
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return err
	}
	logger.Infow("task_enqueued", "task", constants.TaskAlertInventoryScan, "task_id", info.ID, "queue", info.Queue, "product_id", payload.ProductID)
	return nil
}
