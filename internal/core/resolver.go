package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

// Resolver 等待平台生成DNS验证记录
//
// 平台分两步填充验证信息：先附加验证选项，再为每个选项计算记录。
// 外层循环按 ResolveAttempts 计数，每次先等待验证选项出现，
// 再检查记录是否全部就绪，未就绪则等待 retryDelay 后重新查询。
type Resolver struct {
	ca         provider.CertAuthority
	interval   time.Duration // 等待验证选项出现的间隔
	retryDelay time.Duration // 记录未就绪时的重试间隔
	attempts   int
	maxPolls   int // 等待验证选项的最多查询次数，0表示不限
	sleep      SleepFunc
	logger     *zap.SugaredLogger
}

// NewResolver 创建验证记录解析器
func NewResolver(ca provider.CertAuthority, interval, retryDelay time.Duration, attempts int, log *zap.SugaredLogger) *Resolver {
	return &Resolver{
		ca:         ca,
		interval:   interval,
		retryDelay: retryDelay,
		attempts:   attempts,
		sleep:      sleepContext,
		logger:     logger.OrNop(log),
	}
}

// WithMaxPolls 限制每轮等待验证选项的查询次数
func (r *Resolver) WithMaxPolls(n int) *Resolver {
	r.maxPolls = n
	return r
}

// Resolve 返回证书上每个域名的验证记录
func (r *Resolver) Resolve(ctx context.Context, handle string) ([]provider.ValidationRecord, error) {
	for attempt := 1; attempt <= r.attempts; attempt++ {
		detail, err := r.waitForOptions(ctx, handle)
		if err != nil {
			return nil, err
		}

		if records, ok := completeRecords(detail.ValidationOptions); ok {
			r.logger.Infof("[%s] 获取到 %d 条验证记录", r.ca.Name(), len(records))
			return records, nil
		}

		r.logger.Infof("[%s] 验证记录尚未生成，等待重试 (%d/%d)", r.ca.Name(), attempt, r.attempts)
		if attempt < r.attempts {
			if err := r.sleep(ctx, r.retryDelay); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("%w: %s (已重试 %d 次)", ErrValidationTimeout, handle, r.attempts)
}

// waitForOptions 轮询直到证书详情中出现验证选项
func (r *Resolver) waitForOptions(ctx context.Context, handle string) (*provider.CertificateDetail, error) {
	for poll := 1; ; poll++ {
		detail, err := r.ca.DescribeCertificate(ctx, handle)
		if err != nil {
			return nil, fmt.Errorf("获取证书详情失败: %w", err)
		}
		if detail.ValidationOptions != nil {
			return detail, nil
		}
		if r.maxPolls > 0 && poll >= r.maxPolls {
			return nil, fmt.Errorf("%w: %s 的验证信息未出现 (已查询 %d 次)", ErrValidationTimeout, handle, poll)
		}

		r.logger.Debugf("[%s] 等待验证信息...", r.ca.Name())
		if err := r.sleep(ctx, r.interval); err != nil {
			return nil, err
		}
	}
}

// completeRecords 所有选项的记录都已填充时返回记录列表
func completeRecords(options []provider.ValidationOption) ([]provider.ValidationRecord, bool) {
	records := make([]provider.ValidationRecord, 0, len(options))
	for _, option := range options {
		if !option.Record.Complete() {
			return nil, false
		}
		records = append(records, *option.Record)
	}
	return records, true
}
