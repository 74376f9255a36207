package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

// Waiter 等待证书签发
type Waiter struct {
	ca       provider.CertAuthority
	interval time.Duration
	attempts int
	sleep    SleepFunc
	logger   *zap.SugaredLogger
}

// NewWaiter 创建签发等待器
func NewWaiter(ca provider.CertAuthority, interval time.Duration, attempts int, log *zap.SugaredLogger) *Waiter {
	return &Waiter{
		ca:       ca,
		interval: interval,
		attempts: attempts,
		sleep:    sleepContext,
		logger:   logger.OrNop(log),
	}
}

// Wait 轮询证书状态直到签发
func (w *Waiter) Wait(ctx context.Context, handle string) error {
	for attempt := 1; attempt <= w.attempts; attempt++ {
		detail, err := w.ca.DescribeCertificate(ctx, handle)
		if err != nil {
			return fmt.Errorf("获取证书状态失败: %w", err)
		}

		switch detail.Status {
		case provider.StatusIssued:
			w.logger.Infof("[%s] 证书已签发: %s", w.ca.Name(), handle)
			return nil
		case provider.StatusPendingValidation:
			w.logger.Infof("[%s] 证书等待验证中 (%d/%d)", w.ca.Name(), attempt, w.attempts)
		default:
			return fmt.Errorf("%w: %s 状态为 %s", ErrIssuanceFailed, handle, detail.Status)
		}

		if attempt < w.attempts {
			if err := w.sleep(ctx, w.interval); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("%w: %s 在 %d 次查询后仍为 %s", ErrIssuanceTimeout, handle, w.attempts, provider.StatusPendingValidation)
}
