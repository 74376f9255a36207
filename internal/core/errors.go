package core

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrValidationTimeout 验证记录在重试次数内未生成
	ErrValidationTimeout = errors.New("等待DNS验证记录超时")

	// ErrIssuanceTimeout 证书在轮询次数内仍处于待验证状态
	ErrIssuanceTimeout = errors.New("等待证书签发超时")

	// ErrIssuanceFailed 平台返回了非签发的终态
	ErrIssuanceFailed = errors.New("证书签发失败")
)

// SleepFunc 可取消的等待
type SleepFunc func(ctx context.Context, d time.Duration) error

// sleepContext 等待 d，ctx 结束时提前返回
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
