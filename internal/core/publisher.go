package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cert-resource/internal/domain"
	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

// Publisher 发布和撤销验证记录
type Publisher struct {
	zone   provider.DNSZone
	ttl    int64
	logger *zap.SugaredLogger
}

// NewPublisher 创建记录发布器
func NewPublisher(zone provider.DNSZone, ttl int64, log *zap.SugaredLogger) *Publisher {
	return &Publisher{zone: zone, ttl: ttl, logger: logger.OrNop(log)}
}

// Publish 逐条添加或覆盖验证记录
func (p *Publisher) Publish(ctx context.Context, zoneID string, records []provider.ValidationRecord) error {
	for _, record := range uniqueRecords(records) {
		p.logger.Infof("[%s] 发布验证记录: %s %s %s", p.zone.Name(), record.Name, record.Type, record.Value)
		if err := p.zone.ChangeRecord(ctx, zoneID, provider.ActionUpsert, record, p.ttl); err != nil {
			return fmt.Errorf("发布验证记录 %s 失败: %w", record.Name, err)
		}
	}
	return nil
}

// Retract 逐条删除验证记录，记录已不存在时跳过
func (p *Publisher) Retract(ctx context.Context, zoneID string, records []provider.ValidationRecord) error {
	for _, record := range uniqueRecords(records) {
		p.logger.Infof("[%s] 删除验证记录: %s %s %s", p.zone.Name(), record.Name, record.Type, record.Value)
		err := p.zone.ChangeRecord(ctx, zoneID, provider.ActionDelete, record, p.ttl)
		switch {
		case err == nil:
		case errors.Is(err, provider.ErrRecordNotFound), errors.Is(err, provider.ErrRecordSetNotFound):
			p.logger.Warnf("[%s] 验证记录已不存在，跳过: %v", p.zone.Name(), err)
		default:
			return fmt.Errorf("删除验证记录 %s 失败: %w", record.Name, err)
		}
	}
	return nil
}

// uniqueRecords 去掉重复记录 (如主域名和通配符域名共用一条记录)
func uniqueRecords(records []provider.ValidationRecord) []provider.ValidationRecord {
	seen := make(map[string]bool, len(records))
	unique := make([]provider.ValidationRecord, 0, len(records))
	for _, record := range records {
		key := strings.Join([]string{domain.Normalize(record.Name), strings.ToUpper(record.Type), record.Value}, "|")
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, record)
	}
	return unique
}
