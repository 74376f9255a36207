package provider

import "context"

// ChangeAction DNS记录变更动作
type ChangeAction string

const (
	ActionUpsert ChangeAction = "UPSERT"
	ActionDelete ChangeAction = "DELETE"
)

// DNSZone DNS区域接口
type DNSZone interface {
	// Name 返回提供商名称
	Name() string

	// ChangeRecord 对区域内的单条记录执行幂等变更
	// zoneID: 区域标识 (AWS为HostedZoneId，阿里云/腾讯云为主域名)
	// 删除时记录不存在返回 ErrRecordNotFound 或 ErrRecordSetNotFound
	ChangeRecord(ctx context.Context, zoneID string, action ChangeAction, record ValidationRecord, ttl int64) error
}
