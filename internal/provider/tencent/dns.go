package tencent

import (
	"context"
	"errors"
	"fmt"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	dnspod "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/dnspod/v20210323"
	"go.uber.org/zap"

	"cert-resource/internal/config"
	"cert-resource/internal/domain"
	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

var _ provider.DNSZone = (*DNSProvider)(nil)

// defaultRecordLine DNSPod默认线路
const defaultRecordLine = "默认"

// DNSPodAPI DNSProvider 使用的DNSPod接口
type DNSPodAPI interface {
	DescribeRecordListWithContext(ctx context.Context, request *dnspod.DescribeRecordListRequest) (*dnspod.DescribeRecordListResponse, error)
	CreateRecordWithContext(ctx context.Context, request *dnspod.CreateRecordRequest) (*dnspod.CreateRecordResponse, error)
	ModifyRecordWithContext(ctx context.Context, request *dnspod.ModifyRecordRequest) (*dnspod.ModifyRecordResponse, error)
	DeleteRecordWithContext(ctx context.Context, request *dnspod.DeleteRecordRequest) (*dnspod.DeleteRecordResponse, error)
}

// DNSProvider 腾讯云DNS提供商 (DNSPod)，区域标识为主域名
type DNSProvider struct {
	client DNSPodAPI
	logger *zap.SugaredLogger
}

// NewDNSProvider 创建腾讯云DNS提供商
func NewDNSProvider(cfg config.TencentConfig, log *zap.SugaredLogger) (*DNSProvider, error) {
	credential := common.NewCredential(cfg.SecretID, cfg.SecretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "dnspod.tencentcloudapi.com"

	client, err := dnspod.NewClient(credential, "", cpf)
	if err != nil {
		return nil, fmt.Errorf("创建腾讯云DNSPod客户端失败: %w", err)
	}

	return NewDNSProviderWithClient(client, log), nil
}

// NewDNSProviderWithClient 使用已有客户端创建
func NewDNSProviderWithClient(client DNSPodAPI, log *zap.SugaredLogger) *DNSProvider {
	return &DNSProvider{client: client, logger: logger.OrNop(log)}
}

// Name 返回提供商名称
func (p *DNSProvider) Name() string {
	return "tencent"
}

// ChangeRecord 变更单条记录
func (p *DNSProvider) ChangeRecord(ctx context.Context, zoneID string, action provider.ChangeAction, record provider.ValidationRecord, ttl int64) error {
	zone := domain.Normalize(zoneID)
	if !domain.IsSubDomain(record.Name, zone) {
		return fmt.Errorf("记录 %s 不属于区域 %s", record.Name, zone)
	}
	subDomain := domain.ExtractSubDomain(record.Name, zone)
	value := domain.Unquote(record.Value)

	switch action {
	case provider.ActionUpsert:
		return p.upsert(ctx, zone, subDomain, record.Type, value, ttl)
	case provider.ActionDelete:
		return p.delete(ctx, zone, subDomain, record.Type, value)
	default:
		return fmt.Errorf("不支持的变更动作: %s", action)
	}
}

// upsert 存在则更新，否则添加
func (p *DNSProvider) upsert(ctx context.Context, zone, subDomain, recordType, value string, ttl int64) error {
	p.logger.Infof("[腾讯云DNS] 添加记录: %s.%s -> %s (类型: %s)", subDomain, zone, value, recordType)

	existing, err := p.findRecord(ctx, zone, subDomain, recordType, "")
	if err != nil {
		return err
	}

	if existing != nil {
		if stringValue(existing.Value) == value {
			p.logger.Infof("[腾讯云DNS] 记录已存在且值相同，跳过")
			return nil
		}
		request := dnspod.NewModifyRecordRequest()
		request.Domain = common.StringPtr(zone)
		request.RecordId = existing.RecordId
		request.SubDomain = common.StringPtr(subDomain)
		request.RecordType = common.StringPtr(recordType)
		request.RecordLine = common.StringPtr(defaultRecordLine)
		request.Value = common.StringPtr(value)
		request.TTL = common.Uint64Ptr(uint64(ttl))

		if _, err := p.client.ModifyRecordWithContext(ctx, request); err != nil {
			return classify(err, "更新DNS记录", nil)
		}
		p.logger.Infof("[腾讯云DNS] 记录已更新")
		return nil
	}

	request := dnspod.NewCreateRecordRequest()
	request.Domain = common.StringPtr(zone)
	request.SubDomain = common.StringPtr(subDomain)
	request.RecordType = common.StringPtr(recordType)
	request.RecordLine = common.StringPtr(defaultRecordLine)
	request.Value = common.StringPtr(value)
	request.TTL = common.Uint64Ptr(uint64(ttl))

	if _, err := p.client.CreateRecordWithContext(ctx, request); err != nil {
		return classify(err, "添加DNS记录", nil)
	}

	p.logger.Infof("[腾讯云DNS] 记录已添加")
	return nil
}

// delete 删除名称、类型、值都匹配的记录
func (p *DNSProvider) delete(ctx context.Context, zone, subDomain, recordType, value string) error {
	p.logger.Infof("[腾讯云DNS] 删除记录: %s.%s (类型: %s)", subDomain, zone, recordType)

	existing, err := p.findRecord(ctx, zone, subDomain, recordType, value)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s.%s", provider.ErrRecordNotFound, subDomain, zone)
	}

	request := dnspod.NewDeleteRecordRequest()
	request.Domain = common.StringPtr(zone)
	request.RecordId = existing.RecordId

	if _, err := p.client.DeleteRecordWithContext(ctx, request); err != nil {
		return classify(err, "删除DNS记录", provider.ErrRecordNotFound)
	}

	p.logger.Infof("[腾讯云DNS] 记录已删除")
	return nil
}

// findRecord 查找DNS记录，value 为空时不比较记录值
func (p *DNSProvider) findRecord(ctx context.Context, zone, subDomain, recordType, value string) (*dnspod.RecordListItem, error) {
	request := dnspod.NewDescribeRecordListRequest()
	request.Domain = common.StringPtr(zone)
	request.Subdomain = common.StringPtr(subDomain)
	request.RecordType = common.StringPtr(recordType)

	response, err := p.client.DescribeRecordListWithContext(ctx, request)
	if err != nil {
		err = classify(err, "查询DNS记录", provider.ErrRecordNotFound)
		// 没有记录时腾讯云返回错误
		if errors.Is(err, provider.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if response.Response != nil {
		for _, record := range response.Response.RecordList {
			if record == nil || stringValue(record.Name) != subDomain || stringValue(record.Type) != recordType {
				continue
			}
			if value != "" && stringValue(record.Value) != value {
				continue
			}
			return record, nil
		}
	}

	return nil, nil
}
