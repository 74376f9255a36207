package aliyun

import (
	"context"
	"fmt"

	alidns "github.com/alibabacloud-go/alidns-20150109/v4/client"
	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	"github.com/alibabacloud-go/tea/tea"
	"go.uber.org/zap"

	"cert-resource/internal/config"
	"cert-resource/internal/domain"
	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

var _ provider.DNSZone = (*DNSProvider)(nil)

// AliDNSAPI DNSProvider 使用的云解析接口
type AliDNSAPI interface {
	DescribeDomainRecords(request *alidns.DescribeDomainRecordsRequest) (*alidns.DescribeDomainRecordsResponse, error)
	AddDomainRecord(request *alidns.AddDomainRecordRequest) (*alidns.AddDomainRecordResponse, error)
	UpdateDomainRecord(request *alidns.UpdateDomainRecordRequest) (*alidns.UpdateDomainRecordResponse, error)
	DeleteDomainRecord(request *alidns.DeleteDomainRecordRequest) (*alidns.DeleteDomainRecordResponse, error)
}

// DNSProvider 阿里云DNS提供商，区域标识为主域名
type DNSProvider struct {
	client AliDNSAPI
	logger *zap.SugaredLogger
}

// NewDNSProvider 创建阿里云DNS提供商
func NewDNSProvider(cfg config.AliyunConfig, log *zap.SugaredLogger) (*DNSProvider, error) {
	endpoint := "alidns.cn-hangzhou.aliyuncs.com"
	if cfg.Region != "" {
		endpoint = fmt.Sprintf("alidns.%s.aliyuncs.com", cfg.Region)
	}

	clientConfig := &openapi.Config{
		AccessKeyId:     tea.String(cfg.AccessKeyID),
		AccessKeySecret: tea.String(cfg.AccessKeySecret),
		Endpoint:        tea.String(endpoint),
	}

	client, err := alidns.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("创建阿里云DNS客户端失败: %w", err)
	}

	return NewDNSProviderWithClient(client, log), nil
}

// NewDNSProviderWithClient 使用已有客户端创建
func NewDNSProviderWithClient(client AliDNSAPI, log *zap.SugaredLogger) *DNSProvider {
	return &DNSProvider{client: client, logger: logger.OrNop(log)}
}

// Name 返回提供商名称
func (p *DNSProvider) Name() string {
	return "aliyun"
}

// ChangeRecord 变更单条记录
func (p *DNSProvider) ChangeRecord(ctx context.Context, zoneID string, action provider.ChangeAction, record provider.ValidationRecord, ttl int64) error {
	zone := domain.Normalize(zoneID)
	if !domain.IsSubDomain(record.Name, zone) {
		return fmt.Errorf("记录 %s 不属于区域 %s", record.Name, zone)
	}
	rr := domain.ExtractSubDomain(record.Name, zone)
	value := domain.Unquote(record.Value)

	switch action {
	case provider.ActionUpsert:
		return p.upsert(zone, rr, record.Type, value, ttl)
	case provider.ActionDelete:
		return p.delete(zone, rr, record.Type, value)
	default:
		return fmt.Errorf("不支持的变更动作: %s", action)
	}
}

// upsert 存在则更新，否则添加
func (p *DNSProvider) upsert(zone, rr, recordType, value string, ttl int64) error {
	p.logger.Infof("[阿里云DNS] 添加记录: %s.%s -> %s (类型: %s)", rr, zone, value, recordType)

	existing, err := p.findRecord(zone, rr, recordType, "")
	if err != nil {
		return err
	}

	if existing != nil {
		if tea.StringValue(existing.Value) == value {
			p.logger.Infof("[阿里云DNS] 记录已存在且值相同，跳过")
			return nil
		}
		_, err := p.client.UpdateDomainRecord(&alidns.UpdateDomainRecordRequest{
			RecordId: existing.RecordId,
			RR:       tea.String(rr),
			Type:     tea.String(recordType),
			Value:    tea.String(value),
			TTL:      tea.Int64(ttl),
		})
		if err != nil {
			return classify(err, "更新DNS记录", nil)
		}
		p.logger.Infof("[阿里云DNS] 记录已更新")
		return nil
	}

	_, err = p.client.AddDomainRecord(&alidns.AddDomainRecordRequest{
		DomainName: tea.String(zone),
		RR:         tea.String(rr),
		Type:       tea.String(recordType),
		Value:      tea.String(value),
		TTL:        tea.Int64(ttl),
	})
	if err != nil {
		return classify(err, "添加DNS记录", nil)
	}

	p.logger.Infof("[阿里云DNS] 记录已添加")
	return nil
}

// delete 删除名称、类型、值都匹配的记录
func (p *DNSProvider) delete(zone, rr, recordType, value string) error {
	p.logger.Infof("[阿里云DNS] 删除记录: %s.%s (类型: %s)", rr, zone, recordType)

	existing, err := p.findRecord(zone, rr, recordType, value)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s.%s", provider.ErrRecordNotFound, rr, zone)
	}

	_, err = p.client.DeleteDomainRecord(&alidns.DeleteDomainRecordRequest{
		RecordId: existing.RecordId,
	})
	if err != nil {
		return classify(err, "删除DNS记录", provider.ErrRecordNotFound)
	}

	p.logger.Infof("[阿里云DNS] 记录已删除")
	return nil
}

// findRecord 查找DNS记录，value 为空时不比较记录值
func (p *DNSProvider) findRecord(zone, rr, recordType, value string) (*alidns.DescribeDomainRecordsResponseBodyDomainRecordsRecord, error) {
	response, err := p.client.DescribeDomainRecords(&alidns.DescribeDomainRecordsRequest{
		DomainName: tea.String(zone),
		RRKeyWord:  tea.String(rr),
		Type:       tea.String(recordType),
	})
	if err != nil {
		return nil, classify(err, "查询DNS记录", nil)
	}

	if response.Body != nil && response.Body.DomainRecords != nil {
		for _, record := range response.Body.DomainRecords.Record {
			if tea.StringValue(record.RR) != rr || tea.StringValue(record.Type) != recordType {
				continue
			}
			if value != "" && tea.StringValue(record.Value) != value {
				continue
			}
			return record, nil
		}
	}

	return nil, nil
}
