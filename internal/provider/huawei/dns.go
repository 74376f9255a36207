package huawei

import (
	"context"
	"fmt"
	"strings"

	"github.com/huaweicloud/huaweicloud-sdk-go-v3/core/auth/basic"
	dns "github.com/huaweicloud/huaweicloud-sdk-go-v3/services/dns/v2"
	dnsModel "github.com/huaweicloud/huaweicloud-sdk-go-v3/services/dns/v2/model"
	dnsRegion "github.com/huaweicloud/huaweicloud-sdk-go-v3/services/dns/v2/region"
	"go.uber.org/zap"

	"cert-resource/internal/config"
	"cert-resource/internal/domain"
	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

var _ provider.DNSZone = (*DNSProvider)(nil)

// DNSAPI DNSProvider 使用的云解析接口
type DNSAPI interface {
	ListPublicZones(request *dnsModel.ListPublicZonesRequest) (*dnsModel.ListPublicZonesResponse, error)
	ListRecordSetsByZone(request *dnsModel.ListRecordSetsByZoneRequest) (*dnsModel.ListRecordSetsByZoneResponse, error)
	CreateRecordSet(request *dnsModel.CreateRecordSetRequest) (*dnsModel.CreateRecordSetResponse, error)
	UpdateRecordSet(request *dnsModel.UpdateRecordSetRequest) (*dnsModel.UpdateRecordSetResponse, error)
	DeleteRecordSet(request *dnsModel.DeleteRecordSetRequest) (*dnsModel.DeleteRecordSetResponse, error)
}

// DNSProvider 华为云DNS提供商
// 区域标识可以是 Zone ID，也可以是区域名 (如 example.com)
type DNSProvider struct {
	client DNSAPI
	logger *zap.SugaredLogger
}

// NewDNSProvider 创建华为云DNS提供商
func NewDNSProvider(cfg config.HuaweiConfig, log *zap.SugaredLogger) (*DNSProvider, error) {
	credentials := basic.NewCredentialsBuilder().
		WithAk(cfg.AccessKey).
		WithSk(cfg.SecretKey)
	if cfg.ProjectID != "" {
		credentials = credentials.WithProjectId(cfg.ProjectID)
	}

	region := cfg.Region
	if region == "" {
		region = "cn-north-4"
	}

	regionObj, err := dnsRegion.SafeValueOf(region)
	if err != nil {
		return nil, fmt.Errorf("无效的区域: %s", region)
	}

	client := dns.NewDnsClient(
		dns.DnsClientBuilder().
			WithRegion(regionObj).
			WithCredential(credentials.Build()).
			Build())

	return NewDNSProviderWithClient(client, log), nil
}

// NewDNSProviderWithClient 使用已有客户端创建
func NewDNSProviderWithClient(client DNSAPI, log *zap.SugaredLogger) *DNSProvider {
	return &DNSProvider{client: client, logger: logger.OrNop(log)}
}

// Name 返回提供商名称
func (p *DNSProvider) Name() string {
	return "huawei"
}

// ChangeRecord 变更单条记录
func (p *DNSProvider) ChangeRecord(ctx context.Context, zoneID string, action provider.ChangeAction, record provider.ValidationRecord, ttl int64) error {
	zoneID, err := p.resolveZoneID(zoneID)
	if err != nil {
		return err
	}

	name := domain.FQDN(domain.Normalize(record.Name))
	value := recordValue(record)

	switch action {
	case provider.ActionUpsert:
		return p.upsert(zoneID, name, record.Type, value, ttl)
	case provider.ActionDelete:
		return p.delete(zoneID, name, record.Type, value)
	default:
		return fmt.Errorf("不支持的变更动作: %s", action)
	}
}

// resolveZoneID 区域名转换为 Zone ID
func (p *DNSProvider) resolveZoneID(zone string) (string, error) {
	if !strings.Contains(zone, ".") {
		return zone, nil
	}

	zoneName := domain.Normalize(zone)
	response, err := p.client.ListPublicZones(&dnsModel.ListPublicZonesRequest{})
	if err != nil {
		return "", classify(err, "获取Zone列表", nil)
	}

	if response.Zones != nil {
		for _, z := range *response.Zones {
			if z.Name != nil && z.Id != nil && domain.Normalize(*z.Name) == zoneName {
				return *z.Id, nil
			}
		}
	}

	return "", fmt.Errorf("未找到域名 %s 的Zone", zoneName)
}

// upsert 记录集存在则整体替换，否则创建
func (p *DNSProvider) upsert(zoneID, name, recordType, value string, ttl int64) error {
	p.logger.Infof("[华为云DNS] 添加记录: %s -> %s (类型: %s)", name, value, recordType)

	existing, err := p.findRecordSet(zoneID, name, recordType)
	if err != nil {
		return err
	}

	recordTTL := int32(ttl)
	if existing != nil {
		values := recordSetValues(existing)
		if len(values) == 1 && values[0] == value {
			p.logger.Infof("[华为云DNS] 记录已存在且值相同，跳过")
			return nil
		}
		request := &dnsModel.UpdateRecordSetRequest{
			ZoneId:      zoneID,
			RecordsetId: *existing.Id,
			Body: &dnsModel.UpdateRecordSetReq{
				Name:    &name,
				Type:    &recordType,
				Ttl:     &recordTTL,
				Records: &[]string{value},
			},
		}
		if _, err := p.client.UpdateRecordSet(request); err != nil {
			return classify(err, "更新DNS记录", nil)
		}
		p.logger.Infof("[华为云DNS] 记录已更新")
		return nil
	}

	request := &dnsModel.CreateRecordSetRequest{
		ZoneId: zoneID,
		Body: &dnsModel.CreateRecordSetRequestBody{
			Name:    name,
			Type:    recordType,
			Ttl:     &recordTTL,
			Records: []string{value},
		},
	}
	if _, err := p.client.CreateRecordSet(request); err != nil {
		return classify(err, "添加DNS记录", nil)
	}

	p.logger.Infof("[华为云DNS] 记录已添加")
	return nil
}

// delete 从记录集中移除指定值，最后一个值被移除时删除整个记录集
func (p *DNSProvider) delete(zoneID, name, recordType, value string) error {
	p.logger.Infof("[华为云DNS] 删除记录: %s (类型: %s)", name, recordType)

	existing, err := p.findRecordSet(zoneID, name, recordType)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", provider.ErrRecordSetNotFound, name)
	}

	values := recordSetValues(existing)
	remaining := make([]string, 0, len(values))
	for _, v := range values {
		if v != value {
			remaining = append(remaining, v)
		}
	}
	if len(remaining) == len(values) {
		return fmt.Errorf("%w: %s %s", provider.ErrRecordNotFound, name, value)
	}

	if len(remaining) > 0 {
		request := &dnsModel.UpdateRecordSetRequest{
			ZoneId:      zoneID,
			RecordsetId: *existing.Id,
			Body: &dnsModel.UpdateRecordSetReq{
				Name:    &name,
				Type:    &recordType,
				Records: &remaining,
			},
		}
		if _, err := p.client.UpdateRecordSet(request); err != nil {
			return classify(err, "更新DNS记录", provider.ErrRecordSetNotFound)
		}
		p.logger.Infof("[华为云DNS] 记录值已移除")
		return nil
	}

	request := &dnsModel.DeleteRecordSetRequest{
		ZoneId:      zoneID,
		RecordsetId: *existing.Id,
	}
	if _, err := p.client.DeleteRecordSet(request); err != nil {
		return classify(err, "删除DNS记录", provider.ErrRecordSetNotFound)
	}

	p.logger.Infof("[华为云DNS] 记录已删除")
	return nil
}

// findRecordSet 按名称和类型查找记录集
func (p *DNSProvider) findRecordSet(zoneID, name, recordType string) (*dnsModel.ListRecordSets, error) {
	request := &dnsModel.ListRecordSetsByZoneRequest{
		ZoneId: zoneID,
		Name:   &name,
		Type:   &recordType,
	}

	response, err := p.client.ListRecordSetsByZone(request)
	if err != nil {
		return nil, classify(err, "查询DNS记录", nil)
	}

	if response.Recordsets != nil {
		for i, recordSet := range *response.Recordsets {
			if recordSet.Id == nil || recordSet.Name == nil || recordSet.Type == nil {
				continue
			}
			if strings.EqualFold(*recordSet.Name, name) && *recordSet.Type == recordType {
				return &(*response.Recordsets)[i], nil
			}
		}
	}

	return nil, nil
}

func recordSetValues(recordSet *dnsModel.ListRecordSets) []string {
	if recordSet.Records == nil {
		return nil
	}
	return *recordSet.Records
}

// recordValue 华为云TXT记录值需要带引号
func recordValue(record provider.ValidationRecord) string {
	if record.Type == "TXT" {
		return `"` + domain.Unquote(record.Value) + `"`
	}
	return record.Value
}
