package aws

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"go.uber.org/zap"

	"cert-resource/internal/domain"
	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

var _ provider.DNSZone = (*DNSProvider)(nil)

// Route53API DNSProvider 使用的Route53操作
type Route53API interface {
	ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error)
	ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, optFns ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error)
}

// DNSProvider Route53 DNS提供商
type DNSProvider struct {
	client Route53API
	logger *zap.SugaredLogger
}

// NewDNSProvider 创建Route53 DNS提供商
func NewDNSProvider(client Route53API, log *zap.SugaredLogger) *DNSProvider {
	return &DNSProvider{client: client, logger: logger.OrNop(log)}
}

// NewDNSProviderFromConfig 使用AWS配置创建Route53 DNS提供商
func NewDNSProviderFromConfig(cfg awssdk.Config, log *zap.SugaredLogger) *DNSProvider {
	return NewDNSProvider(route53.NewFromConfig(cfg), log)
}

// Name 返回提供商名称
func (p *DNSProvider) Name() string {
	return "aws"
}

// ChangeRecord 变更单条记录
func (p *DNSProvider) ChangeRecord(ctx context.Context, zoneID string, action provider.ChangeAction, record provider.ValidationRecord, ttl int64) error {
	var changeAction r53types.ChangeAction
	switch action {
	case provider.ActionUpsert:
		changeAction = r53types.ChangeActionUpsert
	case provider.ActionDelete:
		changeAction = r53types.ChangeActionDelete
	default:
		return fmt.Errorf("不支持的变更动作: %s", action)
	}

	value := record.Value
	if strings.EqualFold(record.Type, "TXT") && !strings.HasPrefix(value, `"`) {
		value = `"` + value + `"`
	}

	name := domain.FQDN(record.Name)
	rrType := r53types.RRType(strings.ToUpper(record.Type))

	// DELETE必须与现存记录集的TTL完全一致
	if action == provider.ActionDelete {
		ttl = p.currentTTL(ctx, zoneID, name, rrType, ttl)
	}

	p.logger.Infof("[Route53] %s 记录: %s %s -> %s (zone: %s, ttl: %d)", action, record.Type, record.Name, value, zoneID, ttl)

	input := &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: awssdk.String(zoneID),
		ChangeBatch: &r53types.ChangeBatch{
			Comment: awssdk.String("certificate dns validation"),
			Changes: []r53types.Change{
				{
					Action: changeAction,
					ResourceRecordSet: &r53types.ResourceRecordSet{
						Name: awssdk.String(name),
						Type: rrType,
						TTL:  awssdk.Int64(ttl),
						ResourceRecords: []r53types.ResourceRecord{
							{Value: awssdk.String(value)},
						},
					},
				},
			},
		},
	}

	if _, err := p.client.ChangeResourceRecordSets(ctx, input); err != nil {
		return classifyRoute53Error(err, fmt.Sprintf("%s DNS记录", action))
	}
	return nil
}

// currentTTL 查询现存记录集的TTL，查不到时返回fallback
func (p *DNSProvider) currentTTL(ctx context.Context, zoneID, name string, rrType r53types.RRType, fallback int64) int64 {
	out, err := p.client.ListResourceRecordSets(ctx, &route53.ListResourceRecordSetsInput{
		HostedZoneId:    awssdk.String(zoneID),
		StartRecordName: awssdk.String(name),
		StartRecordType: rrType,
		MaxItems:        awssdk.Int32(1),
	})
	if err != nil {
		p.logger.Warnf("[Route53] 查询记录集TTL失败，使用配置值 %d: %v", fallback, err)
		return fallback
	}

	for _, rrs := range out.ResourceRecordSets {
		if strings.EqualFold(domain.FQDN(awssdk.ToString(rrs.Name)), name) && rrs.Type == rrType && rrs.TTL != nil {
			if *rrs.TTL != fallback {
				p.logger.Infof("[Route53] 记录集 %s 的TTL为 %d，与配置值 %d 不同", name, *rrs.TTL, fallback)
			}
			return *rrs.TTL
		}
	}
	return fallback
}
