package aws

import (
	"context"
	"fmt"
	"sort"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/acm"
	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"
	"go.uber.org/zap"

	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

var _ provider.CertAuthority = (*CertProvider)(nil)

// ACMAPI CertProvider 使用的ACM操作
type ACMAPI interface {
	RequestCertificate(ctx context.Context, params *acm.RequestCertificateInput, optFns ...func(*acm.Options)) (*acm.RequestCertificateOutput, error)
	DescribeCertificate(ctx context.Context, params *acm.DescribeCertificateInput, optFns ...func(*acm.Options)) (*acm.DescribeCertificateOutput, error)
	DeleteCertificate(ctx context.Context, params *acm.DeleteCertificateInput, optFns ...func(*acm.Options)) (*acm.DeleteCertificateOutput, error)
}

// CertProvider ACM证书提供商
type CertProvider struct {
	client ACMAPI
	logger *zap.SugaredLogger
}

// NewCertProvider 创建ACM证书提供商
func NewCertProvider(client ACMAPI, log *zap.SugaredLogger) *CertProvider {
	return &CertProvider{client: client, logger: logger.OrNop(log)}
}

// NewCertProviderFromConfig 使用AWS配置创建ACM证书提供商
func NewCertProviderFromConfig(cfg awssdk.Config, log *zap.SugaredLogger) *CertProvider {
	return NewCertProvider(acm.NewFromConfig(cfg), log)
}

// Name 返回提供商名称
func (p *CertProvider) Name() string {
	return "aws"
}

// RequestCertificate 申请证书
func (p *CertProvider) RequestCertificate(ctx context.Context, req *provider.CertificateRequest) (string, error) {
	p.logger.Infof("[ACM] 开始为 %s 申请证书，备用域名: %v", req.DomainName, req.SubjectAlternativeNames)

	input := &acm.RequestCertificateInput{
		DomainName:       awssdk.String(req.DomainName),
		ValidationMethod: acmtypes.ValidationMethodDns,
	}
	if req.IdempotencyToken != "" {
		input.IdempotencyToken = awssdk.String(req.IdempotencyToken)
	}
	// 空列表会被ACM拒绝，必须整体省略
	if len(req.SubjectAlternativeNames) > 0 {
		input.SubjectAlternativeNames = req.SubjectAlternativeNames
	}
	if len(req.Tags) > 0 {
		input.Tags = toTags(req.Tags)
	}

	output, err := p.client.RequestCertificate(ctx, input)
	if err != nil {
		return "", classifyACMError(err, "申请证书")
	}

	arn := awssdk.ToString(output.CertificateArn)
	if arn == "" {
		return "", fmt.Errorf("申请证书失败: ACM未返回证书ARN")
	}

	p.logger.Infof("[ACM] 证书申请成功，ARN: %s", arn)
	return arn, nil
}

// DescribeCertificate 获取证书状态
func (p *CertProvider) DescribeCertificate(ctx context.Context, handle string) (*provider.CertificateDetail, error) {
	if !isARN(handle) {
		return nil, fmt.Errorf("%w: 无效的证书ARN %q", provider.ErrCertificateNotFound, handle)
	}

	output, err := p.client.DescribeCertificate(ctx, &acm.DescribeCertificateInput{
		CertificateArn: awssdk.String(handle),
	})
	if err != nil {
		return nil, classifyACMError(err, "获取证书状态")
	}
	if output.Certificate == nil {
		return nil, fmt.Errorf("获取证书状态失败: ACM未返回证书详情")
	}

	cert := output.Certificate
	detail := &provider.CertificateDetail{
		Handle: handle,
		Status: string(cert.Status),
	}

	// 刚提交申请时 DomainValidationOptions 可能尚未出现
	if len(cert.DomainValidationOptions) > 0 {
		detail.ValidationOptions = make([]provider.ValidationOption, 0, len(cert.DomainValidationOptions))
		for _, dv := range cert.DomainValidationOptions {
			option := provider.ValidationOption{DomainName: awssdk.ToString(dv.DomainName)}
			if rr := dv.ResourceRecord; rr != nil {
				option.Record = &provider.ValidationRecord{
					Name:  awssdk.ToString(rr.Name),
					Type:  string(rr.Type),
					Value: awssdk.ToString(rr.Value),
				}
			}
			detail.ValidationOptions = append(detail.ValidationOptions, option)
		}
	} else if cert.Status != acmtypes.CertificateStatusPendingValidation {
		// 证书已结束，不会再附加验证信息
		detail.ValidationOptions = []provider.ValidationOption{}
	}

	return detail, nil
}

// DeleteCertificate 删除证书
func (p *CertProvider) DeleteCertificate(ctx context.Context, handle string) error {
	if !isARN(handle) {
		return fmt.Errorf("%w: 无效的证书ARN %q", provider.ErrCertificateNotFound, handle)
	}

	p.logger.Infof("[ACM] 删除证书: %s", handle)

	_, err := p.client.DeleteCertificate(ctx, &acm.DeleteCertificateInput{
		CertificateArn: awssdk.String(handle),
	})
	if err != nil {
		return classifyACMError(err, "删除证书")
	}

	p.logger.Infof("[ACM] 证书已删除")
	return nil
}

// isARN 创建失败时平台可能用日志流名称作为资源标识
func isARN(handle string) bool {
	return strings.HasPrefix(handle, "arn:")
}

// toTags 按键排序生成标签
func toTags(tags map[string]string) []acmtypes.Tag {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]acmtypes.Tag, 0, len(keys))
	for _, k := range keys {
		out = append(out, acmtypes.Tag{Key: awssdk.String(k), Value: awssdk.String(tags[k])})
	}
	return out
}
