package tencent

import (
	"context"
	"fmt"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	ssl "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/ssl/v20191205"
	"go.uber.org/zap"

	"cert-resource/internal/config"
	"cert-resource/internal/domain"
	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

var _ provider.CertAuthority = (*CertProvider)(nil)

// SSLAPI CertProvider 使用的SSL证书接口
type SSLAPI interface {
	ApplyCertificateWithContext(ctx context.Context, request *ssl.ApplyCertificateRequest) (*ssl.ApplyCertificateResponse, error)
	DescribeCertificateWithContext(ctx context.Context, request *ssl.DescribeCertificateRequest) (*ssl.DescribeCertificateResponse, error)
	DeleteCertificateWithContext(ctx context.Context, request *ssl.DeleteCertificateRequest) (*ssl.DeleteCertificateResponse, error)
}

// CertProvider 腾讯云证书提供商
type CertProvider struct {
	client SSLAPI
	logger *zap.SugaredLogger
}

// NewCertProvider 创建腾讯云证书提供商
func NewCertProvider(cfg config.TencentConfig, log *zap.SugaredLogger) (*CertProvider, error) {
	credential := common.NewCredential(cfg.SecretID, cfg.SecretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "ssl.tencentcloudapi.com"

	region := cfg.Region
	if region == "" {
		region = "ap-guangzhou"
	}

	client, err := ssl.NewClient(credential, region, cpf)
	if err != nil {
		return nil, fmt.Errorf("创建腾讯云SSL客户端失败: %w", err)
	}

	return NewCertProviderWithClient(client, log), nil
}

// NewCertProviderWithClient 使用已有客户端创建
func NewCertProviderWithClient(client SSLAPI, log *zap.SugaredLogger) *CertProvider {
	return &CertProvider{client: client, logger: logger.OrNop(log)}
}

// Name 返回提供商名称
func (p *CertProvider) Name() string {
	return "tencent"
}

// RequestCertificate 申请证书
func (p *CertProvider) RequestCertificate(ctx context.Context, req *provider.CertificateRequest) (string, error) {
	if len(req.SubjectAlternativeNames) > 0 {
		return "", fmt.Errorf("%w: 腾讯云免费证书不支持备用域名", provider.ErrUnsupported)
	}

	p.logger.Infof("[腾讯云] 开始为 %s 申请免费SSL证书...", req.DomainName)

	// 使用手动DNS验证，记录由本程序发布
	request := ssl.NewApplyCertificateRequest()
	request.DvAuthMethod = common.StringPtr("DNS")
	request.DomainName = common.StringPtr(req.DomainName)
	if req.IdempotencyToken != "" {
		request.Alias = common.StringPtr(req.IdempotencyToken)
	}

	response, err := p.client.ApplyCertificateWithContext(ctx, request)
	if err != nil {
		return "", classify(err, "申请证书", nil)
	}
	if response.Response == nil || response.Response.CertificateId == nil {
		return "", fmt.Errorf("申请证书失败: 未返回证书ID")
	}

	certID := *response.Response.CertificateId
	p.logger.Infof("[腾讯云] 证书申请成功，CertificateId: %s", certID)

	return certID, nil
}

// DescribeCertificate 获取证书状态
func (p *CertProvider) DescribeCertificate(ctx context.Context, handle string) (*provider.CertificateDetail, error) {
	request := ssl.NewDescribeCertificateRequest()
	request.CertificateId = common.StringPtr(handle)

	response, err := p.client.DescribeCertificateWithContext(ctx, request)
	if err != nil {
		return nil, classify(err, "获取证书状态", provider.ErrCertificateNotFound)
	}
	if response.Response == nil || response.Response.Status == nil {
		return nil, fmt.Errorf("获取证书状态失败: 响应为空")
	}

	status := *response.Response.Status
	detail := &provider.CertificateDetail{
		Handle: handle,
		Status: mapTencentStatus(status),
	}

	// 获取DNS验证信息
	if auth := response.Response.DvAuthDetail; auth != nil && len(auth.DvAuths) > 0 {
		detail.ValidationOptions = make([]provider.ValidationOption, 0, len(auth.DvAuths))
		for _, dvAuth := range auth.DvAuths {
			if dvAuth == nil {
				continue
			}
			authDomain := stringValue(dvAuth.DvAuthDomain)
			option := provider.ValidationOption{DomainName: authDomain}
			key := stringValue(dvAuth.DvAuthKey)
			if key == "" {
				key = stringValue(dvAuth.DvAuthSubDomain)
			}
			if key != "" || dvAuth.DvAuthValue != nil {
				option.Record = &provider.ValidationRecord{
					Name:  recordName(key, authDomain),
					Type:  stringValue(dvAuth.DvAuthVerifyType),
					Value: stringValue(dvAuth.DvAuthValue),
				}
			}
			detail.ValidationOptions = append(detail.ValidationOptions, option)
		}
	} else if !awaitingDvAuth(status) {
		// 不在域名验证阶段或证书已结束，平台不再返回验证信息
		detail.ValidationOptions = []provider.ValidationOption{}
	}

	return detail, nil
}

// DeleteCertificate 删除证书
func (p *CertProvider) DeleteCertificate(ctx context.Context, handle string) error {
	p.logger.Infof("[腾讯云] 删除证书: %s", handle)

	request := ssl.NewDeleteCertificateRequest()
	request.CertificateId = common.StringPtr(handle)

	if _, err := p.client.DeleteCertificateWithContext(ctx, request); err != nil {
		return classify(err, "删除证书", provider.ErrCertificateNotFound)
	}

	p.logger.Infof("[腾讯云] 证书已删除")
	return nil
}

// mapTencentStatus 映射腾讯云状态到统一状态
func mapTencentStatus(status uint64) string {
	// 腾讯云状态码:
	// 0: 审核中
	// 1: 已通过
	// 2: 审核失败
	// 3: 已过期
	// 4: DNS记录添加中
	// 5: 企业证书，待提交
	// 6: 订单取消中
	// 7: 已取消
	// 8: 已提交资料，待上传确认函
	// 9: 证书吊销中
	// 10: 已吊销
	// 11: 重颁发中
	// 12: 待上传吊销确认函
	switch status {
	case 0, 4, 5, 8:
		return provider.StatusPendingValidation
	case 1:
		return provider.StatusIssued
	case 2:
		return provider.StatusFailed
	case 3:
		return "EXPIRED"
	case 6, 7:
		return "CANCELLED"
	case 9, 10, 12:
		return "REVOKED"
	default:
		return fmt.Sprintf("STATUS_%d", status)
	}
}

// awaitingDvAuth 该状态下验证信息可能稍后才附加
func awaitingDvAuth(status uint64) bool {
	return status == 0 || status == 4
}

// recordName 由主机记录和主域名组成完整记录名
func recordName(key, authDomain string) string {
	if authDomain == "" || domain.IsSubDomain(key, authDomain) {
		return domain.Normalize(key)
	}
	return domain.Normalize(key) + "." + domain.Normalize(authDomain)
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
