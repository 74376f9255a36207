package aliyun

import (
	"context"
	"fmt"
	"strconv"

	cas "github.com/alibabacloud-go/cas-20200407/v3/client"
	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	"github.com/alibabacloud-go/tea/tea"
	"go.uber.org/zap"

	"cert-resource/internal/config"
	"cert-resource/internal/domain"
	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

var _ provider.CertAuthority = (*CertProvider)(nil)

// freeProductCode 免费DV证书产品
const freeProductCode = "digicert-free-1-free"

// CASAPI CertProvider 使用的CAS接口
type CASAPI interface {
	CreateCertificateForPackageRequest(request *cas.CreateCertificateForPackageRequestRequest) (*cas.CreateCertificateForPackageRequestResponse, error)
	DescribeCertificateState(request *cas.DescribeCertificateStateRequest) (*cas.DescribeCertificateStateResponse, error)
	DeleteCertificateRequest(request *cas.DeleteCertificateRequestRequest) (*cas.DeleteCertificateRequestResponse, error)
}

// CertProvider 阿里云证书提供商
type CertProvider struct {
	client CASAPI
	logger *zap.SugaredLogger
}

// NewCertProvider 创建阿里云证书提供商
func NewCertProvider(cfg config.AliyunConfig, log *zap.SugaredLogger) (*CertProvider, error) {
	clientConfig := &openapi.Config{
		AccessKeyId:     tea.String(cfg.AccessKeyID),
		AccessKeySecret: tea.String(cfg.AccessKeySecret),
		Endpoint:        tea.String("cas.aliyuncs.com"),
	}

	client, err := cas.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("创建阿里云CAS客户端失败: %w", err)
	}

	return NewCertProviderWithClient(client, log), nil
}

// NewCertProviderWithClient 使用已有客户端创建
func NewCertProviderWithClient(client CASAPI, log *zap.SugaredLogger) *CertProvider {
	return &CertProvider{client: client, logger: logger.OrNop(log)}
}

// Name 返回提供商名称
func (p *CertProvider) Name() string {
	return "aliyun"
}

// RequestCertificate 申请证书
func (p *CertProvider) RequestCertificate(ctx context.Context, req *provider.CertificateRequest) (string, error) {
	if len(req.SubjectAlternativeNames) > 0 {
		return "", fmt.Errorf("%w: 阿里云免费证书不支持备用域名", provider.ErrUnsupported)
	}

	p.logger.Infof("[阿里云] 开始为 %s 申请免费SSL证书...", req.DomainName)

	request := &cas.CreateCertificateForPackageRequestRequest{
		Domain:       tea.String(req.DomainName),
		ValidateType: tea.String("DNS"),
		ProductCode:  tea.String(freeProductCode),
	}

	response, err := p.client.CreateCertificateForPackageRequest(request)
	if err != nil {
		return "", classify(err, "创建证书订单", nil)
	}
	if response == nil || response.Body == nil || response.Body.OrderId == nil {
		return "", fmt.Errorf("创建证书订单失败: 未返回订单ID")
	}

	orderID := strconv.FormatInt(tea.Int64Value(response.Body.OrderId), 10)
	p.logger.Infof("[阿里云] 证书订单创建成功，订单ID: %s", orderID)

	return orderID, nil
}

// DescribeCertificate 获取证书状态
func (p *CertProvider) DescribeCertificate(ctx context.Context, handle string) (*provider.CertificateDetail, error) {
	orderID, err := parseOrderID(handle)
	if err != nil {
		return nil, err
	}

	response, err := p.client.DescribeCertificateState(&cas.DescribeCertificateStateRequest{
		OrderId: tea.Int64(orderID),
	})
	if err != nil {
		return nil, classify(err, "获取证书状态", provider.ErrCertificateNotFound)
	}
	if response == nil || response.Body == nil {
		return nil, fmt.Errorf("获取证书状态失败: 响应为空")
	}

	body := response.Body
	state := tea.StringValue(body.Type)
	detail := &provider.CertificateDetail{
		Handle: handle,
		Status: mapAliyunStatus(state),
	}

	certDomain := tea.StringValue(body.Domain)
	recordDomain := tea.StringValue(body.RecordDomain)
	recordValue := tea.StringValue(body.RecordValue)

	switch {
	case recordDomain != "" || recordValue != "":
		detail.ValidationOptions = []provider.ValidationOption{{
			DomainName: certDomain,
			Record: &provider.ValidationRecord{
				Name:  recordName(recordDomain, certDomain),
				Type:  tea.StringValue(body.RecordType),
				Value: recordValue,
			},
		}}
	case state == "domain_verify":
		// 验证信息已附加但记录尚未生成
		detail.ValidationOptions = []provider.ValidationOption{{DomainName: certDomain}}
	case state == "payed" || state == "checking":
		// 订单尚未进入域名验证，验证信息尚未附加
	default:
		// 验证已完成(审核或签发中)或订单已结束，平台不再返回验证信息
		detail.ValidationOptions = []provider.ValidationOption{}
	}

	return detail, nil
}

// DeleteCertificate 删除证书订单
func (p *CertProvider) DeleteCertificate(ctx context.Context, handle string) error {
	orderID, err := parseOrderID(handle)
	if err != nil {
		return err
	}

	p.logger.Infof("[阿里云] 删除证书订单: %s", handle)

	_, err = p.client.DeleteCertificateRequest(&cas.DeleteCertificateRequestRequest{
		OrderId: tea.Int64(orderID),
	})
	if err != nil {
		return classify(err, "删除证书订单", provider.ErrCertificateNotFound)
	}

	p.logger.Infof("[阿里云] 证书订单已删除")
	return nil
}

// mapAliyunStatus 映射阿里云状态到统一状态
func mapAliyunStatus(aliyunStatus string) string {
	switch aliyunStatus {
	case "domain_verify", "process", "verify", "payed", "checking":
		return provider.StatusPendingValidation
	case "certificate":
		return provider.StatusIssued
	case "verify_fail":
		return provider.StatusFailed
	default:
		return aliyunStatus
	}
}

// parseOrderID 订单ID必须是数字，否则视为证书不存在
func parseOrderID(handle string) (int64, error) {
	orderID, err := strconv.ParseInt(handle, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: 无效的订单ID %q", provider.ErrCertificateNotFound, handle)
	}
	return orderID, nil
}

// recordName 阿里云可能只返回主机记录，补全为完整域名
func recordName(recordDomain, certDomain string) string {
	if recordDomain == "" || certDomain == "" {
		return recordDomain
	}
	mainDomain := domain.ExtractMainDomain(certDomain)
	if domain.IsSubDomain(recordDomain, mainDomain) {
		return domain.Normalize(recordDomain)
	}
	return domain.Normalize(recordDomain) + "." + mainDomain
}
