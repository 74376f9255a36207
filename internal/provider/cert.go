package provider

import "context"

// CertAuthority 证书颁发机构接口
type CertAuthority interface {
	// Name 返回提供商名称
	Name() string

	// RequestCertificate 提交证书申请，返回证书句柄
	// 备用域名列表为空时不得向平台发送该字段
	RequestCertificate(ctx context.Context, req *CertificateRequest) (handle string, err error)

	// DescribeCertificate 查询证书状态及DNS验证信息
	DescribeCertificate(ctx context.Context, handle string) (*CertificateDetail, error)

	// DeleteCertificate 删除证书，证书不存在时返回 ErrCertificateNotFound
	DeleteCertificate(ctx context.Context, handle string) error
}
