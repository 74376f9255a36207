package core

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
)

// maxTokenLength ACM 幂等令牌最大长度
const maxTokenLength = 32

var nonWordChars = regexp.MustCompile(`\W`)

// IdempotencyToken 由调用请求ID生成幂等令牌
// 同一请求的重试得到相同令牌，平台不会重复创建证书
func IdempotencyToken(requestID string) string {
	if id, err := uuid.Parse(requestID); err == nil {
		return strings.ReplaceAll(id.String(), "-", "")
	}

	token := nonWordChars.ReplaceAllString(requestID, "")
	if len(token) > maxTokenLength {
		token = token[:maxTokenLength]
	}
	return token
}

// Issuer 提交证书申请
type Issuer struct {
	ca     provider.CertAuthority
	logger *zap.SugaredLogger
}

// NewIssuer 创建申请器
func NewIssuer(ca provider.CertAuthority, log *zap.SugaredLogger) *Issuer {
	return &Issuer{ca: ca, logger: logger.OrNop(log)}
}

// Issue 申请证书，返回证书标识
func (i *Issuer) Issue(ctx context.Context, req *provider.CertificateRequest) (string, error) {
	i.logger.Infof("[%s] 申请证书: %s, 备用域名: %v", i.ca.Name(), req.DomainName, req.SubjectAlternativeNames)

	handle, err := i.ca.RequestCertificate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("申请证书失败: %w", err)
	}

	i.logger.Infof("[%s] 证书已申请: %s", i.ca.Name(), handle)
	return handle, nil
}
