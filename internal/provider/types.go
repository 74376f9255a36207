package provider

// 统一的证书状态，其他平台状态原样透传
const (
	StatusPendingValidation = "PENDING_VALIDATION"
	StatusIssued            = "ISSUED"
	StatusFailed            = "FAILED"
)

// CertificateRequest 证书申请
type CertificateRequest struct {
	DomainName              string            // 主域名
	SubjectAlternativeNames []string          // 备用域名列表，可为空
	HostedZoneID            string            // 验证记录所在的DNS区域
	IdempotencyToken        string            // 幂等令牌
	Tags                    map[string]string // 证书标签 (可选)
}

// ValidationRecord DNS验证记录
type ValidationRecord struct {
	Name  string // 记录名 (完整域名)
	Type  string // 记录类型 (CNAME / TXT)
	Value string // 记录值
}

// Complete 记录的名称、类型、值是否都已填充
func (r *ValidationRecord) Complete() bool {
	return r != nil && r.Name != "" && r.Type != "" && r.Value != ""
}

// ValidationOption 单个域名的验证信息
type ValidationOption struct {
	DomainName string
	Record     *ValidationRecord // 平台尚未生成记录时为 nil
}

// CertificateDetail 证书详情
type CertificateDetail struct {
	Handle string
	Status string

	// ValidationOptions 为 nil 表示平台尚未附加验证信息，
	// 非 nil 的空切片表示证书没有需要验证的域名
	ValidationOptions []ValidationOption
}
