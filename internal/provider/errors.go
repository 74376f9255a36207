package provider

import "errors"

// 可忽略的结果：删除路径上资源已经不存在
var (
	ErrCertificateNotFound = errors.New("证书不存在")
	ErrRecordNotFound      = errors.New("DNS记录不存在")
	ErrRecordSetNotFound   = errors.New("DNS记录集不存在")
)

// ErrUnsupported 平台不支持的申请参数
var ErrUnsupported = errors.New("平台不支持该操作")
