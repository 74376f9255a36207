package aliyun

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alibabacloud-go/tea/tea"
)

// errorCode 提取阿里云SDK错误码
func errorCode(err error) string {
	var sdkErr *tea.SDKError
	if errors.As(err, &sdkErr) {
		return tea.StringValue(sdkErr.Code)
	}
	return ""
}

// isNotFoundCode 错误码是否表示资源不存在
func isNotFoundCode(code string) bool {
	return strings.Contains(code, "NotFound") ||
		strings.Contains(code, "NotExist") ||
		strings.Contains(code, "NoExist") ||
		code == "DomainRecordNotBelongToUser"
}

// classify 统一包装错误；资源不存在时包装 notFound
func classify(err error, operation string, notFound error) error {
	if err == nil {
		return nil
	}
	code := errorCode(err)
	if notFound != nil && isNotFoundCode(code) {
		return fmt.Errorf("%w: %s", notFound, err)
	}
	if code != "" {
		return fmt.Errorf("%s失败 (code: %s): %w", operation, code, err)
	}
	return fmt.Errorf("%s失败: %w", operation, err)
}
