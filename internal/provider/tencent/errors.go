package tencent

import (
	"errors"
	"fmt"
	"strings"

	tcerr "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
)

// errorCode 提取腾讯云SDK错误码
func errorCode(err error) string {
	var sdkErr *tcerr.TencentCloudSDKError
	if errors.As(err, &sdkErr) {
		return sdkErr.GetCode()
	}
	return ""
}

// isNotFoundCode 错误码是否表示资源不存在
func isNotFoundCode(code string) bool {
	return strings.Contains(code, "NotFound") ||
		strings.Contains(code, "NotExist") ||
		strings.Contains(code, "NoDataOfRecord")
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
