package huawei

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/huaweicloud/huaweicloud-sdk-go-v3/core/sdkerr"
)

// isNotFound 华为云返回404或资源不存在的错误码
func isNotFound(err error) bool {
	var respErr *sdkerr.ServiceResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusNotFound
	}
	return false
}

// classify 统一包装错误；资源不存在时包装 notFound
func classify(err error, operation string, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && isNotFound(err) {
		return fmt.Errorf("%w: %s", notFound, err)
	}
	var respErr *sdkerr.ServiceResponseError
	if errors.As(err, &respErr) && respErr.ErrorCode != "" {
		return fmt.Errorf("%s失败 (code: %s): %w", operation, respErr.ErrorCode, err)
	}
	return fmt.Errorf("%s失败: %w", operation, err)
}
