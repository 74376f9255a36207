package aws

import (
	"errors"
	"fmt"
	"strings"

	acmtypes "github.com/aws/aws-sdk-go-v2/service/acm/types"
	r53types "github.com/aws/aws-sdk-go-v2/service/route53/types"
	"github.com/aws/smithy-go"

	"cert-resource/internal/provider"
)

// classifyACMError 将ACM错误映射为统一错误
func classifyACMError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var notFound *acmtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", provider.ErrCertificateNotFound, err)
	}

	// 句柄不是合法ARN时，证书不可能存在
	var invalidArn *acmtypes.InvalidArnException
	if errors.As(err, &invalidArn) {
		return fmt.Errorf("%w: %s", provider.ErrCertificateNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s失败 (code: %s): %w", operation, apiErr.ErrorCode(), err)
	}

	return fmt.Errorf("%s失败: %w", operation, err)
}

// classifyRoute53Error 将Route53错误映射为统一错误
func classifyRoute53Error(err error, operation string) error {
	if err == nil {
		return nil
	}

	var batch *r53types.InvalidChangeBatch
	if errors.As(err, &batch) {
		messages := append([]string{batch.ErrorMessage()}, batch.Messages...)
		for _, msg := range messages {
			switch {
			case strings.Contains(msg, "but it was not found"):
				return fmt.Errorf("%w: %s", provider.ErrRecordNotFound, msg)
			case strings.Contains(msg, "does not exist"):
				return fmt.Errorf("%w: %s", provider.ErrRecordSetNotFound, msg)
			}
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s失败 (code: %s): %w", operation, apiErr.ErrorCode(), err)
	}

	return fmt.Errorf("%s失败: %w", operation, err)
}
