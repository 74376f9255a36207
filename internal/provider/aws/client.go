// Package aws 基于 ACM 与 Route53 的证书和DNS提供商
package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"cert-resource/internal/config"
)

// LoadConfig 加载AWS配置
// 配置了静态密钥时使用静态凭证，否则走执行角色/环境变量的默认凭证链
func LoadConfig(ctx context.Context, cfg config.AWSConfig) (awssdk.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awssdk.Config{}, fmt.Errorf("加载AWS配置失败: %w", err)
	}

	if cfg.Endpoint != "" {
		awsCfg.BaseEndpoint = awssdk.String(cfg.Endpoint)
	}
	return awsCfg, nil
}
