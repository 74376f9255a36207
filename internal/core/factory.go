package core

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"go.uber.org/zap"

	"cert-resource/internal/config"
	"cert-resource/internal/logger"
	"cert-resource/internal/provider"
	"cert-resource/internal/provider/aliyun"
	awsprovider "cert-resource/internal/provider/aws"
	"cert-resource/internal/provider/huawei"
	"cert-resource/internal/provider/tencent"
)

// Backends 按提供商选择获取证书平台和DNS区域
type Backends interface {
	Backends(ctx context.Context, sel config.ProviderSelection) (provider.CertAuthority, provider.DNSZone, error)
}

// Factory 提供商工厂
type Factory struct {
	config *config.Config
	logger *zap.SugaredLogger

	awsConfig *awssdk.Config

	// 缓存已创建的提供商实例，Lambda 热启动时复用
	certProviders map[string]provider.CertAuthority
	dnsProviders  map[string]provider.DNSZone
}

// NewFactory 创建工厂
func NewFactory(cfg *config.Config, log *zap.SugaredLogger) *Factory {
	return &Factory{
		config:        cfg,
		logger:        logger.OrNop(log),
		certProviders: make(map[string]provider.CertAuthority),
		dnsProviders:  make(map[string]provider.DNSZone),
	}
}

// GetCertProvider 获取证书提供商
func (f *Factory) GetCertProvider(ctx context.Context, name string) (provider.CertAuthority, error) {
	if p, ok := f.certProviders[name]; ok {
		return p, nil
	}

	var p provider.CertAuthority
	switch name {
	case config.ProviderAWS:
		awsCfg, err := f.aws(ctx)
		if err != nil {
			return nil, err
		}
		p = awsprovider.NewCertProviderFromConfig(awsCfg, f.logger)

	case config.ProviderAliyun:
		cp, err := aliyun.NewCertProvider(f.config.Providers.Aliyun, f.logger)
		if err != nil {
			return nil, err
		}
		p = cp

	case config.ProviderTencent:
		cp, err := tencent.NewCertProvider(f.config.Providers.Tencent, f.logger)
		if err != nil {
			return nil, err
		}
		p = cp

	case config.ProviderHuawei:
		return nil, fmt.Errorf("华为云暂不支持通过API申请证书")

	default:
		return nil, fmt.Errorf("不支持的证书提供商: %s", name)
	}

	f.certProviders[name] = p
	return p, nil
}

// GetDNSProvider 获取DNS提供商
func (f *Factory) GetDNSProvider(ctx context.Context, name string) (provider.DNSZone, error) {
	if p, ok := f.dnsProviders[name]; ok {
		return p, nil
	}

	var p provider.DNSZone
	switch name {
	case config.ProviderAWS:
		awsCfg, err := f.aws(ctx)
		if err != nil {
			return nil, err
		}
		p = awsprovider.NewDNSProviderFromConfig(awsCfg, f.logger)

	case config.ProviderAliyun:
		dp, err := aliyun.NewDNSProvider(f.config.Providers.Aliyun, f.logger)
		if err != nil {
			return nil, err
		}
		p = dp

	case config.ProviderTencent:
		dp, err := tencent.NewDNSProvider(f.config.Providers.Tencent, f.logger)
		if err != nil {
			return nil, err
		}
		p = dp

	case config.ProviderHuawei:
		dp, err := huawei.NewDNSProvider(f.config.Providers.Huawei, f.logger)
		if err != nil {
			return nil, err
		}
		p = dp

	default:
		return nil, fmt.Errorf("不支持的DNS提供商: %s", name)
	}

	f.dnsProviders[name] = p
	return p, nil
}

// Backends 获取证书和DNS提供商
func (f *Factory) Backends(ctx context.Context, sel config.ProviderSelection) (provider.CertAuthority, provider.DNSZone, error) {
	if err := config.ValidateSelection(f.config, sel); err != nil {
		return nil, nil, err
	}

	ca, err := f.GetCertProvider(ctx, sel.GetCertProvider())
	if err != nil {
		return nil, nil, fmt.Errorf("获取证书提供商失败: %w", err)
	}

	zone, err := f.GetDNSProvider(ctx, sel.GetDNSProvider())
	if err != nil {
		return nil, nil, fmt.Errorf("获取DNS提供商失败: %w", err)
	}

	return ca, zone, nil
}

// aws 加载并缓存AWS配置
func (f *Factory) aws(ctx context.Context) (awssdk.Config, error) {
	if f.awsConfig != nil {
		return *f.awsConfig, nil
	}

	awsCfg, err := awsprovider.LoadConfig(ctx, f.config.Providers.AWS)
	if err != nil {
		return awssdk.Config{}, err
	}
	f.awsConfig = &awsCfg
	return awsCfg, nil
}
