package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath 配置文件路径的环境变量
const EnvConfigPath = "CERT_RESOURCE_CONFIG"

// 默认值
const (
	DefaultMetadataInterval  = time.Second
	DefaultResolveRetryDelay = 10 * time.Second
	DefaultResolveAttempts   = 10
	DefaultWaitInterval      = 20 * time.Second
	DefaultWaitAttempts      = 15
	DefaultRecordTTL         = 60
	DefaultReportMargin      = 15 * time.Second
)

// Load 加载配置：先读取配置文件（可选），再用环境变量覆盖
func Load(path string) (*Config, error) {
	var config Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}

	applyDefaults(&config)

	// 验证配置
	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDefaults 设置默认值
func applyDefaults(config *Config) {
	t := &config.Timing
	if t.MetadataInterval <= 0 {
		t.MetadataInterval = DefaultMetadataInterval
	}
	if t.ResolveRetryDelay <= 0 {
		t.ResolveRetryDelay = DefaultResolveRetryDelay
	}
	if t.ResolveAttempts <= 0 {
		t.ResolveAttempts = DefaultResolveAttempts
	}
	if t.WaitInterval <= 0 {
		t.WaitInterval = DefaultWaitInterval
	}
	if t.WaitAttempts <= 0 {
		t.WaitAttempts = DefaultWaitAttempts
	}
	if t.RecordTTL <= 0 {
		t.RecordTTL = DefaultRecordTTL
	}
	if t.ReportMargin <= 0 {
		t.ReportMargin = DefaultReportMargin
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "json"
	}
}

// validate 验证配置
func validate(config *Config) error {
	if err := ValidateSelection(config, config.Selection); err != nil {
		return err
	}

	if config.Webhook.Enabled && config.Webhook.URL == "" {
		return fmt.Errorf("webhook 已启用但未配置 url")
	}

	return nil
}

// ValidateSelection 检查所选提供商及其凭证
func ValidateSelection(config *Config, sel ProviderSelection) error {
	if err := validateProviderConfig(config, sel.GetCertProvider(), "证书"); err != nil {
		return err
	}
	return validateProviderConfig(config, sel.GetDNSProvider(), "DNS")
}

// validateProviderConfig 验证提供商配置是否存在
func validateProviderConfig(config *Config, providerName, providerType string) error {
	switch providerName {
	case ProviderAWS:
		// 凭证来自执行角色或默认凭证链
	case ProviderAliyun:
		if config.Providers.Aliyun.AccessKeyID == "" || config.Providers.Aliyun.AccessKeySecret == "" {
			return fmt.Errorf("%s提供商 aliyun 凭证不完整", providerType)
		}
	case ProviderTencent:
		if config.Providers.Tencent.SecretID == "" || config.Providers.Tencent.SecretKey == "" {
			return fmt.Errorf("%s提供商 tencent 凭证不完整", providerType)
		}
	case ProviderHuawei:
		if providerType == "证书" {
			return fmt.Errorf("华为云暂不支持通过API申请证书")
		}
		if config.Providers.Huawei.AccessKey == "" || config.Providers.Huawei.SecretKey == "" {
			return fmt.Errorf("%s提供商 huawei 凭证不完整", providerType)
		}
	default:
		return fmt.Errorf("不支持的%s提供商: %s", providerType, providerName)
	}
	return nil
}
