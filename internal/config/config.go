package config

import "time"

// 支持的提供商名称
const (
	ProviderAWS     = "aws"
	ProviderAliyun  = "aliyun"
	ProviderTencent = "tencent"
	ProviderHuawei  = "huawei"
)

// Config 配置结构
type Config struct {
	// 默认提供商选择，可被资源属性覆盖
	Selection ProviderSelection `yaml:",inline"`

	// 云平台凭证配置
	Providers ProvidersConfig `yaml:"providers"`

	// 轮询与记录参数
	Timing TimingConfig `yaml:"timing"`

	// 日志
	Log LogConfig `yaml:"log"`

	// Webhook 通知配置
	Webhook WebhookConfig `yaml:"webhook"`
}

// ProviderSelection 提供商选择
type ProviderSelection struct {
	// 简单模式：证书和DNS使用同一平台
	Provider string `yaml:"provider,omitempty" env:"CERT_RESOURCE_PROVIDER"` // aws, aliyun, tencent, huawei

	// 混合模式：证书和DNS使用不同平台
	CertProvider string `yaml:"cert_provider,omitempty" env:"CERT_RESOURCE_CERT_PROVIDER"`
	DNSProvider  string `yaml:"dns_provider,omitempty" env:"CERT_RESOURCE_DNS_PROVIDER"`
}

// GetCertProvider 获取证书提供商名称
func (s ProviderSelection) GetCertProvider() string {
	if s.CertProvider != "" {
		return s.CertProvider
	}
	if s.Provider != "" {
		return s.Provider
	}
	return ProviderAWS
}

// GetDNSProvider 获取DNS提供商名称
func (s ProviderSelection) GetDNSProvider() string {
	if s.DNSProvider != "" {
		return s.DNSProvider
	}
	if s.Provider != "" {
		return s.Provider
	}
	return ProviderAWS
}

// Override 用 o 中非空的字段覆盖当前选择
func (s ProviderSelection) Override(o ProviderSelection) ProviderSelection {
	if o.Provider != "" {
		// 单独指定 provider 时同时覆盖证书和DNS
		s = ProviderSelection{Provider: o.Provider}
	}
	if o.CertProvider != "" {
		s.CertProvider = o.CertProvider
	}
	if o.DNSProvider != "" {
		s.DNSProvider = o.DNSProvider
	}
	return s
}

// ProvidersConfig 云平台凭证配置
type ProvidersConfig struct {
	AWS     AWSConfig     `yaml:"aws"`
	Aliyun  AliyunConfig  `yaml:"aliyun"`
	Tencent TencentConfig `yaml:"tencent"`
	Huawei  HuaweiConfig  `yaml:"huawei"`
}

// AWSConfig AWS配置，未配置密钥时凭证走默认凭证链 (执行角色)
type AWSConfig struct {
	Region          string `yaml:"region" env:"AWS_REGION"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint,omitempty" env:"CERT_RESOURCE_AWS_ENDPOINT"` // 自定义端点 (如 LocalStack)
}

// AliyunConfig 阿里云配置
type AliyunConfig struct {
	AccessKeyID     string `yaml:"access_key_id" env:"ALIYUN_ACCESS_KEY_ID"`
	AccessKeySecret string `yaml:"access_key_secret" env:"ALIYUN_ACCESS_KEY_SECRET"`
	Region          string `yaml:"region" env:"ALIYUN_REGION"`
}

// TencentConfig 腾讯云配置
type TencentConfig struct {
	SecretID  string `yaml:"secret_id" env:"TENCENTCLOUD_SECRET_ID"`
	SecretKey string `yaml:"secret_key" env:"TENCENTCLOUD_SECRET_KEY"`
	Region    string `yaml:"region" env:"TENCENTCLOUD_REGION"`
}

// HuaweiConfig 华为云配置
type HuaweiConfig struct {
	AccessKey string `yaml:"access_key" env:"HUAWEICLOUD_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"HUAWEICLOUD_SECRET_KEY"`
	Region    string `yaml:"region" env:"HUAWEICLOUD_REGION"`
	ProjectID string `yaml:"project_id" env:"HUAWEICLOUD_PROJECT_ID"`
}

// TimingConfig 轮询参数
type TimingConfig struct {
	MetadataInterval  time.Duration `yaml:"metadata_interval" env:"CERT_RESOURCE_METADATA_INTERVAL"`     // 等待验证信息出现的间隔
	ResolveRetryDelay time.Duration `yaml:"resolve_retry_delay" env:"CERT_RESOURCE_RESOLVE_RETRY_DELAY"` // 验证记录未就绪时的重试间隔
	ResolveAttempts   int           `yaml:"resolve_attempts" env:"CERT_RESOURCE_RESOLVE_ATTEMPTS"`
	WaitInterval      time.Duration `yaml:"wait_interval" env:"CERT_RESOURCE_WAIT_INTERVAL"` // 等待签发的轮询间隔
	WaitAttempts      int           `yaml:"wait_attempts" env:"CERT_RESOURCE_WAIT_ATTEMPTS"`
	RecordTTL         int64         `yaml:"record_ttl" env:"CERT_RESOURCE_RECORD_TTL"`       // 验证记录TTL（秒）
	ReportMargin      time.Duration `yaml:"report_margin" env:"CERT_RESOURCE_REPORT_MARGIN"` // 在平台超时前预留的上报时间
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" env:"LOG_FORMAT"` // json, console
}

// WebhookConfig Webhook 通知配置
type WebhookConfig struct {
	Enabled      bool              `yaml:"enabled" env:"WEBHOOK_ENABLED"`                  // 是否启用
	URL          string            `yaml:"url" env:"WEBHOOK_URL"`                          // Webhook URL
	Headers      map[string]string `yaml:"headers,omitempty" env:"WEBHOOK_HEADERS"`        // 自定义请求头
	Events       []string          `yaml:"events,omitempty" env:"WEBHOOK_EVENTS"`          // 订阅的事件类型
	Timeout      int               `yaml:"timeout,omitempty" env:"WEBHOOK_TIMEOUT"`        // 请求超时时间（秒），默认10
	Retries      int               `yaml:"retries,omitempty" env:"WEBHOOK_RETRIES"`        // 重试次数，默认3
	BodyTemplate string            `yaml:"body_template,omitempty" env:"WEBHOOK_TEMPLATE"` // 请求体模板（JSON格式）
}
