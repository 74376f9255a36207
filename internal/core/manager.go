package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/cfn"
	"go.uber.org/zap"

	"cert-resource/internal/config"
	"cert-resource/internal/logger"
	"cert-resource/internal/notification"
	"cert-resource/internal/provider"
	"cert-resource/internal/resource"
)

const (
	// unissuedPrefix 未拿到证书标识时上报的占位标识前缀
	unissuedPrefix = "unissued-"

	notifyTimeout = 5 * time.Second
)

// Result 一次调用的最终结果，失败时也携带已知的资源标识
type Result struct {
	Identity string
	Data     map[string]interface{}
	Err      error
}

// Manager 证书资源管理器
type Manager struct {
	config   *config.Config
	backends Backends
	notifier notification.Notifier
	sleep    SleepFunc
	logger   *zap.SugaredLogger
}

// NewManager 创建管理器
func NewManager(cfg *config.Config, backends Backends, log *zap.SugaredLogger) *Manager {
	return &Manager{
		config:   cfg,
		backends: backends,
		sleep:    sleepContext,
		logger:   logger.OrNop(log),
	}
}

// SetNotifier 设置事件通知器
func (m *Manager) SetNotifier(n notification.Notifier) {
	m.notifier = n
}

// Handle 处理一次调用，Update 按 Create 处理
func (m *Manager) Handle(ctx context.Context, inv resource.Invocation) Result {
	m.logger.Infof("========== 处理请求: %s (RequestId: %s) ==========", inv.RequestType, inv.RequestID)

	var result Result
	switch inv.RequestType {
	case cfn.RequestCreate, cfn.RequestUpdate:
		result = m.create(ctx, inv)
	case cfn.RequestDelete:
		result = m.delete(ctx, inv)
	default:
		result = Result{
			Identity: inv.PhysicalResourceID,
			Err:      fmt.Errorf("不支持的请求类型: %s", inv.RequestType),
		}
	}

	if result.Err != nil {
		m.logger.Errorf("请求处理失败 (资源标识: %s): %v", result.Identity, result.Err)
	} else {
		m.logger.Infof("请求处理完成 (资源标识: %s)", result.Identity)
	}

	m.notify(ctx, inv, result)
	return result
}

// create 申请证书 → 获取验证记录 → 发布记录 → 等待签发
func (m *Manager) create(ctx context.Context, inv resource.Invocation) Result {
	props := inv.Properties
	token := IdempotencyToken(inv.RequestID)
	result := Result{Identity: placeholderIdentity(inv, token)}

	if err := props.Validate(); err != nil {
		result.Err = err
		return result
	}

	ca, zone, err := m.backends.Backends(ctx, m.selection(inv))
	if err != nil {
		result.Err = err
		return result
	}

	req := &provider.CertificateRequest{
		DomainName:              props.DomainName,
		SubjectAlternativeNames: props.SubjectAlternativeNames,
		HostedZoneID:            props.HostedZoneID,
		IdempotencyToken:        token,
		Tags:                    props.Tags,
	}

	handle, err := NewIssuer(ca, m.logger).Issue(ctx, req)
	if err != nil {
		result.Err = err
		return result
	}
	result.Identity = handle

	records, err := m.resolver(ca).Resolve(ctx, handle)
	if err != nil {
		result.Err = err
		return result
	}

	if err := m.publisher(zone).Publish(ctx, props.HostedZoneID, records); err != nil {
		result.Err = err
		return result
	}

	if err := m.waiter(ca).Wait(ctx, handle); err != nil {
		result.Err = err
		return result
	}

	result.Data = map[string]interface{}{resource.DataCertificateHandle: handle}
	return result
}

// delete 撤销验证记录后删除证书，资源已不存在视为成功
func (m *Manager) delete(ctx context.Context, inv resource.Invocation) Result {
	handle := inv.PhysicalResourceID
	result := Result{Identity: handle}

	if handle == "" || strings.HasPrefix(handle, unissuedPrefix) {
		m.logger.Infof("资源未申请过证书，无需删除: %q", handle)
		return result
	}

	ca, zone, err := m.backends.Backends(ctx, m.selection(inv))
	if err != nil {
		result.Err = err
		return result
	}

	// 删除时不无限等待验证信息，订单可能已越过验证阶段
	records, err := m.resolver(ca).WithMaxPolls(m.config.Timing.ResolveAttempts).Resolve(ctx, handle)
	if err != nil {
		if ctx.Err() != nil {
			result.Err = err
			return result
		}
		m.logger.Warnf("获取验证记录失败，跳过记录删除: %v", err)
		records = nil
	}

	if len(records) > 0 {
		zoneID := inv.Properties.HostedZoneID
		if zoneID == "" {
			m.logger.Warnf("资源属性缺少 HostedZoneId，跳过 %d 条验证记录的删除", len(records))
		} else if err := m.publisher(zone).Retract(ctx, zoneID, records); err != nil {
			result.Err = err
			return result
		}
	}

	if err := ca.DeleteCertificate(ctx, handle); err != nil {
		if !errors.Is(err, provider.ErrCertificateNotFound) {
			result.Err = fmt.Errorf("删除证书失败: %w", err)
			return result
		}
		m.logger.Warnf("证书已不存在，跳过: %v", err)
	}

	return result
}

// selection 默认配置与资源属性合并后的提供商选择
func (m *Manager) selection(inv resource.Invocation) config.ProviderSelection {
	return m.config.Selection.Override(inv.Properties.Selection())
}

func (m *Manager) resolver(ca provider.CertAuthority) *Resolver {
	t := m.config.Timing
	r := NewResolver(ca, t.MetadataInterval, t.ResolveRetryDelay, t.ResolveAttempts, m.logger)
	r.sleep = m.sleep
	return r
}

func (m *Manager) publisher(zone provider.DNSZone) *Publisher {
	return NewPublisher(zone, m.config.Timing.RecordTTL, m.logger)
}

func (m *Manager) waiter(ca provider.CertAuthority) *Waiter {
	t := m.config.Timing
	w := NewWaiter(ca, t.WaitInterval, t.WaitAttempts, m.logger)
	w.sleep = m.sleep
	return w
}

// notify 发送结果通知，失败只记录日志
func (m *Manager) notify(ctx context.Context, inv resource.Invocation, result Result) {
	if m.notifier == nil {
		return
	}

	var (
		event   notification.EventType
		message string
		data    map[string]interface{}
	)
	domainName := inv.Properties.DomainName

	switch {
	case result.Err == nil && inv.RequestType == cfn.RequestDelete:
		event, message = notification.EventCertDeleted, fmt.Sprintf("证书已删除: %s", domainName)
	case result.Err == nil:
		event, message = notification.EventCertIssued, fmt.Sprintf("证书签发成功: %s", domainName)
	case errors.Is(result.Err, ErrValidationTimeout), errors.Is(result.Err, ErrIssuanceTimeout):
		event, message = notification.EventValidationTimeout, fmt.Sprintf("证书验证超时: %s", domainName)
		data = map[string]interface{}{"reason": result.Err.Error()}
	default:
		event, message = notification.EventCertFailed, fmt.Sprintf("证书处理失败: %s", domainName)
		data = map[string]interface{}{"reason": result.Err.Error()}
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	data["request_type"] = string(inv.RequestType)

	// ctx 可能已到期，通知使用独立的短超时
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := m.notifier.Notify(notifyCtx, event, domainName, result.Identity, message, data); err != nil {
		m.logger.Warnf("发送通知失败: %v", err)
	}
}

// placeholderIdentity 尚未拿到证书标识时的资源标识
// Update 沿用原标识，Create 使用占位标识，后续 Delete 会识别并跳过
func placeholderIdentity(inv resource.Invocation, token string) string {
	if inv.RequestType == cfn.RequestUpdate && inv.PhysicalResourceID != "" {
		return inv.PhysicalResourceID
	}
	if token == "" {
		return ""
	}
	return unissuedPrefix + token
}
