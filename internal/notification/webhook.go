package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"text/template"
	"time"

	"go.uber.org/zap"

	"cert-resource/internal/config"
	"cert-resource/internal/logger"
)

// EventType 事件类型
type EventType string

const (
	EventCertIssued        EventType = "cert_issued"        // 证书签发成功
	EventCertFailed        EventType = "cert_failed"        // 证书申请失败
	EventValidationTimeout EventType = "validation_timeout" // 验证记录或签发等待超时
	EventCertDeleted       EventType = "cert_deleted"       // 证书及验证记录已删除
)

// EventData 事件数据
type EventData struct {
	Event     string                 `json:"event"`          // 事件类型
	Domain    string                 `json:"domain"`         // 域名
	Handle    string                 `json:"handle"`         // 证书标识
	Timestamp string                 `json:"timestamp"`      // 时间戳
	Message   string                 `json:"message"`        // 消息
	Data      map[string]interface{} `json:"data,omitempty"` // 额外数据
}

// Notifier 事件通知接口
type Notifier interface {
	Notify(ctx context.Context, eventType EventType, domain, handle, message string, data map[string]interface{}) error
}

// WebhookNotifier Webhook 通知器
type WebhookNotifier struct {
	config config.WebhookConfig
	client *http.Client
	logger *zap.SugaredLogger
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewWebhookNotifier 创建 Webhook 通知器，未启用时返回 nil
func NewWebhookNotifier(cfg config.WebhookConfig, log *zap.SugaredLogger) *WebhookNotifier {
	if !cfg.Enabled || cfg.URL == "" {
		return nil
	}

	timeout := 10 * time.Second
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	return &WebhookNotifier{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger.OrNop(log),
		sleep:  sleepContext,
	}
}

// ShouldNotify 检查是否应该发送该事件的通知
func (w *WebhookNotifier) ShouldNotify(eventType EventType) bool {
	if w == nil {
		return false
	}

	// 如果没有配置事件列表，则发送所有事件
	if len(w.config.Events) == 0 {
		return true
	}

	for _, e := range w.config.Events {
		if e == string(eventType) {
			return true
		}
	}
	return false
}

// Notify 发送通知
func (w *WebhookNotifier) Notify(ctx context.Context, eventType EventType, domain, handle, message string, data map[string]interface{}) error {
	if !w.ShouldNotify(eventType) {
		return nil
	}

	eventData := EventData{
		Event:     string(eventType),
		Domain:    domain,
		Handle:    handle,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Message:   message,
		Data:      data,
	}

	body, err := w.buildBody(eventData)
	if err != nil {
		return err
	}

	retries := w.config.Retries
	if retries <= 0 {
		retries = 3
	}

	var lastErr error
	for i := 0; i < retries; i++ {
		if i > 0 {
			// 指数退避：1s, 2s, 4s
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			w.logger.Warnf("Webhook 通知失败，%v 后重试 (第 %d/%d 次)...", backoff, i+1, retries)
			if err := w.sleep(ctx, backoff); err != nil {
				return err
			}
		}

		if lastErr = w.send(ctx, body); lastErr == nil {
			w.logger.Infof("Webhook 通知发送成功: %s (事件: %s, 域名: %s)", w.config.URL, eventType, domain)
			return nil
		}
	}

	w.logger.Errorf("Webhook 通知发送失败 (已重试 %d 次): %v", retries, lastErr)
	return lastErr
}

// send 发送一次请求
func (w *WebhookNotifier) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range w.config.Headers {
		req.Header.Set(key, value)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("发送请求失败: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Webhook 返回错误状态码: %d", resp.StatusCode)
	}
	return nil
}

// buildBody 生成请求体，模板渲染失败时退回默认 JSON
func (w *WebhookNotifier) buildBody(eventData EventData) ([]byte, error) {
	if w.config.BodyTemplate != "" {
		body, err := renderTemplate(w.config.BodyTemplate, eventData)
		if err == nil {
			return body, nil
		}
		w.logger.Warnf("渲染 Webhook 请求体模板失败: %v", err)
	}

	body, err := json.Marshal(eventData)
	if err != nil {
		return nil, fmt.Errorf("序列化事件数据失败: %w", err)
	}
	return body, nil
}

// renderTemplate 渲染模板
func renderTemplate(tmplStr string, data EventData) ([]byte, error) {
	funcMap := template.FuncMap{
		"toJson": func(v interface{}) string {
			b, err := json.Marshal(v)
			if err != nil {
				return "null"
			}
			return string(b)
		},
	}

	tmpl, err := template.New("webhook").Funcs(funcMap).Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("解析模板失败: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("渲染模板失败: %w", err)
	}
	return buf.Bytes(), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
