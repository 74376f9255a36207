// Package resource 解析自定义资源事件
package resource

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/mitchellh/mapstructure"

	"cert-resource/internal/config"
)

// DataCertificateHandle 成功响应中携带证书标识的键
const DataCertificateHandle = "CertificateHandle"

// Properties 资源属性 (ResourceProperties)，键名不区分大小写
type Properties struct {
	DomainName              string            `mapstructure:"DomainName"`
	HostedZoneID            string            `mapstructure:"HostedZoneId"`
	SubjectAlternativeNames []string          `mapstructure:"SubjectAlternativeNames"`
	Tags                    map[string]string `mapstructure:"Tags"`

	// 覆盖默认的提供商选择
	Provider     string `mapstructure:"Provider"`
	CertProvider string `mapstructure:"CertProvider"`
	DNSProvider  string `mapstructure:"DNSProvider"`
}

// Selection 资源属性中的提供商选择
func (p Properties) Selection() config.ProviderSelection {
	return config.ProviderSelection{
		Provider:     p.Provider,
		CertProvider: p.CertProvider,
		DNSProvider:  p.DNSProvider,
	}
}

// Validate 检查申请证书所需的属性
func (p Properties) Validate() error {
	if strings.TrimSpace(p.DomainName) == "" {
		return fmt.Errorf("缺少资源属性 DomainName")
	}
	if strings.TrimSpace(p.HostedZoneID) == "" {
		return fmt.Errorf("缺少资源属性 HostedZoneId")
	}
	return nil
}

// Invocation 一次自定义资源调用
type Invocation struct {
	RequestType        cfn.RequestType
	RequestID          string
	PhysicalResourceID string // 先前上报的资源标识 (Update/Delete)
	Properties         Properties
}

// FromEvent 从自定义资源事件构建调用
func FromEvent(event cfn.Event) (Invocation, error) {
	inv := Invocation{
		RequestType:        event.RequestType,
		RequestID:          event.RequestID,
		PhysicalResourceID: event.PhysicalResourceID,
	}

	props, err := DecodeProperties(event.ResourceProperties)
	if err != nil {
		return inv, err
	}
	inv.Properties = props
	return inv, nil
}

// DecodeProperties 解析资源属性
// 模板引擎传入的数值和布尔值都是字符串，Tags 支持 map 和 [{Key, Value}] 两种写法
func DecodeProperties(raw map[string]interface{}) (Properties, error) {
	var props Properties

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(tagListHook),
		WeaklyTypedInput: true,
		Result:           &props,
	})
	if err != nil {
		return props, fmt.Errorf("创建属性解析器失败: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return props, fmt.Errorf("解析资源属性失败: %w", err)
	}

	props.DomainName = strings.TrimSpace(props.DomainName)
	props.HostedZoneID = strings.TrimSpace(props.HostedZoneID)

	sans := props.SubjectAlternativeNames[:0]
	for _, name := range props.SubjectAlternativeNames {
		if name = strings.TrimSpace(name); name != "" {
			sans = append(sans, name)
		}
	}
	props.SubjectAlternativeNames = sans

	return props, nil
}

// tagListHook 把 [{Key: k, Value: v}] 转换为 map
func tagListHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.Slice || to != reflect.TypeOf(map[string]string{}) {
		return data, nil
	}

	items, ok := data.([]interface{})
	if !ok {
		return data, nil
	}

	tags := make(map[string]interface{}, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("无效的标签: %v", item)
		}
		key, value := lookup(entry, "Key"), lookup(entry, "Value")
		if key == nil {
			return nil, fmt.Errorf("标签缺少 Key: %v", item)
		}
		tags[fmt.Sprint(key)] = ""
		if value != nil {
			tags[fmt.Sprint(key)] = fmt.Sprint(value)
		}
	}
	return tags, nil
}

func lookup(m map[string]interface{}, key string) interface{} {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

// NewResponse 构建本地调用时输出的响应，字段与回调时发送的一致
func NewResponse(event cfn.Event, identity string, data map[string]interface{}, err error) *cfn.Response {
	resp := cfn.NewResponse(&event)
	resp.PhysicalResourceID = identity
	if err != nil {
		resp.Status = cfn.StatusFailed
		resp.Reason = err.Error()
		return resp
	}
	resp.Status = cfn.StatusSuccess
	resp.Data = data
	return resp
}
