package resource

import (
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/cfn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cert-resource/internal/config"
)

func TestFromEvent(t *testing.T) {
	event := cfn.Event{
		RequestType:        cfn.RequestCreate,
		RequestID:          "6c5c6a5e-6d6b-4b3c-9a57-2d52f3c4e1aa",
		PhysicalResourceID: "",
		ResourceProperties: map[string]interface{}{
			"ServiceToken":            "arn:aws:lambda:us-east-1:123:function:cert",
			"DomainName":              "example.com",
			"HostedZoneId":            "Z1",
			"SubjectAlternativeNames": []interface{}{"www.example.com", " "},
		},
	}

	inv, err := FromEvent(event)
	require.NoError(t, err)
	assert.Equal(t, cfn.RequestCreate, inv.RequestType)
	assert.Equal(t, event.RequestID, inv.RequestID)
	assert.Equal(t, "example.com", inv.Properties.DomainName)
	assert.Equal(t, "Z1", inv.Properties.HostedZoneID)
	assert.Equal(t, []string{"www.example.com"}, inv.Properties.SubjectAlternativeNames)
	assert.NoError(t, inv.Properties.Validate())
}

func TestDecodePropertiesCaseInsensitive(t *testing.T) {
	props, err := DecodeProperties(map[string]interface{}{
		"domainName":   "example.com",
		"hostedZoneID": "Z1",
		"provider":     "aliyun",
	})
	require.NoError(t, err)
	assert.Equal(t, "example.com", props.DomainName)
	assert.Equal(t, "Z1", props.HostedZoneID)
	assert.Equal(t, config.ProviderSelection{Provider: "aliyun"}, props.Selection())
}

func TestDecodePropertiesTags(t *testing.T) {
	t.Run("map", func(t *testing.T) {
		props, err := DecodeProperties(map[string]interface{}{
			"Tags": map[string]interface{}{"team": "infra"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"team": "infra"}, props.Tags)
	})

	t.Run("key value list", func(t *testing.T) {
		props, err := DecodeProperties(map[string]interface{}{
			"Tags": []interface{}{
				map[string]interface{}{"Key": "team", "Value": "infra"},
				map[string]interface{}{"Key": "cost", "Value": "42"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"team": "infra", "cost": "42"}, props.Tags)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := DecodeProperties(map[string]interface{}{
			"Tags": []interface{}{map[string]interface{}{"Value": "infra"}},
		})
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	assert.Error(t, Properties{HostedZoneID: "Z1"}.Validate())
	assert.Error(t, Properties{DomainName: "example.com"}.Validate())
	assert.NoError(t, Properties{DomainName: "example.com", HostedZoneID: "Z1"}.Validate())
}

func TestNewResponse(t *testing.T) {
	event := cfn.Event{RequestID: "req-1", LogicalResourceID: "Cert", StackID: "stack"}

	ok := NewResponse(event, "arn:cert", map[string]interface{}{DataCertificateHandle: "arn:cert"}, nil)
	assert.Equal(t, cfn.StatusSuccess, ok.Status)
	assert.Equal(t, "arn:cert", ok.PhysicalResourceID)
	assert.Equal(t, "req-1", ok.RequestID)
	assert.Equal(t, "arn:cert", ok.Data[DataCertificateHandle])

	failed := NewResponse(event, "arn:cert", nil, errors.New("证书签发失败: FAILED"))
	assert.Equal(t, cfn.StatusFailed, failed.Status)
	assert.Equal(t, "arn:cert", failed.PhysicalResourceID)
	assert.Contains(t, failed.Reason, "FAILED")
}
