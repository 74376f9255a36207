package aliyun

import (
	"context"
	"testing"

	alidns "github.com/alibabacloud-go/alidns-20150109/v4/client"
	"github.com/alibabacloud-go/tea/tea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cert-resource/internal/provider"
)

func recordsResponse(records ...*alidns.DescribeDomainRecordsResponseBodyDomainRecordsRecord) *alidns.DescribeDomainRecordsResponse {
	return &alidns.DescribeDomainRecordsResponse{Body: &alidns.DescribeDomainRecordsResponseBody{
		DomainRecords: &alidns.DescribeDomainRecordsResponseBodyDomainRecords{Record: records},
	}}
}

func aliRecord(id, rr, recordType, value string) *alidns.DescribeDomainRecordsResponseBodyDomainRecordsRecord {
	return &alidns.DescribeDomainRecordsResponseBodyDomainRecordsRecord{
		RecordId: tea.String(id),
		RR:       tea.String(rr),
		Type:     tea.String(recordType),
		Value:    tea.String(value),
	}
}

var testRecord = provider.ValidationRecord{Name: "_dnsauth.www.example.com", Type: "TXT", Value: "abc"}

func TestUpsertAddsRecord(t *testing.T) {
	client := &mockAliDNS{}
	client.On("DescribeDomainRecords", mock.Anything).Return(recordsResponse(), nil)
	client.On("AddDomainRecord", mock.MatchedBy(func(r *alidns.AddDomainRecordRequest) bool {
		return tea.StringValue(r.DomainName) == "example.com" &&
			tea.StringValue(r.RR) == "_dnsauth.www" &&
			tea.Int64Value(r.TTL) == 600
	})).Return(&alidns.AddDomainRecordResponse{}, nil)

	err := NewDNSProviderWithClient(client, nil).ChangeRecord(context.Background(), "example.com", provider.ActionUpsert, testRecord, 600)
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestUpsertUpdatesDifferentValue(t *testing.T) {
	client := &mockAliDNS{}
	client.On("DescribeDomainRecords", mock.Anything).Return(recordsResponse(aliRecord("7", "_dnsauth.www", "TXT", "old")), nil)
	client.On("UpdateDomainRecord", mock.MatchedBy(func(r *alidns.UpdateDomainRecordRequest) bool {
		return tea.StringValue(r.RecordId) == "7" && tea.StringValue(r.Value) == "abc"
	})).Return(&alidns.UpdateDomainRecordResponse{}, nil)

	err := NewDNSProviderWithClient(client, nil).ChangeRecord(context.Background(), "example.com", provider.ActionUpsert, testRecord, 600)
	require.NoError(t, err)
	client.AssertNotCalled(t, "AddDomainRecord", mock.Anything)
}

func TestDeleteRecord(t *testing.T) {
	t.Run("matching record deleted", func(t *testing.T) {
		client := &mockAliDNS{}
		client.On("DescribeDomainRecords", mock.Anything).Return(recordsResponse(aliRecord("7", "_dnsauth.www", "TXT", "abc")), nil)
		client.On("DeleteDomainRecord", mock.MatchedBy(func(r *alidns.DeleteDomainRecordRequest) bool {
			return tea.StringValue(r.RecordId) == "7"
		})).Return(&alidns.DeleteDomainRecordResponse{}, nil)

		err := NewDNSProviderWithClient(client, nil).ChangeRecord(context.Background(), "example.com", provider.ActionDelete, testRecord, 600)
		require.NoError(t, err)
	})

	t.Run("already absent", func(t *testing.T) {
		client := &mockAliDNS{}
		client.On("DescribeDomainRecords", mock.Anything).Return(recordsResponse(aliRecord("7", "_dnsauth.www", "TXT", "other")), nil)

		err := NewDNSProviderWithClient(client, nil).ChangeRecord(context.Background(), "example.com", provider.ActionDelete, testRecord, 600)
		assert.ErrorIs(t, err, provider.ErrRecordNotFound)
		client.AssertNotCalled(t, "DeleteDomainRecord", mock.Anything)
	})
}

func TestChangeRecordOutsideZone(t *testing.T) {
	err := NewDNSProviderWithClient(&mockAliDNS{}, nil).ChangeRecord(context.Background(), "other.com", provider.ActionUpsert, testRecord, 600)
	assert.Error(t, err)
}
