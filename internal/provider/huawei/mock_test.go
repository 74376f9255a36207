package huawei

import (
	dnsModel "github.com/huaweicloud/huaweicloud-sdk-go-v3/services/dns/v2/model"
	"github.com/stretchr/testify/mock"
)

type mockDNS struct {
	mock.Mock
}

func (m *mockDNS) ListPublicZones(request *dnsModel.ListPublicZonesRequest) (*dnsModel.ListPublicZonesResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*dnsModel.ListPublicZonesResponse)
	return out, args.Error(1)
}

func (m *mockDNS) ListRecordSetsByZone(request *dnsModel.ListRecordSetsByZoneRequest) (*dnsModel.ListRecordSetsByZoneResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*dnsModel.ListRecordSetsByZoneResponse)
	return out, args.Error(1)
}

func (m *mockDNS) CreateRecordSet(request *dnsModel.CreateRecordSetRequest) (*dnsModel.CreateRecordSetResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*dnsModel.CreateRecordSetResponse)
	return out, args.Error(1)
}

func (m *mockDNS) UpdateRecordSet(request *dnsModel.UpdateRecordSetRequest) (*dnsModel.UpdateRecordSetResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*dnsModel.UpdateRecordSetResponse)
	return out, args.Error(1)
}

func (m *mockDNS) DeleteRecordSet(request *dnsModel.DeleteRecordSetRequest) (*dnsModel.DeleteRecordSetResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*dnsModel.DeleteRecordSetResponse)
	return out, args.Error(1)
}
