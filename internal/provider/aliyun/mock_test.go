package aliyun

import (
	alidns "github.com/alibabacloud-go/alidns-20150109/v4/client"
	cas "github.com/alibabacloud-go/cas-20200407/v3/client"
	"github.com/stretchr/testify/mock"
)

type mockCAS struct {
	mock.Mock
}

func (m *mockCAS) CreateCertificateForPackageRequest(request *cas.CreateCertificateForPackageRequestRequest) (*cas.CreateCertificateForPackageRequestResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*cas.CreateCertificateForPackageRequestResponse)
	return out, args.Error(1)
}

func (m *mockCAS) DescribeCertificateState(request *cas.DescribeCertificateStateRequest) (*cas.DescribeCertificateStateResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*cas.DescribeCertificateStateResponse)
	return out, args.Error(1)
}

func (m *mockCAS) DeleteCertificateRequest(request *cas.DeleteCertificateRequestRequest) (*cas.DeleteCertificateRequestResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*cas.DeleteCertificateRequestResponse)
	return out, args.Error(1)
}

type mockAliDNS struct {
	mock.Mock
}

func (m *mockAliDNS) DescribeDomainRecords(request *alidns.DescribeDomainRecordsRequest) (*alidns.DescribeDomainRecordsResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*alidns.DescribeDomainRecordsResponse)
	return out, args.Error(1)
}

func (m *mockAliDNS) AddDomainRecord(request *alidns.AddDomainRecordRequest) (*alidns.AddDomainRecordResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*alidns.AddDomainRecordResponse)
	return out, args.Error(1)
}

func (m *mockAliDNS) UpdateDomainRecord(request *alidns.UpdateDomainRecordRequest) (*alidns.UpdateDomainRecordResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*alidns.UpdateDomainRecordResponse)
	return out, args.Error(1)
}

func (m *mockAliDNS) DeleteDomainRecord(request *alidns.DeleteDomainRecordRequest) (*alidns.DeleteDomainRecordResponse, error) {
	args := m.Called(request)
	out, _ := args.Get(0).(*alidns.DeleteDomainRecordResponse)
	return out, args.Error(1)
}
