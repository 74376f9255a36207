package tencent

import (
	"context"

	dnspod "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/dnspod/v20210323"
	ssl "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/ssl/v20191205"
	"github.com/stretchr/testify/mock"
)

type mockSSL struct {
	mock.Mock
}

func (m *mockSSL) ApplyCertificateWithContext(ctx context.Context, request *ssl.ApplyCertificateRequest) (*ssl.ApplyCertificateResponse, error) {
	args := m.Called(ctx, request)
	out, _ := args.Get(0).(*ssl.ApplyCertificateResponse)
	return out, args.Error(1)
}

func (m *mockSSL) DescribeCertificateWithContext(ctx context.Context, request *ssl.DescribeCertificateRequest) (*ssl.DescribeCertificateResponse, error) {
	args := m.Called(ctx, request)
	out, _ := args.Get(0).(*ssl.DescribeCertificateResponse)
	return out, args.Error(1)
}

func (m *mockSSL) DeleteCertificateWithContext(ctx context.Context, request *ssl.DeleteCertificateRequest) (*ssl.DeleteCertificateResponse, error) {
	args := m.Called(ctx, request)
	out, _ := args.Get(0).(*ssl.DeleteCertificateResponse)
	return out, args.Error(1)
}

type mockDNSPod struct {
	mock.Mock
}

func (m *mockDNSPod) DescribeRecordListWithContext(ctx context.Context, request *dnspod.DescribeRecordListRequest) (*dnspod.DescribeRecordListResponse, error) {
	args := m.Called(ctx, request)
	out, _ := args.Get(0).(*dnspod.DescribeRecordListResponse)
	return out, args.Error(1)
}

func (m *mockDNSPod) CreateRecordWithContext(ctx context.Context, request *dnspod.CreateRecordRequest) (*dnspod.CreateRecordResponse, error) {
	args := m.Called(ctx, request)
	out, _ := args.Get(0).(*dnspod.CreateRecordResponse)
	return out, args.Error(1)
}

func (m *mockDNSPod) ModifyRecordWithContext(ctx context.Context, request *dnspod.ModifyRecordRequest) (*dnspod.ModifyRecordResponse, error) {
	args := m.Called(ctx, request)
	out, _ := args.Get(0).(*dnspod.ModifyRecordResponse)
	return out, args.Error(1)
}

func (m *mockDNSPod) DeleteRecordWithContext(ctx context.Context, request *dnspod.DeleteRecordRequest) (*dnspod.DeleteRecordResponse, error) {
	args := m.Called(ctx, request)
	out, _ := args.Get(0).(*dnspod.DeleteRecordResponse)
	return out, args.Error(1)
}
