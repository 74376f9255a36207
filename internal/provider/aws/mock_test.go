package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/acm"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/stretchr/testify/mock"
)

type mockACM struct {
	mock.Mock
}

func (m *mockACM) RequestCertificate(ctx context.Context, params *acm.RequestCertificateInput, _ ...func(*acm.Options)) (*acm.RequestCertificateOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*acm.RequestCertificateOutput)
	return out, args.Error(1)
}

func (m *mockACM) DescribeCertificate(ctx context.Context, params *acm.DescribeCertificateInput, _ ...func(*acm.Options)) (*acm.DescribeCertificateOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*acm.DescribeCertificateOutput)
	return out, args.Error(1)
}

func (m *mockACM) DeleteCertificate(ctx context.Context, params *acm.DeleteCertificateInput, _ ...func(*acm.Options)) (*acm.DeleteCertificateOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*acm.DeleteCertificateOutput)
	return out, args.Error(1)
}

type mockRoute53 struct {
	mock.Mock
}

func (m *mockRoute53) ChangeResourceRecordSets(ctx context.Context, params *route53.ChangeResourceRecordSetsInput, _ ...func(*route53.Options)) (*route53.ChangeResourceRecordSetsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*route53.ChangeResourceRecordSetsOutput)
	return out, args.Error(1)
}

func (m *mockRoute53) ListResourceRecordSets(ctx context.Context, params *route53.ListResourceRecordSetsInput, _ ...func(*route53.Options)) (*route53.ListResourceRecordSetsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*route53.ListResourceRecordSetsOutput)
	return out, args.Error(1)
}
