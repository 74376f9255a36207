package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cert-resource/internal/config"
	"cert-resource/internal/notification"
	"cert-resource/internal/provider"
)

var exampleRecord = provider.ValidationRecord{
	Name:  "_a1b2.example.com.",
	Type:  "CNAME",
	Value: "_c3d4.acm-validations.aws.",
}

// fakeCA 内存中的证书平台，DescribeCertificate 按调用次数返回预设详情
type fakeCA struct {
	tokens   map[string]string
	certs    map[string]bool
	requests []provider.CertificateRequest
	details  []provider.CertificateDetail
	calls    int
	deleted  []string
}

func newFakeCA(details ...provider.CertificateDetail) *fakeCA {
	return &fakeCA{
		tokens:  make(map[string]string),
		certs:   make(map[string]bool),
		details: details,
	}
}

func (c *fakeCA) Name() string { return "fake" }

func (c *fakeCA) RequestCertificate(_ context.Context, req *provider.CertificateRequest) (string, error) {
	c.requests = append(c.requests, *req)
	if handle, ok := c.tokens[req.IdempotencyToken]; ok && req.IdempotencyToken != "" {
		return handle, nil
	}
	handle := fmt.Sprintf("cert-%d", len(c.certs)+1)
	c.tokens[req.IdempotencyToken] = handle
	c.certs[handle] = true
	return handle, nil
}

func (c *fakeCA) DescribeCertificate(_ context.Context, handle string) (*provider.CertificateDetail, error) {
	if !c.certs[handle] {
		return nil, fmt.Errorf("%w: %s", provider.ErrCertificateNotFound, handle)
	}
	c.calls++
	idx := c.calls - 1
	if idx >= len(c.details) {
		idx = len(c.details) - 1
	}
	detail := c.details[idx]
	detail.Handle = handle
	return &detail, nil
}

func (c *fakeCA) DeleteCertificate(_ context.Context, handle string) error {
	if !c.certs[handle] {
		return fmt.Errorf("%w: %s", provider.ErrCertificateNotFound, handle)
	}
	delete(c.certs, handle)
	c.deleted = append(c.deleted, handle)
	return nil
}

type change struct {
	zoneID string
	action provider.ChangeAction
	record provider.ValidationRecord
	ttl    int64
}

// fakeZone 内存中的DNS区域，同名同类型的记录会被 UPSERT 覆盖
type fakeZone struct {
	records   map[string]provider.ValidationRecord
	changes   []change
	deleteErr error
}

func newFakeZone() *fakeZone {
	return &fakeZone{records: make(map[string]provider.ValidationRecord)}
}

func (z *fakeZone) Name() string { return "fake" }

func (z *fakeZone) ChangeRecord(_ context.Context, zoneID string, action provider.ChangeAction, record provider.ValidationRecord, ttl int64) error {
	z.changes = append(z.changes, change{zoneID: zoneID, action: action, record: record, ttl: ttl})
	key := zoneID + "|" + strings.ToLower(record.Name) + "|" + record.Type

	switch action {
	case provider.ActionUpsert:
		z.records[key] = record
		return nil
	case provider.ActionDelete:
		if z.deleteErr != nil {
			return z.deleteErr
		}
		existing, ok := z.records[key]
		if !ok {
			return fmt.Errorf("%w: %s", provider.ErrRecordSetNotFound, record.Name)
		}
		if existing.Value != record.Value {
			return fmt.Errorf("%w: %s", provider.ErrRecordNotFound, record.Name)
		}
		delete(z.records, key)
		return nil
	}
	return fmt.Errorf("unknown action %s", action)
}

func (z *fakeZone) count(action provider.ChangeAction) int {
	n := 0
	for _, c := range z.changes {
		if c.action == action {
			n++
		}
	}
	return n
}

type staticBackends struct {
	ca    provider.CertAuthority
	zone  provider.DNSZone
	err   error
	calls int
}

func (b *staticBackends) Backends(context.Context, config.ProviderSelection) (provider.CertAuthority, provider.DNSZone, error) {
	b.calls++
	if b.err != nil {
		return nil, nil, b.err
	}
	return b.ca, b.zone, nil
}

type sleepRecorder struct {
	sleeps []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.sleeps = append(s.sleeps, d)
	return ctx.Err()
}

type sentEvent struct {
	event  notification.EventType
	domain string
	handle string
	data   map[string]interface{}
}

type fakeNotifier struct {
	events []sentEvent
	err    error
}

func (n *fakeNotifier) Notify(_ context.Context, event notification.EventType, domain, handle, _ string, data map[string]interface{}) error {
	n.events = append(n.events, sentEvent{event: event, domain: domain, handle: handle, data: data})
	return n.err
}

func pending(options ...provider.ValidationOption) provider.CertificateDetail {
	return provider.CertificateDetail{Status: provider.StatusPendingValidation, ValidationOptions: options}
}

func withStatus(status string, options ...provider.ValidationOption) provider.CertificateDetail {
	return provider.CertificateDetail{Status: status, ValidationOptions: options}
}

func option(domainName string, record *provider.ValidationRecord) provider.ValidationOption {
	return provider.ValidationOption{DomainName: domainName, Record: record}
}

func testConfig() *config.Config {
	return &config.Config{
		Timing: config.TimingConfig{
			MetadataInterval:  config.DefaultMetadataInterval,
			ResolveRetryDelay: config.DefaultResolveRetryDelay,
			ResolveAttempts:   config.DefaultResolveAttempts,
			WaitInterval:      config.DefaultWaitInterval,
			WaitAttempts:      config.DefaultWaitAttempts,
			RecordTTL:         config.DefaultRecordTTL,
			ReportMargin:      config.DefaultReportMargin,
		},
	}
}
