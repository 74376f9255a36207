package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cert-resource/internal/config"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestNewWebhookNotifierDisabled(t *testing.T) {
	assert.Nil(t, NewWebhookNotifier(config.WebhookConfig{}, nil))
	assert.Nil(t, NewWebhookNotifier(config.WebhookConfig{Enabled: true}, nil))

	var w *WebhookNotifier
	assert.False(t, w.ShouldNotify(EventCertIssued))
	assert.NoError(t, w.Notify(context.Background(), EventCertIssued, "example.com", "h", "m", nil))
}

func TestNotifySendsJSON(t *testing.T) {
	var got EventData
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhookNotifier(config.WebhookConfig{
		Enabled: true,
		URL:     server.URL,
		Headers: map[string]string{"X-Token": "secret"},
	}, nil)

	err := n.Notify(context.Background(), EventCertIssued, "example.com", "arn:cert", "证书签发成功", map[string]interface{}{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, "cert_issued", got.Event)
	assert.Equal(t, "example.com", got.Domain)
	assert.Equal(t, "arn:cert", got.Handle)
	assert.Equal(t, "v", got.Data["k"])
}

func TestNotifyEventFilter(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	n := NewWebhookNotifier(config.WebhookConfig{
		Enabled: true,
		URL:     server.URL,
		Events:  []string{string(EventCertFailed)},
	}, nil)

	require.NoError(t, n.Notify(context.Background(), EventCertIssued, "example.com", "h", "m", nil))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	require.NoError(t, n.Notify(context.Background(), EventCertFailed, "example.com", "h", "m", nil))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNotifyRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	n := NewWebhookNotifier(config.WebhookConfig{Enabled: true, URL: server.URL, Retries: 3}, nil)
	n.sleep = noSleep

	require.NoError(t, n.Notify(context.Background(), EventCertDeleted, "example.com", "h", "m", nil))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestNotifyGivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewWebhookNotifier(config.WebhookConfig{Enabled: true, URL: server.URL, Retries: 2}, nil)
	n.sleep = noSleep

	err := n.Notify(context.Background(), EventCertFailed, "example.com", "h", "m", nil)
	assert.ErrorContains(t, err, "500")
}

func TestNotifyBodyTemplate(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	}))
	defer server.Close()

	n := NewWebhookNotifier(config.WebhookConfig{
		Enabled:      true,
		URL:          server.URL,
		BodyTemplate: `{"text":"{{.Event}} {{.Domain}}","data":{{toJson .Data}}}`,
	}, nil)

	require.NoError(t, n.Notify(context.Background(), EventValidationTimeout, "example.com", "h", "m", map[string]interface{}{"n": 1}))
	assert.JSONEq(t, `{"text":"validation_timeout example.com","data":{"n":1}}`, body)
}
