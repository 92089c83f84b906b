package srv_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidalaw/intake-api/app/core/srv"
)

func TestDispatcher_DeliversSignedEvent(t *testing.T) {
	secret := "test-secret"
	received := make(chan *http.Request, 1)
	var body []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		received <- r
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := srv.NewDispatcher(server.URL, secret, 3)
	d.Dispatch(srv.Event{
		Name:    srv.EVENT_LETTER_SIGNED,
		Payload: map[string]any{"letter_id": "abc"},
	})

	select {
	case r := <-received:
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), r.Header.Get("X-Intake-Signature"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var event srv.Event
		require.NoError(t, json.Unmarshal(body, &event))
		assert.Equal(t, srv.EVENT_LETTER_SIGNED, event.Name)
		assert.NotZero(t, event.OccurredAt)
	case <-time.After(time.Second * 3):
		t.Fatal("webhook was never delivered")
	}
}

func TestDispatcher_RetriesOnFailure(t *testing.T) {
	var hits atomic.Int32
	done := make(chan struct{}, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		done <- struct{}{}
	}))
	defer server.Close()

	var retried atomic.Int32
	d := srv.NewDispatcher(server.URL, "", 3)
	d.OnRetry(func(event string) {
		retried.Add(1)
	})

	d.Dispatch(srv.Event{Name: srv.EVENT_BUNDLE_SUBMITTED})

	select {
	case <-done:
		assert.Equal(t, int32(2), hits.Load())
		assert.Equal(t, int32(1), retried.Load())
	case <-time.After(time.Second * 5):
		t.Fatal("delivery never succeeded after retry")
	}
}

func TestDispatcher_DisabledWithoutEndpoint(t *testing.T) {
	var d *srv.Dispatcher
	assert.False(t, d.Enabled())

	d = srv.NewDispatcher("", "secret", 3)
	assert.False(t, d.Enabled())

	// Dispatch on a disabled dispatcher is a no-op, not a panic.
	d.Dispatch(srv.Event{Name: srv.EVENT_PLAN_VIEWED})
}
