package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOutcome(t *testing.T) {
	before := promtest.ToFloat64(messagesTotal.WithLabelValues("replied"))

	ObserveOutcome("replied")
	ObserveOutcome("replied")

	assert.Equal(t, before+2, promtest.ToFloat64(messagesTotal.WithLabelValues("replied")))
}

func TestObserveFailure(t *testing.T) {
	before := promtest.ToFloat64(failuresTotal.WithLabelValues(KindSynthesis))

	ObserveFailure(KindSynthesis)

	assert.Equal(t, before+1, promtest.ToFloat64(failuresTotal.WithLabelValues(KindSynthesis)))
}

func TestCounters(t *testing.T) {
	polls := promtest.ToFloat64(pollErrorsTotal)
	chats := promtest.ToFloat64(newChatsTotal)

	ObservePollError()
	ObserveNewChat()
	ObserveCompletion(1500 * time.Millisecond)

	assert.Equal(t, polls+1, promtest.ToFloat64(pollErrorsTotal))
	assert.Equal(t, chats+1, promtest.ToFloat64(newChatsTotal))
}

func TestServer_Routes(t *testing.T) {
	srv := NewServer(":0")

	tests := []struct {
		name     string
		path     string
		status   int
		contains string
	}{
		{name: "health", path: "/health", status: http.StatusOK, contains: `"status":"ok"`},
		{name: "metrics", path: "/metrics", status: http.StatusOK, contains: "relay_messages_total"},
		{name: "unknown", path: "/nope", status: http.StatusNotFound},
	}

	ObserveOutcome("ignored")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)

			srv.Handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.contains != "" {
				assert.Contains(t, rec.Body.String(), tt.contains)
			}
		})
	}
}
