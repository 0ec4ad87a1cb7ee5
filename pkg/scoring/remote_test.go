package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteClientAssess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health-data", r.URL.Path)
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 70.0, body["age"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(RemoteAssessment{Score: 11, RiskLevel: "High", RiskColor: "red"})
	}))
	defer srv.Close()

	client := NewRemoteClient(srv.URL+"/", time.Second, 2, time.Millisecond)
	got, err := client.Assess(context.Background(), form(70, 100, 22))
	require.NoError(t, err)
	assert.Equal(t, 11, got.Score)
}

func TestRemoteClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(RemoteAssessment{Score: 3})
	}))
	defer srv.Close()

	client := NewRemoteClient(srv.URL, time.Second, 3, time.Millisecond)
	got, err := client.Assess(context.Background(), form(40, 100, 22))
	require.NoError(t, err)
	assert.Equal(t, 3, got.Score)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestRemoteClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad form", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewRemoteClient(srv.URL, time.Second, 3, time.Millisecond)
	_, err := client.Assess(context.Background(), form(40, 100, 22))
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
