package compatapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCompatibility(t *testing.T) {
	var got request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{
			"Portal": {"totalPlayableCount": 12, "gpuPlayableCount": 3, "avgRating": 4.5, "hasBeenTried": true},
			"Broken": {"isNotWorking": true, "hasBeenTried": true},
			"Odd": "not an object"
		}`))
	}))
	defer srv.Close()

	c := New(Options{Endpoint: srv.URL}, nil)
	reports, err := c.FetchCompatibility(context.Background(), []string{"Portal", "Broken", "Odd"}, "Adreno 740")
	require.NoError(t, err)

	assert.Equal(t, []string{"Portal", "Broken", "Odd"}, got.GameNames)
	assert.Equal(t, "Adreno 740", got.GPUName)

	require.Len(t, reports, 2)
	assert.Equal(t, domain.CompatReport{
		GameName:           "Portal",
		TotalPlayableCount: 12,
		GPUPlayableCount:   3,
		AvgRating:          4.5,
		HasBeenTried:       true,
	}, reports["Portal"])
	assert.Equal(t, domain.CompatGPUCompatible, reports["Portal"].Status())
	assert.Equal(t, domain.CompatNotCompatible, reports["Broken"].Status())
}

func TestFetchCompatibility_HTTPError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(Options{Endpoint: srv.URL, RetryMax: 3}, nil)
	_, err := c.FetchCompatibility(context.Background(), []string{"x"}, "gpu")
	assert.ErrorIs(t, err, domain.ErrBatchFailed)
	assert.Equal(t, int32(1), hits.Load(), "4xx is not retried")
}

func TestFetchCompatibility_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"A": {"totalPlayableCount": 1, "hasBeenTried": true}}`))
	}))
	defer srv.Close()

	c := New(Options{Endpoint: srv.URL, RetryMax: 2}, nil)
	reports, err := c.FetchCompatibility(context.Background(), []string{"A"}, "gpu")
	require.NoError(t, err)
	assert.Equal(t, domain.CompatCompatible, reports["A"].Status())
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchCompatibility_MalformedBody(t *testing.T) {
	for _, body := range []string{`not json`, `[1, 2]`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))
		c := New(Options{Endpoint: srv.URL}, nil)
		_, err := c.FetchCompatibility(context.Background(), []string{"x"}, "gpu")
		assert.ErrorIs(t, err, domain.ErrBatchFailed, body)
		srv.Close()
	}
}

func TestFetchCompatibility_EmptyBatch(t *testing.T) {
	c := New(Options{Endpoint: "http://127.0.0.1:1"}, nil)
	reports, err := c.FetchCompatibility(context.Background(), nil, "gpu")
	require.NoError(t, err)
	assert.Empty(t, reports)
}
