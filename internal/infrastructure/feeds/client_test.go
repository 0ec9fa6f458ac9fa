package feeds

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_FetchJSON(t *testing.T) {
	logger := zap.NewNop()

	t.Run("decodes document with numbers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":[{"name_en":"Star Ferry","lat":22.2937,"long":"114.1686"}]}`))
		}))
		defer server.Close()

		c := NewClient(5*time.Second, logger)
		doc, err := c.FetchJSON(context.Background(), server.URL)
		require.NoError(t, err)

		root, ok := doc.(map[string]interface{})
		require.True(t, ok)
		records := root["data"].([]interface{})
		require.Len(t, records, 1)
		rec := records[0].(map[string]interface{})
		assert.Equal(t, json.Number("22.2937"), rec["lat"])
		assert.Equal(t, "114.1686", rec["long"])
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := NewClient(5*time.Second, logger)
		doc, err := c.FetchJSON(context.Background(), server.URL)
		assert.Error(t, err)
		assert.Nil(t, doc)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":`))
		}))
		defer server.Close()

		c := NewClient(5*time.Second, logger)
		_, err := c.FetchJSON(context.Background(), server.URL)
		assert.Error(t, err)
	})

	t.Run("context deadline", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		c := NewClient(5*time.Second, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := c.FetchJSON(ctx, server.URL)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
