package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
)

func TestClient_CostPerUnit(t *testing.T) {
	userID := id.NewUserID()

	t.Run("returns the per-unit cost", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/cost-lookup", r.URL.Path)

			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, userID.String(), req["user_id"])
			assert.Equal(t, "image-gen", req["item_id"])

			_ = json.NewEncoder(w).Encode(map[string]int64{"cost_per_unit": 10})
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		cost, err := client.CostPerUnit(context.Background(), userID, "image-gen")
		require.NoError(t, err)
		assert.Equal(t, int64(10), cost)
	})

	t.Run("unknown item is NotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		_, err := client.CostPerUnit(context.Background(), userID, "nope")
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})

	t.Run("server errors are Unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, time.Second)
		_, err := client.CostPerUnit(context.Background(), userID, "image-gen")
		assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
	})

	t.Run("unreachable service is Unavailable", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
		_, err := client.CostPerUnit(context.Background(), userID, "image-gen")
		assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
	})
}
