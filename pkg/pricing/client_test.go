package pricing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_StateFeeLookup(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		require.Equal(t, "/state-fees", r.URL.Path)
		rush := int64(5000)
		days := 2
		_ = json.NewEncoder(w).Encode(stateFeesResponse{Data: []StateFee{
			{StateCode: "tx", FilingCents: 0, StandardDays: 10},
			{StateCode: "WY", FilingCents: 10000, RushCents: &rush, RushAvailable: true, StandardDays: 7, RushDays: &days},
		}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	fee, err := client.StateFee(context.Background(), "wy")
	require.NoError(t, err)
	assert.Equal(t, "WY", fee.StateCode)
	assert.EqualValues(t, 10000, fee.FilingCents)
	require.NotNil(t, fee.RushCents)
	assert.EqualValues(t, 5000, *fee.RushCents)

	// State codes normalize; the list is cached after the first fetch.
	fee, err = client.StateFee(context.Background(), "TX")
	require.NoError(t, err)
	assert.EqualValues(t, 0, fee.FilingCents)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	_, err = client.StateFee(context.Background(), "ZZ")
	assert.ErrorIs(t, err, ErrUnknownState)
}

func TestClient_UpstreamFailurePropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.StateFees(context.Background())
	require.Error(t, err)
}

func TestCouponClient_Validate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/coupons/validate", r.URL.Path)

		var req couponRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "llc-formation", req.ServiceKey)

		switch req.Code {
		case "SAVE20":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"coupon":  map[string]any{"code": "SAVE20", "discountAmount": 2000},
			})
		case "HUGE":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"coupon":  map[string]any{"code": "HUGE", "discountAmount": 999999},
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "Coupon has expired",
			})
		}
	}))
	defer server.Close()

	client, err := NewCouponClient(server.URL)
	require.NoError(t, err)

	res, err := client.ValidateCoupon(context.Background(), "SAVE20", 9999)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.EqualValues(t, 2000, res.DiscountCents)

	// Discounts clamp to the base fee.
	res, err = client.ValidateCoupon(context.Background(), "HUGE", 9999)
	require.NoError(t, err)
	assert.EqualValues(t, 9999, res.DiscountCents)

	res, err = client.ValidateCoupon(context.Background(), "EXPIRED", 9999)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, "Coupon has expired", res.Reason)

	res, err = client.ValidateCoupon(context.Background(), "   ", 9999)
	require.NoError(t, err)
	assert.False(t, res.Valid)
}
