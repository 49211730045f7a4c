package mayarepo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateCheckout(t *testing.T) {
	var got map[string]any
	var user string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"checkoutId":  "chk-1",
			"redirectUrl": "https://pay.example.com/chk-1",
		})
	}))
	defer srv.Close()

	repo := NewHTTP("pk-test", srv.URL, "https://studio.example.com/orders")
	resp, err := repo.CreateCheckout(CreateCheckoutReq{
		ReferenceID: "ref-1",
		Amount:      2500,
		Description: "10-Class Pack",
	})
	require.NoError(t, err)
	require.Equal(t, "chk-1", resp.CheckoutID)
	require.Equal(t, "https://pay.example.com/chk-1", resp.CheckoutURL)

	require.Equal(t, "pk-test", user)
	require.Equal(t, "ref-1", got["requestReferenceNumber"])

	total, _ := got["totalAmount"].(map[string]any)
	require.EqualValues(t, 2500, total["value"])
	require.Equal(t, "PHP", total["currency"])

	redirect, _ := got["redirectUrl"].(map[string]any)
	require.Equal(t, "https://studio.example.com/orders/success", redirect["success"])
	require.Equal(t, "https://studio.example.com/orders/failure", redirect["failure"])
	require.Equal(t, "https://studio.example.com/orders/cancel", redirect["cancel"])
}

func TestCreateCheckout_NoRedirectConfigured(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"checkoutId": "chk-2"})
	}))
	defer srv.Close()

	repo := NewHTTP("pk-test", srv.URL, "")
	_, err := repo.CreateCheckout(CreateCheckoutReq{ReferenceID: "ref-2", Amount: 100})
	require.NoError(t, err)
	_, present := got["redirectUrl"]
	require.False(t, present)
}

func TestCreateCheckout_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	repo := NewHTTP("pk-bad", srv.URL, "")
	_, err := repo.CreateCheckout(CreateCheckoutReq{ReferenceID: "ref-3", Amount: 100})
	require.Error(t, err)
}

func TestCreateCheckout_EmptyCheckoutID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	repo := NewHTTP("pk-test", srv.URL, "")
	_, err := repo.CreateCheckout(CreateCheckoutReq{ReferenceID: "ref-4", Amount: 100})
	require.Error(t, err)
}
