package paystack_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"framecraft-backend/internal/paystack"
)

func TestClient_InitializeTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "customer@example.com", body["email"])
		assert.Equal(t, float64(2000), body["amount"])
		assert.Equal(t, "GHS", body["currency"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc123","access_code":"abc123","reference":"ref-001"}}`))
	}))
	defer server.Close()

	client := paystack.NewClient(server.URL, "sk_test_secret")
	result, err := client.InitializeTransaction(paystack.InitializeRequest{
		Email:       "customer@example.com",
		Amount:      2000,
		Currency:    "GHS",
		CallbackURL: "http://localhost:8080/orderconfirmation",
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)
	assert.Equal(t, "ref-001", result.Reference)
}

func TestClient_InitializeTransaction_Declined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Invalid email address"}`))
	}))
	defer server.Close()

	client := paystack.NewClient(server.URL, "sk_test_secret")
	_, err := client.InitializeTransaction(paystack.InitializeRequest{Email: "bad"})

	var apiErr *paystack.APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email address", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestClient_InitializeTransaction_MissingAuthorizationURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"message":"ok","data":{}}`))
	}))
	defer server.Close()

	client := paystack.NewClient(server.URL, "sk_test_secret")
	_, err := client.InitializeTransaction(paystack.InitializeRequest{Email: "customer@example.com"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "authorization_url is empty")
}

func TestClient_InitializeTransaction_TransportError(t *testing.T) {
	client := paystack.NewClient("http://127.0.0.1:1", "sk_test_secret")
	_, err := client.InitializeTransaction(paystack.InitializeRequest{Email: "customer@example.com"})

	// Transport failures are plain errors, not gateway declines.
	assert.Error(t, err)
	var apiErr *paystack.APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_VerifyTransaction_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/transaction/verify/ref-001", r.URL.Path)
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success"}}`))
	}))
	defer server.Close()

	client := paystack.NewClient(server.URL, "sk_test_secret")
	success, _, err := client.VerifyTransaction("ref-001")
	assert.NoError(t, err)
	assert.True(t, success)
}

func TestClient_VerifyTransaction_Failed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"failed"}}`))
	}))
	defer server.Close()

	client := paystack.NewClient(server.URL, "sk_test_secret")
	success, message, err := client.VerifyTransaction("ref-002")
	assert.NoError(t, err)
	assert.False(t, success)
	assert.Equal(t, "Verification successful", message)
}

func TestClient_VerifyTransaction_TransportError(t *testing.T) {
	client := paystack.NewClient("http://127.0.0.1:1", "sk_test_secret")
	_, _, err := client.VerifyTransaction("ref-003")
	assert.Error(t, err)
}

func TestClient_RetryWithBackoff(t *testing.T) {
	client := paystack.NewClient("https://api.test.com", "sk_test_secret")

	callCount := 0
	err := client.RetryWithBackoff(func() error {
		callCount++
		if callCount < 3 {
			return assert.AnError
		}
		return nil
	}, 3)

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
}

func TestClient_RetryWithBackoff_Exhausted(t *testing.T) {
	client := paystack.NewClient("https://api.test.com", "sk_test_secret")

	err := client.RetryWithBackoff(func() error {
		return assert.AnError
	}, 3)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 retries")
}
