package emailer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"framecraft-backend/internal/emailer"
)

func TestClient_SendConfirmation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/v1.0/email/send", r.URL.Path)

		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "service-1", body["service_id"])
		assert.Equal(t, "template-1", body["template_id"])
		assert.Equal(t, "public-key", body["user_id"])

		params, ok := body["template_params"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "ama@example.com", params["to_email"])
		assert.Equal(t, "Ama Mensah", params["to_name"])
		assert.Equal(t, "ref-001", params["order_reference"])
		assert.Equal(t, "Classic", params["frame_type"])

		w.Write([]byte("OK"))
	}))
	defer server.Close()

	client := emailer.NewClient(server.URL, "service-1", "template-1", "public-key")
	err := client.SendConfirmation(context.Background(), emailer.ConfirmationParams{
		ToEmail:        "ama@example.com",
		ToName:         "Ama Mensah",
		OrderReference: "ref-001",
		FrameType:      "Classic",
		OrderTotal:     "20.00 GHS",
		Message:        "Thank you for your order!",
	})

	assert.NoError(t, err)
}

func TestClient_SendConfirmation_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("The public key is invalid"))
	}))
	defer server.Close()

	client := emailer.NewClient(server.URL, "service-1", "template-1", "bad-key")
	err := client.SendConfirmation(context.Background(), emailer.ConfirmationParams{
		ToEmail: "ama@example.com",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestClient_SendConfirmation_TransportError(t *testing.T) {
	client := emailer.NewClient("http://127.0.0.1:1", "service-1", "template-1", "key")
	err := client.SendConfirmation(context.Background(), emailer.ConfirmationParams{
		ToEmail: "ama@example.com",
	})
	assert.Error(t, err)
}
