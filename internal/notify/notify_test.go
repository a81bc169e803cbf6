package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
	"github.com/NANDHINI7390/signify-invoice/internal/notify"
)

func sampleNotification() invoice.Notification {
	return invoice.Notification{
		RecipientName:  "Jane Doe",
		RecipientEmail: "jane@example.test",
		SenderName:     "Acme Consulting",
		SenderEmail:    "billing@acme.test",
		InvoiceNumber:  "INV-2026-0042",
		InvoiceDate:    "2026-03-15",
		Amount:         "$2,500.00",
		Description:    "Consulting services",
		SignLink:       "http://localhost:8080/sign/token",
	}
}

func TestRelay_SendSignRequest(t *testing.T) {
	var (
		gotAuth string
		gotBody map[string]string
	)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	relay := notify.NewRelay(ts.URL, "relay-token")

	err := relay.SendSignRequest(context.Background(), sampleNotification())
	require.NoError(t, err)

	assert.Equal(t, "Token relay-token", gotAuth)
	assert.Equal(t, "jane@example.test", gotBody["recipient_email"])
	assert.Equal(t, "INV-2026-0042", gotBody["invoice_number"])
	assert.Equal(t, "$2,500.00", gotBody["amount"])
	assert.Equal(t, "http://localhost:8080/sign/token", gotBody["sign_link"])
}

func TestRelay_SendSignRequest_NoToken(t *testing.T) {
	var gotAuth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer ts.Close()

	relay := notify.NewRelay(ts.URL, "")

	require.NoError(t, relay.SendSignRequest(context.Background(), sampleNotification()))
	assert.Empty(t, gotAuth)
}

func TestRelay_SendSignRequest_RelayFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	relay := notify.NewRelay(ts.URL, "relay-token")

	err := relay.SendSignRequest(context.Background(), sampleNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestLogSender_AlwaysSucceeds(t *testing.T) {
	assert.NoError(t, notify.LogSender{}.SendSignRequest(context.Background(), sampleNotification()))
}
