package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *SSLCommerzClient {
	client := NewSSLCommerzClient("teststore", "testpass", true)
	client.BaseURL = serverURL
	return client
}

func sessionRequest() *SSLCommerzSessionRequest {
	return &SSLCommerzSessionRequest{
		Amount:        900,
		Currency:      "BDT",
		TransactionID: "CD-7-abc123",
		SuccessURL:    "https://api.example.com/v1/payment/success",
		FailURL:       "https://api.example.com/v1/payment/fail",
		CancelURL:     "https://api.example.com/v1/payment/cancel",
		CustomerName:  "Tanvir Hasan",
		CustomerEmail: "tanvir@example.com",
		CustomerPhone: "+8801712345678",
		ProductName:   "Physics Crash Course",
		ValueA:        "7",
		ValueB:        "3",
		ValueC:        "11",
		ValueD:        "5",
	}
}

func TestCreateSessionSendsStoreAndPassThroughFields(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/gwprocess/v4/api.php", r.URL.Path)
		require.NoError(t, r.ParseForm())

		gotForm = map[string]string{}
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}

		fmt.Fprint(w, `{"status":"SUCCESS","sessionkey":"SESSION123","GatewayPageURL":"https://sandbox.sslcommerz.com/EasyCheckOut/SESSION123"}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	session, raw, err := client.CreateSession(sessionRequest())

	require.NoError(t, err)
	assert.Equal(t, "SESSION123", session.SessionKey)
	assert.Equal(t, "https://sandbox.sslcommerz.com/EasyCheckOut/SESSION123", session.GatewayPageURL)
	assert.Contains(t, raw, "SESSION123")

	assert.Equal(t, "teststore", gotForm["store_id"])
	assert.Equal(t, "testpass", gotForm["store_passwd"])
	assert.Equal(t, "900.00", gotForm["total_amount"])
	assert.Equal(t, "BDT", gotForm["currency"])
	assert.Equal(t, "CD-7-abc123", gotForm["tran_id"])
	assert.Equal(t, "Physics Crash Course", gotForm["product_name"])

	// The opaque pass-through fields must round-trip the local record ids
	assert.Equal(t, "7", gotForm["value_a"])
	assert.Equal(t, "3", gotForm["value_b"])
	assert.Equal(t, "11", gotForm["value_c"])
	assert.Equal(t, "5", gotForm["value_d"])
}

func TestCreateSessionGatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"FAILED","failedreason":"Store Credential Error Or Store is De-active"}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	session, raw, err := client.CreateSession(sessionRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Store Credential Error")
	require.NotNil(t, session)
	assert.Equal(t, "FAILED", session.Status)
	assert.Contains(t, raw, "failedreason")
}

func TestCreateSessionMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>gateway maintenance</html>`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	session, raw, err := client.CreateSession(sessionRequest())

	require.Error(t, err)
	assert.Nil(t, session)
	assert.Contains(t, raw, "gateway maintenance")
}

func TestValidateTransactionConfirmed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/validator/api/validationserverAPI.php", r.URL.Path)
		query := r.URL.Query()
		require.Equal(t, "VAL123", query.Get("val_id"))
		require.Equal(t, "teststore", query.Get("store_id"))
		require.Equal(t, "testpass", query.Get("store_passwd"))
		require.Equal(t, "json", query.Get("format"))

		fmt.Fprint(w, `{"status":"VALID","tran_id":"CD-7-abc123","val_id":"VAL123","amount":"900.00","currency":"BDT","value_a":"7","value_b":"3","value_c":"11","value_d":"5"}`)
	}))
	defer server.Close()

	client := testClient(server.URL)
	validation, _, err := client.ValidateTransaction("VAL123")

	require.NoError(t, err)
	assert.True(t, validation.Confirmed())
	assert.Equal(t, "CD-7-abc123", validation.TransactionID)
	assert.Equal(t, "900.00", validation.Amount)
	assert.Equal(t, "7", validation.ValueA)
	assert.Equal(t, "5", validation.ValueD)
}

func TestValidateTransactionStatuses(t *testing.T) {
	cases := []struct {
		status    string
		confirmed bool
	}{
		{"VALID", true},
		{"VALIDATED", true},
		{"INVALID", false},
		{"INVALID_TRANSACTION", false},
		{"", false},
	}

	for _, tc := range cases {
		validation := &SSLCommerzValidationResponse{Status: tc.status}
		assert.Equal(t, tc.confirmed, validation.Confirmed(), "status %q", tc.status)
	}
}

func TestNewSSLCommerzClientBaseURLs(t *testing.T) {
	assert.Equal(t, SSLCommerzSandboxBase, NewSSLCommerzClient("s", "p", true).BaseURL)
	assert.Equal(t, SSLCommerzLiveBase, NewSSLCommerzClient("s", "p", false).BaseURL)
}
